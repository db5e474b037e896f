package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// StoreModel is the persistence model for the Store domain entity.
type StoreModel struct {
	BaseModel
	OwnerID string `gorm:"type:varchar(255);not null;index"`
	Name    string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (StoreModel) TableName() string {
	return "stores"
}

// ToDomain converts the persistence model to a domain Store entity.
func (m *StoreModel) ToDomain() *catalog.Store {
	return &catalog.Store{
		BaseEntity: m.BaseModel.ToDomain(),
		OwnerID:    m.OwnerID,
		Name:       m.Name,
	}
}

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	BaseModel
	StoreID     int64  `gorm:"not null;index"`
	Label       string `gorm:"type:varchar(255);not null"`
	BillboardID *int64 `gorm:"index"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() catalog.Category {
	return catalog.Category{
		BaseEntity:  m.BaseModel.ToDomain(),
		StoreID:     m.StoreID,
		Label:       m.Label,
		BillboardID: m.BillboardID,
	}
}

// SizeModel is the persistence model for the Size domain entity.
type SizeModel struct {
	BaseModel
	StoreID int64  `gorm:"not null;index"`
	Name    string `gorm:"type:varchar(255);not null"`
	Value   string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (SizeModel) TableName() string {
	return "sizes"
}

// ToDomain converts the persistence model to a domain Size entity.
func (m *SizeModel) ToDomain() catalog.Size {
	return catalog.Size{
		BaseEntity: m.BaseModel.ToDomain(),
		StoreID:    m.StoreID,
		Name:       m.Name,
		Value:      m.Value,
	}
}

// ColorModel is the persistence model for the Color domain entity.
type ColorModel struct {
	BaseModel
	StoreID int64  `gorm:"not null;index"`
	Name    string `gorm:"type:varchar(255);not null"`
	Value   string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (ColorModel) TableName() string {
	return "colors"
}

// ToDomain converts the persistence model to a domain Color entity.
func (m *ColorModel) ToDomain() catalog.Color {
	return catalog.Color{
		BaseEntity: m.BaseModel.ToDomain(),
		StoreID:    m.StoreID,
		Name:       m.Name,
		Value:      m.Value,
	}
}

// ProductModel is the persistence model for the Product aggregate.
// Relations live in the junction tables and are loaded by the repository.
type ProductModel struct {
	BaseModel
	StoreID    int64           `gorm:"not null;index"`
	Name       string          `gorm:"type:varchar(255);not null"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IsFeatured bool            `gorm:"not null;default:false"`
	IsArchived bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a bare domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: m.BaseModel.ToDomain(),
		},
		StoreID:    m.StoreID,
		Name:       m.Name,
		Price:      m.Price,
		IsFeatured: m.IsFeatured,
		IsArchived: m.IsArchived,
	}
}

// FromDomain populates the persistence model from a domain Product.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.StoreID = p.StoreID
	m.Name = p.Name
	m.Price = p.Price
	m.IsFeatured = p.IsFeatured
	m.IsArchived = p.IsArchived
}

// ProductModelFromDomain creates a new persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// ImageModel is the persistence model for product images.
type ImageModel struct {
	BaseModel
	ProductID int64  `gorm:"not null;index"`
	URL       string `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (ImageModel) TableName() string {
	return "images"
}

// ToDomain converts the persistence model to a domain Image.
func (m *ImageModel) ToDomain() catalog.Image {
	return catalog.Image{
		BaseEntity: m.BaseModel.ToDomain(),
		ProductID:  m.ProductID,
		URL:        m.URL,
	}
}

// ProductCategoryModel is a product-category junction row.
// Position keeps the order in which the IDs were supplied.
type ProductCategoryModel struct {
	ProductID  int64     `gorm:"primaryKey;autoIncrement:false"`
	CategoryID int64     `gorm:"primaryKey;autoIncrement:false;index"`
	Position   int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductCategoryModel) TableName() string {
	return "product_categories"
}

// ProductSizeModel is a product-size junction row.
type ProductSizeModel struct {
	ProductID int64     `gorm:"primaryKey;autoIncrement:false"`
	SizeID    int64     `gorm:"primaryKey;autoIncrement:false;index"`
	Position  int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductSizeModel) TableName() string {
	return "product_sizes"
}

// ProductColorModel is a product-color junction row.
type ProductColorModel struct {
	ProductID int64     `gorm:"primaryKey;autoIncrement:false"`
	ColorID   int64     `gorm:"primaryKey;autoIncrement:false;index"`
	Position  int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductColorModel) TableName() string {
	return "product_colors"
}

// CatalogModels lists the catalog tables in dependency order, for AutoMigrate in tests.
func CatalogModels() []any {
	return []any{
		&StoreModel{},
		&CategoryModel{},
		&SizeModel{},
		&ColorModel{},
		&ProductModel{},
		&ImageModel{},
		&ProductCategoryModel{},
		&ProductSizeModel{},
		&ProductColorModel{},
	}
}
