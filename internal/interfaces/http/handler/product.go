package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storeadmin/backend/internal/application/catalog"
	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/interfaces/http/middleware"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	queryService   *catalogapp.QueryService
	storeService   *catalogapp.StoreService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(
	productService *catalogapp.ProductService,
	queryService *catalogapp.QueryService,
	storeService *catalogapp.StoreService,
) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		queryService:   queryService,
		storeService:   storeService,
	}
}

// CreateProductRequest represents a request to create a new product.
// Every association set must end up non-empty; a legacy single ID fills a
// kind whose array is absent.
// @Description Request body for creating a new product
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,max=255" example:"Oversized Tee"`
	Price       decimal.Decimal `json:"price" binding:"positive_decimal" swaggertype:"number" example:"29.99"`
	IsFeatured  bool            `json:"isFeatured" example:"false"`
	IsArchived  bool            `json:"isArchived" example:"false"`
	CategoryIDs []int64         `json:"categoryIds" binding:"omitempty,dive,gt=0" example:"1,2"`
	SizeIDs     []int64         `json:"sizeIds" binding:"omitempty,dive,gt=0" example:"3"`
	ColorIDs    []int64         `json:"colorIds" binding:"omitempty,dive,gt=0" example:"4"`
	CategoryID  *int64          `json:"categoryId" binding:"omitempty,gt=0"`
	SizeID      *int64          `json:"sizeId" binding:"omitempty,gt=0"`
	ColorID     *int64          `json:"colorId" binding:"omitempty,gt=0"`
	Images      []string        `json:"images" binding:"omitempty,dive,required,max=2048"`
}

// UpdateProductRequest is a partial update. Absent fields are left untouched;
// a supplied array replaces that association set wholesale.
// @Description Request body for updating a product
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=255" example:"Oversized Tee"`
	Price       *decimal.Decimal `json:"price" binding:"omitempty,positive_decimal" swaggertype:"number" example:"24.99"`
	IsFeatured  *bool            `json:"isFeatured" example:"true"`
	IsArchived  *bool            `json:"isArchived" example:"false"`
	CategoryIDs []int64          `json:"categoryIds" binding:"omitempty,dive,gt=0"`
	SizeIDs     []int64          `json:"sizeIds" binding:"omitempty,dive,gt=0"`
	ColorIDs    []int64          `json:"colorIds" binding:"omitempty,dive,gt=0"`
	CategoryID  *int64           `json:"categoryId" binding:"omitempty,gt=0"`
	SizeID      *int64           `json:"sizeId" binding:"omitempty,gt=0"`
	ColorID     *int64           `json:"colorId" binding:"omitempty,gt=0"`
	Images      []string         `json:"images" binding:"omitempty,dive,required,max=2048"`
}

// ListProductsQuery holds the filters of the product listing
type ListProductsQuery struct {
	CategoryID *int64 `form:"categoryId" binding:"omitempty,gt=0"`
	SizeID     *int64 `form:"sizeId" binding:"omitempty,gt=0"`
	ColorID    *int64 `form:"colorId" binding:"omitempty,gt=0"`
	IsFeatured string `form:"isFeatured"`
}

// List godoc
// @Summary      List products
// @Description  List the non-archived products of a store, newest first. isFeatured only filters when it is "true".
// @Tags         products
// @Produce      json
// @Param        storeId path int true "Store ID"
// @Param        categoryId query int false "Category ID"
// @Param        sizeId query int false "Size ID"
// @Param        colorId query int false "Color ID"
// @Param        isFeatured query string false "Only featured products when true"
// @Success      200 {object} dto.Response{data=[]catalogapp.LegacyProductView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /stores/{storeId}/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	storeID, ok := parseIDParam(c, middleware.StoreIDParam)
	if !ok {
		h.InvalidInput(c, "Store id is required")
		return
	}

	var query ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}

	if _, err := h.storeService.RequireStore(c.Request.Context(), storeID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	filter := catalog.ProductFilter{
		StoreID:    storeID,
		CategoryID: query.CategoryID,
		SizeID:     query.SizeID,
		ColorID:    query.ColorID,
	}
	if featured, err := strconv.ParseBool(query.IsFeatured); err == nil && featured {
		filter.IsFeatured = &featured
	}

	products, err := h.queryService.Find(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessList(c, products, len(products))
}

// Get godoc
// @Summary      Get product
// @Description  Retrieve one product of a store in the legacy single-valued shape
// @Tags         products
// @Produce      json
// @Param        storeId path int true "Store ID"
// @Param        productId path int true "Product ID"
// @Success      200 {object} dto.Response{data=catalogapp.LegacyProductView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /stores/{storeId}/products/{productId} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	storeID, productID, ok := h.storeAndProductIDs(c)
	if !ok {
		return
	}

	if _, err := h.storeService.RequireStore(c.Request.Context(), storeID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	product, err := h.queryService.Get(c.Request.Context(), storeID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// Create godoc
// @Summary      Create a new product
// @Description  Create a product with its categories, sizes, colors and images in one transaction
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        storeId path int true "Store ID"
// @Param        request body CreateProductRequest true "Product creation request"
// @Success      201 {object} dto.Response{data=catalogapp.LegacyProductView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{storeId}/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	storeID, ok := parseIDParam(c, middleware.StoreIDParam)
	if !ok {
		h.InvalidInput(c, "Store id is required")
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	legacy := catalogapp.LegacyAssociations{CategoryID: req.CategoryID, SizeID: req.SizeID, ColorID: req.ColorID}
	assoc := legacy.Fill(catalog.Associations{
		CategoryIDs: req.CategoryIDs,
		SizeIDs:     req.SizeIDs,
		ColorIDs:    req.ColorIDs,
	})

	product, err := h.productService.Create(c.Request.Context(), catalogapp.CreateProductInput{
		StoreID:     storeID,
		Name:        req.Name,
		Price:       req.Price,
		IsFeatured:  req.IsFeatured,
		IsArchived:  req.IsArchived,
		CategoryIDs: assoc.CategoryIDs,
		SizeIDs:     assoc.SizeIDs,
		ColorIDs:    assoc.ColorIDs,
		ImageURLs:   req.Images,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, catalogapp.ToLegacyView(*product))
}

// Update godoc
// @Summary      Update a product
// @Description  Partially update a product. Each supplied association set replaces the stored one.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        storeId path int true "Store ID"
// @Param        productId path int true "Product ID"
// @Param        request body UpdateProductRequest true "Product update request"
// @Success      200 {object} dto.Response{data=catalogapp.LegacyProductView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{storeId}/products/{productId} [patch]
func (h *ProductHandler) Update(c *gin.Context) {
	storeID, productID, ok := h.storeAndProductIDs(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	legacy := catalogapp.LegacyAssociations{CategoryID: req.CategoryID, SizeID: req.SizeID, ColorID: req.ColorID}
	assoc := legacy.Fill(catalog.Associations{
		CategoryIDs: req.CategoryIDs,
		SizeIDs:     req.SizeIDs,
		ColorIDs:    req.ColorIDs,
		ImageURLs:   req.Images,
	})

	product, err := h.productService.Replace(c.Request.Context(), productID, catalogapp.ReplaceProductInput{
		StoreID:      storeID,
		Name:         req.Name,
		Price:        req.Price,
		IsFeatured:   req.IsFeatured,
		IsArchived:   req.IsArchived,
		Associations: assoc,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, catalogapp.ToLegacyView(*product))
}

// Delete godoc
// @Summary      Delete a product
// @Description  Delete a product with its association and image rows
// @Tags         products
// @Param        storeId path int true "Store ID"
// @Param        productId path int true "Product ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{storeId}/products/{productId} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	storeID, productID, ok := h.storeAndProductIDs(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), storeID, productID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// storeAndProductIDs parses both path IDs and answers 400 when one is invalid
func (h *ProductHandler) storeAndProductIDs(c *gin.Context) (int64, int64, bool) {
	storeID, ok := parseIDParam(c, middleware.StoreIDParam)
	if !ok {
		h.InvalidInput(c, "Store id is required")
		return 0, 0, false
	}
	productID, ok := parseIDParam(c, ProductIDParam)
	if !ok {
		h.InvalidInput(c, "Product id is required")
		return 0, 0, false
	}
	return storeID, productID, true
}
