// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel shared by every table with a surrogate key
//   - catalog.go: stores, categories, sizes, colors, products, images and the
//     product junction tables
//   - order.go: orders and order items
//   - webhook.go: the processed webhook event ledger
package models
