package model

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`
}

type Product struct {
	ID         int64   `db:"id" json:"id"`
	Name       string  `db:"name" json:"name"`
	CategoryID int64   `db:"category_id" json:"categoryId"`
	UnitPrice  float64 `db:"unit_price" json:"unitPrice"`
	Quantity   int     `db:"quantity" json:"quantity"`
}

// ProductView is a Product joined with its category name for listings.
// StockValue is quantity × unit price at read time.
type ProductView struct {
	Product
	CategoryName string  `db:"category_name" json:"categoryName"`
	StockValue   float64 `db:"-" json:"stockValue"`
}

type SaleRecord struct {
	ID          string    `db:"id" json:"id"`
	ProductID   int64     `db:"product_id" json:"productId"`
	Quantity    int       `db:"quantity" json:"quantity"`
	TotalAmount float64   `db:"total_amount" json:"totalAmount"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// CartLine is a pending order row scoped to one session. Name and price
// are snapshots taken when the line was added; LineTotal is computed once
// from those snapshots and never recomputed against the live product.
type CartLine struct {
	ID        uuid.UUID `json:"id"`
	ProductID int64     `json:"productId"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unitPrice"`
	Quantity  int       `json:"quantity"`
	LineTotal float64   `json:"lineTotal"`
}

// DashboardSummary mirrors the metrics strip on the dashboard.
type DashboardSummary struct {
	TotalUnits    int     `db:"total_units" json:"totalUnits"`
	TotalValue    float64 `db:"total_value" json:"totalValue"`
	CategoryCount int     `db:"-" json:"categoryCount"`
}
