package models

import "time"

type Product struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	SKU           string    `json:"sku,omitempty"`
	Price         float64   `json:"price"`
	OldPrice      float64   `json:"old_price"`
	Stock         int       `json:"stock"`
	Description   string    `json:"description"`
	Images        []string  `json:"images"`
	Featured      bool      `json:"featured"`
	CategoryID    *int      `json:"category_id,omitempty"`
	CollectionID  *int      `json:"collection_id,omitempty"`
	CreatedBy     *int      `json:"created_by,omitempty"`
	CreatedByRole Role      `json:"created_by_role,omitempty"`
	AssignedTo    *int      `json:"assigned_to,omitempty"` // default order assignee for this product
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateProductRequest is the admin product create/update payload
type CreateProductRequest struct {
	Name         string   `json:"name" validate:"required"`
	SKU          string   `json:"sku"`
	Price        float64  `json:"price" validate:"gte=0"`
	OldPrice     float64  `json:"old_price" validate:"gte=0"`
	Stock        int      `json:"stock" validate:"gte=0"`
	Description  string   `json:"description"`
	Images       []string `json:"images"`
	Featured     bool     `json:"featured"`
	CategoryID   *int     `json:"category_id,omitempty"`
	CollectionID *int     `json:"collection_id,omitempty"`
	AssignedTo   *int     `json:"assigned_to,omitempty"`
}

// ProductListFilter narrows the product listing
type ProductListFilter struct {
	CategoryID   *int
	CollectionID *int
	Featured     *bool
	Search       string
	Limit        int
	Offset       int
}
