package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El status es opcional
// (default draft); business y created_by se fuerzan desde el caller.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Status      string          `json:"status" validate:"omitempty,oneof=draft pending_approval approved"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	Status      *string          `json:"status" validate:"omitempty,oneof=draft pending_approval approved"`
}

// ProductListQuery parámetros de listado (búsqueda, filtro, orden, página).
type ProductListQuery struct {
	Search string `query:"search"`
	Status string `query:"status"`
	Order  string `query:"ordering"` // created_at, price, name, status; prefijo "-" descendente
	Page   int    `query:"page"`
}

// BulkApproveRequest entrada para aprobación masiva. Máximo 100 IDs; IDs no
// enteros fallan en el decode del body antes de cualquier efecto.
type BulkApproveRequest struct {
	ProductIDs []int64 `json:"product_ids"`
}

// BulkApproveResponse resumen estructurado de la aprobación masiva. Las fallas
// por producto no abortan la operación: se cuentan y se devuelven.
type BulkApproveResponse struct {
	TotalRequested int     `json:"total_requested"`
	Approved       int     `json:"approved"`
	Skipped        int     `json:"skipped"`
	Failed         int     `json:"failed"`
	NotFound       int     `json:"not_found"`
	ApprovedIDs    []int64 `json:"approved_ids"`
	FailedIDs      []int64 `json:"failed_ids"`
	NotFoundIDs    []int64 `json:"not_found_ids"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          int64           `json:"id"`
	BusinessID  int64           `json:"business_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
	Status      string          `json:"status"`
	CreatedBy   int64           `json:"created_by"`
	ApprovedBy  *int64          `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time      `json:"approved_at,omitempty"`
	IsDeleted   bool            `json:"is_deleted"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
