package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta. Sin avg_cost se captura el costo promedio vigente.
type SaleLineRequest struct {
	ItemID    int64            `json:"item_id"`
	Quantity  int64            `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	AvgCost   *decimal.Decimal `json:"avg_cost,omitempty"`
}

// CreateSaleRequest body para POST /api/sales. Los totales se calculan si no vienen.
type CreateSaleRequest struct {
	CustomerID     *int64            `json:"customer_id,omitempty"`
	PaymentType    string            `json:"payment_type"`
	SaleDate       *time.Time        `json:"sale_date,omitempty"`
	TotalQuantity  *int64            `json:"total_quantity,omitempty"`
	TotalAmount    *decimal.Decimal  `json:"total_amount,omitempty"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	Items          []SaleLineRequest `json:"items"`
}

// SalePatchRequest campos de cabecera a modificar.
type SalePatchRequest struct {
	CustomerID     *int64           `json:"customer_id,omitempty"`
	PaymentType    *string          `json:"payment_type,omitempty"`
	SaleDate       *time.Time       `json:"sale_date,omitempty"`
	TotalQuantity  *int64           `json:"total_quantity,omitempty"`
	TotalAmount    *decimal.Decimal `json:"total_amount,omitempty"`
	DiscountAmount *decimal.Decimal `json:"discount_amount,omitempty"`
}

// UpdateSaleRequest body para PUT /api/sales/:id. Items, si viene, reemplaza las líneas.
type UpdateSaleRequest struct {
	Sale  *SalePatchRequest `json:"sale,omitempty"`
	Items []SaleLineRequest `json:"items,omitempty"`
}

// SaleResponse cabecera de la venta.
type SaleResponse struct {
	ID             int64           `json:"id"`
	CustomerID     *int64          `json:"customer_id,omitempty"`
	PaymentType    string          `json:"payment_type"`
	SaleDate       time.Time       `json:"sale_date"`
	TotalQuantity  int64           `json:"total_quantity"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	CreatedBy      int64           `json:"created_by"`
	UpdatedBy      *int64          `json:"updated_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// SaleDetailResponse línea de venta persistida.
type SaleDetailResponse struct {
	ID        int64           `json:"id"`
	ItemID    int64           `json:"item_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
	AvgCost   decimal.Decimal `json:"avg_cost"`
}

// SaleWithItemsResponse cabecera con sus líneas.
type SaleWithItemsResponse struct {
	SaleResponse
	Items []SaleDetailResponse `json:"items"`
}

// CreateSaleReturnRequest body para POST /api/sale-returns.
type CreateSaleReturnRequest struct {
	SaleDetailsID  int64 `json:"sale_details_id"`
	ReturnQuantity int64 `json:"return_quantity"`
}

// SaleReturnResponse devolución persistida.
type SaleReturnResponse struct {
	ID             int64     `json:"id"`
	SaleDetailsID  int64     `json:"sale_details_id"`
	ReturnQuantity int64     `json:"return_quantity"`
	CreatedBy      int64     `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}
