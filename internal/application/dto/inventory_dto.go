package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAdjustmentRequest body para POST /api/stock/adjustments.
type StockAdjustmentRequest struct {
	ItemID   int64            `json:"item_id"`
	Kind     string           `json:"kind"` // adjustment | wastage | purchase_return
	Quantity int64            `json:"quantity"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
	Note     string           `json:"note,omitempty"`
}

// StockLevelResponse existencia materializada de un artículo.
type StockLevelResponse struct {
	ItemID    int64           `json:"item_id"`
	Quantity  int64           `json:"quantity"`
	AvgCost   decimal.Decimal `json:"avg_cost"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// StockTransactionResponse fila del ledger.
type StockTransactionResponse struct {
	ID              int64            `json:"id"`
	BatchID         string           `json:"batch_id"`
	ItemID          int64            `json:"item_id"`
	Kind            string           `json:"kind"`
	Quantity        int64            `json:"quantity"`
	UnitCost        *decimal.Decimal `json:"unit_cost"`
	PurchaseOrderID *int64           `json:"purchase_order_id,omitempty"`
	SaleMasterID    *int64           `json:"sale_master_id,omitempty"`
	SaleReturnID    *int64           `json:"sale_return_id,omitempty"`
	Note            string           `json:"note,omitempty"`
	CreatedBy       int64            `json:"created_by"`
	CreatedAt       time.Time        `json:"created_at"`
}

// ReconcileResponse comparación ledger vs modelo de lectura.
type ReconcileResponse struct {
	ItemID         int64 `json:"item_id"`
	LedgerQuantity int64 `json:"ledger_quantity"`
	StockQuantity  int64 `json:"stock_quantity"`
	Drift          int64 `json:"drift"`
	InSync         bool  `json:"in_sync"`
}

// ReplenishmentSuggestionDTO artículo en o bajo su umbral de existencia.
type ReplenishmentSuggestionDTO struct {
	ItemID       int64  `json:"item_id"`
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	CurrentStock int64  `json:"current_stock"`
	LowStock     int64  `json:"low_stock"`
	SuggestedQty int64  `json:"suggested_order_qty"`
}
