package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderLineRequest línea de la orden. Las líneas repetidas por artículo se fusionan.
type PurchaseOrderLineRequest struct {
	ItemID   int64            `json:"item_id"`
	Quantity int64            `json:"quantity"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
}

// AdditionalCostRequest costo adicional de la orden.
type AdditionalCostRequest struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	OrderNumber      string                     `json:"order_number"`
	OrderedBy        *int64                     `json:"ordered_by,omitempty"`
	SupplierID       int64                      `json:"supplier_id"`
	OrderDate        *time.Time                 `json:"order_date,omitempty"`
	ExpectedDate     *time.Time                 `json:"expected_date,omitempty"`
	DestinationStore int64                      `json:"destination_store"`
	Status           string                     `json:"status,omitempty"`
	Received         string                     `json:"received,omitempty"`
	Notes            string                     `json:"notes,omitempty"`
	Items            []PurchaseOrderLineRequest `json:"items"`
	AdditionalCosts  []AdditionalCostRequest    `json:"additional_costs,omitempty"`
}

// PurchaseOrderPatchRequest campos de cabecera a modificar; ausentes = sin cambio.
type PurchaseOrderPatchRequest struct {
	OrderNumber      *string    `json:"order_number,omitempty"`
	OrderedBy        *int64     `json:"ordered_by,omitempty"`
	SupplierID       *int64     `json:"supplier_id,omitempty"`
	OrderDate        *time.Time `json:"order_date,omitempty"`
	ExpectedDate     *time.Time `json:"expected_date,omitempty"`
	DestinationStore *int64     `json:"destination_store,omitempty"`
	Status           *string    `json:"status,omitempty"`
	Received         *string    `json:"received,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
}

// UpdatePurchaseOrderRequest body para PUT /api/purchase-orders/:id.
// Items y AdditionalCosts, si vienen (aunque vacíos), reemplazan por completo a los existentes.
type UpdatePurchaseOrderRequest struct {
	Order           *PurchaseOrderPatchRequest `json:"order,omitempty"`
	Items           []PurchaseOrderLineRequest `json:"items,omitempty"`
	AdditionalCosts []AdditionalCostRequest    `json:"additional_costs,omitempty"`
}

// PurchaseOrderCreatedResponse respuesta de creación.
type PurchaseOrderCreatedResponse struct {
	PurchaseOrderID int64 `json:"purchase_order_id"`
}

// PurchaseOrderResponse cabecera de la orden.
type PurchaseOrderResponse struct {
	ID               int64      `json:"id"`
	OrderNumber      string     `json:"order_number"`
	OrderedBy        int64      `json:"ordered_by"`
	SupplierID       int64      `json:"supplier_id"`
	OrderDate        time.Time  `json:"order_date"`
	ExpectedDate     *time.Time `json:"expected_date,omitempty"`
	DestinationStore int64      `json:"destination_store"`
	Status           string     `json:"status"`
	Received         string     `json:"received"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// PurchaseOrderLineResponse línea persistida.
type PurchaseOrderLineResponse struct {
	ID          int64            `json:"id"`
	ItemID      int64            `json:"item_id"`
	Quantity    int64            `json:"quantity"`
	ReceivedQty int64            `json:"received_qty"`
	UnitCost    *decimal.Decimal `json:"unit_cost"`
	Amount      decimal.Decimal  `json:"amount"`
}

// AdditionalCostResponse costo adicional persistido.
type AdditionalCostResponse struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// PurchaseOrderDetailResponse cabecera con líneas y costos adicionales.
type PurchaseOrderDetailResponse struct {
	PurchaseOrderResponse
	Items           []PurchaseOrderLineResponse `json:"items"`
	AdditionalCosts []AdditionalCostResponse    `json:"additional_costs"`
}
