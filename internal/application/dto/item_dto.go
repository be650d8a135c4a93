package dto

import "github.com/shopspring/decimal"

// ItemResponse artículo del catálogo con su existencia.
type ItemResponse struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	CategoryID       *int64          `json:"category_id,omitempty"`
	SKU              string          `json:"sku,omitempty"`
	Barcode          string          `json:"barcode,omitempty"`
	Price            decimal.Decimal `json:"price"`
	Cost             decimal.Decimal `json:"cost"`
	TrackStock       bool            `json:"track_stock"`
	LowStock         *int64          `json:"low_stock,omitempty"`
	AvailableForSale bool            `json:"available_for_sale"`
	Stock            int64           `json:"stock"`
	AvgCost          decimal.Decimal `json:"avg_cost"`
}
