package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo del catálogo. El stock no vive aquí: se deriva del ledger
// y se materializa en ItemStock.
type Item struct {
	ID               int64
	Name             string
	CategoryID       *int64
	SKU              string
	Barcode          string
	Price            decimal.Decimal // precio de venta
	Cost             decimal.Decimal // costo de catálogo, usado si aún no hay costo promedio
	TrackStock       bool
	LowStock         *int64
	AvailableForSale bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
