package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemStock es el modelo de lectura materializado del ledger: existencia actual y costo
// promedio ponderado. Solo el ledger lo escribe, dentro de la misma transacción que el movimiento.
type ItemStock struct {
	ItemID    int64
	Quantity  int64
	AvgCost   decimal.Decimal
	UpdatedAt time.Time
}

// IsLow indica si la existencia está en o por debajo del umbral del artículo.
func (s ItemStock) IsLow(threshold *int64) bool {
	return threshold != nil && s.Quantity <= *threshold
}
