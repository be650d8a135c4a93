package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger de tienda.
const (
	StockTxPurchase       = "purchase"        // entrada por orden de compra
	StockTxSale           = "sale"            // salida por venta
	StockTxSalesReturn    = "sales_return"    // entrada por devolución de cliente
	StockTxPurchaseReturn = "purchase_return" // salida por devolución a proveedor
	StockTxAdjustment     = "adjustment"      // ajuste con signo libre
	StockTxWastage        = "wastage"         // merma
)

// IsValidStockTxKind indica si kind es uno de los tipos conocidos.
func IsValidStockTxKind(kind string) bool {
	switch kind {
	case StockTxPurchase, StockTxSale, StockTxSalesReturn,
		StockTxPurchaseReturn, StockTxAdjustment, StockTxWastage:
		return true
	}
	return false
}

// StockTransaction es una fila inmutable del ledger. Quantity es el delta con signo:
// positivo entra, negativo sale. Las referencias a orden/venta/devolución son solo de trazabilidad.
type StockTransaction struct {
	ID              int64
	BatchID         string // una unidad de trabajo = un lote
	ItemID          int64
	Kind            string
	Quantity        int64
	UnitCost        decimal.NullDecimal
	PurchaseOrderID *int64
	SaleMasterID    *int64
	SaleReturnID    *int64
	Note            string
	CreatedBy       int64
	CreatedAt       time.Time
}
