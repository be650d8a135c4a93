package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la orden de compra. El valor almacenado conserva la ortografía histórica.
const (
	POStatusDraft             = "Draft"
	POStatusPending           = "Pending"
	POStatusPartiallyReceived = "Partially received"
	POStatusClosed            = "Closed"
)

// DefaultReceived valor inicial del campo received.
const DefaultReceived = "0 of 0"

var poStatusRank = map[string]int{
	POStatusDraft:             0,
	POStatusPending:           1,
	POStatusPartiallyReceived: 2,
	POStatusClosed:            3,
}

// IsValidPOStatus indica si status es un estado conocido.
func IsValidPOStatus(status string) bool {
	_, ok := poStatusRank[status]
	return ok
}

// CanTransitionPO el flujo es monótono: Draft → Pending → Partially received → Closed.
// Permanecer en el mismo estado es válido; retroceder no.
func CanTransitionPO(from, to string) bool {
	f, okFrom := poStatusRank[from]
	t, okTo := poStatusRank[to]
	if !okFrom || !okTo {
		return false
	}
	return t >= f
}

// PurchaseOrder cabecera de una orden de compra.
type PurchaseOrder struct {
	ID               int64
	OrderNumber      string
	OrderedBy        int64
	SupplierID       int64
	OrderDate        time.Time
	ExpectedDate     *time.Time
	DestinationStore int64
	Status           string
	Received         string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PurchaseOrderLine línea de la orden. Tras la normalización hay a lo sumo una por (orden, artículo).
type PurchaseOrderLine struct {
	ID              int64
	PurchaseOrderID int64
	ItemID          int64
	Quantity        int64
	ReceivedQty     int64
	UnitCost        decimal.NullDecimal
	Amount          decimal.Decimal
}

// AdditionalCost costo adicional (flete, aranceles...) de la orden.
type AdditionalCost struct {
	ID              int64
	PurchaseOrderID int64
	Name            string
	Amount          decimal.Decimal
}

// PurchaseOrderAggregate cabecera con las filas que le pertenecen.
type PurchaseOrderAggregate struct {
	Order           PurchaseOrder
	Lines           []PurchaseOrderLine
	AdditionalCosts []AdditionalCost
}

// PurchaseOrderPatch campos modificables de la cabecera; nil = sin cambio.
type PurchaseOrderPatch struct {
	OrderNumber      *string
	OrderedBy        *int64
	SupplierID       *int64
	OrderDate        *time.Time
	ExpectedDate     *time.Time
	DestinationStore *int64
	Status           *string
	Received         *string
	Notes            *string
}

// IsEmpty indica si el parche no modifica nada.
func (p PurchaseOrderPatch) IsEmpty() bool {
	return p.OrderNumber == nil && p.OrderedBy == nil && p.SupplierID == nil &&
		p.OrderDate == nil && p.ExpectedDate == nil && p.DestinationStore == nil &&
		p.Status == nil && p.Received == nil && p.Notes == nil
}

// Apply copia los campos presentes del parche sobre la cabecera.
func (p PurchaseOrderPatch) Apply(o *PurchaseOrder) {
	if p.OrderNumber != nil {
		o.OrderNumber = *p.OrderNumber
	}
	if p.OrderedBy != nil {
		o.OrderedBy = *p.OrderedBy
	}
	if p.SupplierID != nil {
		o.SupplierID = *p.SupplierID
	}
	if p.OrderDate != nil {
		o.OrderDate = *p.OrderDate
	}
	if p.ExpectedDate != nil {
		d := *p.ExpectedDate
		o.ExpectedDate = &d
	}
	if p.DestinationStore != nil {
		o.DestinationStore = *p.DestinationStore
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.Received != nil {
		o.Received = *p.Received
	}
	if p.Notes != nil {
		o.Notes = *p.Notes
	}
}
