package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Formas de pago de la venta.
const (
	PaymentCash   = "cash"
	PaymentCredit = "credit"
)

// IsValidPaymentType indica si t es una forma de pago conocida.
func IsValidPaymentType(t string) bool {
	return t == PaymentCash || t == PaymentCredit
}

// SaleMaster cabecera de la venta.
type SaleMaster struct {
	ID             int64
	CustomerID     *int64
	PaymentType    string
	SaleDate       time.Time
	TotalQuantity  int64
	TotalAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	CreatedBy      int64
	UpdatedBy      *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SaleDetail línea de la venta. AvgCost se captura al vender y no se recalcula.
type SaleDetail struct {
	ID           int64
	SaleMasterID int64
	ItemID       int64
	Quantity     int64
	UnitPrice    decimal.Decimal
	Amount       decimal.Decimal
	AvgCost      decimal.Decimal
	CreatedBy    int64
	UpdatedBy    *int64
	CreatedAt    time.Time
}

// SaleReturn devolución contra una línea de venta.
type SaleReturn struct {
	ID             int64
	SaleDetailID   int64
	ReturnQuantity int64
	CreatedBy      int64
	CreatedAt      time.Time
}

// SaleAggregate cabecera con sus líneas.
type SaleAggregate struct {
	Sale    SaleMaster
	Details []SaleDetail
}

// SalePatch campos modificables de la cabecera; nil = sin cambio.
type SalePatch struct {
	CustomerID     *int64
	PaymentType    *string
	SaleDate       *time.Time
	TotalQuantity  *int64
	TotalAmount    *decimal.Decimal
	DiscountAmount *decimal.Decimal
}

// Apply copia los campos presentes sobre la cabecera.
func (p SalePatch) Apply(s *SaleMaster) {
	if p.CustomerID != nil {
		id := *p.CustomerID
		s.CustomerID = &id
	}
	if p.PaymentType != nil {
		s.PaymentType = *p.PaymentType
	}
	if p.SaleDate != nil {
		s.SaleDate = *p.SaleDate
	}
	if p.TotalQuantity != nil {
		s.TotalQuantity = *p.TotalQuantity
	}
	if p.TotalAmount != nil {
		s.TotalAmount = *p.TotalAmount
	}
	if p.DiscountAmount != nil {
		s.DiscountAmount = *p.DiscountAmount
	}
}
