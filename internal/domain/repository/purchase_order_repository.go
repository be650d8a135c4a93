package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// PurchaseOrderRepository puerto de persistencia de órdenes de compra, sus líneas y costos adicionales.
type PurchaseOrderRepository interface {
	// Create inserta la cabecera y asigna order.ID.
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id int64) (*entity.PurchaseOrder, error)
	List(ctx context.Context) ([]*entity.PurchaseOrder, error)
	Update(ctx context.Context, order *entity.PurchaseOrder) error
	// Delete elimina la cabecera; líneas y costos caen en cascada.
	Delete(ctx context.Context, id int64) error

	CreateLines(ctx context.Context, lines []*entity.PurchaseOrderLine) error
	ListLines(ctx context.Context, orderID int64) ([]*entity.PurchaseOrderLine, error)
	DeleteLines(ctx context.Context, orderID int64) error

	CreateAdditionalCosts(ctx context.Context, costs []*entity.AdditionalCost) error
	ListAdditionalCosts(ctx context.Context, orderID int64) ([]*entity.AdditionalCost, error)
	DeleteAdditionalCosts(ctx context.Context, orderID int64) error
}
