package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// SaleRepository puerto de persistencia de ventas y sus líneas.
type SaleRepository interface {
	// Create inserta la cabecera y asigna sale.ID.
	Create(ctx context.Context, sale *entity.SaleMaster) error
	GetByID(ctx context.Context, id int64) (*entity.SaleMaster, error)
	List(ctx context.Context) ([]*entity.SaleMaster, error)
	Update(ctx context.Context, sale *entity.SaleMaster) error
	// Delete elimina la cabecera; líneas y devoluciones caen en cascada.
	Delete(ctx context.Context, id int64) error

	CreateDetails(ctx context.Context, details []*entity.SaleDetail) error
	ListDetails(ctx context.Context, saleID int64) ([]*entity.SaleDetail, error)
	GetDetail(ctx context.Context, id int64) (*entity.SaleDetail, error)
	// GetDetailForUpdate igual que GetDetail pero bloquea la fila hasta el fin de la transacción.
	GetDetailForUpdate(ctx context.Context, id int64) (*entity.SaleDetail, error)
	DeleteDetails(ctx context.Context, saleID int64) error
}

// SaleReturnRepository puerto de persistencia de devoluciones de venta.
type SaleReturnRepository interface {
	Create(ctx context.Context, ret *entity.SaleReturn) error
	GetByID(ctx context.Context, id int64) (*entity.SaleReturn, error)
	ListBySaleDetail(ctx context.Context, saleDetailID int64) ([]*entity.SaleReturn, error)
	// SumBySaleDetail total devuelto hasta ahora contra la línea.
	SumBySaleDetail(ctx context.Context, saleDetailID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}
