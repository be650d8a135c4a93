package inventory

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda ninguna escritura.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepos) error) error
}

// StockCache caché opcional de existencias por artículo (Redis o Noop).
type StockCache interface {
	Get(ctx context.Context, itemID int64) (*entity.ItemStock, bool, error)
	Set(ctx context.Context, stock *entity.ItemStock) error
	Invalidate(ctx context.Context, itemIDs ...int64) error
}
