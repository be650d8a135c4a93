package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// ItemStockRepository puerto del modelo de lectura de existencias.
// Solo el ledger escribe aquí, siempre dentro de la transacción del movimiento.
type ItemStockRepository interface {
	// Get devuelve existencia cero si el artículo aún no tiene fila.
	Get(ctx context.Context, itemID int64) (*entity.ItemStock, error)
	// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, itemID int64) (*entity.ItemStock, error)
	Upsert(ctx context.Context, stock *entity.ItemStock) error
	List(ctx context.Context) ([]*entity.ItemStock, error)
}
