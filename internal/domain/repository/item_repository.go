package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// ItemRepository puerto de lectura del catálogo de artículos.
type ItemRepository interface {
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Item, error)
	// GetByIDs devuelve los artículos encontrados, indexados por id.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Item, error)
	// List ordena por id; limit <= 0 devuelve todo.
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
}
