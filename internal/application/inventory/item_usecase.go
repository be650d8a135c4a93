package inventory

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// ItemWithStock artículo con su existencia actual.
type ItemWithStock struct {
	Item  *entity.Item
	Stock entity.ItemStock
}

// ItemUseCase lectura del catálogo con existencias.
type ItemUseCase struct {
	items repository.ItemRepository
	stock repository.ItemStockRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(items repository.ItemRepository, stock repository.ItemStockRepository) *ItemUseCase {
	return &ItemUseCase{items: items, stock: stock}
}

// GetByID artículo y su existencia; ErrNotFound si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id int64) (*ItemWithStock, error) {
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	s, err := uc.stock.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ItemWithStock{Item: item, Stock: *s}, nil
}

// List catálogo paginado con existencias.
func (uc *ItemUseCase) List(ctx context.Context, limit, offset int) ([]ItemWithStock, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	items, err := uc.items.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	levels, err := uc.stock.List(ctx)
	if err != nil {
		return nil, err
	}
	byItem := make(map[int64]*entity.ItemStock, len(levels))
	for _, l := range levels {
		byItem[l.ItemID] = l
	}
	out := make([]ItemWithStock, 0, len(items))
	for _, it := range items {
		s := entity.ItemStock{ItemID: it.ID}
		if l, ok := byItem[it.ID]; ok {
			s = *l
		}
		out = append(out, ItemWithStock{Item: it, Stock: s})
	}
	return out, nil
}
