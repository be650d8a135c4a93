package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// ReplenishmentSuggestion artículo en o bajo su umbral con la cantidad sugerida a pedir.
type ReplenishmentSuggestion struct {
	ItemID       int64
	Name         string
	SKU          string
	Quantity     int64
	Threshold    int64
	SuggestedQty int64
}

// ReplenishmentUseCase genera la lista de reposición a partir de item_stock y del umbral low_stock.
type ReplenishmentUseCase struct {
	items repository.ItemRepository
	stock repository.ItemStockRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(items repository.ItemRepository, stock repository.ItemStockRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{items: items, stock: stock}
}

// List devuelve los artículos con control de stock en o por debajo de su umbral,
// ordenados por mayor faltante. Sugerido = 2*umbral - existencia.
func (uc *ReplenishmentUseCase) List(ctx context.Context) ([]ReplenishmentSuggestion, error) {
	levels, err := uc.stock.List(ctx)
	if err != nil {
		return nil, err
	}
	qty := make(map[int64]int64, len(levels))
	for _, l := range levels {
		qty[l.ItemID] = l.Quantity
	}

	items, err := uc.items.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	out := []ReplenishmentSuggestion{}
	for _, it := range items {
		if !it.TrackStock || it.LowStock == nil {
			continue
		}
		q := qty[it.ID]
		if q > *it.LowStock {
			continue
		}
		out = append(out, ReplenishmentSuggestion{
			ItemID:       it.ID,
			Name:         it.Name,
			SKU:          it.SKU,
			Quantity:     q,
			Threshold:    *it.LowStock,
			SuggestedQty: 2*(*it.LowStock) - q,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SuggestedQty > out[j].SuggestedQty
	})
	return out, nil
}
