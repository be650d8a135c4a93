// Package cache implementaciones de la caché de existencias.
package cache

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

var _ inventory.StockCache = NoopStockCache{}

// NoopStockCache caché deshabilitada: nunca acierta y no guarda nada.
type NoopStockCache struct{}

func (NoopStockCache) Get(_ context.Context, _ int64) (*entity.ItemStock, bool, error) {
	return nil, false, nil
}

func (NoopStockCache) Set(_ context.Context, _ *entity.ItemStock) error { return nil }

func (NoopStockCache) Invalidate(_ context.Context, _ ...int64) error { return nil }
