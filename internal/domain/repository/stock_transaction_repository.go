package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// StockTransactionRepository puerto del ledger. Solo inserta y consulta: las filas son inmutables.
type StockTransactionRepository interface {
	// Create inserta el movimiento y asigna tx.ID.
	Create(ctx context.Context, tx *entity.StockTransaction) error
	ListByItem(ctx context.Context, itemID int64, limit, offset int) ([]*entity.StockTransaction, error)
	ListByPurchaseOrder(ctx context.Context, orderID int64) ([]*entity.StockTransaction, error)
	ListBySale(ctx context.Context, saleID int64) ([]*entity.StockTransaction, error)
	// SumByItem suma de deltas del artículo (existencia según el ledger).
	SumByItem(ctx context.Context, itemID int64) (int64, error)
}
