package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo ledger append-only sobre PostgreSQL.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

const stockTxColumns = `id, batch_id::text, item_id, transaction_type, quantity, unit_cost,
	purchase_order_id, sale_master_id, sale_return_id, note, created_by, created_at`

// Create inserta el movimiento y asigna el id generado.
func (r *StockTransactionRepo) Create(ctx context.Context, t *entity.StockTransaction) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO store_transactions (batch_id, item_id, transaction_type, quantity, unit_cost,
			purchase_order_id, sale_master_id, sale_return_id, note, created_by, created_at)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		t.BatchID, t.ItemID, t.Kind, t.Quantity, t.UnitCost,
		t.PurchaseOrderID, t.SaleMasterID, t.SaleReturnID, t.Note, t.CreatedBy, t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert store transaction: %w", mapWriteError(err))
	}
	return nil
}

func (r *StockTransactionRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockTransaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list store transactions: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockTransaction
	for rows.Next() {
		t, err := scanStockTx(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanStockTx(row pgx.Row) (*entity.StockTransaction, error) {
	var t entity.StockTransaction
	err := row.Scan(
		&t.ID, &t.BatchID, &t.ItemID, &t.Kind, &t.Quantity, &t.UnitCost,
		&t.PurchaseOrderID, &t.SaleMasterID, &t.SaleReturnID, &t.Note, &t.CreatedBy, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByItem movimientos del artículo, el más reciente primero.
func (r *StockTransactionRepo) ListByItem(ctx context.Context, itemID int64, limit, offset int) ([]*entity.StockTransaction, error) {
	return r.list(ctx, `SELECT `+stockTxColumns+` FROM store_transactions
		WHERE item_id = $1 ORDER BY id DESC LIMIT $2 OFFSET $3`, itemID, limitArg(limit), offset)
}

// ListByPurchaseOrder movimientos generados por la orden de compra.
func (r *StockTransactionRepo) ListByPurchaseOrder(ctx context.Context, orderID int64) ([]*entity.StockTransaction, error) {
	return r.list(ctx, `SELECT `+stockTxColumns+` FROM store_transactions
		WHERE purchase_order_id = $1 ORDER BY id`, orderID)
}

// ListBySale movimientos generados por la venta y sus devoluciones.
func (r *StockTransactionRepo) ListBySale(ctx context.Context, saleID int64) ([]*entity.StockTransaction, error) {
	return r.list(ctx, `SELECT `+stockTxColumns+` FROM store_transactions
		WHERE sale_master_id = $1 ORDER BY id`, saleID)
}

// SumByItem existencia del artículo según el ledger.
func (r *StockTransactionRepo) SumByItem(ctx context.Context, itemID int64) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)::bigint FROM store_transactions WHERE item_id = $1`, itemID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum store transactions: %w", err)
	}
	return total, nil
}
