package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.SaleReturnRepository = (*SaleReturnRepo)(nil)

// SaleReturnRepo devoluciones de venta sobre PostgreSQL.
type SaleReturnRepo struct {
	q Querier
}

// NewSaleReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleReturnRepository(q Querier) *SaleReturnRepo {
	return &SaleReturnRepo{q: q}
}

// Create inserta la devolución y asigna el id generado.
func (r *SaleReturnRepo) Create(ctx context.Context, ret *entity.SaleReturn) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO sales_returns (sale_details_id, return_quantity, created_by, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		ret.SaleDetailID, ret.ReturnQuantity, ret.CreatedBy, ret.CreatedAt,
	).Scan(&ret.ID)
	if err != nil {
		return fmt.Errorf("insert sale return: %w", mapWriteError(err))
	}
	return nil
}

// GetByID obtiene la devolución; nil, nil si no existe.
func (r *SaleReturnRepo) GetByID(ctx context.Context, id int64) (*entity.SaleReturn, error) {
	var ret entity.SaleReturn
	err := r.q.QueryRow(ctx, `
		SELECT id, sale_details_id, return_quantity, created_by, created_at
		FROM sales_returns WHERE id = $1`, id,
	).Scan(&ret.ID, &ret.SaleDetailID, &ret.ReturnQuantity, &ret.CreatedBy, &ret.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale return: %w", err)
	}
	return &ret, nil
}

// ListBySaleDetail devoluciones registradas contra la línea.
func (r *SaleReturnRepo) ListBySaleDetail(ctx context.Context, saleDetailID int64) ([]*entity.SaleReturn, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_details_id, return_quantity, created_by, created_at
		FROM sales_returns WHERE sale_details_id = $1 ORDER BY id`, saleDetailID)
	if err != nil {
		return nil, fmt.Errorf("list sale returns: %w", err)
	}
	defer rows.Close()
	var out []*entity.SaleReturn
	for rows.Next() {
		var ret entity.SaleReturn
		if err := rows.Scan(&ret.ID, &ret.SaleDetailID, &ret.ReturnQuantity, &ret.CreatedBy, &ret.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale return: %w", err)
		}
		out = append(out, &ret)
	}
	return out, rows.Err()
}

// SumBySaleDetail total devuelto contra la línea.
func (r *SaleReturnRepo) SumBySaleDetail(ctx context.Context, saleDetailID int64) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(return_quantity), 0)::bigint
		FROM sales_returns WHERE sale_details_id = $1`, saleDetailID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum sale returns: %w", err)
	}
	return total, nil
}

// Delete elimina la devolución.
func (r *SaleReturnRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sales_returns WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete sale return: %w", err)
	}
	return nil
}
