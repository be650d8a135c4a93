package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.ItemStockRepository = (*ItemStockRepo)(nil)

// ItemStockRepo implementación de ItemStockRepository sobre PostgreSQL (usable con pool o tx).
type ItemStockRepo struct {
	q Querier
}

// NewItemStockRepository construye el adaptador de existencias. Pasar pool o tx (Querier).
func NewItemStockRepository(q Querier) *ItemStockRepo {
	return &ItemStockRepo{q: q}
}

func (r *ItemStockRepo) get(ctx context.Context, query string, itemID int64) (*entity.ItemStock, error) {
	var s entity.ItemStock
	err := r.q.QueryRow(ctx, query, itemID).Scan(&s.ItemID, &s.Quantity, &s.AvgCost, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.ItemStock{ItemID: itemID, AvgCost: decimal.Zero}, nil
		}
		return nil, err
	}
	return &s, nil
}

// Get existencia actual; cero si el artículo no tiene fila.
func (r *ItemStockRepo) Get(ctx context.Context, itemID int64) (*entity.ItemStock, error) {
	s, err := r.get(ctx, `
		SELECT item_id, quantity, avg_cost, updated_at
		FROM item_stock WHERE item_id = $1`, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item stock: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene la existencia y bloquea la fila (SELECT FOR UPDATE).
// La fila se crea antes en cero para que también quede bloqueada la primera entrada del artículo.
func (r *ItemStockRepo) GetForUpdate(ctx context.Context, itemID int64) (*entity.ItemStock, error) {
	if _, err := r.q.Exec(ctx, `
		INSERT INTO item_stock (item_id) VALUES ($1)
		ON CONFLICT (item_id) DO NOTHING`, itemID); err != nil {
		return nil, fmt.Errorf("crear item stock: %w", mapWriteError(err))
	}
	s, err := r.get(ctx, `
		SELECT item_id, quantity, avg_cost, updated_at
		FROM item_stock WHERE item_id = $1
		FOR UPDATE`, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item stock for update: %w", err)
	}
	return s, nil
}

// Upsert inserta o actualiza la existencia del artículo.
func (r *ItemStockRepo) Upsert(ctx context.Context, s *entity.ItemStock) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO item_stock (item_id, quantity, avg_cost, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, avg_cost = EXCLUDED.avg_cost, updated_at = EXCLUDED.updated_at`,
		s.ItemID, s.Quantity, s.AvgCost, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert item stock: %w", mapWriteError(err))
	}
	return nil
}

// List todas las existencias materializadas.
func (r *ItemStockRepo) List(ctx context.Context) ([]*entity.ItemStock, error) {
	rows, err := r.q.Query(ctx, `SELECT item_id, quantity, avg_cost, updated_at FROM item_stock ORDER BY item_id`)
	if err != nil {
		return nil, fmt.Errorf("list item stock: %w", err)
	}
	defer rows.Close()
	var out []*entity.ItemStock
	for rows.Next() {
		var s entity.ItemStock
		if err := rows.Scan(&s.ItemID, &s.Quantity, &s.AvgCost, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item stock: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
