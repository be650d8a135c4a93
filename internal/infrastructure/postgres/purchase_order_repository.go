package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra, líneas y costos adicionales sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const poColumns = `id, order_number, ordered_by, supplier_id, order_date, expected_date, destination_store, status, received, notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.OrderedBy, &o.SupplierID, &o.OrderDate, &o.ExpectedDate,
		&o.DestinationStore, &o.Status, &o.Received, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserta la cabecera y asigna el id generado.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO purchase_orders (order_number, ordered_by, supplier_id, order_date, expected_date,
			destination_store, status, received, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		o.OrderNumber, o.OrderedBy, o.SupplierID, o.OrderDate, o.ExpectedDate,
		o.DestinationStore, o.Status, o.Received, o.Notes, o.CreatedAt, o.UpdatedAt,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert purchase order: %w", mapWriteError(err))
	}
	return nil
}

// GetByID obtiene la cabecera; nil, nil si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+poColumns+` FROM purchase_orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return o, nil
}

// List todas las cabeceras por id.
func (r *PurchaseOrderRepo) List(ctx context.Context) ([]*entity.PurchaseOrder, error) {
	rows, err := r.q.Query(ctx, `SELECT `+poColumns+` FROM purchase_orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var out []*entity.PurchaseOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Update reescribe los campos de cabecera.
func (r *PurchaseOrderRepo) Update(ctx context.Context, o *entity.PurchaseOrder) error {
	_, err := r.q.Exec(ctx, `
		UPDATE purchase_orders SET order_number = $2, ordered_by = $3, supplier_id = $4, order_date = $5,
			expected_date = $6, destination_store = $7, status = $8, received = $9, notes = $10, updated_at = $11
		WHERE id = $1`,
		o.ID, o.OrderNumber, o.OrderedBy, o.SupplierID, o.OrderDate,
		o.ExpectedDate, o.DestinationStore, o.Status, o.Received, o.Notes, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", mapWriteError(err))
	}
	return nil
}

// Delete elimina la cabecera; líneas y costos caen por ON DELETE CASCADE.
func (r *PurchaseOrderRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete purchase order: %w", err)
	}
	return nil
}

// CreateLines inserta las líneas en un solo batch y asigna sus ids.
func (r *PurchaseOrderRepo) CreateLines(ctx context.Context, lines []*entity.PurchaseOrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, l := range lines {
		b.Queue(`
			INSERT INTO purchase_order_items (purchase_order_id, item_id, quantity, received_qty, unit_cost, amount)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			l.PurchaseOrderID, l.ItemID, l.Quantity, l.ReceivedQty, l.UnitCost, l.Amount,
		)
	}
	br := r.q.SendBatch(ctx, b)
	defer br.Close()
	for _, l := range lines {
		if err := br.QueryRow().Scan(&l.ID); err != nil {
			return fmt.Errorf("insert purchase order line: %w", mapWriteError(err))
		}
	}
	return br.Close()
}

// ListLines líneas de la orden.
func (r *PurchaseOrderRepo) ListLines(ctx context.Context, orderID int64) ([]*entity.PurchaseOrderLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_order_id, item_id, quantity, received_qty, unit_cost, amount
		FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order lines: %w", err)
	}
	defer rows.Close()
	var out []*entity.PurchaseOrderLine
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.PurchaseOrderID, &l.ItemID, &l.Quantity, &l.ReceivedQty, &l.UnitCost, &l.Amount); err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// DeleteLines elimina todas las líneas de la orden.
func (r *PurchaseOrderRepo) DeleteLines(ctx context.Context, orderID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_order_items WHERE purchase_order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete purchase order lines: %w", err)
	}
	return nil
}

// CreateAdditionalCosts inserta los costos adicionales y asigna sus ids.
func (r *PurchaseOrderRepo) CreateAdditionalCosts(ctx context.Context, costs []*entity.AdditionalCost) error {
	for _, c := range costs {
		err := r.q.QueryRow(ctx, `
			INSERT INTO purchase_order_additional_costs (purchase_order_id, name, amount)
			VALUES ($1, $2, $3)
			RETURNING id`,
			c.PurchaseOrderID, c.Name, c.Amount,
		).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("insert additional cost: %w", mapWriteError(err))
		}
	}
	return nil
}

// ListAdditionalCosts costos adicionales de la orden.
func (r *PurchaseOrderRepo) ListAdditionalCosts(ctx context.Context, orderID int64) ([]*entity.AdditionalCost, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_order_id, name, amount
		FROM purchase_order_additional_costs WHERE purchase_order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list additional costs: %w", err)
	}
	defer rows.Close()
	var out []*entity.AdditionalCost
	for rows.Next() {
		var c entity.AdditionalCost
		if err := rows.Scan(&c.ID, &c.PurchaseOrderID, &c.Name, &c.Amount); err != nil {
			return nil, fmt.Errorf("scan additional cost: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// DeleteAdditionalCosts elimina todos los costos adicionales de la orden.
func (r *PurchaseOrderRepo) DeleteAdditionalCosts(ctx context.Context, orderID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_order_additional_costs WHERE purchase_order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete additional costs: %w", err)
	}
	return nil
}
