package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas y líneas de venta sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, customer_id, payment_type, sale_date, total_quantity, total_amount, discount_amount, created_by, updated_by, created_at, updated_at`

const detailColumns = `id, sale_master_id, item_id, quantity, unit_price, amount, avg_cost, created_by, updated_by, created_at`

func scanSale(row pgx.Row) (*entity.SaleMaster, error) {
	var s entity.SaleMaster
	err := row.Scan(
		&s.ID, &s.CustomerID, &s.PaymentType, &s.SaleDate, &s.TotalQuantity, &s.TotalAmount,
		&s.DiscountAmount, &s.CreatedBy, &s.UpdatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanDetail(row pgx.Row) (*entity.SaleDetail, error) {
	var d entity.SaleDetail
	err := row.Scan(
		&d.ID, &d.SaleMasterID, &d.ItemID, &d.Quantity, &d.UnitPrice, &d.Amount,
		&d.AvgCost, &d.CreatedBy, &d.UpdatedBy, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserta la cabecera y asigna el id generado.
func (r *SaleRepo) Create(ctx context.Context, s *entity.SaleMaster) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO sales_master (customer_id, payment_type, sale_date, total_quantity, total_amount,
			discount_amount, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		s.CustomerID, s.PaymentType, s.SaleDate, s.TotalQuantity, s.TotalAmount,
		s.DiscountAmount, s.CreatedBy, s.UpdatedBy, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert sale: %w", mapWriteError(err))
	}
	return nil
}

// GetByID obtiene la cabecera; nil, nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.SaleMaster, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales_master WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// List todas las ventas por id.
func (r *SaleRepo) List(ctx context.Context) ([]*entity.SaleMaster, error) {
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM sales_master ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var out []*entity.SaleMaster
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update reescribe la cabecera.
func (r *SaleRepo) Update(ctx context.Context, s *entity.SaleMaster) error {
	_, err := r.q.Exec(ctx, `
		UPDATE sales_master SET customer_id = $2, payment_type = $3, sale_date = $4, total_quantity = $5,
			total_amount = $6, discount_amount = $7, updated_by = $8, updated_at = $9
		WHERE id = $1`,
		s.ID, s.CustomerID, s.PaymentType, s.SaleDate, s.TotalQuantity,
		s.TotalAmount, s.DiscountAmount, s.UpdatedBy, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", mapWriteError(err))
	}
	return nil
}

// Delete elimina la venta; líneas y devoluciones caen por ON DELETE CASCADE.
func (r *SaleRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sales_master WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}

// CreateDetails inserta las líneas en un solo batch y asigna sus ids.
func (r *SaleRepo) CreateDetails(ctx context.Context, details []*entity.SaleDetail) error {
	if len(details) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, d := range details {
		b.Queue(`
			INSERT INTO sales_details (sale_master_id, item_id, quantity, unit_price, amount, avg_cost,
				created_by, updated_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id`,
			d.SaleMasterID, d.ItemID, d.Quantity, d.UnitPrice, d.Amount, d.AvgCost,
			d.CreatedBy, d.UpdatedBy, d.CreatedAt,
		)
	}
	br := r.q.SendBatch(ctx, b)
	defer br.Close()
	for _, d := range details {
		if err := br.QueryRow().Scan(&d.ID); err != nil {
			return fmt.Errorf("insert sale detail: %w", mapWriteError(err))
		}
	}
	return br.Close()
}

// ListDetails líneas de la venta.
func (r *SaleRepo) ListDetails(ctx context.Context, saleID int64) ([]*entity.SaleDetail, error) {
	rows, err := r.q.Query(ctx, `SELECT `+detailColumns+` FROM sales_details WHERE sale_master_id = $1 ORDER BY id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale details: %w", err)
	}
	defer rows.Close()
	var out []*entity.SaleDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale detail: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDetail obtiene una línea; nil, nil si no existe.
func (r *SaleRepo) GetDetail(ctx context.Context, id int64) (*entity.SaleDetail, error) {
	return r.getDetail(ctx, `SELECT `+detailColumns+` FROM sales_details WHERE id = $1`, id)
}

// GetDetailForUpdate bloquea la línea; serializa devoluciones concurrentes contra ella.
func (r *SaleRepo) GetDetailForUpdate(ctx context.Context, id int64) (*entity.SaleDetail, error) {
	return r.getDetail(ctx, `SELECT `+detailColumns+` FROM sales_details WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) getDetail(ctx context.Context, query string, id int64) (*entity.SaleDetail, error) {
	d, err := scanDetail(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale detail: %w", err)
	}
	return d, nil
}

// DeleteDetails elimina las líneas de la venta (y sus devoluciones en cascada).
func (r *SaleRepo) DeleteDetails(ctx context.Context, saleID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sales_details WHERE sale_master_id = $1`, saleID); err != nil {
		return fmt.Errorf("delete sale details: %w", err)
	}
	return nil
}
