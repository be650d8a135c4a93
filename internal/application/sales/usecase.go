// Package sales orquesta ventas, sus líneas, devoluciones y las salidas/entradas del ledger.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	invapp "github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/identity"
	"github.com/jhoicas/pos-ledger/internal/domain/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// UseCase casos de uso de ventas.
type UseCase struct {
	txRunner invapp.TxRunner
	sales    repository.SaleRepository
	ledger   *invapp.Ledger
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. sales se usa para lecturas fuera de transacción.
func NewUseCase(txRunner invapp.TxRunner, sales repository.SaleRepository, ledger *invapp.Ledger, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner: txRunner,
		sales:    sales,
		ledger:   ledger,
		log:      log.Named("sales"),
		now:      time.Now,
	}
}

// Create inserta cabecera y líneas y escribe una salida sale (-cantidad) por línea, todo en una transacción.
func (uc *UseCase) Create(ctx context.Context, actor identity.Actor, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 || in.DiscountAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	paymentType := in.PaymentType
	if paymentType == "" {
		paymentType = entity.PaymentCash
	}
	if !entity.IsValidPaymentType(paymentType) {
		return nil, domain.ErrInvalidInput
	}
	if err := validateLines(in.Items); err != nil {
		return nil, err
	}

	now := uc.now()
	sale := &entity.SaleMaster{
		CustomerID:     in.CustomerID,
		PaymentType:    paymentType,
		SaleDate:       now,
		DiscountAmount: in.DiscountAmount,
		CreatedBy:      actor.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.SaleDate != nil {
		sale.SaleDate = *in.SaleDate
	}

	var entries []*entity.StockTransaction
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		details, err := buildDetails(ctx, repos, in.Items, actor.UserID, now)
		if err != nil {
			return err
		}
		qty, amount, err := totals(details)
		if err != nil {
			return err
		}
		sale.TotalQuantity = qty
		sale.TotalAmount = amount.Sub(in.DiscountAmount)
		if in.TotalQuantity != nil {
			sale.TotalQuantity = *in.TotalQuantity
		}
		if in.TotalAmount != nil {
			sale.TotalAmount = *in.TotalAmount
		}

		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		for _, d := range details {
			d.SaleMasterID = sale.ID
		}
		if err := repos.Sales.CreateDetails(ctx, details); err != nil {
			return err
		}
		entries = make([]*entity.StockTransaction, 0, len(details))
		for _, d := range details {
			entries = append(entries, invapp.SaleEntry(d.ItemID, d.Quantity, sale.ID, actor.UserID))
		}
		return uc.ledger.Append(ctx, repos, entries)
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Invalidate(ctx, entries)

	uc.log.Info().
		Int64("sale_id", sale.ID).
		Int("ledger_entries", len(entries)).
		Int64("actor_id", actor.UserID).
		Msg("venta creada")
	resp := toSaleResponse(sale)
	return &resp, nil
}

// GetByID cabecera con sus líneas; ErrNotFound si no existe.
func (uc *UseCase) GetByID(ctx context.Context, id int64) (*dto.SaleWithItemsResponse, error) {
	return loadSale(ctx, uc.sales, id)
}

// GetAll todas las cabeceras.
func (uc *UseCase) GetAll(ctx context.Context) ([]dto.SaleResponse, error) {
	list, err := uc.sales.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSaleResponse(s))
	}
	return out, nil
}

// Update parchea la cabecera y, si vienen líneas, las reemplaza por completo.
// El ledger no se toca: las salidas de la venta original se conservan.
func (uc *UseCase) Update(ctx context.Context, actor identity.Actor, id int64, in dto.UpdateSaleRequest) (*dto.SaleWithItemsResponse, error) {
	if in.Items != nil {
		if len(in.Items) == 0 {
			return nil, domain.ErrInvalidInput
		}
		if err := validateLines(in.Items); err != nil {
			return nil, err
		}
	}
	if in.Sale != nil {
		if err := validatePatch(*in.Sale); err != nil {
			return nil, err
		}
	}

	var out *dto.SaleWithItemsResponse
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		sale, err := repos.Sales.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		now := uc.now()

		var details []*entity.SaleDetail
		if in.Items != nil {
			details, err = buildDetails(ctx, repos, in.Items, actor.UserID, now)
			if err != nil {
				return err
			}
			for _, d := range details {
				d.SaleMasterID = id
				d.UpdatedBy = &actor.UserID
			}
			if err := repos.Sales.DeleteDetails(ctx, id); err != nil {
				return err
			}
			if err := repos.Sales.CreateDetails(ctx, details); err != nil {
				return err
			}
		}

		if in.Sale != nil || in.Items != nil {
			var patch entity.SalePatch
			if in.Sale != nil {
				patch = toPatch(*in.Sale)
				patch.Apply(sale)
			}
			// con líneas nuevas los totales se recalculan salvo que vengan explícitos
			if details != nil {
				qty, amount, err := totals(details)
				if err != nil {
					return err
				}
				if patch.TotalQuantity == nil {
					sale.TotalQuantity = qty
				}
				if patch.TotalAmount == nil {
					sale.TotalAmount = amount.Sub(sale.DiscountAmount)
				}
			}
			sale.UpdatedBy = &actor.UserID
			sale.UpdatedAt = now
			if err := repos.Sales.Update(ctx, sale); err != nil {
				return err
			}
		}

		out, err = loadSale(ctx, repos.Sales, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Int64("sale_id", id).
		Bool("lines_replaced", in.Items != nil).
		Int64("actor_id", actor.UserID).
		Msg("venta actualizada")
	return out, nil
}

// Delete elimina la venta con sus líneas y devoluciones. El ledger no se revierte.
func (uc *UseCase) Delete(ctx context.Context, actor identity.Actor, id int64) error {
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		sale, err := repos.Sales.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		return repos.Sales.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int64("sale_id", id).Int64("actor_id", actor.UserID).Msg("venta eliminada")
	return nil
}

func validateLines(items []dto.SaleLineRequest) error {
	for _, it := range items {
		if it.ItemID <= 0 || it.Quantity <= 0 || it.UnitPrice.IsNegative() {
			return domain.ErrInvalidInput
		}
		if it.AvgCost != nil && it.AvgCost.IsNegative() {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

func validatePatch(p dto.SalePatchRequest) error {
	if p.PaymentType != nil && !entity.IsValidPaymentType(*p.PaymentType) {
		return domain.ErrInvalidInput
	}
	if p.DiscountAmount != nil && p.DiscountAmount.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}

// buildDetails valida artículos y captura el costo promedio vigente de cada línea
// (item_stock.avg_cost, o el costo de catálogo si aún no hay promedio).
func buildDetails(ctx context.Context, repos repository.TxRepos, items []dto.SaleLineRequest, actorID int64, now time.Time) ([]*entity.SaleDetail, error) {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ItemID)
	}
	catalog, err := repos.Items.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*entity.SaleDetail, 0, len(items))
	for _, it := range items {
		item, ok := catalog[it.ItemID]
		if !ok {
			return nil, fmt.Errorf("artículo %d: %w", it.ItemID, domain.ErrNotFound)
		}
		d := &entity.SaleDetail{
			ItemID:    it.ItemID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Amount:    inventory.LineAmount(it.Quantity, it.UnitPrice),
			CreatedBy: actorID,
			CreatedAt: now,
		}
		if it.Amount != nil {
			d.Amount = *it.Amount
		}
		if it.AvgCost != nil {
			d.AvgCost = *it.AvgCost
		} else {
			stock, err := repos.Stock.Get(ctx, it.ItemID)
			if err != nil {
				return nil, err
			}
			d.AvgCost = stock.AvgCost
			if d.AvgCost.IsZero() {
				d.AvgCost = item.Cost
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func totals(details []*entity.SaleDetail) (int64, decimal.Decimal, error) {
	var qty int64
	amount := decimal.Zero
	for _, d := range details {
		next, err := inventory.AddQuantity(qty, d.Quantity)
		if err != nil {
			return 0, decimal.Zero, err
		}
		qty = next
		amount = amount.Add(d.Amount)
	}
	return qty, amount, nil
}

func loadSale(ctx context.Context, sales repository.SaleRepository, id int64) (*dto.SaleWithItemsResponse, error) {
	sale, err := sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	details, err := sales.ListDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSaleWithItems(sale, details), nil
}
