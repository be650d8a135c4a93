// Package purchasing orquesta órdenes de compra: cabecera, líneas, costos adicionales y entradas al ledger.
package purchasing

import (
	"context"
	"fmt"
	"strings"
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

// UseCase casos de uso de órdenes de compra.
type UseCase struct {
	txRunner invapp.TxRunner
	orders   repository.PurchaseOrderRepository
	ledger   *invapp.Ledger
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. orders se usa para lecturas fuera de transacción.
func NewUseCase(txRunner invapp.TxRunner, orders repository.PurchaseOrderRepository, ledger *invapp.Ledger, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner: txRunner,
		orders:   orders,
		ledger:   ledger,
		log:      log.Named("purchasing"),
		now:      time.Now,
	}
}

// Create normaliza las líneas y, en una sola transacción, inserta cabecera, líneas,
// costos adicionales y una entrada purchase (+cantidad) por línea normalizada.
func (uc *UseCase) Create(ctx context.Context, actor identity.Actor, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderCreatedResponse, error) {
	if strings.TrimSpace(in.OrderNumber) == "" || in.SupplierID <= 0 || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	status := entity.POStatusDraft
	if in.Status != "" {
		if !entity.IsValidPOStatus(in.Status) {
			return nil, domain.ErrInvalidInput
		}
		status = in.Status
	}
	candidates, err := toCandidates(in.Items)
	if err != nil {
		return nil, err
	}
	costs, err := toAdditionalCosts(in.AdditionalCosts)
	if err != nil {
		return nil, err
	}
	lines, err := inventory.NormalizeLines(candidates)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	order := &entity.PurchaseOrder{
		OrderNumber:      strings.TrimSpace(in.OrderNumber),
		OrderedBy:        actor.UserID,
		SupplierID:       in.SupplierID,
		OrderDate:        now,
		ExpectedDate:     in.ExpectedDate,
		DestinationStore: in.DestinationStore,
		Status:           status,
		Received:         entity.DefaultReceived,
		Notes:            in.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if in.OrderedBy != nil {
		order.OrderedBy = *in.OrderedBy
	}
	if in.OrderDate != nil {
		order.OrderDate = *in.OrderDate
	}
	if in.Received != "" {
		order.Received = in.Received
	}

	var entries []*entity.StockTransaction
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		if err := requireItems(ctx, repos.Items, lines); err != nil {
			return err
		}
		if err := repos.Orders.Create(ctx, order); err != nil {
			return err
		}
		if err := repos.Orders.CreateLines(ctx, toLines(order.ID, lines)); err != nil {
			return err
		}
		if len(costs) > 0 {
			if err := repos.Orders.CreateAdditionalCosts(ctx, bindCosts(order.ID, costs)); err != nil {
				return err
			}
		}
		entries = make([]*entity.StockTransaction, 0, len(lines))
		for _, l := range lines {
			entries = append(entries, invapp.PurchaseEntry(l.ItemID, l.Quantity, l.UnitCost, order.ID, actor.UserID))
		}
		return uc.ledger.Append(ctx, repos, entries)
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Invalidate(ctx, entries)

	uc.log.Info().
		Int64("purchase_order_id", order.ID).
		Int("ledger_entries", len(entries)).
		Int64("actor_id", actor.UserID).
		Msg("orden de compra creada")
	return &dto.PurchaseOrderCreatedResponse{PurchaseOrderID: order.ID}, nil
}

// GetByID cabecera con líneas y costos adicionales.
func (uc *UseCase) GetByID(ctx context.Context, id int64) (*dto.PurchaseOrderDetailResponse, error) {
	return loadAggregate(ctx, uc.orders, id)
}

// GetAll todas las cabeceras; lista vacía si no hay órdenes.
func (uc *UseCase) GetAll(ctx context.Context) ([]dto.PurchaseOrderResponse, error) {
	orders, err := uc.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out, nil
}

// Update parchea la cabecera y reemplaza líneas y/o costos si vienen.
// No escribe ni revierte movimientos del ledger.
func (uc *UseCase) Update(ctx context.Context, actor identity.Actor, id int64, in dto.UpdatePurchaseOrderRequest) (*dto.PurchaseOrderDetailResponse, error) {
	var (
		lines []inventory.CandidateLine
		costs []*entity.AdditionalCost
	)
	if in.Items != nil {
		if len(in.Items) == 0 {
			return nil, domain.ErrInvalidInput
		}
		candidates, err := toCandidates(in.Items)
		if err != nil {
			return nil, err
		}
		lines, err = inventory.NormalizeLines(candidates)
		if err != nil {
			return nil, err
		}
	}
	if in.AdditionalCosts != nil {
		c, err := toAdditionalCosts(in.AdditionalCosts)
		if err != nil {
			return nil, err
		}
		costs = c
	}

	var out *dto.PurchaseOrderDetailResponse
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		order, err := repos.Orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}

		if in.Order != nil {
			patch := toPatch(*in.Order)
			if err := checkPatch(order, patch); err != nil {
				return err
			}
			if !patch.IsEmpty() {
				patch.Apply(order)
				order.UpdatedAt = uc.now()
				if err := repos.Orders.Update(ctx, order); err != nil {
					return err
				}
			}
		}

		if lines != nil {
			if err := requireItems(ctx, repos.Items, lines); err != nil {
				return err
			}
			if err := repos.Orders.DeleteLines(ctx, id); err != nil {
				return err
			}
			if err := repos.Orders.CreateLines(ctx, toLines(id, lines)); err != nil {
				return err
			}
		}

		if in.AdditionalCosts != nil {
			if err := repos.Orders.DeleteAdditionalCosts(ctx, id); err != nil {
				return err
			}
			if len(costs) > 0 {
				if err := repos.Orders.CreateAdditionalCosts(ctx, bindCosts(id, costs)); err != nil {
					return err
				}
			}
		}

		out, err = loadAggregate(ctx, repos.Orders, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int64("purchase_order_id", id).
		Bool("lines_replaced", lines != nil).
		Bool("costs_replaced", in.AdditionalCosts != nil).
		Int64("actor_id", actor.UserID).
		Msg("orden de compra actualizada")
	return out, nil
}

// Delete elimina la orden con sus líneas y costos. Los movimientos ya escritos se conservan.
func (uc *UseCase) Delete(ctx context.Context, actor identity.Actor, id int64) error {
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		order, err := repos.Orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		return repos.Orders.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int64("purchase_order_id", id).Int64("actor_id", actor.UserID).Msg("orden de compra eliminada")
	return nil
}

func checkPatch(order *entity.PurchaseOrder, p entity.PurchaseOrderPatch) error {
	if p.OrderNumber != nil && strings.TrimSpace(*p.OrderNumber) == "" {
		return domain.ErrInvalidInput
	}
	if p.SupplierID != nil && *p.SupplierID <= 0 {
		return domain.ErrInvalidInput
	}
	if p.Status != nil {
		if !entity.IsValidPOStatus(*p.Status) {
			return domain.ErrInvalidInput
		}
		if !entity.CanTransitionPO(order.Status, *p.Status) {
			return fmt.Errorf("%s → %s: %w", order.Status, *p.Status, domain.ErrInvalidStatusTransition)
		}
	}
	return nil
}

func requireItems(ctx context.Context, items repository.ItemRepository, lines []inventory.CandidateLine) error {
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemID)
	}
	found, err := items.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return fmt.Errorf("artículo %d: %w", id, domain.ErrNotFound)
		}
	}
	return nil
}

func loadAggregate(ctx context.Context, orders repository.PurchaseOrderRepository, id int64) (*dto.PurchaseOrderDetailResponse, error) {
	order, err := orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := orders.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	costs, err := orders.ListAdditionalCosts(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDetailResponse(order, lines, costs), nil
}

func toCandidates(items []dto.PurchaseOrderLineRequest) ([]inventory.CandidateLine, error) {
	out := make([]inventory.CandidateLine, 0, len(items))
	for _, it := range items {
		if it.ItemID <= 0 || it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		c := inventory.CandidateLine{ItemID: it.ItemID, Quantity: it.Quantity}
		if it.UnitCost != nil {
			if it.UnitCost.IsNegative() {
				return nil, domain.ErrInvalidInput
			}
			c.UnitCost = decimal.NewNullDecimal(*it.UnitCost)
		}
		switch {
		case it.Amount != nil:
			c.Amount = *it.Amount
		case c.UnitCost.Valid:
			c.Amount = inventory.LineAmount(c.Quantity, c.UnitCost.Decimal)
		}
		out = append(out, c)
	}
	return out, nil
}

func toAdditionalCosts(in []dto.AdditionalCostRequest) ([]*entity.AdditionalCost, error) {
	out := make([]*entity.AdditionalCost, 0, len(in))
	for _, c := range in {
		if strings.TrimSpace(c.Name) == "" || c.Amount.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		out = append(out, &entity.AdditionalCost{Name: strings.TrimSpace(c.Name), Amount: c.Amount})
	}
	return out, nil
}
