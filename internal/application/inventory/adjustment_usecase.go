package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/identity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// AdjustmentInput movimiento manual: adjustment, wastage o purchase_return.
type AdjustmentInput struct {
	ItemID   int64
	Kind     string
	Quantity int64
	UnitCost decimal.NullDecimal
	Note     string
}

// AdjustmentUseCase registra movimientos que no nacen de órdenes ni ventas.
type AdjustmentUseCase struct {
	txRunner TxRunner
	ledger   *Ledger
	log      *logger.Logger
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(txRunner TxRunner, ledger *Ledger, log *logger.Logger) *AdjustmentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AdjustmentUseCase{txRunner: txRunner, ledger: ledger, log: log.Named("adjustment")}
}

// Record valida el artículo y escribe un único movimiento en el ledger.
func (uc *AdjustmentUseCase) Record(ctx context.Context, actor identity.Actor, in AdjustmentInput) (*entity.StockTransaction, error) {
	if in.ItemID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost.Valid && in.UnitCost.Decimal.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	entry, err := AdjustmentEntry(in.ItemID, in.Kind, in.Quantity, in.UnitCost, in.Note, actor.UserID)
	if err != nil {
		return nil, err
	}

	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		item, err := repos.Items.GetByID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		return uc.ledger.Append(ctx, repos, []*entity.StockTransaction{entry})
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Invalidate(ctx, []*entity.StockTransaction{entry})

	uc.log.Info().
		Int64("item_id", entry.ItemID).
		Str("kind", entry.Kind).
		Int64("delta", entry.Quantity).
		Int64("actor_id", actor.UserID).
		Msg("movimiento manual registrado")
	return entry, nil
}
