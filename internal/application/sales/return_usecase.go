package sales

import (
	"context"
	"math"
	"time"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	invapp "github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/identity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// ReturnUseCase devoluciones de venta.
type ReturnUseCase struct {
	txRunner invapp.TxRunner
	returns  repository.SaleReturnRepository
	ledger   *invapp.Ledger
	log      *logger.Logger
	now      func() time.Time
}

// NewReturnUseCase construye el caso de uso.
func NewReturnUseCase(txRunner invapp.TxRunner, returns repository.SaleReturnRepository, ledger *invapp.Ledger, log *logger.Logger) *ReturnUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReturnUseCase{
		txRunner: txRunner,
		returns:  returns,
		ledger:   ledger,
		log:      log.Named("sale_returns"),
		now:      time.Now,
	}
}

// Create registra la devolución y una entrada sales_return (+|cantidad|) para el artículo de la línea.
// El total devuelto de una línea nunca supera lo vendido.
func (uc *ReturnUseCase) Create(ctx context.Context, actor identity.Actor, in dto.CreateSaleReturnRequest) (*dto.SaleReturnResponse, error) {
	if in.SaleDetailsID <= 0 || in.ReturnQuantity == 0 {
		return nil, domain.ErrInvalidInput
	}
	// -MinInt64 no cabe en int64
	if in.ReturnQuantity == math.MinInt64 {
		return nil, domain.ErrInvalidInput
	}
	qty := in.ReturnQuantity
	if qty < 0 {
		qty = -qty
	}

	ret := &entity.SaleReturn{
		SaleDetailID:   in.SaleDetailsID,
		ReturnQuantity: qty,
		CreatedBy:      actor.UserID,
		CreatedAt:      uc.now(),
	}
	var entries []*entity.StockTransaction
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		detail, err := repos.Sales.GetDetailForUpdate(ctx, in.SaleDetailsID)
		if err != nil {
			return err
		}
		if detail == nil {
			return domain.ErrNotFound
		}
		returned, err := repos.Returns.SumBySaleDetail(ctx, detail.ID)
		if err != nil {
			return err
		}
		if qty > detail.Quantity-returned {
			return domain.ErrReturnExceedsSold
		}
		if err := repos.Returns.Create(ctx, ret); err != nil {
			return err
		}
		entries = []*entity.StockTransaction{invapp.SalesReturnEntry(detail, qty, ret.ID, actor.UserID)}
		return uc.ledger.Append(ctx, repos, entries)
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Invalidate(ctx, entries)

	uc.log.Info().
		Int64("sale_return_id", ret.ID).
		Int64("sale_details_id", ret.SaleDetailID).
		Int64("quantity", qty).
		Int64("actor_id", actor.UserID).
		Msg("devolución registrada")
	resp := toReturnResponse(ret)
	return &resp, nil
}

// ListBySaleDetail devoluciones de una línea de venta.
func (uc *ReturnUseCase) ListBySaleDetail(ctx context.Context, saleDetailsID int64) ([]dto.SaleReturnResponse, error) {
	list, err := uc.returns.ListBySaleDetail(ctx, saleDetailsID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleReturnResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toReturnResponse(r))
	}
	return out, nil
}

// Delete elimina solo la fila de devolución; la entrada del ledger se conserva.
func (uc *ReturnUseCase) Delete(ctx context.Context, actor identity.Actor, id int64) error {
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		ret, err := repos.Returns.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if ret == nil {
			return domain.ErrNotFound
		}
		return repos.Returns.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int64("sale_return_id", id).Int64("actor_id", actor.UserID).Msg("devolución eliminada")
	return nil
}
