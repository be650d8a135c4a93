package inventory

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// ReconcileReport compara la existencia según el ledger con el modelo de lectura.
type ReconcileReport struct {
	ItemID         int64
	LedgerQuantity int64
	StockQuantity  int64
	Drift          int64
}

// InSync indica si ledger y modelo de lectura coinciden.
func (r ReconcileReport) InSync() bool { return r.Drift == 0 }

// StockUseCase consultas de existencias y del ledger.
type StockUseCase struct {
	items  repository.ItemRepository
	stock  repository.ItemStockRepository
	ledger repository.StockTransactionRepository
	cache  StockCache
	log    *logger.Logger
}

// NewStockUseCase construye el caso de uso. cache puede ser nil.
func NewStockUseCase(
	items repository.ItemRepository,
	stock repository.ItemStockRepository,
	ledger repository.StockTransactionRepository,
	cache StockCache,
	log *logger.Logger,
) *StockUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &StockUseCase{items: items, stock: stock, ledger: ledger, cache: cache, log: log.Named("stock")}
}

// Levels lista todas las existencias materializadas.
func (uc *StockUseCase) Levels(ctx context.Context) ([]*entity.ItemStock, error) {
	levels, err := uc.stock.List(ctx)
	if err != nil {
		return nil, err
	}
	if levels == nil {
		levels = []*entity.ItemStock{}
	}
	return levels, nil
}

// Level existencia de un artículo, pasando por la caché si está configurada.
// Cache-aside: una lectura que cruce un commit puede dejar un valor viejo hasta que venza el TTL.
func (uc *StockUseCase) Level(ctx context.Context, itemID int64) (*entity.ItemStock, error) {
	if uc.cache != nil {
		s, ok, err := uc.cache.Get(ctx, itemID)
		if err != nil {
			uc.log.Warn().Err(err).Int64("item_id", itemID).Msg("lectura de caché fallida")
		} else if ok {
			return s, nil
		}
	}
	if err := uc.requireItem(ctx, itemID); err != nil {
		return nil, err
	}
	s, err := uc.stock.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, s); err != nil {
			uc.log.Warn().Err(err).Int64("item_id", itemID).Msg("escritura de caché fallida")
		}
	}
	return s, nil
}

// ItemLedger movimientos de un artículo, más recientes primero.
func (uc *StockUseCase) ItemLedger(ctx context.Context, itemID int64, limit, offset int) ([]*entity.StockTransaction, error) {
	if err := uc.requireItem(ctx, itemID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := uc.ledger.ListByItem(ctx, itemID, limit, offset)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*entity.StockTransaction{}
	}
	return rows, nil
}

// Reconcile calcula la diferencia entre SUM(delta) del ledger y item_stock.
func (uc *StockUseCase) Reconcile(ctx context.Context, itemID int64) (*ReconcileReport, error) {
	if err := uc.requireItem(ctx, itemID); err != nil {
		return nil, err
	}
	sum, err := uc.ledger.SumByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	s, err := uc.stock.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	rep := &ReconcileReport{
		ItemID:         itemID,
		LedgerQuantity: sum,
		StockQuantity:  s.Quantity,
		Drift:          s.Quantity - sum,
	}
	if !rep.InSync() {
		uc.log.Warn().Int64("item_id", itemID).Int64("drift", rep.Drift).Msg("existencia desalineada con el ledger")
	}
	return rep, nil
}

func (uc *StockUseCase) requireItem(ctx context.Context, itemID int64) error {
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return nil
}
