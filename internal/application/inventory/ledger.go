package inventory

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// Ledger agrega movimientos al ledger y mantiene item_stock en la misma transacción.
// Es el único escritor del modelo de lectura de existencias.
type Ledger struct {
	cache StockCache
	log   *logger.Logger
	now   func() time.Time
}

// NewLedger construye el ledger. cache puede ser nil.
func NewLedger(cache StockCache, log *logger.Logger) *Ledger {
	if log == nil {
		log = logger.Nop()
	}
	return &Ledger{cache: cache, log: log.Named("ledger"), now: time.Now}
}

// PurchaseEntry entrada por orden de compra: delta = +quantity.
func PurchaseEntry(itemID, quantity int64, unitCost decimal.NullDecimal, orderID, actorID int64) *entity.StockTransaction {
	return &entity.StockTransaction{
		ItemID:          itemID,
		Kind:            entity.StockTxPurchase,
		Quantity:        quantity,
		UnitCost:        unitCost,
		PurchaseOrderID: &orderID,
		CreatedBy:       actorID,
	}
}

// SaleEntry salida por venta: delta = -quantity.
func SaleEntry(itemID, quantity int64, saleID, actorID int64) *entity.StockTransaction {
	return &entity.StockTransaction{
		ItemID:       itemID,
		Kind:         entity.StockTxSale,
		Quantity:     -quantity,
		SaleMasterID: &saleID,
		CreatedBy:    actorID,
	}
}

// SalesReturnEntry entrada por devolución: delta = +|quantity|, al costo capturado en la venta.
func SalesReturnEntry(detail *entity.SaleDetail, quantity, returnID, actorID int64) *entity.StockTransaction {
	saleID := detail.SaleMasterID
	return &entity.StockTransaction{
		ItemID:       detail.ItemID,
		Kind:         entity.StockTxSalesReturn,
		Quantity:     abs(quantity),
		UnitCost:     decimal.NewNullDecimal(detail.AvgCost),
		SaleMasterID: &saleID,
		SaleReturnID: &returnID,
		CreatedBy:    actorID,
	}
}

// AdjustmentEntry ajuste, merma o devolución a proveedor. Solo adjustment conserva el signo.
func AdjustmentEntry(itemID int64, kind string, quantity int64, unitCost decimal.NullDecimal, note string, actorID int64) (*entity.StockTransaction, error) {
	if quantity == 0 || quantity == math.MinInt64 {
		return nil, domain.ErrInvalidInput
	}
	switch kind {
	case entity.StockTxAdjustment:
	case entity.StockTxWastage, entity.StockTxPurchaseReturn:
		quantity = -abs(quantity)
	default:
		return nil, domain.ErrInvalidInput
	}
	return &entity.StockTransaction{
		ItemID:    itemID,
		Kind:      kind,
		Quantity:  quantity,
		UnitCost:  unitCost,
		Note:      note,
		CreatedBy: actorID,
	}, nil
}

// Append inserta los movimientos como un lote y actualiza existencias y costo promedio.
// Debe llamarse dentro de TxRunner.Run con los repos de esa transacción.
// Las filas de item_stock se bloquean en orden de item_id; los movimientos se insertan
// en el orden recibido.
func (l *Ledger) Append(ctx context.Context, repos repository.TxRepos, entries []*entity.StockTransaction) error {
	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		if err := checkSign(e); err != nil {
			return err
		}
	}

	// Bloquea las existencias antes de escribir para evitar carreras e interbloqueos entre lotes
	stocks := make(map[int64]*entity.ItemStock, len(entries))
	for _, id := range lockOrder(entries) {
		stock, err := repos.Stock.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("bloquear existencia: %w", err)
		}
		stocks[id] = stock
	}

	batchID := uuid.New().String()
	now := l.now()
	for _, e := range entries {
		stock := stocks[e.ItemID]
		qty, err := inventory.AddQuantity(stock.Quantity, e.Quantity)
		if err != nil {
			return fmt.Errorf("existencia del artículo %d: %w", e.ItemID, err)
		}
		if e.Quantity > 0 && e.UnitCost.Valid {
			stock.AvgCost = inventory.NextAverageCost(stock.Quantity, stock.AvgCost, e.Quantity, e.UnitCost.Decimal)
		}
		stock.Quantity = qty
		stock.UpdatedAt = now

		e.BatchID = batchID
		e.CreatedAt = now
		if err := repos.Ledger.Create(ctx, e); err != nil {
			return fmt.Errorf("insertar movimiento: %w", err)
		}
	}

	for _, id := range lockOrder(entries) {
		if err := repos.Stock.Upsert(ctx, stocks[id]); err != nil {
			return fmt.Errorf("actualizar existencia: %w", err)
		}
	}
	return nil
}

// checkSign valida tipo y signo: purchase y sales_return entran, sale, wastage y
// purchase_return salen, adjustment admite ambos. Ninguno es cero.
func checkSign(e *entity.StockTransaction) error {
	var ok bool
	switch e.Kind {
	case entity.StockTxPurchase, entity.StockTxSalesReturn:
		ok = e.Quantity > 0
	case entity.StockTxSale, entity.StockTxWastage, entity.StockTxPurchaseReturn:
		ok = e.Quantity < 0
	case entity.StockTxAdjustment:
		ok = e.Quantity != 0
	default:
		return fmt.Errorf("tipo de movimiento %q: %w", e.Kind, domain.ErrInvalidInput)
	}
	if !ok {
		return fmt.Errorf("cantidad %d para %s: %w", e.Quantity, e.Kind, domain.ErrInvalidInput)
	}
	return nil
}

// lockOrder artículos distintos del lote, ascendentes.
func lockOrder(entries []*entity.StockTransaction) []int64 {
	seen := make(map[int64]struct{}, len(entries))
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.ItemID]; ok {
			continue
		}
		seen[e.ItemID] = struct{}{}
		ids = append(ids, e.ItemID)
	}
	slices.Sort(ids)
	return ids
}

// Invalidate limpia la caché tras el commit. Un fallo aquí no revierte nada: solo se registra.
func (l *Ledger) Invalidate(ctx context.Context, entries []*entity.StockTransaction) {
	if l.cache == nil || len(entries) == 0 {
		return
	}
	ids := make([]int64, 0, len(entries))
	seen := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.ItemID]; ok {
			continue
		}
		seen[e.ItemID] = struct{}{}
		ids = append(ids, e.ItemID)
	}
	if err := l.cache.Invalidate(ctx, ids...); err != nil {
		l.log.Warn().Err(err).Ints64("item_ids", ids).Msg("no se pudo invalidar la caché de existencias")
	}
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
