package inventory_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invapp "github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/identity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

var clerk = identity.NewActor(30, "bodega", nil)

type fakeCache struct {
	data        map[int64]entity.ItemStock
	invalidated []int64
	failGet     error
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[int64]entity.ItemStock{}} }

func (c *fakeCache) Get(_ context.Context, itemID int64) (*entity.ItemStock, bool, error) {
	if c.failGet != nil {
		return nil, false, c.failGet
	}
	s, ok := c.data[itemID]
	if !ok {
		return nil, false, nil
	}
	return &s, true, nil
}

func (c *fakeCache) Set(_ context.Context, s *entity.ItemStock) error {
	c.data[s.ItemID] = *s
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, ids ...int64) error {
	for _, id := range ids {
		delete(c.data, id)
		c.invalidated = append(c.invalidated, id)
	}
	return nil
}

func newStore() *memory.Store {
	s := memory.NewStore()
	low := int64(5)
	s.AddItem(entity.Item{ID: 1, Name: "Arroz", SKU: "ARZ", Cost: decimal.NewFromInt(3), TrackStock: true, LowStock: &low})
	s.AddItem(entity.Item{ID: 2, Name: "Frijol", SKU: "FRJ", Cost: decimal.NewFromInt(4), TrackStock: true, LowStock: &low})
	s.AddItem(entity.Item{ID: 3, Name: "Servicio", TrackStock: false})
	return s
}

func appendEntries(t *testing.T, s *memory.Store, l *invapp.Ledger, entries ...*entity.StockTransaction) {
	t.Helper()
	require.NoError(t, s.Run(context.Background(), func(r repository.TxRepos) error {
		return l.Append(context.Background(), r, entries)
	}))
}

func cost(v string) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.RequireFromString(v)) }

func TestLedgerAppend_ActualizaExistenciaYCostoPromedio(t *testing.T) {
	s := newStore()
	l := invapp.NewLedger(nil, logger.Nop())

	appendEntries(t, s, l,
		invapp.PurchaseEntry(1, 10, cost("10"), 1, clerk.UserID),
		invapp.PurchaseEntry(1, 10, cost("40"), 1, clerk.UserID),
	)
	appendEntries(t, s, l, invapp.SaleEntry(1, 4, 1, clerk.UserID))

	st, err := s.Repos().Stock.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(16), st.Quantity)
	assert.True(t, decimal.NewFromInt(25).Equal(st.AvgCost), "la salida no cambia el promedio")

	rows, err := s.Repos().Ledger.ListByItem(context.Background(), 1, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, rows[1].BatchID, rows[2].BatchID)
	assert.NotEqual(t, rows[0].BatchID, rows[1].BatchID)
}

func TestLedgerAppend_TipoInvalidoRevierte(t *testing.T) {
	s := newStore()
	l := invapp.NewLedger(nil, logger.Nop())

	err := s.Run(context.Background(), func(r repository.TxRepos) error {
		return l.Append(context.Background(), r, []*entity.StockTransaction{
			invapp.PurchaseEntry(1, 1, cost("1"), 1, 1),
			{ItemID: 1, Kind: "teleport", Quantity: 1},
		})
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, s.Counts().Ledger)
}

type lockRecorder struct {
	repository.ItemStockRepository
	locked []int64
}

func (r *lockRecorder) GetForUpdate(ctx context.Context, itemID int64) (*entity.ItemStock, error) {
	r.locked = append(r.locked, itemID)
	return r.ItemStockRepository.GetForUpdate(ctx, itemID)
}

func TestLedgerAppend_BloqueaEnOrdenDeArticulo(t *testing.T) {
	s := newStore()
	l := invapp.NewLedger(nil, logger.Nop())
	appendEntries(t, s, l,
		invapp.PurchaseEntry(1, 10, cost("1"), 1, 1),
		invapp.PurchaseEntry(2, 10, cost("1"), 1, 1),
	)

	var rec *lockRecorder
	require.NoError(t, s.Run(context.Background(), func(r repository.TxRepos) error {
		rec = &lockRecorder{ItemStockRepository: r.Stock}
		r.Stock = rec
		return l.Append(context.Background(), r, []*entity.StockTransaction{
			invapp.SaleEntry(2, 1, 7, 1),
			invapp.SaleEntry(1, 1, 7, 1),
			invapp.SaleEntry(2, 2, 7, 1),
		})
	}))
	assert.Equal(t, []int64{1, 2}, rec.locked)

	st, err := s.Repos().Stock.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(7), st.Quantity)

	rows, err := s.Repos().Ledger.ListByItem(context.Background(), 2, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(-2), rows[0].Quantity)
	assert.Equal(t, int64(-1), rows[1].Quantity)
}

func TestLedgerAppend_SignoContrarioAlTipoRevierte(t *testing.T) {
	tests := []struct {
		name  string
		entry *entity.StockTransaction
	}{
		{"compra negativa", &entity.StockTransaction{ItemID: 1, Kind: entity.StockTxPurchase, Quantity: -1}},
		{"devolución negativa", &entity.StockTransaction{ItemID: 1, Kind: entity.StockTxSalesReturn, Quantity: math.MinInt64}},
		{"venta positiva", &entity.StockTransaction{ItemID: 1, Kind: entity.StockTxSale, Quantity: 3}},
		{"merma positiva", &entity.StockTransaction{ItemID: 1, Kind: entity.StockTxWastage, Quantity: 1}},
		{"ajuste cero", &entity.StockTransaction{ItemID: 1, Kind: entity.StockTxAdjustment}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore()
			l := invapp.NewLedger(nil, logger.Nop())
			err := s.Run(context.Background(), func(r repository.TxRepos) error {
				return l.Append(context.Background(), r, []*entity.StockTransaction{
					invapp.PurchaseEntry(1, 1, cost("1"), 1, 1),
					tt.entry,
				})
			})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Equal(t, 0, s.Counts().Ledger)
		})
	}
}

func TestLedgerAppend_DesbordeDeExistenciaRevierte(t *testing.T) {
	s := newStore()
	l := invapp.NewLedger(nil, logger.Nop())
	appendEntries(t, s, l, invapp.PurchaseEntry(1, math.MaxInt64, cost("1"), 1, 1))

	err := s.Run(context.Background(), func(r repository.TxRepos) error {
		return l.Append(context.Background(), r, []*entity.StockTransaction{
			invapp.PurchaseEntry(1, 1, cost("1"), 2, 1),
		})
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1, s.Counts().Ledger)

	st, err := s.Repos().Stock.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), st.Quantity)
}

func TestAdjustmentEntry_Signos(t *testing.T) {
	tests := []struct {
		kind string
		qty  int64
		want int64
	}{
		{entity.StockTxAdjustment, 5, 5},
		{entity.StockTxAdjustment, -5, -5},
		{entity.StockTxWastage, 3, -3},
		{entity.StockTxWastage, -3, -3},
		{entity.StockTxPurchaseReturn, 2, -2},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			e, err := invapp.AdjustmentEntry(1, tt.kind, tt.qty, decimal.NullDecimal{}, "", 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Quantity)
		})
	}

	_, err := invapp.AdjustmentEntry(1, entity.StockTxAdjustment, 0, decimal.NullDecimal{}, "", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = invapp.AdjustmentEntry(1, entity.StockTxSale, 1, decimal.NullDecimal{}, "", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = invapp.AdjustmentEntry(1, entity.StockTxWastage, math.MinInt64, decimal.NullDecimal{}, "", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjustmentUseCase_RecordInvalidaCache(t *testing.T) {
	s := newStore()
	cache := newFakeCache()
	l := invapp.NewLedger(cache, logger.Nop())
	uc := invapp.NewAdjustmentUseCase(s, l, logger.Nop())
	ctx := context.Background()

	cache.data[1] = entity.ItemStock{ItemID: 1, Quantity: 999}

	e, err := uc.Record(ctx, clerk, invapp.AdjustmentInput{ItemID: 1, Kind: entity.StockTxWastage, Quantity: 2, Note: "vencido"})
	require.NoError(t, err)
	assert.Equal(t, int64(-2), e.Quantity)
	assert.Equal(t, "vencido", e.Note)
	assert.Equal(t, clerk.UserID, e.CreatedBy)
	assert.Equal(t, []int64{1}, cache.invalidated)
	_, cached := cache.data[1]
	assert.False(t, cached)

	_, err = uc.Record(ctx, clerk, invapp.AdjustmentInput{ItemID: 404, Kind: entity.StockTxAdjustment, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, s.Counts().Ledger)
}

func TestAdjustmentUseCase_FalloNoInvalida(t *testing.T) {
	s := newStore()
	cache := newFakeCache()
	uc := invapp.NewAdjustmentUseCase(s, invapp.NewLedger(cache, logger.Nop()), logger.Nop())
	s.FailOn("item_stock.upsert", errors.New("sin espacio"))

	_, err := uc.Record(context.Background(), clerk, invapp.AdjustmentInput{ItemID: 1, Kind: entity.StockTxAdjustment, Quantity: 4})
	assert.Error(t, err)
	assert.Empty(t, cache.invalidated)
	assert.Equal(t, 0, s.Counts().Ledger)
}

func TestStockUseCase_LevelUsaCache(t *testing.T) {
	s := newStore()
	cache := newFakeCache()
	l := invapp.NewLedger(cache, logger.Nop())
	r := s.Repos()
	uc := invapp.NewStockUseCase(r.Items, r.Stock, r.Ledger, cache, logger.Nop())
	ctx := context.Background()

	appendEntries(t, s, l, invapp.PurchaseEntry(1, 8, cost("2"), 1, 1))

	lvl, err := uc.Level(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(8), lvl.Quantity)
	assert.Contains(t, cache.data, int64(1))

	// un valor en caché se devuelve sin ir al repositorio
	cache.data[1] = entity.ItemStock{ItemID: 1, Quantity: 123}
	lvl, err = uc.Level(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(123), lvl.Quantity)

	// si la caché falla se lee del repositorio
	cache.failGet = errors.New("redis caído")
	lvl, err = uc.Level(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(8), lvl.Quantity)

	cache.failGet = nil
	_, err = uc.Level(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockUseCase_LevelsLedgerYReconcile(t *testing.T) {
	s := newStore()
	l := invapp.NewLedger(nil, logger.Nop())
	r := s.Repos()
	uc := invapp.NewStockUseCase(r.Items, r.Stock, r.Ledger, nil, logger.Nop())
	ctx := context.Background()

	levels, err := uc.Levels(ctx)
	require.NoError(t, err)
	assert.NotNil(t, levels)
	assert.Empty(t, levels)

	appendEntries(t, s, l,
		invapp.PurchaseEntry(1, 5, cost("1"), 1, 1),
		invapp.PurchaseEntry(2, 3, cost("1"), 1, 1),
	)
	appendEntries(t, s, l, invapp.SaleEntry(1, 2, 1, 1))

	levels, err = uc.Levels(ctx)
	require.NoError(t, err)
	assert.Len(t, levels, 2)

	rows, err := uc.ItemLedger(ctx, 1, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(-2), rows[0].Quantity)

	rep, err := uc.Reconcile(ctx, 1)
	require.NoError(t, err)
	assert.True(t, rep.InSync())
	assert.Equal(t, int64(3), rep.LedgerQuantity)

	// desalineación forzada del modelo de lectura
	require.NoError(t, r.Stock.Upsert(ctx, &entity.ItemStock{ItemID: 1, Quantity: 10}))
	rep, err = uc.Reconcile(ctx, 1)
	require.NoError(t, err)
	assert.False(t, rep.InSync())
	assert.Equal(t, int64(7), rep.Drift)

	_, err = uc.ItemLedger(ctx, 404, 10, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemUseCase(t *testing.T) {
	s := newStore()
	l := invapp.NewLedger(nil, logger.Nop())
	r := s.Repos()
	uc := invapp.NewItemUseCase(r.Items, r.Stock)
	ctx := context.Background()

	appendEntries(t, s, l, invapp.PurchaseEntry(2, 4, cost("3.5"), 1, 1))

	it, err := uc.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Frijol", it.Item.Name)
	assert.Equal(t, int64(4), it.Stock.Quantity)

	_, err = uc.GetByID(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, int64(0), list[0].Stock.Quantity)
	assert.Equal(t, int64(4), list[1].Stock.Quantity)
}

func TestReplenishment_OrdenaPorFaltante(t *testing.T) {
	s := newStore()
	l := invapp.NewLedger(nil, logger.Nop())
	r := s.Repos()
	uc := invapp.NewReplenishmentUseCase(r.Items, r.Stock)

	appendEntries(t, s, l,
		invapp.PurchaseEntry(1, 4, cost("1"), 1, 1),
		invapp.PurchaseEntry(2, 1, cost("1"), 1, 1),
	)

	list, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ItemID)
	assert.Equal(t, int64(9), list[0].SuggestedQty)
	assert.Equal(t, int64(1), list[1].ItemID)
	assert.Equal(t, int64(6), list[1].SuggestedQty)

	appendEntries(t, s, l, invapp.PurchaseEntry(1, 10, cost("1"), 1, 1))
	list, err = uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].ItemID)
}
