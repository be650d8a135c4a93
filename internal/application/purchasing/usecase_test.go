package purchasing_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	invapp "github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/purchasing"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/identity"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

var actor = identity.NewActor(10, "compras", nil)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func setup(t *testing.T) (*memory.Store, *purchasing.UseCase) {
	t.Helper()
	store := memory.NewStore()
	store.AddItem(entity.Item{ID: 1, Name: "Arroz", Cost: decimal.NewFromInt(3), TrackStock: true})
	store.AddItem(entity.Item{ID: 2, Name: "Frijol", Cost: decimal.NewFromInt(4), TrackStock: true})
	ledger := invapp.NewLedger(nil, logger.Nop())
	return store, purchasing.NewUseCase(store, store.Repos().Orders, ledger, logger.Nop())
}

func createReq(items ...dto.PurchaseOrderLineRequest) dto.CreatePurchaseOrderRequest {
	return dto.CreatePurchaseOrderRequest{
		OrderNumber:      "PO-0001",
		SupplierID:       3,
		DestinationStore: 1,
		Items:            items,
	}
}

func TestCreate_EscribeEntradaPurchasePorLinea(t *testing.T) {
	store, uc := setup(t)
	ctx := context.Background()

	res, err := uc.Create(ctx, actor, createReq(dto.PurchaseOrderLineRequest{ItemID: 1, Quantity: 7, UnitCost: dec("2.50")}))
	require.NoError(t, err)
	require.NotZero(t, res.PurchaseOrderID)

	rows, err := store.Repos().Ledger.ListByPurchaseOrder(ctx, res.PurchaseOrderID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.StockTxPurchase, rows[0].Kind)
	assert.Equal(t, int64(7), rows[0].Quantity)
	assert.Equal(t, int64(1), rows[0].ItemID)
	assert.Equal(t, actor.UserID, rows[0].CreatedBy)
	assert.NotEmpty(t, rows[0].BatchID)
	require.True(t, rows[0].UnitCost.Valid)
	assert.True(t, decimal.RequireFromString("2.5").Equal(rows[0].UnitCost.Decimal))

	stock, err := store.Repos().Stock.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stock.Quantity)
	assert.True(t, decimal.RequireFromString("2.5").Equal(stock.AvgCost))
}

func TestCreate_NormalizaLineasRepetidas(t *testing.T) {
	store, uc := setup(t)
	ctx := context.Background()

	res, err := uc.Create(ctx, actor, createReq(
		dto.PurchaseOrderLineRequest{ItemID: 1, Quantity: 5, UnitCost: dec("10")},
		dto.PurchaseOrderLineRequest{ItemID: 2, Quantity: 1, UnitCost: dec("4")},
		dto.PurchaseOrderLineRequest{ItemID: 1, Quantity: 5, UnitCost: dec("10")},
		dto.PurchaseOrderLineRequest{ItemID: 1, Quantity: 10, UnitCost: dec("40")},
	))
	require.NoError(t, err)

	po, err := uc.GetByID(ctx, res.PurchaseOrderID)
	require.NoError(t, err)
	require.Len(t, po.Items, 2)
	assert.Equal(t, int64(1), po.Items[0].ItemID)
	assert.Equal(t, int64(20), po.Items[0].Quantity)
	require.NotNil(t, po.Items[0].UnitCost)
	assert.True(t, decimal.NewFromInt(25).Equal(*po.Items[0].UnitCost))
	assert.True(t, decimal.NewFromInt(500).Equal(po.Items[0].Amount))
	assert.Equal(t, int64(2), po.Items[1].ItemID)

	rows, err := store.Repos().Ledger.ListByPurchaseOrder(ctx, res.PurchaseOrderID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, rows[0].BatchID, rows[1].BatchID)
}

func TestCreate_ValoresPorDefecto(t *testing.T) {
	_, uc := setup(t)
	ctx := context.Background()

	res, err := uc.Create(ctx, actor, createReq(dto.PurchaseOrderLineRequest{ItemID: 1, Quantity: 1}))
	require.NoError(t, err)

	po, err := uc.GetByID(ctx, res.PurchaseOrderID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusDraft, po.Status)
	assert.Equal(t, entity.DefaultReceived, po.Received)
	assert.Equal(t, actor.UserID, po.OrderedBy)
	assert.False(t, po.OrderDate.IsZero())
	assert.Nil(t, po.Items[0].UnitCost)
	assert.Empty(t, po.AdditionalCosts)
}

func TestCreate_EntradaInvalida(t *testing.T) {
	_, uc := setup(t)
	ctx := context.Background()

	badStatus := createReq(dto.PurchaseOrderLineRequest{ItemID: 1, Quantity: 1})
	badStatus.Status = "Shipped"

	cases := map[string]dto.CreatePurchaseOrderRequest{
		"sin líneas":         createReq(),
		"sin proveedor":      {OrderNumber: "X", Items: []dto.PurchaseOrderLineRequest{{ItemID: 1, Quantity: 1}}},
		"sin número":         {SupplierID: 1, Items: []dto.PurchaseOrderLineRequest{{ItemID: 1, Quantity: 1}}},
		"cantidad cero":      createReq(dto.PurchaseOrderLineRequest{ItemID: 1, Quantity: 0}),
		"costo negativo":     createReq(dto.PurchaseOrderLineRequest{ItemID: 1, Quantity: 1, UnitCost: dec("-1")}),
		"estado inexistente": badStatus,
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(ctx, actor, req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreate_ArticuloInexistente(t *testing.T) {
	store, uc := setup(t)

	_, err := uc.Create(context.Background(), actor, createReq(dto.PurchaseOrderLineRequest{ItemID: 99, Quantity: 1}))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, memory.Counts{}, store.Counts())
}

func TestCreate_FusionQueDesbordaSeRechaza(t *testing.T) {
	store, uc := setup(t)
	half := int64(math.MaxInt64/2 + 1)

	_, err := uc.Create(context.Background(), actor, createReq(
		dto.PurchaseOrderLineRequest{ItemID: 1, Quantity: half, UnitCost: dec("1")},
		dto.PurchaseOrderLineRequest{ItemID: 1, Quantity: half, UnitCost: dec("1")},
	))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, memory.Counts{}, store.Counts())
}

func TestCreate_FalloEnLedgerRevierteTodo(t *testing.T) {
	store, uc := setup(t)
	boom := errors.New("ledger no disponible")
	store.FailOn("store_transactions.create", boom)

	req := createReq(
		dto.PurchaseOrderLineRequest{ItemID: 1, Quantity: 3, UnitCost: dec("1")},
		dto.PurchaseOrderLineRequest{ItemID: 2, Quantity: 4, UnitCost: dec("2")},
	)
	req.AdditionalCosts = []dto.AdditionalCostRequest{{Name: "flete", Amount: decimal.NewFromInt(10)}}

	_, err := uc.Create(context.Background(), actor, req)
	require.ErrorIs(t, err, boom)

	assert.Equal(t, memory.Counts{}, store.Counts())
	stock, err := store.Repos().Stock.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stock.Quantity)
}

func TestUpdate_NoDuplicaEntradasDelLedger(t *testing.T) {
	store, uc := setup(t)
	ctx := context.Background()

	lines := []dto.PurchaseOrderLineRequest{
		{ItemID: 1, Quantity: 7, UnitCost: dec("2")},
		{ItemID: 2, Quantity: 1, UnitCost: dec("4")},
	}
	res, err := uc.Create(ctx, actor, createReq(lines...))
	require.NoError(t, err)
	before := store.Counts().Ledger

	for i := 0; i < 3; i++ {
		out, err := uc.Update(ctx, actor, res.PurchaseOrderID, dto.UpdatePurchaseOrderRequest{Items: lines})
		require.NoError(t, err)
		assert.Len(t, out.Items, 2)
	}

	assert.Equal(t, before, store.Counts().Ledger)
	assert.Equal(t, 2, store.Counts().Lines)
	stock, err := store.Repos().Stock.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stock.Quantity)
}

func TestUpdate_ParcheYReemplazoDeCostos(t *testing.T) {
	_, uc := setup(t)
	ctx := context.Background()

	req := createReq(dto.PurchaseOrderLineRequest{ItemID: 1, Quantity: 2, UnitCost: dec("1")})
	req.AdditionalCosts = []dto.AdditionalCostRequest{{Name: "flete", Amount: decimal.NewFromInt(10)}}
	res, err := uc.Create(ctx, actor, req)
	require.NoError(t, err)

	status := entity.POStatusPending
	notes := "llamar antes"
	out, err := uc.Update(ctx, actor, res.PurchaseOrderID, dto.UpdatePurchaseOrderRequest{
		Order:           &dto.PurchaseOrderPatchRequest{Status: &status, Notes: &notes},
		AdditionalCosts: []dto.AdditionalCostRequest{{Name: "arancel", Amount: decimal.NewFromInt(3)}, {Name: "seguro", Amount: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusPending, out.Status)
	assert.Equal(t, "llamar antes", out.Notes)
	assert.Equal(t, "PO-0001", out.OrderNumber)
	require.Len(t, out.AdditionalCosts, 2)
	assert.Equal(t, "arancel", out.AdditionalCosts[0].Name)
	require.Len(t, out.Items, 1)

	// lista vacía de costos los elimina
	out, err = uc.Update(ctx, actor, res.PurchaseOrderID, dto.UpdatePurchaseOrderRequest{AdditionalCosts: []dto.AdditionalCostRequest{}})
	require.NoError(t, err)
	assert.Empty(t, out.AdditionalCosts)
}

func TestUpdate_TransicionDeEstado(t *testing.T) {
	_, uc := setup(t)
	ctx := context.Background()

	res, err := uc.Create(ctx, actor, createReq(dto.PurchaseOrderLineRequest{ItemID: 1, Quantity: 1}))
	require.NoError(t, err)
	id := res.PurchaseOrderID

	closed := entity.POStatusClosed
	_, err = uc.Update(ctx, actor, id, dto.UpdatePurchaseOrderRequest{Order: &dto.PurchaseOrderPatchRequest{Status: &closed}})
	require.NoError(t, err)

	draft := entity.POStatusDraft
	_, err = uc.Update(ctx, actor, id, dto.UpdatePurchaseOrderRequest{Order: &dto.PurchaseOrderPatchRequest{Status: &draft}})
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	bogus := "Lost"
	_, err = uc.Update(ctx, actor, id, dto.UpdatePurchaseOrderRequest{Order: &dto.PurchaseOrderPatchRequest{Status: &bogus}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	po, err := uc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusClosed, po.Status)
}

func TestUpdate_OrdenInexistente(t *testing.T) {
	store, uc := setup(t)

	_, err := uc.Update(context.Background(), actor, 42, dto.UpdatePurchaseOrderRequest{
		Items: []dto.PurchaseOrderLineRequest{{ItemID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, memory.Counts{}, store.Counts())
}

func TestDelete_EnCascadaSinTocarLedger(t *testing.T) {
	store, uc := setup(t)
	ctx := context.Background()

	req := createReq(
		dto.PurchaseOrderLineRequest{ItemID: 1, Quantity: 2, UnitCost: dec("1")},
		dto.PurchaseOrderLineRequest{ItemID: 2, Quantity: 3, UnitCost: dec("1")},
	)
	req.AdditionalCosts = []dto.AdditionalCostRequest{{Name: "flete", Amount: decimal.NewFromInt(10)}}
	res, err := uc.Create(ctx, actor, req)
	require.NoError(t, err)

	c := store.Counts()
	require.Equal(t, 2, c.Lines)
	require.Equal(t, 1, c.AdditionalCosts)

	require.NoError(t, uc.Delete(ctx, actor, res.PurchaseOrderID))

	c = store.Counts()
	assert.Equal(t, 0, c.Orders)
	assert.Equal(t, 0, c.Lines)
	assert.Equal(t, 0, c.AdditionalCosts)
	assert.Equal(t, 2, c.Ledger)

	_, err = uc.GetByID(ctx, res.PurchaseOrderID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = uc.Delete(ctx, actor, res.PurchaseOrderID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetAll_VacioDevuelveListaVacia(t *testing.T) {
	_, uc := setup(t)

	list, err := uc.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
