package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invapp "github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/purchasing"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/identity"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/pos-ledger/internal/interfaces/http"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

const (
	adminID  int64 = 1
	cashier  int64 = 2
	itemRice int64 = 100
)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Code   string          `json:"code"`
}

// buildAPI monta el router completo sobre el almacén en memoria.
func buildAPI(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	low := int64(5)
	store.AddItem(entity.Item{ID: itemRice, Name: "Arroz 1kg", SKU: "ARR-1", Price: decimal.NewFromInt(5), Cost: decimal.NewFromInt(3), TrackStock: true, LowStock: &low, AvailableForSale: true})
	store.SetPermissions(adminID, identity.AllPermissions())
	store.SetPermissions(cashier, []string{identity.PermCreateSale, identity.PermViewSale})

	repos := store.Repos()
	log := logger.Nop()
	ledger := invapp.NewLedger(nil, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		PurchaseOrderUC: purchasing.NewUseCase(store, repos.Orders, ledger, log),
		SaleUC:          sales.NewUseCase(store, repos.Sales, ledger, log),
		SaleReturnUC:    sales.NewReturnUseCase(store, repos.Returns, ledger, log),
		ItemUC:          invapp.NewItemUseCase(repos.Items, repos.Stock),
		StockUC:         invapp.NewStockUseCase(repos.Items, repos.Stock, repos.Ledger, nil, log),
		AdjustmentUC:    invapp.NewAdjustmentUseCase(store, ledger, log),
		ReplenishmentUC: invapp.NewReplenishmentUseCase(repos.Items, repos.Stock),
		Signer:          testSigner(t),
		Permissions:     store.Permissions(),
		Logger:          log,
	})
	return app, store
}

func call(t *testing.T, app *fiber.App, userID int64, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		req.Header.Set("Authorization", bearer(t, userID))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

func stockOf(t *testing.T, app *fiber.App, itemID int64) int64 {
	t.Helper()
	status, env := call(t, app, adminID, http.MethodGet, "/api/stock/items/100", nil)
	require.Equal(t, http.StatusOK, status)
	var level struct {
		ItemID   int64 `json:"item_id"`
		Quantity int64 `json:"quantity"`
	}
	decode(t, env.Data, &level)
	require.Equal(t, itemID, level.ItemID)
	return level.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo: compra → venta → devolución → conciliación
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_FlujoCompraVentaDevolucion(t *testing.T) {
	app, _ := buildAPI(t)

	status, env := call(t, app, adminID, http.MethodPost, "/api/purchase-orders", fiber.Map{
		"order_number":      "PO-1",
		"supplier_id":       9,
		"destination_store": 1,
		"items": []fiber.Map{
			{"item_id": itemRice, "quantity": 10, "unit_cost": "20"},
			{"item_id": itemRice, "quantity": 10, "unit_cost": "30"},
		},
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "success", env.Status)
	var created struct {
		PurchaseOrderID int64 `json:"purchase_order_id"`
	}
	decode(t, env.Data, &created)
	require.NotZero(t, created.PurchaseOrderID)

	// las dos líneas del mismo artículo se fusionan en una sola a costo promedio
	status, env = call(t, app, adminID, http.MethodGet, "/api/purchase-orders/"+itoa(created.PurchaseOrderID), nil)
	require.Equal(t, http.StatusOK, status)
	var order struct {
		Status string `json:"status"`
		Items  []struct {
			Quantity int64           `json:"quantity"`
			UnitCost decimal.Decimal `json:"unit_cost"`
		} `json:"items"`
	}
	decode(t, env.Data, &order)
	assert.Equal(t, entity.POStatusDraft, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(20), order.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(25).Equal(order.Items[0].UnitCost))
	assert.Equal(t, int64(20), stockOf(t, app, itemRice))

	status, env = call(t, app, cashier, http.MethodPost, "/api/sales", fiber.Map{
		"payment_type":    "cash",
		"discount_amount": "0",
		"items":           []fiber.Map{{"item_id": itemRice, "quantity": 7, "unit_price": "5"}},
	})
	require.Equal(t, http.StatusCreated, status)
	var sale struct {
		ID int64 `json:"id"`
	}
	decode(t, env.Data, &sale)
	assert.Equal(t, int64(13), stockOf(t, app, itemRice))

	status, env = call(t, app, cashier, http.MethodGet, "/api/sales/"+itoa(sale.ID), nil)
	require.Equal(t, http.StatusOK, status)
	var withItems struct {
		Items []struct {
			ID      int64           `json:"id"`
			AvgCost decimal.Decimal `json:"avg_cost"`
		} `json:"items"`
	}
	decode(t, env.Data, &withItems)
	require.Len(t, withItems.Items, 1)
	assert.True(t, decimal.NewFromInt(25).Equal(withItems.Items[0].AvgCost))
	detailID := withItems.Items[0].ID

	status, _ = call(t, app, adminID, http.MethodPost, "/api/sale-returns", fiber.Map{
		"sale_details_id": detailID,
		"return_quantity": 2,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, int64(15), stockOf(t, app, itemRice))

	// 2 + 6 > 7 vendidas
	status, env = call(t, app, adminID, http.MethodPost, "/api/sale-returns", fiber.Map{
		"sale_details_id": detailID,
		"return_quantity": 6,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "RETURN_EXCEEDS_SOLD", env.Code)

	status, env = call(t, app, adminID, http.MethodGet, "/api/sale-returns/by-detail/"+itoa(detailID), nil)
	require.Equal(t, http.StatusOK, status)
	var returns []struct {
		ReturnQuantity int64 `json:"return_quantity"`
	}
	decode(t, env.Data, &returns)
	require.Len(t, returns, 1)
	assert.Equal(t, int64(2), returns[0].ReturnQuantity)

	status, env = call(t, app, adminID, http.MethodGet, "/api/stock/items/100/reconcile", nil)
	require.Equal(t, http.StatusOK, status)
	var rec struct {
		LedgerQuantity int64 `json:"ledger_quantity"`
		InSync         bool  `json:"in_sync"`
	}
	decode(t, env.Data, &rec)
	assert.Equal(t, int64(15), rec.LedgerQuantity)
	assert.True(t, rec.InSync)

	status, env = call(t, app, adminID, http.MethodGet, "/api/stock/items/100/ledger?limit=10", nil)
	require.Equal(t, http.StatusOK, status)
	var rows []struct {
		Kind     string `json:"kind"`
		Quantity int64  `json:"quantity"`
	}
	decode(t, env.Data, &rows)
	require.Len(t, rows, 3)
	assert.Equal(t, entity.StockTxSalesReturn, rows[0].Kind)
	assert.Equal(t, int64(-7), rows[1].Quantity)
	assert.Equal(t, entity.StockTxPurchase, rows[2].Kind)
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización y mapeo de errores
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_HealthPublico(t *testing.T) {
	app, _ := buildAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_SinToken_Retorna401(t *testing.T) {
	app, _ := buildAPI(t)
	status, _ := call(t, app, 0, http.MethodGet, "/api/purchase-orders", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRouter_CajeroNoCreaOrdenes(t *testing.T) {
	app, store := buildAPI(t)
	status, env := call(t, app, cashier, http.MethodPost, "/api/purchase-orders", fiber.Map{
		"order_number": "PO-2",
		"supplier_id":  1,
		"items":        []fiber.Map{{"item_id": itemRice, "quantity": 1, "unit_cost": "1"}},
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", env.Code)
	assert.Zero(t, store.Counts().Orders)
}

func TestRouter_OrdenInexistente_Retorna404(t *testing.T) {
	app, _ := buildAPI(t)
	status, env := call(t, app, adminID, http.MethodGet, "/api/purchase-orders/999", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Code)

	status, _ = call(t, app, adminID, http.MethodDelete, "/api/sales/999", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRouter_IDInvalido_Retorna400(t *testing.T) {
	app, _ := buildAPI(t)
	status, env := call(t, app, adminID, http.MethodGet, "/api/sales/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", env.Code)
}

func TestRouter_ArticuloInexistenteEnOrden_Retorna404(t *testing.T) {
	app, store := buildAPI(t)
	status, _ := call(t, app, adminID, http.MethodPost, "/api/purchase-orders", fiber.Map{
		"order_number": "PO-3",
		"supplier_id":  1,
		"items":        []fiber.Map{{"item_id": 555, "quantity": 1, "unit_cost": "1"}},
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Zero(t, store.Counts().Ledger)
}

func TestRouter_TransicionHaciaAtras_Retorna409(t *testing.T) {
	app, _ := buildAPI(t)
	status, env := call(t, app, adminID, http.MethodPost, "/api/purchase-orders", fiber.Map{
		"order_number": "PO-4",
		"supplier_id":  1,
		"status":       entity.POStatusPending,
		"items":        []fiber.Map{{"item_id": itemRice, "quantity": 1, "unit_cost": "1"}},
	})
	require.Equal(t, http.StatusCreated, status)
	var created struct {
		PurchaseOrderID int64 `json:"purchase_order_id"`
	}
	decode(t, env.Data, &created)

	status, env = call(t, app, adminID, http.MethodPut, "/api/purchase-orders/"+itoa(created.PurchaseOrderID), fiber.Map{
		"order": fiber.Map{"status": entity.POStatusDraft},
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", env.Code)
}

func TestRouter_AjusteYReposicion(t *testing.T) {
	app, _ := buildAPI(t)
	status, env := call(t, app, adminID, http.MethodPost, "/api/stock/adjustments", fiber.Map{
		"item_id":  itemRice,
		"kind":     entity.StockTxAdjustment,
		"quantity": 3,
		"note":     "conteo físico",
	})
	require.Equal(t, http.StatusCreated, status)
	var tx struct {
		Quantity int64  `json:"quantity"`
		BatchID  string `json:"batch_id"`
	}
	decode(t, env.Data, &tx)
	assert.Equal(t, int64(3), tx.Quantity)
	assert.NotEmpty(t, tx.BatchID)

	status, env = call(t, app, adminID, http.MethodGet, "/api/stock/replenishment-list", nil)
	require.Equal(t, http.StatusOK, status)
	var list []struct {
		ItemID       int64 `json:"item_id"`
		SuggestedQty int64 `json:"suggested_order_qty"`
	}
	decode(t, env.Data, &list)
	require.Len(t, list, 1)
	assert.Equal(t, itemRice, list[0].ItemID)
	assert.Equal(t, int64(7), list[0].SuggestedQty)

	status, _ = call(t, app, adminID, http.MethodPost, "/api/stock/adjustments", fiber.Map{
		"item_id":  itemRice,
		"kind":     "robo",
		"quantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRouter_ErrorDeAlmacen_Retorna500(t *testing.T) {
	app, store := buildAPI(t)
	store.FailOn("purchase_orders.create", errors.New("disco lleno"))

	status, env := call(t, app, adminID, http.MethodPost, "/api/purchase-orders", fiber.Map{
		"order_number": "PO-5",
		"supplier_id":  1,
		"items":        []fiber.Map{{"item_id": itemRice, "quantity": 1, "unit_cost": "1"}},
	})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", env.Code)
	assert.Zero(t, store.Counts().Ledger)
}

func TestRouter_ListarArticulos(t *testing.T) {
	app, _ := buildAPI(t)
	status, env := call(t, app, adminID, http.MethodGet, "/api/items", nil)
	require.Equal(t, http.StatusOK, status)
	var items []struct {
		ID    int64 `json:"id"`
		Stock int64 `json:"stock"`
	}
	decode(t, env.Data, &items)
	require.Len(t, items, 1)
	assert.Equal(t, itemRice, items[0].ID)
	assert.Zero(t, items[0].Stock)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
