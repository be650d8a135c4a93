package sales_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

func soldDetail(t *testing.T, f fixture, qty int64) int64 {
	t.Helper()
	sale, err := f.sales.Create(context.Background(), cashier, saleReq(dto.SaleLineRequest{ItemID: 1, Quantity: qty, UnitPrice: decimal.NewFromInt(5)}))
	require.NoError(t, err)
	full, err := f.sales.GetByID(context.Background(), sale.ID)
	require.NoError(t, err)
	return full.Items[0].ID
}

func TestReturn_NoSuperaLoVendido(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	detailID := soldDetail(t, f, 5)

	_, err := f.returns.Create(ctx, cashier, dto.CreateSaleReturnRequest{SaleDetailsID: detailID, ReturnQuantity: 3})
	require.NoError(t, err)
	_, err = f.returns.Create(ctx, cashier, dto.CreateSaleReturnRequest{SaleDetailsID: detailID, ReturnQuantity: 2})
	require.NoError(t, err)

	ledgerBefore := f.store.Counts().Ledger
	_, err = f.returns.Create(ctx, cashier, dto.CreateSaleReturnRequest{SaleDetailsID: detailID, ReturnQuantity: 1})
	assert.ErrorIs(t, err, domain.ErrReturnExceedsSold)
	assert.Equal(t, ledgerBefore, f.store.Counts().Ledger)
	assert.Equal(t, 2, f.store.Counts().Returns)
}

func TestReturn_CantidadesExtremasNoDesbordanElLimite(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	detailID := soldDetail(t, f, 5)

	_, err := f.returns.Create(ctx, cashier, dto.CreateSaleReturnRequest{SaleDetailsID: detailID, ReturnQuantity: 1})
	require.NoError(t, err)
	before := f.store.Counts()

	_, err = f.returns.Create(ctx, cashier, dto.CreateSaleReturnRequest{SaleDetailsID: detailID, ReturnQuantity: math.MaxInt64})
	assert.ErrorIs(t, err, domain.ErrReturnExceedsSold)
	_, err = f.returns.Create(ctx, cashier, dto.CreateSaleReturnRequest{SaleDetailsID: detailID, ReturnQuantity: -math.MaxInt64})
	assert.ErrorIs(t, err, domain.ErrReturnExceedsSold)
	_, err = f.returns.Create(ctx, cashier, dto.CreateSaleReturnRequest{SaleDetailsID: detailID, ReturnQuantity: math.MinInt64})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, before, f.store.Counts())

	st, err := f.store.Repos().Stock.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(-4), st.Quantity)

	rows, err := f.store.Repos().Ledger.ListByItem(ctx, 1, 0, 0)
	require.NoError(t, err)
	for _, r := range rows {
		if r.Kind == entity.StockTxSalesReturn {
			assert.Positive(t, r.Quantity)
		}
	}
}

func TestReturn_LeeLaLineaConBloqueo(t *testing.T) {
	f := setup(t)
	detailID := soldDetail(t, f, 2)
	boom := errors.New("lock timeout")
	f.store.FailOn("sale_details.get_for_update", boom)

	_, err := f.returns.Create(context.Background(), cashier, dto.CreateSaleReturnRequest{SaleDetailsID: detailID, ReturnQuantity: 1})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, f.store.Counts().Returns)
}

func TestReturn_CantidadNegativaSeTomaEnValorAbsoluto(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	detailID := soldDetail(t, f, 4)

	ret, err := f.returns.Create(ctx, cashier, dto.CreateSaleReturnRequest{SaleDetailsID: detailID, ReturnQuantity: -2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), ret.ReturnQuantity)

	rows, err := f.store.Repos().Ledger.ListByItem(ctx, 1, 1, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.StockTxSalesReturn, rows[0].Kind)
	assert.Equal(t, int64(2), rows[0].Quantity)
	require.NotNil(t, rows[0].SaleReturnID)
	assert.Equal(t, ret.ID, *rows[0].SaleReturnID)
}

func TestReturn_EntradaInvalidaYDetalleInexistente(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.returns.Create(ctx, cashier, dto.CreateSaleReturnRequest{SaleDetailsID: 1, ReturnQuantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.returns.Create(ctx, cashier, dto.CreateSaleReturnRequest{SaleDetailsID: 999, ReturnQuantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReturn_ListarYEliminarConservaLedger(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	detailID := soldDetail(t, f, 3)

	ret, err := f.returns.Create(ctx, cashier, dto.CreateSaleReturnRequest{SaleDetailsID: detailID, ReturnQuantity: 1})
	require.NoError(t, err)

	list, err := f.returns.ListBySaleDetail(ctx, detailID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ret.ID, list[0].ID)

	ledgerBefore := f.store.Counts().Ledger
	require.NoError(t, f.returns.Delete(ctx, cashier, ret.ID))
	assert.Equal(t, ledgerBefore, f.store.Counts().Ledger)

	list, err = f.returns.ListBySaleDetail(ctx, detailID)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, f.returns.Delete(ctx, cashier, ret.ID), domain.ErrNotFound)
}
