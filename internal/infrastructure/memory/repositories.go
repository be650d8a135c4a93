package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var (
	_ repository.ItemRepository             = (*itemRepo)(nil)
	_ repository.ItemStockRepository        = (*stockRepo)(nil)
	_ repository.PurchaseOrderRepository    = (*orderRepo)(nil)
	_ repository.SaleRepository             = (*saleRepo)(nil)
	_ repository.SaleReturnRepository       = (*returnRepo)(nil)
	_ repository.StockTransactionRepository = (*ledgerRepo)(nil)
	_ repository.PermissionRepository       = (*permissionRepo)(nil)
)

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return rows[:0]
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

// --- items ---

type itemRepo struct{ b binding }

func (r *itemRepo) GetByID(_ context.Context, id int64) (*entity.Item, error) {
	var out *entity.Item
	err := r.b.read("items.get", func(st *state) error {
		if it, ok := st.items[id]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *itemRepo) GetByIDs(_ context.Context, ids []int64) (map[int64]*entity.Item, error) {
	out := make(map[int64]*entity.Item, len(ids))
	err := r.b.read("items.get", func(st *state) error {
		for _, id := range ids {
			if it, ok := st.items[id]; ok {
				out[id] = &it
			}
		}
		return nil
	})
	return out, err
}

func (r *itemRepo) List(_ context.Context, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	err := r.b.read("items.list", func(st *state) error {
		for _, id := range sortedKeys(st.items) {
			it := st.items[id]
			out = append(out, &it)
		}
		return nil
	})
	return page(out, limit, offset), err
}

// --- item_stock ---

type stockRepo struct{ b binding }

func (r *stockRepo) get(op string, itemID int64) (*entity.ItemStock, error) {
	var out entity.ItemStock
	err := r.b.read(op, func(st *state) error {
		if s, ok := st.stock[itemID]; ok {
			out = s
		} else {
			out = entity.ItemStock{ItemID: itemID}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *stockRepo) Get(_ context.Context, itemID int64) (*entity.ItemStock, error) {
	return r.get("item_stock.get", itemID)
}

// GetForUpdate no necesita bloqueo adicional: las transacciones ya se serializan.
func (r *stockRepo) GetForUpdate(_ context.Context, itemID int64) (*entity.ItemStock, error) {
	return r.get("item_stock.get_for_update", itemID)
}

func (r *stockRepo) Upsert(_ context.Context, s *entity.ItemStock) error {
	return r.b.write("item_stock.upsert", func(st *state) error {
		st.stock[s.ItemID] = *s
		return nil
	})
}

func (r *stockRepo) List(_ context.Context) ([]*entity.ItemStock, error) {
	var out []*entity.ItemStock
	err := r.b.read("item_stock.list", func(st *state) error {
		for _, id := range sortedKeys(st.stock) {
			s := st.stock[id]
			out = append(out, &s)
		}
		return nil
	})
	return out, err
}

// --- purchase orders ---

type orderRepo struct{ b binding }

func (r *orderRepo) Create(_ context.Context, o *entity.PurchaseOrder) error {
	return r.b.write("purchase_orders.create", func(st *state) error {
		o.ID = st.next("purchase_orders")
		st.orders[o.ID] = *o
		return nil
	})
}

func (r *orderRepo) GetByID(_ context.Context, id int64) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.b.read("purchase_orders.get", func(st *state) error {
		if o, ok := st.orders[id]; ok {
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) List(_ context.Context) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	err := r.b.read("purchase_orders.list", func(st *state) error {
		for _, id := range sortedKeys(st.orders) {
			o := st.orders[id]
			out = append(out, &o)
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) Update(_ context.Context, o *entity.PurchaseOrder) error {
	return r.b.write("purchase_orders.update", func(st *state) error {
		if _, ok := st.orders[o.ID]; ok {
			st.orders[o.ID] = *o
		}
		return nil
	})
}

func (r *orderRepo) Delete(_ context.Context, id int64) error {
	return r.b.write("purchase_orders.delete", func(st *state) error {
		delete(st.orders, id)
		for lid, l := range st.lines {
			if l.PurchaseOrderID == id {
				delete(st.lines, lid)
			}
		}
		for cid, c := range st.costs {
			if c.PurchaseOrderID == id {
				delete(st.costs, cid)
			}
		}
		return nil
	})
}

func (r *orderRepo) CreateLines(_ context.Context, lines []*entity.PurchaseOrderLine) error {
	return r.b.write("purchase_order_lines.create", func(st *state) error {
		for _, l := range lines {
			l.ID = st.next("purchase_order_lines")
			st.lines[l.ID] = *l
		}
		return nil
	})
}

func (r *orderRepo) ListLines(_ context.Context, orderID int64) ([]*entity.PurchaseOrderLine, error) {
	var out []*entity.PurchaseOrderLine
	err := r.b.read("purchase_order_lines.list", func(st *state) error {
		for _, id := range sortedKeys(st.lines) {
			if l := st.lines[id]; l.PurchaseOrderID == orderID {
				out = append(out, &l)
			}
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) DeleteLines(_ context.Context, orderID int64) error {
	return r.b.write("purchase_order_lines.delete", func(st *state) error {
		for id, l := range st.lines {
			if l.PurchaseOrderID == orderID {
				delete(st.lines, id)
			}
		}
		return nil
	})
}

func (r *orderRepo) CreateAdditionalCosts(_ context.Context, costs []*entity.AdditionalCost) error {
	return r.b.write("additional_costs.create", func(st *state) error {
		for _, c := range costs {
			c.ID = st.next("additional_costs")
			st.costs[c.ID] = *c
		}
		return nil
	})
}

func (r *orderRepo) ListAdditionalCosts(_ context.Context, orderID int64) ([]*entity.AdditionalCost, error) {
	var out []*entity.AdditionalCost
	err := r.b.read("additional_costs.list", func(st *state) error {
		for _, id := range sortedKeys(st.costs) {
			if c := st.costs[id]; c.PurchaseOrderID == orderID {
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) DeleteAdditionalCosts(_ context.Context, orderID int64) error {
	return r.b.write("additional_costs.delete", func(st *state) error {
		for id, c := range st.costs {
			if c.PurchaseOrderID == orderID {
				delete(st.costs, id)
			}
		}
		return nil
	})
}

// --- sales ---

type saleRepo struct{ b binding }

func (r *saleRepo) Create(_ context.Context, s *entity.SaleMaster) error {
	return r.b.write("sales.create", func(st *state) error {
		s.ID = st.next("sales")
		st.sales[s.ID] = *s
		return nil
	})
}

func (r *saleRepo) GetByID(_ context.Context, id int64) (*entity.SaleMaster, error) {
	var out *entity.SaleMaster
	err := r.b.read("sales.get", func(st *state) error {
		if s, ok := st.sales[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *saleRepo) List(_ context.Context) ([]*entity.SaleMaster, error) {
	var out []*entity.SaleMaster
	err := r.b.read("sales.list", func(st *state) error {
		for _, id := range sortedKeys(st.sales) {
			s := st.sales[id]
			out = append(out, &s)
		}
		return nil
	})
	return out, err
}

func (r *saleRepo) Update(_ context.Context, s *entity.SaleMaster) error {
	return r.b.write("sales.update", func(st *state) error {
		if _, ok := st.sales[s.ID]; ok {
			st.sales[s.ID] = *s
		}
		return nil
	})
}

func (r *saleRepo) Delete(_ context.Context, id int64) error {
	return r.b.write("sales.delete", func(st *state) error {
		delete(st.sales, id)
		deleteDetails(st, id)
		return nil
	})
}

// deleteDetails borra las líneas de la venta y, en cascada, sus devoluciones.
func deleteDetails(st *state, saleID int64) {
	for did, d := range st.details {
		if d.SaleMasterID != saleID {
			continue
		}
		for rid, ret := range st.returns {
			if ret.SaleDetailID == did {
				delete(st.returns, rid)
			}
		}
		delete(st.details, did)
	}
}

func (r *saleRepo) CreateDetails(_ context.Context, details []*entity.SaleDetail) error {
	return r.b.write("sale_details.create", func(st *state) error {
		for _, d := range details {
			d.ID = st.next("sale_details")
			st.details[d.ID] = *d
		}
		return nil
	})
}

func (r *saleRepo) ListDetails(_ context.Context, saleID int64) ([]*entity.SaleDetail, error) {
	var out []*entity.SaleDetail
	err := r.b.read("sale_details.list", func(st *state) error {
		for _, id := range sortedKeys(st.details) {
			if d := st.details[id]; d.SaleMasterID == saleID {
				out = append(out, &d)
			}
		}
		return nil
	})
	return out, err
}

func (r *saleRepo) GetDetail(_ context.Context, id int64) (*entity.SaleDetail, error) {
	return r.getDetail("sale_details.get", id)
}

// GetDetailForUpdate sin bloqueo: las transacciones ya se serializan.
func (r *saleRepo) GetDetailForUpdate(_ context.Context, id int64) (*entity.SaleDetail, error) {
	return r.getDetail("sale_details.get_for_update", id)
}

func (r *saleRepo) getDetail(op string, id int64) (*entity.SaleDetail, error) {
	var out *entity.SaleDetail
	err := r.b.read(op, func(st *state) error {
		if d, ok := st.details[id]; ok {
			out = &d
		}
		return nil
	})
	return out, err
}

func (r *saleRepo) DeleteDetails(_ context.Context, saleID int64) error {
	return r.b.write("sale_details.delete", func(st *state) error {
		deleteDetails(st, saleID)
		return nil
	})
}

// --- sale returns ---

type returnRepo struct{ b binding }

func (r *returnRepo) Create(_ context.Context, ret *entity.SaleReturn) error {
	return r.b.write("sale_returns.create", func(st *state) error {
		ret.ID = st.next("sale_returns")
		st.returns[ret.ID] = *ret
		return nil
	})
}

func (r *returnRepo) GetByID(_ context.Context, id int64) (*entity.SaleReturn, error) {
	var out *entity.SaleReturn
	err := r.b.read("sale_returns.get", func(st *state) error {
		if ret, ok := st.returns[id]; ok {
			out = &ret
		}
		return nil
	})
	return out, err
}

func (r *returnRepo) ListBySaleDetail(_ context.Context, saleDetailID int64) ([]*entity.SaleReturn, error) {
	var out []*entity.SaleReturn
	err := r.b.read("sale_returns.list", func(st *state) error {
		for _, id := range sortedKeys(st.returns) {
			if ret := st.returns[id]; ret.SaleDetailID == saleDetailID {
				out = append(out, &ret)
			}
		}
		return nil
	})
	return out, err
}

func (r *returnRepo) SumBySaleDetail(_ context.Context, saleDetailID int64) (int64, error) {
	var sum int64
	err := r.b.read("sale_returns.sum", func(st *state) error {
		for _, ret := range st.returns {
			if ret.SaleDetailID == saleDetailID {
				sum += ret.ReturnQuantity
			}
		}
		return nil
	})
	return sum, err
}

func (r *returnRepo) Delete(_ context.Context, id int64) error {
	return r.b.write("sale_returns.delete", func(st *state) error {
		delete(st.returns, id)
		return nil
	})
}

// --- store_transactions ---

type ledgerRepo struct{ b binding }

func (r *ledgerRepo) Create(_ context.Context, tx *entity.StockTransaction) error {
	return r.b.write("store_transactions.create", func(st *state) error {
		tx.ID = st.next("store_transactions")
		st.ledger[tx.ID] = *tx
		return nil
	})
}

func (r *ledgerRepo) filter(op string, keep func(entity.StockTransaction) bool) ([]*entity.StockTransaction, error) {
	var out []*entity.StockTransaction
	err := r.b.read(op, func(st *state) error {
		for _, id := range sortedKeys(st.ledger) {
			if t := st.ledger[id]; keep(t) {
				out = append(out, &t)
			}
		}
		return nil
	})
	return out, err
}

// ListByItem más recientes primero.
func (r *ledgerRepo) ListByItem(_ context.Context, itemID int64, limit, offset int) ([]*entity.StockTransaction, error) {
	rows, err := r.filter("store_transactions.list", func(t entity.StockTransaction) bool { return t.ItemID == itemID })
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return page(rows, limit, offset), nil
}

func (r *ledgerRepo) ListByPurchaseOrder(_ context.Context, orderID int64) ([]*entity.StockTransaction, error) {
	return r.filter("store_transactions.list", func(t entity.StockTransaction) bool {
		return t.PurchaseOrderID != nil && *t.PurchaseOrderID == orderID
	})
}

func (r *ledgerRepo) ListBySale(_ context.Context, saleID int64) ([]*entity.StockTransaction, error) {
	return r.filter("store_transactions.list", func(t entity.StockTransaction) bool {
		return t.SaleMasterID != nil && *t.SaleMasterID == saleID
	})
}

func (r *ledgerRepo) SumByItem(_ context.Context, itemID int64) (int64, error) {
	var sum int64
	err := r.b.read("store_transactions.sum", func(st *state) error {
		for _, t := range st.ledger {
			if t.ItemID == itemID {
				sum += t.Quantity
			}
		}
		return nil
	})
	return sum, err
}

// --- permissions ---

type permissionRepo struct{ b binding }

func (r *permissionRepo) ListByUser(_ context.Context, userID int64) ([]string, error) {
	var out []string
	err := r.b.read("permissions.list", func(st *state) error {
		out = append([]string(nil), st.perms[userID]...)
		return nil
	})
	return out, err
}
