// Package memory almacén transaccional en memoria. Sirve como driver STORE_DRIVER=memory
// y como doble de pruebas con inyección de fallos por operación.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	seq     map[string]int64
	items   map[int64]entity.Item
	stock   map[int64]entity.ItemStock
	orders  map[int64]entity.PurchaseOrder
	lines   map[int64]entity.PurchaseOrderLine
	costs   map[int64]entity.AdditionalCost
	sales   map[int64]entity.SaleMaster
	details map[int64]entity.SaleDetail
	returns map[int64]entity.SaleReturn
	ledger  map[int64]entity.StockTransaction
	perms   map[int64][]string
}

func newState() *state {
	return &state{
		seq:     map[string]int64{},
		items:   map[int64]entity.Item{},
		stock:   map[int64]entity.ItemStock{},
		orders:  map[int64]entity.PurchaseOrder{},
		lines:   map[int64]entity.PurchaseOrderLine{},
		costs:   map[int64]entity.AdditionalCost{},
		sales:   map[int64]entity.SaleMaster{},
		details: map[int64]entity.SaleDetail{},
		returns: map[int64]entity.SaleReturn{},
		ledger:  map[int64]entity.StockTransaction{},
		perms:   map[int64][]string{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	perms := make(map[int64][]string, len(s.perms))
	for k, v := range s.perms {
		perms[k] = append([]string(nil), v...)
	}
	return &state{
		seq:     cloneMap(s.seq),
		items:   cloneMap(s.items),
		stock:   cloneMap(s.stock),
		orders:  cloneMap(s.orders),
		lines:   cloneMap(s.lines),
		costs:   cloneMap(s.costs),
		sales:   cloneMap(s.sales),
		details: cloneMap(s.details),
		returns: cloneMap(s.returns),
		ledger:  cloneMap(s.ledger),
		perms:   perms,
	}
}

func (s *state) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// Store almacén en memoria. Las transacciones trabajan sobre una copia que se publica
// solo si fn termina sin error; se serializan con un único mutex.
type Store struct {
	mu sync.Mutex
	st *state

	faultMu sync.Mutex
	faults  map[string]error

	now func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState(), faults: map[string]error{}, now: time.Now}
}

// FailOn hace que la operación op (p.ej. "store_transactions.create") devuelva err.
func (s *Store) FailOn(op string, err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.faults[op] = err
}

// ClearFaults elimina los fallos inyectados.
func (s *Store) ClearFaults() {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.faults = map[string]error{}
}

func (s *Store) fault(op string) error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	return s.faults[op]
}

// Run ejecuta fn sobre una copia del estado; si fn falla la copia se descarta.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(s.bind(work)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repos repositorios sobre el estado confirmado, para lecturas fuera de transacción.
func (s *Store) Repos() repository.TxRepos {
	return s.bind(nil)
}

func (s *Store) bind(tx *state) repository.TxRepos {
	b := binding{store: s, tx: tx}
	return repository.TxRepos{
		Items:   &itemRepo{b},
		Stock:   &stockRepo{b},
		Orders:  &orderRepo{b},
		Sales:   &saleRepo{b},
		Returns: &returnRepo{b},
		Ledger:  &ledgerRepo{b},
	}
}

// Permissions repositorio de permisos.
func (s *Store) Permissions() repository.PermissionRepository {
	return &permissionRepo{binding{store: s}}
}

// AddItem da de alta un artículo en el catálogo (semilla y pruebas). Asigna ID si viene en 0.
func (s *Store) AddItem(item entity.Item) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == 0 {
		item.ID = s.st.next("items")
	} else if item.ID > s.st.seq["items"] {
		s.st.seq["items"] = item.ID
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.now()
		item.UpdatedAt = item.CreatedAt
	}
	s.st.items[item.ID] = item
	return item.ID
}

// SetPermissions fija los permisos efectivos de un usuario.
func (s *Store) SetPermissions(userID int64, perms []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.perms[userID] = append([]string(nil), perms...)
}

// Counts cantidad de filas por tabla en el estado confirmado.
type Counts struct {
	Orders          int
	Lines           int
	AdditionalCosts int
	Sales           int
	Details         int
	Returns         int
	Ledger          int
}

// Counts devuelve el conteo actual de filas.
func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counts{
		Orders:          len(s.st.orders),
		Lines:           len(s.st.lines),
		AdditionalCosts: len(s.st.costs),
		Sales:           len(s.st.sales),
		Details:         len(s.st.details),
		Returns:         len(s.st.returns),
		Ledger:          len(s.st.ledger),
	}
}

// binding resuelve sobre qué estado opera un repositorio: la copia de la tx o el estado confirmado.
type binding struct {
	store *Store
	tx    *state
}

func (b binding) read(op string, fn func(st *state) error) error {
	if err := b.store.fault(op); err != nil {
		return err
	}
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return fn(b.store.st)
}

// write fuera de transacción opera directamente sobre el estado confirmado (autocommit).
func (b binding) write(op string, fn func(st *state) error) error {
	return b.read(op, fn)
}
