// Package memory implementa los repositorios en memoria (desarrollo y tests).
//
// Run y RunCash trabajan sobre una copia del estado y la publican solo si fn no falla,
// así el rollback es descartar la copia. Las transacciones se serializan con el mutex
// del Store, lo que equivale a bloquear todas las filas que toca.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/cash"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)
var _ cash.TxRunner = (*Store)(nil)

type lineKey struct {
	productID   string
	warehouseID string
}

type state struct {
	warehouses map[string]entity.Warehouse
	products   map[string]entity.Product
	providers  map[string]entity.Provider
	lines      map[lineKey]entity.InventoryLine
	history    []entity.StockHistoryEntry
	seq        int64
	transfers  map[string]*entity.Transfer
	returns    map[string]*entity.ProviderReturn
	registers  map[string]entity.CashRegister
	cashTx     map[string]entity.CashTransaction
	cashOrder  []string // orden de inserción de cashTx
}

func newState() *state {
	return &state{
		warehouses: make(map[string]entity.Warehouse),
		products:   make(map[string]entity.Product),
		providers:  make(map[string]entity.Provider),
		lines:      make(map[lineKey]entity.InventoryLine),
		transfers:  make(map[string]*entity.Transfer),
		returns:    make(map[string]*entity.ProviderReturn),
		registers:  make(map[string]entity.CashRegister),
		cashTx:     make(map[string]entity.CashTransaction),
	}
}

func (s *state) clone() *state {
	c := &state{
		warehouses: cloneMap(s.warehouses),
		products:   cloneMap(s.products),
		providers:  cloneMap(s.providers),
		lines:      cloneMap(s.lines),
		history:    slices.Clone(s.history),
		seq:        s.seq,
		transfers:  make(map[string]*entity.Transfer, len(s.transfers)),
		returns:    make(map[string]*entity.ProviderReturn, len(s.returns)),
		registers:  cloneMap(s.registers),
		cashTx:     cloneMap(s.cashTx),
		cashOrder:  slices.Clone(s.cashOrder),
	}
	for k, t := range s.transfers {
		c.transfers[k] = t.Clone()
	}
	for k, r := range s.returns {
		c.returns[k] = r.Clone()
	}
	return c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store guarda todo el estado en memoria.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// scope resuelve sobre qué estado opera un repositorio: el publicado (con lock propio)
// o la copia de una transacción en curso (el lock ya lo tiene Run).
type scope struct {
	store *Store
	tx    *state
}

func (sc scope) view(fn func(st *state) error) error {
	if sc.tx != nil {
		return fn(sc.tx)
	}
	sc.store.mu.RLock()
	defer sc.store.mu.RUnlock()
	return fn(sc.store.st)
}

func (sc scope) update(fn func(st *state) error) error {
	if sc.tx != nil {
		return fn(sc.tx)
	}
	sc.store.mu.Lock()
	defer sc.store.mu.Unlock()
	return fn(sc.store.st)
}

func (s *Store) run(ctx context.Context, fn func(sc scope) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(scope{store: s, tx: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Run ejecuta fn con repositorios de inventario atados a una transacción.
func (s *Store) Run(ctx context.Context, fn func(tx repository.InventoryTx) error) error {
	return s.run(ctx, func(sc scope) error {
		return fn(repository.InventoryTx{
			Warehouses: &warehouseRepo{sc: sc},
			Lines:      &lineRepo{sc: sc},
			History:    &historyRepo{sc: sc},
			Transfers:  &transferRepo{sc: sc},
			Returns:    &returnRepo{sc: sc},
		})
	})
}

// RunCash ejecuta fn con repositorios de caja atados a una transacción.
func (s *Store) RunCash(ctx context.Context, fn func(tx repository.CashTx) error) error {
	return s.run(ctx, func(sc scope) error {
		return fn(repository.CashTx{
			Registers:    &registerRepo{sc: sc},
			Transactions: &cashTxRepo{sc: sc},
		})
	})
}

func (s *Store) root() scope { return scope{store: s} }

// Warehouses repositorio de bodegas fuera de transacción.
func (s *Store) Warehouses() repository.WarehouseRepository { return &warehouseRepo{sc: s.root()} }

// Products repositorio de productos.
func (s *Store) Products() repository.ProductRepository { return &productRepo{sc: s.root()} }

// Providers repositorio de proveedores.
func (s *Store) Providers() repository.ProviderRepository { return &providerRepo{sc: s.root()} }

// Lines repositorio de líneas de inventario.
func (s *Store) Lines() repository.InventoryLineRepository { return &lineRepo{sc: s.root()} }

// History repositorio del kardex.
func (s *Store) History() repository.StockHistoryRepository { return &historyRepo{sc: s.root()} }

// Transfers repositorio de traslados.
func (s *Store) Transfers() repository.TransferRepository { return &transferRepo{sc: s.root()} }

// Returns repositorio de devoluciones.
func (s *Store) Returns() repository.ProviderReturnRepository { return &returnRepo{sc: s.root()} }

// Registers repositorio de cajas.
func (s *Store) Registers() repository.CashRegisterRepository { return &registerRepo{sc: s.root()} }

// CashTransactions repositorio de transacciones de caja.
func (s *Store) CashTransactions() repository.CashTransactionRepository {
	return &cashTxRepo{sc: s.root()}
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
