// Package memory implementa los puertos de repository en memoria. Sirve para
// tests y para levantar la API sin PostgreSQL (APP_ENV=memory).
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/samokat-api/internal/application/payment"
	"github.com/jhoicas/samokat-api/internal/application/rental"
	"github.com/jhoicas/samokat-api/internal/application/usecase"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	"github.com/jhoicas/samokat-api/internal/domain/repository"
)

// Store estado compartido por todos los repositorios en memoria.
// Las transacciones toman el mutex completo y restauran una copia si fallan.
type Store struct {
	mu sync.Mutex

	seq         int64
	users       map[int64]entity.User
	roles       map[int]entity.Role
	scooters    map[int64]entity.Scooter
	actions     map[int64]entity.ScooterAction
	actionTypes map[string]struct{}
	tariffs     map[int64]entity.Tariff
	rentals     map[int64]entity.Rental
	payments    map[int64]entity.Payment
}

// NewStore crea un store con los roles y tipos de acción de referencia.
func NewStore() *Store {
	s := &Store{
		users:       map[int64]entity.User{},
		roles:       map[int]entity.Role{},
		scooters:    map[int64]entity.Scooter{},
		actions:     map[int64]entity.ScooterAction{},
		actionTypes: map[string]struct{}{entity.ActionRentalStart: {}, entity.ActionRentalEnd: {}},
		tariffs:     map[int64]entity.Tariff{},
		rentals:     map[int64]entity.Rental{},
		payments:    map[int64]entity.Payment{},
	}
	s.roles[entity.RoleIDAdmin] = entity.Role{ID: entity.RoleIDAdmin, Name: "admin",
		Permissions: []string{"rentals:audit", "rentals:ride", "scooters:manage", "scooters:read", "tariffs:manage", "users:roles"}}
	s.roles[entity.RoleIDManager] = entity.Role{ID: entity.RoleIDManager, Name: "manager",
		Permissions: []string{"payments:settle", "rentals:audit", "rentals:ride", "scooters:read", "users:balance"}}
	s.roles[entity.RoleIDRegular] = entity.Role{ID: entity.RoleIDRegular, Name: "user",
		Permissions: []string{"rentals:ride", "scooters:read"}}
	return s
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

type snapshot struct {
	seq      int64
	users    map[int64]entity.User
	scooters map[int64]entity.Scooter
	actions  map[int64]entity.ScooterAction
	tariffs  map[int64]entity.Tariff
	rentals  map[int64]entity.Rental
	payments map[int64]entity.Payment
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		seq:      s.seq,
		users:    cloneMap(s.users),
		scooters: cloneMap(s.scooters),
		actions:  cloneMap(s.actions),
		tariffs:  cloneMap(s.tariffs),
		rentals:  cloneMap(s.rentals),
		payments: cloneMap(s.payments),
	}
}

func (s *Store) restore(sn snapshot) {
	s.seq = sn.seq
	s.users = sn.users
	s.scooters = sn.scooters
	s.actions = sn.actions
	s.tariffs = sn.tariffs
	s.rentals = sn.rentals
	s.payments = sn.payments
}

// Los valores guardados son structs; los punteros internos (LastActionID,
// EndTime, TotalCost...) se reemplazan, nunca se mutan en sitio.
func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// base bloquea el store salvo cuando el repositorio vive dentro de una tx
// (el TxRunner ya tiene el mutex).
type base struct {
	s    *Store
	inTx bool
}

func (b base) lock() func() {
	if b.inTx {
		return func() {}
	}
	b.s.mu.Lock()
	return b.s.mu.Unlock
}

// Repos devuelve los repositorios fuera de transacción.
func (s *Store) Repos() Repos {
	return s.repos(false)
}

// Repos agrupa un repositorio por puerto sobre el mismo Store.
type Repos struct {
	Users    *UserRepo
	Roles    *RoleRepo
	Scooters *ScooterRepo
	Actions  *ScooterActionRepo
	Tariffs  *TariffRepo
	Rentals  *RentalRepo
	Payments *PaymentRepo
}

func (s *Store) repos(inTx bool) Repos {
	b := base{s: s, inTx: inTx}
	return Repos{
		Users:    &UserRepo{b},
		Roles:    &RoleRepo{b},
		Scooters: &ScooterRepo{b},
		Actions:  &ScooterActionRepo{b},
		Tariffs:  &TariffRepo{b},
		Rentals:  &RentalRepo{b},
		Payments: &PaymentRepo{b},
	}
}

var (
	_ rental.TxRunner         = (*TxRunner)(nil)
	_ payment.TxRunner        = (*TxRunner)(nil)
	_ usecase.BalanceTxRunner = (*TxRunner)(nil)
)

// TxRunner transacciones serializadas sobre el Store.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

func (r *TxRunner) run(fn func(Repos) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sn := r.s.snapshot()
	if err := fn(r.s.repos(true)); err != nil {
		r.s.restore(sn)
		return err
	}
	return nil
}

func (r *TxRunner) RunRental(ctx context.Context, fn func(
	scooters repository.ScooterRepository,
	rentals repository.RentalRepository,
	actions repository.ScooterActionRepository,
	tariffs repository.TariffRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.run(func(rp Repos) error { return fn(rp.Scooters, rp.Rentals, rp.Actions, rp.Tariffs) })
}

func (r *TxRunner) RunPayment(ctx context.Context, fn func(
	users repository.UserRepository,
	payments repository.PaymentRepository,
	rentals repository.RentalRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.run(func(rp Repos) error { return fn(rp.Users, rp.Payments, rp.Rentals) })
}

func (r *TxRunner) RunBalance(ctx context.Context, fn func(users repository.UserRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.run(func(rp Repos) error { return fn(rp.Users) })
}

// SeedTariff inserta una tarifa directamente (datos de referencia en tests y modo memoria).
func (s *Store) SeedTariff(name, costType string, price decimal.Decimal) *entity.Tariff {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := entity.Tariff{ID: s.nextID(), Name: name, CostType: costType, Price: price}
	s.tariffs[t.ID] = t
	return &t
}

// Ping siempre responde; mantiene la firma del health check.
func (s *Store) Ping(context.Context) error { return nil }
