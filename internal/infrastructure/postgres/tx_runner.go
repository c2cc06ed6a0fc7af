package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/samokat-api/internal/application/payment"
	"github.com/jhoicas/samokat-api/internal/application/rental"
	"github.com/jhoicas/samokat-api/internal/application/usecase"
	"github.com/jhoicas/samokat-api/internal/domain/repository"
)

var (
	_ rental.TxRunner         = (*TxRunner)(nil)
	_ payment.TxRunner        = (*TxRunner)(nil)
	_ usecase.BalanceTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunRental abre una tx y pasa a fn los repositorios de alquiler atados a ella.
// Si fn devuelve error se hace Rollback y no persiste ninguna escritura.
func (r *TxRunner) RunRental(ctx context.Context, fn func(
	scooters repository.ScooterRepository,
	rentals repository.RentalRepository,
	actions repository.ScooterActionRepository,
	tariffs repository.TariffRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(
			NewScooterRepository(tx),
			NewRentalRepository(tx),
			NewScooterActionRepository(tx),
			NewTariffRepository(tx),
		)
	})
}

// RunPayment abre una tx con los repositorios de usuarios, pagos y alquileres.
func (r *TxRunner) RunPayment(ctx context.Context, fn func(
	users repository.UserRepository,
	payments repository.PaymentRepository,
	rentals repository.RentalRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewUserRepository(tx), NewPaymentRepository(tx), NewRentalRepository(tx))
	})
}

// RunBalance abre una tx solo con el repositorio de usuarios (recargas de saldo).
func (r *TxRunner) RunBalance(ctx context.Context, fn func(users repository.UserRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewUserRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
