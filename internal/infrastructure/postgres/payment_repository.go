package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/samokat-api/internal/domain"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	"github.com/jhoicas/samokat-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

const paymentColumns = `id, rental_id, amount, payment_method, status, created_at`

// PaymentRepo libro de pagos sobre PostgreSQL.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (rental_id, amount, payment_method, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, p.RentalID, p.Amount, p.Method, p.Status, p.CreatedAt).Scan(&p.ID); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByIDForUpdate obtiene el pago y bloquea la fila.
func (r *PaymentRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment for update: %w", err)
	}
	return p, nil
}

func (r *PaymentRepo) ListByRental(ctx context.Context, rentalID int64) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE rental_id = $1 ORDER BY created_at, id`, rentalID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PaymentRepo) HasActive(ctx context.Context, rentalID int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM payments WHERE rental_id = $1 AND status IN ('pending', 'completed'))`,
		rentalID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active payment: %w", err)
	}
	return exists, nil
}

func (r *PaymentRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE payments SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

// FailPendingBefore vence los pagos pendientes creados antes de before.
func (r *PaymentRepo) FailPendingBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE payments SET status = 'failed' WHERE status = 'pending' AND created_at < $1`,
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("expire pending payments: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	if err := row.Scan(&p.ID, &p.RentalID, &p.Amount, &p.Method, &p.Status, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
