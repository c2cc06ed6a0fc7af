package repository

import (
	"context"
	"time"

	"github.com/jhoicas/samokat-api/internal/domain/entity"
)

// PaymentRepository libro de pagos.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Payment, error)
	ListByRental(ctx context.Context, rentalID int64) ([]*entity.Payment, error)
	// HasActive informa si el alquiler tiene un pago pending o completed.
	HasActive(ctx context.Context, rentalID int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	// FailPendingBefore marca como failed los pending creados antes de before.
	FailPendingBefore(ctx context.Context, before time.Time) (int64, error)
}
