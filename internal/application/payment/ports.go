package payment

import (
	"context"

	"github.com/jhoicas/samokat-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con usuarios, pagos y alquileres.
type TxRunner interface {
	RunPayment(ctx context.Context, fn func(
		users repository.UserRepository,
		payments repository.PaymentRepository,
		rentals repository.RentalRepository,
	) error) error
}
