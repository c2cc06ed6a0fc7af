package payment

import (
	"context"
	"time"

	"github.com/jhoicas/samokat-api/internal/application/dto"
	"github.com/jhoicas/samokat-api/internal/domain"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	"github.com/jhoicas/samokat-api/internal/domain/repository"
	"github.com/jhoicas/samokat-api/pkg/logger"
)

// PaymentUseCase libro de pagos de alquileres cerrados.
type PaymentUseCase struct {
	tx       TxRunner
	rentals  repository.RentalRepository
	payments repository.PaymentRepository
	now      func() time.Time
	log      *logger.Logger
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(tx TxRunner, rentals repository.RentalRepository, payments repository.PaymentRepository, log *logger.Logger) *PaymentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &PaymentUseCase{tx: tx, rentals: rentals, payments: payments, now: time.Now, log: log.Component("payment")}
}

// WithClock fija el reloj (tests).
func (uc *PaymentUseCase) WithClock(now func() time.Time) *PaymentUseCase {
	cp := *uc
	cp.now = now
	return &cp
}

// Pay registra el pago de un alquiler cerrado del usuario por su total_cost.
//
//	balance -> completed si el saldo alcanza (se descuenta en la misma tx), failed si no
//	card    -> pending hasta que un manager lo liquide
func (uc *PaymentUseCase) Pay(ctx context.Context, user *entity.User, rentalID int64, in dto.PayRequest) (*dto.PaymentResponse, error) {
	if !entity.ValidPaymentMethod(in.Method) {
		return nil, domain.ErrInvalidInput
	}
	var p entity.Payment
	err := uc.tx.RunPayment(ctx, func(
		users repository.UserRepository,
		payments repository.PaymentRepository,
		rentals repository.RentalRepository,
	) error {
		// El bloqueo del alquiler serializa pagos concurrentes del mismo alquiler.
		rt, err := rentals.GetByIDAndUserForUpdate(ctx, rentalID, user.ID)
		if err != nil {
			return err
		}
		if rt == nil {
			return domain.ErrRentalNotFound
		}
		if rt.IsOpen() {
			return domain.ErrRentalStillOpen
		}
		if rt.TotalCost == nil {
			return domain.ErrConflict
		}
		active, err := payments.HasActive(ctx, rt.ID)
		if err != nil {
			return err
		}
		if active {
			return domain.ErrAlreadyPaid
		}

		p = entity.Payment{
			RentalID:  rt.ID,
			Amount:    *rt.TotalCost,
			Method:    in.Method,
			Status:    entity.PaymentStatusPending,
			CreatedAt: uc.now().UTC(),
		}
		if in.Method == entity.PaymentMethodBalance {
			u, err := users.GetByIDForUpdate(ctx, user.ID)
			if err != nil {
				return err
			}
			if u == nil {
				return domain.ErrUserNotFound
			}
			if u.Balance.GreaterThanOrEqual(p.Amount) {
				if err := users.UpdateBalance(ctx, u.ID, u.Balance.Sub(p.Amount)); err != nil {
					return err
				}
				p.Status = entity.PaymentStatusCompleted
			} else {
				p.Status = entity.PaymentStatusFailed
			}
		}
		return payments.Create(ctx, &p)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Int64("payment_id", p.ID).
		Int64("rental_id", p.RentalID).
		Str("method", p.Method).
		Str("status", p.Status).
		Msg("pago registrado")
	return ToPaymentResponse(&p), nil
}

// ListByRental pagos de un alquiler del usuario.
func (uc *PaymentUseCase) ListByRental(ctx context.Context, user *entity.User, rentalID int64) ([]dto.PaymentResponse, error) {
	rt, err := uc.rentals.GetByIDAndUser(ctx, rentalID, user.ID)
	if err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, domain.ErrRentalNotFound
	}
	list, err := uc.payments.ListByRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *ToPaymentResponse(p))
	}
	return out, nil
}

// UpdateStatus liquida un pago pendiente: solo pending -> completed | failed.
func (uc *PaymentUseCase) UpdateStatus(ctx context.Context, paymentID int64, in dto.UpdatePaymentStatusRequest) (*dto.PaymentResponse, error) {
	if in.Status != entity.PaymentStatusCompleted && in.Status != entity.PaymentStatusFailed {
		return nil, domain.ErrInvalidInput
	}
	var p *entity.Payment
	err := uc.tx.RunPayment(ctx, func(
		_ repository.UserRepository,
		payments repository.PaymentRepository,
		_ repository.RentalRepository,
	) error {
		var err error
		p, err = payments.GetByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrPaymentNotFound
		}
		if p.Status != entity.PaymentStatusPending {
			return domain.ErrConflict
		}
		if err := payments.UpdateStatus(ctx, p.ID, in.Status); err != nil {
			return err
		}
		p.Status = in.Status
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("payment_id", p.ID).Str("status", p.Status).Msg("pago liquidado")
	return ToPaymentResponse(p), nil
}

// ExpirePending marca como failed los pagos pendientes más antiguos que ttl.
func (uc *PaymentUseCase) ExpirePending(ctx context.Context, ttl time.Duration) (int64, error) {
	n, err := uc.payments.FailPendingBefore(ctx, uc.now().UTC().Add(-ttl))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		uc.log.Info().Int64("expired", n).Msg("pagos pendientes vencidos")
	}
	return n, nil
}

// ToPaymentResponse mapea la entidad al DTO.
func ToPaymentResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:        p.ID,
		RentalID:  p.RentalID,
		Amount:    p.Amount,
		Method:    p.Method,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	}
}
