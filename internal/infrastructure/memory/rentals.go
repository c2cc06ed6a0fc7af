package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/samokat-api/internal/domain"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	"github.com/jhoicas/samokat-api/internal/domain/repository"
)

var (
	_ repository.RentalRepository  = (*RentalRepo)(nil)
	_ repository.TariffRepository  = (*TariffRepo)(nil)
	_ repository.PaymentRepository = (*PaymentRepo)(nil)
)

// RentalRepo alquileres en memoria. Rechaza un segundo alquiler abierto por patinete.
type RentalRepo struct{ base }

func (r *RentalRepo) Create(_ context.Context, rental *entity.Rental) error {
	defer r.lock()()
	if rental.Status {
		for _, rt := range r.s.rentals {
			if rt.Status && rt.ScooterID == rental.ScooterID {
				return domain.ErrScooterUnavailable
			}
		}
	}
	rental.ID = r.s.nextID()
	r.s.rentals[rental.ID] = *rental
	return nil
}

func (r *RentalRepo) GetByIDAndUser(_ context.Context, id, userID int64) (*entity.Rental, error) {
	defer r.lock()()
	rt, ok := r.s.rentals[id]
	if !ok || rt.UserID != userID {
		return nil, nil
	}
	return &rt, nil
}

func (r *RentalRepo) GetByIDAndUserForUpdate(ctx context.Context, id, userID int64) (*entity.Rental, error) {
	return r.GetByIDAndUser(ctx, id, userID)
}

func (r *RentalRepo) Close(_ context.Context, rental *entity.Rental) error {
	defer r.lock()()
	rt, ok := r.s.rentals[rental.ID]
	if !ok || !rt.Status {
		return domain.ErrRentalAlreadyClosed
	}
	r.s.rentals[rental.ID] = *rental
	return nil
}

func (r *RentalRepo) HistoryByUser(_ context.Context, userID int64) ([]*entity.RentalSummary, error) {
	defer r.lock()()
	var list []*entity.RentalSummary
	for _, rt := range r.s.rentals {
		if rt.UserID != userID || rt.EndTime == nil || !rt.EndTime.After(rt.StartTime) {
			continue
		}
		list = append(list, &entity.RentalSummary{
			RentalID:   rt.ID,
			Frame:      r.s.scooters[rt.ScooterID].Frame,
			TariffName: r.s.tariffs[rt.TariffID].Name,
			StartTime:  rt.StartTime,
			EndTime:    *rt.EndTime,
			TotalCost:  rt.TotalCost,
		})
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].StartTime.Equal(list[j].StartTime) {
			return list[i].StartTime.After(list[j].StartTime)
		}
		return list[i].RentalID > list[j].RentalID
	})
	return list, nil
}

// TariffRepo tarifas en memoria. name es único.
type TariffRepo struct{ base }

func (r *TariffRepo) GetByID(_ context.Context, id int64) (*entity.Tariff, error) {
	defer r.lock()()
	t, ok := r.s.tariffs[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *TariffRepo) List(context.Context) ([]*entity.Tariff, error) {
	defer r.lock()()
	list := make([]*entity.Tariff, 0, len(r.s.tariffs))
	for _, t := range r.s.tariffs {
		t := t
		list = append(list, &t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *TariffRepo) Create(_ context.Context, t *entity.Tariff) error {
	defer r.lock()()
	for _, existing := range r.s.tariffs {
		if existing.Name == t.Name {
			return domain.ErrDuplicate
		}
	}
	t.ID = r.s.nextID()
	r.s.tariffs[t.ID] = *t
	return nil
}

// PaymentRepo pagos en memoria.
type PaymentRepo struct{ base }

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	defer r.lock()()
	p.ID = r.s.nextID()
	r.s.payments[p.ID] = *p
	return nil
}

func (r *PaymentRepo) GetByIDForUpdate(_ context.Context, id int64) (*entity.Payment, error) {
	defer r.lock()()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PaymentRepo) ListByRental(_ context.Context, rentalID int64) ([]*entity.Payment, error) {
	defer r.lock()()
	var list []*entity.Payment
	for _, p := range r.s.payments {
		if p.RentalID == rentalID {
			p := p
			list = append(list, &p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *PaymentRepo) HasActive(_ context.Context, rentalID int64) (bool, error) {
	defer r.lock()()
	for _, p := range r.s.payments {
		if p.RentalID == rentalID && p.Status != entity.PaymentStatusFailed {
			return true, nil
		}
	}
	return false, nil
}

func (r *PaymentRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	defer r.lock()()
	p, ok := r.s.payments[id]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	p.Status = status
	r.s.payments[id] = p
	return nil
}

func (r *PaymentRepo) FailPendingBefore(_ context.Context, before time.Time) (int64, error) {
	defer r.lock()()
	var n int64
	for id, p := range r.s.payments {
		if p.Status == entity.PaymentStatusPending && p.CreatedAt.Before(before) {
			p.Status = entity.PaymentStatusFailed
			r.s.payments[id] = p
			n++
		}
	}
	return n, nil
}
