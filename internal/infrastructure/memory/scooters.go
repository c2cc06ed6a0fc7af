package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/samokat-api/internal/domain"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	"github.com/jhoicas/samokat-api/internal/domain/repository"
)

var (
	_ repository.ScooterRepository       = (*ScooterRepo)(nil)
	_ repository.ScooterActionRepository = (*ScooterActionRepo)(nil)
)

// ScooterRepo flota en memoria. frame es único.
type ScooterRepo struct{ base }

func (r *ScooterRepo) List(context.Context) ([]*entity.Scooter, error) {
	defer r.lock()()
	list := make([]*entity.Scooter, 0, len(r.s.scooters))
	for _, sc := range r.s.scooters {
		sc := sc
		list = append(list, &sc)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *ScooterRepo) GetByID(_ context.Context, id int64) (*entity.Scooter, error) {
	defer r.lock()()
	sc, ok := r.s.scooters[id]
	if !ok {
		return nil, nil
	}
	return &sc, nil
}

func (r *ScooterRepo) GetByFrame(_ context.Context, frame string) (*entity.Scooter, error) {
	defer r.lock()()
	return r.byFrame(frame), nil
}

func (r *ScooterRepo) GetByFrameForUpdate(ctx context.Context, frame string) (*entity.Scooter, error) {
	return r.GetByFrame(ctx, frame)
}

func (r *ScooterRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Scooter, error) {
	return r.GetByID(ctx, id)
}

func (r *ScooterRepo) Create(_ context.Context, sc *entity.Scooter) error {
	defer r.lock()()
	if r.byFrame(sc.Frame) != nil {
		return domain.ErrDuplicate
	}
	sc.ID = r.s.nextID()
	r.s.scooters[sc.ID] = *sc
	return nil
}

func (r *ScooterRepo) CreateIgnoringDuplicates(_ context.Context, scooters []*entity.Scooter) (int, error) {
	defer r.lock()()
	inserted := 0
	for _, sc := range scooters {
		if r.byFrame(sc.Frame) != nil {
			continue
		}
		sc.ID = r.s.nextID()
		r.s.scooters[sc.ID] = *sc
		inserted++
	}
	return inserted, nil
}

func (r *ScooterRepo) TransitionStatus(_ context.Context, id int64, from, to string) (bool, error) {
	defer r.lock()()
	sc, ok := r.s.scooters[id]
	if !ok || sc.Status != from {
		return false, nil
	}
	sc.Status = to
	r.s.scooters[id] = sc
	return true, nil
}

func (r *ScooterRepo) SetStatus(_ context.Context, id int64, status string) error {
	defer r.lock()()
	sc, ok := r.s.scooters[id]
	if !ok {
		return domain.ErrScooterNotFound
	}
	sc.Status = status
	r.s.scooters[id] = sc
	return nil
}

func (r *ScooterRepo) SetLastAction(_ context.Context, id, actionID int64) error {
	defer r.lock()()
	sc, ok := r.s.scooters[id]
	if !ok {
		return domain.ErrScooterNotFound
	}
	sc.LastActionID = &actionID
	r.s.scooters[id] = sc
	return nil
}

// DeleteAll borra la flota con sus alquileres, pagos y acciones (cascada).
func (r *ScooterRepo) DeleteAll(context.Context) (int64, error) {
	defer r.lock()()
	n := int64(len(r.s.scooters))
	for id, rt := range r.s.rentals {
		for pid, p := range r.s.payments {
			if p.RentalID == id {
				delete(r.s.payments, pid)
			}
		}
		if _, ok := r.s.scooters[rt.ScooterID]; ok {
			delete(r.s.rentals, id)
		}
	}
	r.s.scooters = map[int64]entity.Scooter{}
	r.s.actions = map[int64]entity.ScooterAction{}
	return n, nil
}

func (r *ScooterRepo) byFrame(frame string) *entity.Scooter {
	for _, sc := range r.s.scooters {
		if sc.Frame == frame {
			return &sc
		}
	}
	return nil
}

// ScooterActionRepo historial de acciones en memoria.
type ScooterActionRepo struct{ base }

func (r *ScooterActionRepo) Create(_ context.Context, a *entity.ScooterAction) error {
	defer r.lock()()
	if _, ok := r.s.actionTypes[a.ActionType]; !ok {
		return domain.ErrInvalidInput
	}
	a.ID = r.s.nextID()
	r.s.actions[a.ID] = *a
	return nil
}

func (r *ScooterActionRepo) GetByID(_ context.Context, id int64) (*entity.ScooterAction, error) {
	defer r.lock()()
	a, ok := r.s.actions[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *ScooterActionRepo) ListByScooter(_ context.Context, scooterID int64, limit int) ([]*entity.ScooterAction, error) {
	defer r.lock()()
	var list []*entity.ScooterAction
	for _, a := range r.s.actions {
		if a.ScooterID == scooterID {
			a := a
			list = append(list, &a)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].ActionTime.Equal(list[j].ActionTime) {
			return list[i].ActionTime.After(list[j].ActionTime)
		}
		return list[i].ID > list[j].ID
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}
