package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/samokat-api/internal/domain"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	"github.com/jhoicas/samokat-api/internal/domain/repository"
)

var _ repository.ScooterActionRepository = (*ScooterActionRepo)(nil)

const actionSelect = `
	SELECT la.id, la.user_phone, la.scooter_id, at.name, la.rental_id, la.action_time
	FROM last_action la
	JOIN action_types at ON at.id = la.action_type_id`

// ScooterActionRepo historial de acciones (tabla last_action + action_types).
type ScooterActionRepo struct {
	q Querier
}

// NewScooterActionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewScooterActionRepository(q Querier) *ScooterActionRepo {
	return &ScooterActionRepo{q: q}
}

// Create inserta la acción resolviendo el tipo por nombre. Tipo desconocido -> ErrInvalidInput.
func (r *ScooterActionRepo) Create(ctx context.Context, a *entity.ScooterAction) error {
	query := `
		INSERT INTO last_action (user_phone, scooter_id, action_type_id, rental_id, action_time)
		SELECT $1, $2, at.id, $4, $5 FROM action_types at WHERE at.name = $3
		RETURNING id`
	err := r.q.QueryRow(ctx, query, a.UserPhone, a.ScooterID, a.ActionType, a.RentalID, a.ActionTime).Scan(&a.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("tipo de acción %q: %w", a.ActionType, domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert scooter action: %w", err)
	}
	return nil
}

func (r *ScooterActionRepo) GetByID(ctx context.Context, id int64) (*entity.ScooterAction, error) {
	a, err := scanAction(r.q.QueryRow(ctx, actionSelect+` WHERE la.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get scooter action: %w", err)
	}
	return a, nil
}

// ListByScooter acciones del patinete, más recientes primero.
func (r *ScooterActionRepo) ListByScooter(ctx context.Context, scooterID int64, limit int) ([]*entity.ScooterAction, error) {
	rows, err := r.q.Query(ctx, actionSelect+` WHERE la.scooter_id = $1 ORDER BY la.action_time DESC, la.id DESC LIMIT $2`, scooterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list scooter actions: %w", err)
	}
	defer rows.Close()
	var list []*entity.ScooterAction
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scooter action: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAction(row pgx.Row) (*entity.ScooterAction, error) {
	var a entity.ScooterAction
	if err := row.Scan(&a.ID, &a.UserPhone, &a.ScooterID, &a.ActionType, &a.RentalID, &a.ActionTime); err != nil {
		return nil, err
	}
	return &a, nil
}
