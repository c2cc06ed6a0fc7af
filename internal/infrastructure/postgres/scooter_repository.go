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

var _ repository.ScooterRepository = (*ScooterRepo)(nil)

const scooterColumns = `id, model, location, frame, battery, status, COALESCE(connection_status, ''), last_action_id`

// ScooterRepo inventario de patinetes sobre PostgreSQL (tabla scooter).
type ScooterRepo struct {
	q Querier
}

// NewScooterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewScooterRepository(q Querier) *ScooterRepo {
	return &ScooterRepo{q: q}
}

// List devuelve toda la flota ordenada por id.
func (r *ScooterRepo) List(ctx context.Context) ([]*entity.Scooter, error) {
	rows, err := r.q.Query(ctx, `SELECT `+scooterColumns+` FROM scooter ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list scooters: %w", err)
	}
	defer rows.Close()
	var list []*entity.Scooter
	for rows.Next() {
		s, err := scanScooter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scooter: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *ScooterRepo) GetByID(ctx context.Context, id int64) (*entity.Scooter, error) {
	return r.getOne(ctx, `SELECT `+scooterColumns+` FROM scooter WHERE id = $1`, "get scooter by id", id)
}

func (r *ScooterRepo) GetByFrame(ctx context.Context, frame string) (*entity.Scooter, error) {
	return r.getOne(ctx, `SELECT `+scooterColumns+` FROM scooter WHERE frame = $1`, "get scooter by frame", frame)
}

// GetByFrameForUpdate bloquea la fila del patinete hasta el fin de la tx.
func (r *ScooterRepo) GetByFrameForUpdate(ctx context.Context, frame string) (*entity.Scooter, error) {
	return r.getOne(ctx, `SELECT `+scooterColumns+` FROM scooter WHERE frame = $1 FOR UPDATE`, "get scooter by frame for update", frame)
}

// GetByIDForUpdate bloquea la fila del patinete hasta el fin de la tx.
func (r *ScooterRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Scooter, error) {
	return r.getOne(ctx, `SELECT `+scooterColumns+` FROM scooter WHERE id = $1 FOR UPDATE`, "get scooter for update", id)
}

// Create inserta un patinete; frame repetido -> domain.ErrDuplicate.
func (r *ScooterRepo) Create(ctx context.Context, s *entity.Scooter) error {
	query := `
		INSERT INTO scooter (model, location, frame, battery, status, connection_status)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING id`
	err := r.q.QueryRow(ctx, query, s.Model, s.Location, s.Frame, s.Battery, s.Status, s.ConnectionStatus).Scan(&s.ID)
	if err != nil {
		if isUniqueViolation(err, "scooter_frame_key") {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert scooter: %w", err)
	}
	return nil
}

// CreateIgnoringDuplicates inserta los patinetes cuyo frame no exista todavía.
func (r *ScooterRepo) CreateIgnoringDuplicates(ctx context.Context, scooters []*entity.Scooter) (int, error) {
	query := `
		INSERT INTO scooter (model, location, frame, battery, status, connection_status)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		ON CONFLICT (frame) DO NOTHING
		RETURNING id`
	inserted := 0
	for _, s := range scooters {
		err := r.q.QueryRow(ctx, query, s.Model, s.Location, s.Frame, s.Battery, s.Status, s.ConnectionStatus).Scan(&s.ID)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return inserted, fmt.Errorf("insert sample scooter %q: %w", s.Frame, err)
		}
		inserted++
	}
	return inserted, nil
}

// TransitionStatus UPDATE condicionado al estado actual; false si no cambió ninguna fila.
func (r *ScooterRepo) TransitionStatus(ctx context.Context, id int64, from, to string) (bool, error) {
	tag, err := r.q.Exec(ctx, `UPDATE scooter SET status = $3 WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		return false, fmt.Errorf("transition scooter status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ScooterRepo) SetStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE scooter SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set scooter status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrScooterNotFound
	}
	return nil
}

func (r *ScooterRepo) SetLastAction(ctx context.Context, id, actionID int64) error {
	if _, err := r.q.Exec(ctx, `UPDATE scooter SET last_action_id = $2 WHERE id = $1`, id, actionID); err != nil {
		return fmt.Errorf("set scooter last action: %w", err)
	}
	return nil
}

// DeleteAll borra la flota. Los alquileres y acciones asociados caen en cascada.
func (r *ScooterRepo) DeleteAll(ctx context.Context) (int64, error) {
	// Primero se corta scooter -> last_action para que la cascada no choque con la fila que se borra.
	if _, err := r.q.Exec(ctx, `UPDATE scooter SET last_action_id = NULL WHERE last_action_id IS NOT NULL`); err != nil {
		return 0, fmt.Errorf("clear last actions: %w", err)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM scooter`)
	if err != nil {
		return 0, fmt.Errorf("delete scooters: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ScooterRepo) getOne(ctx context.Context, query, op string, args ...any) (*entity.Scooter, error) {
	s, err := scanScooter(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func scanScooter(row pgx.Row) (*entity.Scooter, error) {
	var s entity.Scooter
	err := row.Scan(&s.ID, &s.Model, &s.Location, &s.Frame, &s.Battery, &s.Status, &s.ConnectionStatus, &s.LastActionID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
