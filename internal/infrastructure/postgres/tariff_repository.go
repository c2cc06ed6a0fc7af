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

var _ repository.TariffRepository = (*TariffRepo)(nil)

// TariffRepo tarifas sobre PostgreSQL.
type TariffRepo struct {
	q Querier
}

func NewTariffRepository(q Querier) *TariffRepo {
	return &TariffRepo{q: q}
}

func (r *TariffRepo) GetByID(ctx context.Context, id int64) (*entity.Tariff, error) {
	var t entity.Tariff
	err := r.q.QueryRow(ctx, `SELECT id, name, cost_type, price FROM tariffs WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.CostType, &t.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tariff: %w", err)
	}
	return &t, nil
}

func (r *TariffRepo) List(ctx context.Context) ([]*entity.Tariff, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, cost_type, price FROM tariffs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tariffs: %w", err)
	}
	defer rows.Close()
	var list []*entity.Tariff
	for rows.Next() {
		var t entity.Tariff
		if err := rows.Scan(&t.ID, &t.Name, &t.CostType, &t.Price); err != nil {
			return nil, fmt.Errorf("scan tariff: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// Create inserta la tarifa; nombre repetido -> domain.ErrDuplicate.
func (r *TariffRepo) Create(ctx context.Context, t *entity.Tariff) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO tariffs (name, cost_type, price) VALUES ($1, $2, $3) RETURNING id`,
		t.Name, t.CostType, t.Price,
	).Scan(&t.ID)
	if err != nil {
		if isUniqueViolation(err, "tariffs_name_key") {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tariff: %w", err)
	}
	return nil
}
