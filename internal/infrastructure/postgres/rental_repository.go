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

var _ repository.RentalRepository = (*RentalRepo)(nil)

const rentalColumns = `id, user_id, scooter_id, tariff_id, start_time, start_location, end_time, end_location, status, total_cost`

// RentalRepo alquileres sobre PostgreSQL.
type RentalRepo struct {
	q Querier
}

// NewRentalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRentalRepository(q Querier) *RentalRepo {
	return &RentalRepo{q: q}
}

// Create inserta el alquiler. El índice rentals_one_open_per_scooter impide
// un segundo alquiler abierto sobre el mismo patinete.
func (r *RentalRepo) Create(ctx context.Context, rental *entity.Rental) error {
	query := `
		INSERT INTO rentals (user_id, scooter_id, tariff_id, start_time, start_location, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		rental.UserID, rental.ScooterID, rental.TariffID, rental.StartTime, rental.StartLocation, rental.Status,
	).Scan(&rental.ID)
	if err != nil {
		if isUniqueViolation(err, "rentals_one_open_per_scooter") {
			return domain.ErrScooterUnavailable
		}
		return fmt.Errorf("insert rental: %w", err)
	}
	return nil
}

// GetByIDAndUser devuelve (nil, nil) si no existe o es de otro usuario.
func (r *RentalRepo) GetByIDAndUser(ctx context.Context, id, userID int64) (*entity.Rental, error) {
	return r.getOne(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE id = $1 AND user_id = $2`, "get rental", id, userID)
}

// GetByIDAndUserForUpdate como GetByIDAndUser pero bloquea la fila.
func (r *RentalRepo) GetByIDAndUserForUpdate(ctx context.Context, id, userID int64) (*entity.Rental, error) {
	return r.getOne(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE id = $1 AND user_id = $2 FOR UPDATE`, "get rental for update", id, userID)
}

// Close persiste el cierre. Solo afecta alquileres abiertos.
func (r *RentalRepo) Close(ctx context.Context, rental *entity.Rental) error {
	query := `
		UPDATE rentals
		SET end_time = $2, end_location = $3, status = $4, total_cost = $5
		WHERE id = $1 AND status`
	tag, err := r.q.Exec(ctx, query, rental.ID, rental.EndTime, rental.EndLocation, rental.Status, rental.TotalCost)
	if err != nil {
		return fmt.Errorf("close rental: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRentalAlreadyClosed
	}
	return nil
}

// HistoryByUser alquileres cerrados del usuario con frame y nombre de tarifa.
func (r *RentalRepo) HistoryByUser(ctx context.Context, userID int64) ([]*entity.RentalSummary, error) {
	query := `
		SELECT r.id, s.frame, t.name, r.start_time, r.end_time, r.total_cost
		FROM rentals r
		JOIN scooter s ON s.id = r.scooter_id
		JOIN tariffs t ON t.id = r.tariff_id
		WHERE r.user_id = $1
		  AND r.end_time IS NOT NULL
		  AND r.end_time > r.start_time
		ORDER BY r.start_time DESC, r.id DESC`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("rental history: %w", err)
	}
	defer rows.Close()
	var list []*entity.RentalSummary
	for rows.Next() {
		var s entity.RentalSummary
		if err := rows.Scan(&s.RentalID, &s.Frame, &s.TariffName, &s.StartTime, &s.EndTime, &s.TotalCost); err != nil {
			return nil, fmt.Errorf("scan rental summary: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

func (r *RentalRepo) getOne(ctx context.Context, query, op string, args ...any) (*entity.Rental, error) {
	var rt entity.Rental
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&rt.ID, &rt.UserID, &rt.ScooterID, &rt.TariffID, &rt.StartTime, &rt.StartLocation,
		&rt.EndTime, &rt.EndLocation, &rt.Status, &rt.TotalCost,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &rt, nil
}
