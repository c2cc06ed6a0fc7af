package repository

import (
	"context"

	"github.com/jhoicas/samokat-api/internal/domain/entity"
)

// RentalRepository puerto de persistencia de alquileres.
type RentalRepository interface {
	// Create inserta y asigna ID. Devuelve domain.ErrScooterUnavailable si el
	// índice de un-alquiler-abierto-por-patinete lo rechaza.
	Create(ctx context.Context, rental *entity.Rental) error
	// GetByIDAndUser busca por id Y dueño: un alquiler ajeno no existe para el caller.
	GetByIDAndUser(ctx context.Context, id, userID int64) (*entity.Rental, error)
	GetByIDAndUserForUpdate(ctx context.Context, id, userID int64) (*entity.Rental, error)
	// Close persiste end_time, end_location, status y total_cost.
	Close(ctx context.Context, rental *entity.Rental) error
	// HistoryByUser alquileres cerrados con end_time > start_time, más recientes primero.
	HistoryByUser(ctx context.Context, userID int64) ([]*entity.RentalSummary, error)
}

// TariffRepository tarifas (datos de referencia).
type TariffRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Tariff, error)
	List(ctx context.Context) ([]*entity.Tariff, error)
	Create(ctx context.Context, tariff *entity.Tariff) error
}
