package repository

import (
	"context"

	"github.com/jhoicas/samokat-api/internal/domain/entity"
)

// ScooterRepository puerto de persistencia del inventario de patinetes.
// Usable con pool o dentro de una transacción.
type ScooterRepository interface {
	List(ctx context.Context) ([]*entity.Scooter, error)
	GetByID(ctx context.Context, id int64) (*entity.Scooter, error)
	GetByFrame(ctx context.Context, frame string) (*entity.Scooter, error)
	// GetByFrameForUpdate / GetByIDForUpdate bloquean la fila (SELECT FOR UPDATE).
	GetByFrameForUpdate(ctx context.Context, frame string) (*entity.Scooter, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Scooter, error)
	// Create devuelve domain.ErrDuplicate si el frame ya existe.
	Create(ctx context.Context, scooter *entity.Scooter) error
	// CreateIgnoringDuplicates inserta los que no existan (por frame) y devuelve cuántos insertó.
	CreateIgnoringDuplicates(ctx context.Context, scooters []*entity.Scooter) (int, error)
	// TransitionStatus cambia el estado solo si el actual es from. false = ninguna fila afectada.
	TransitionStatus(ctx context.Context, id int64, from, to string) (bool, error)
	SetStatus(ctx context.Context, id int64, status string) error
	SetLastAction(ctx context.Context, id, actionID int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

// ScooterActionRepository historial de acciones por patinete (tabla last_action).
type ScooterActionRepository interface {
	// Create resuelve ActionType por nombre y asigna ID/ActionTime.
	Create(ctx context.Context, action *entity.ScooterAction) error
	GetByID(ctx context.Context, id int64) (*entity.ScooterAction, error)
	ListByScooter(ctx context.Context, scooterID int64, limit int) ([]*entity.ScooterAction, error)
}
