package entity

import "time"

// Tipos de acción sembrados en action_types.
const (
	ActionRentalStart = "rental_start"
	ActionRentalEnd   = "rental_end"
)

// ScooterAction registro de una acción sobre un patinete (tabla last_action).
// El patinete referencia la más reciente con LastActionID; el historial se
// obtiene por ScooterID. Ninguno de los dos es dueño del otro.
type ScooterAction struct {
	ID         int64
	UserPhone  string
	ScooterID  int64
	ActionType string
	RentalID   *int64
	ActionTime time.Time
}
