package dto

import "time"

// ScooterRequest alta de un patinete (admin).
type ScooterRequest struct {
	Model            string `json:"model"`
	Location         string `json:"location"`
	Frame            string `json:"frame"`
	Battery          int    `json:"battery"`
	Status           string `json:"status"`
	ConnectionStatus string `json:"connection_status"`
}

// ScooterResponse salida de un patinete.
type ScooterResponse struct {
	ID               int64  `json:"id"`
	Model            string `json:"model"`
	Location         string `json:"location"`
	Frame            string `json:"frame"`
	Battery          int    `json:"battery"`
	Status           string `json:"status"`
	ConnectionStatus string `json:"connection_status"`
	LastActionID     *int64 `json:"last_action_id"`
}

// AddScooterResponse salida de POST /scooter/add_scooter.
type AddScooterResponse struct {
	Scooter ScooterResponse `json:"scooter"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
}

// ScooterActionResponse una acción del historial del patinete.
type ScooterActionResponse struct {
	ID         int64     `json:"id"`
	UserPhone  string    `json:"user_phone"`
	ActionType string    `json:"action_type"`
	RentalID   *int64    `json:"rental_id"`
	ActionTime time.Time `json:"action_time"`
}

// ScooterActionsResponse historial y última acción de un patinete.
type ScooterActionsResponse struct {
	ScooterID  int64                   `json:"scooter_id"`
	LastAction *ScooterActionResponse  `json:"last_action"`
	Items      []ScooterActionResponse `json:"items"`
}
