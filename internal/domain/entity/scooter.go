package entity

// Estados de un patinete. Solo el gestor de alquileres mueve available <-> in_use.
const (
	ScooterStatusAvailable   = "available"
	ScooterStatusInUse       = "in_use"
	ScooterStatusCharging    = "charging"
	ScooterStatusMaintenance = "maintenance"
)

// Estados de conexión del patinete.
const (
	ConnectionOnline  = "online"
	ConnectionOffline = "offline"
)

// Scooter patinete de la flota. Frame es la clave de búsqueda visible para el usuario.
type Scooter struct {
	ID               int64
	Model            string
	Location         string // "lat, lon" en texto libre
	Frame            string
	Battery          int
	Status           string
	ConnectionStatus string
	LastActionID     *int64 // última ScooterAction; el historial se consulta por scooter_id
}

// IsAvailable informa si el patinete puede alquilarse.
func (s *Scooter) IsAvailable() bool {
	return s.Status == ScooterStatusAvailable
}

// ValidScooterStatus valida el estado recibido desde la API.
func ValidScooterStatus(status string) bool {
	switch status {
	case ScooterStatusAvailable, ScooterStatusInUse, ScooterStatusCharging, ScooterStatusMaintenance:
		return true
	}
	return false
}

// ValidConnectionStatus valida el estado de conexión; vacío se acepta (desconocido).
func ValidConnectionStatus(status string) bool {
	return status == "" || status == ConnectionOnline || status == ConnectionOffline
}
