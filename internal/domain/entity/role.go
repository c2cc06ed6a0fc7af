package entity

// IDs de rol sembrados en la tabla roles. Son la única traducción
// entre números de rol y niveles de autorización.
const (
	RoleIDAdmin   = 1
	RoleIDManager = 2
	RoleIDRegular = 3 // rol por defecto al registrarse
)

// Role rol persistido (tabla roles).
type Role struct {
	ID          int
	Name        string
	Permissions []string
}

// Tier nivel de autorización: Admin, Manager o Regular.
type Tier int

const (
	TierRegular Tier = iota
	TierManager
	TierAdmin
)

var tierByRoleID = map[int]Tier{
	RoleIDAdmin:   TierAdmin,
	RoleIDManager: TierManager,
}

// TierForRole traduce un role_id a su nivel. Cualquier id no mapeado es Regular.
func TierForRole(roleID int) Tier {
	if t, ok := tierByRoleID[roleID]; ok {
		return t
	}
	return TierRegular
}

// Admits informa si un usuario con roleID pasa el control de este nivel.
// Admin y Manager exigen coincidencia exacta; Regular admite a cualquiera.
func (t Tier) Admits(roleID int) bool {
	if t == TierRegular {
		return true
	}
	return TierForRole(roleID) == t
}

func (t Tier) String() string {
	switch t {
	case TierAdmin:
		return "admin"
	case TierManager:
		return "manager"
	default:
		return "regular"
	}
}
