package entity

import "github.com/shopspring/decimal"

// User representa una cuenta del servicio. Phone es único; Username es opcional.
type User struct {
	ID           int64
	Phone        string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	RoleID       int
	Balance      decimal.Decimal // NUMERIC(10,2), nunca negativo
	Disabled     bool
}

// Subject devuelve el identificador que viaja en el claim "sub" del token.
func (u *User) Subject() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Phone
}

// ClaimsSubject indica si s ya identifica a este usuario, como teléfono o
// como username. Un identificador pertenece a lo sumo a una cuenta.
func (u *User) ClaimsSubject(s string) bool {
	return s != "" && (u.Phone == s || u.Username == s)
}

// Tier devuelve el nivel de autorización derivado del rol.
func (u *User) Tier() Tier {
	return TierForRole(u.RoleID)
}
