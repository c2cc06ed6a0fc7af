package dto

import "github.com/shopspring/decimal"

// RegisterRequest alta de cuenta: teléfono, username y password.
type RegisterRequest struct {
	Phone    string `json:"phone" validate:"required,max=20"`
	Username string `json:"username" validate:"required,max=256"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest entrada de POST /token. Acepta form-urlencoded (OAuth2 password flow) o JSON.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// TokenResponse salida de POST /token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse perfil de usuario (sin hash).
type UserResponse struct {
	ID          int64           `json:"id"`
	Phone       string          `json:"phone"`
	Username    string          `json:"username,omitempty"`
	RoleID      int             `json:"role_id"`
	Tier        string          `json:"tier"`
	Balance     decimal.Decimal `json:"balance"`
	Disabled    bool            `json:"disabled"`
	Permissions []string        `json:"permissions,omitempty"`
}

// ChangeRoleRequest cambio de rol (admin).
type ChangeRoleRequest struct {
	RoleID int `json:"role_id"`
}

// TopUpRequest recarga de saldo (manager).
type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// VerifyTokenResponse salida de GET /verify-token/{token}.
type VerifyTokenResponse struct {
	Message string `json:"message"`
	Subject string `json:"sub"`
	Role    int    `json:"role"`
}
