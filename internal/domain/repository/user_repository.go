package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/samokat-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (credential store).
// Los Get* devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	// GetBySubject busca por username y, si no hay coincidencia, por teléfono.
	GetBySubject(ctx context.Context, subject string) (*entity.User, error)
	// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE); solo dentro de una tx.
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.User, error)
	UpdateRole(ctx context.Context, id int64, roleID int) error
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error
}

// RoleRepository lectura de roles y sus permisos.
type RoleRepository interface {
	GetByID(ctx context.Context, id int) (*entity.Role, error)
}
