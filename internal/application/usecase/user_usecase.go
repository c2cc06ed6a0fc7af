package usecase

import (
	"context"

	"github.com/jhoicas/samokat-api/internal/application/auth"
	"github.com/jhoicas/samokat-api/internal/application/dto"
	"github.com/jhoicas/samokat-api/internal/domain"
	"github.com/jhoicas/samokat-api/internal/domain/repository"
	"github.com/jhoicas/samokat-api/pkg/logger"
)

// BalanceTxRunner transacción sobre usuarios para mover saldo.
type BalanceTxRunner interface {
	RunBalance(ctx context.Context, fn func(users repository.UserRepository) error) error
}

// UserUseCase operaciones de administración sobre cuentas: rol y saldo.
type UserUseCase struct {
	users repository.UserRepository
	roles repository.RoleRepository
	tx    BalanceTxRunner
	log   *logger.Logger
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(users repository.UserRepository, roles repository.RoleRepository, tx BalanceTxRunner, log *logger.Logger) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{users: users, roles: roles, tx: tx, log: log.Component("user")}
}

// ChangeRole asigna un rol existente a un usuario (admin).
func (uc *UserUseCase) ChangeRole(ctx context.Context, userID int64, in dto.ChangeRoleRequest) (*dto.UserResponse, error) {
	role, err := uc.roles.GetByID(ctx, in.RoleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.users.UpdateRole(ctx, userID, role.ID); err != nil {
		return nil, err
	}
	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	uc.log.Info().Int64("user_id", userID).Int("role_id", role.ID).Msg("rol actualizado")
	return auth.ToUserResponse(u, role.Permissions), nil
}

// TopUpBalance suma amount al saldo del usuario (manager). amount debe ser
// positivo y sin fracciones de kopek; los ceros finales ("10.500") se aceptan.
func (uc *UserUseCase) TopUpBalance(ctx context.Context, userID int64, in dto.TopUpRequest) (*dto.UserResponse, error) {
	if !in.Amount.IsPositive() || !in.Amount.Equal(in.Amount.Round(2)) {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.UserResponse
	err := uc.tx.RunBalance(ctx, func(users repository.UserRepository) error {
		u, err := users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserNotFound
		}
		u.Balance = u.Balance.Add(in.Amount)
		if err := users.UpdateBalance(ctx, u.ID, u.Balance); err != nil {
			return err
		}
		out = auth.ToUserResponse(u, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("user_id", userID).Str("amount", in.Amount.StringFixed(2)).Msg("saldo recargado")
	return out, nil
}
