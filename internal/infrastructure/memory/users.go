package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/samokat-api/internal/domain"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	"github.com/jhoicas/samokat-api/internal/domain/repository"
)

var (
	_ repository.UserRepository = (*UserRepo)(nil)
	_ repository.RoleRepository = (*RoleRepo)(nil)
)

// UserRepo usuarios en memoria. phone y username comparten un único espacio
// de identificadores: ninguno puede repetirse en ninguna de las dos columnas.
type UserRepo struct{ base }

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	defer r.lock()()
	for _, u := range r.s.users {
		if u.ClaimsSubject(user.Phone) || (user.Username != "" && u.ClaimsSubject(user.Username)) {
			return domain.ErrDuplicate
		}
	}
	user.ID = r.s.nextID()
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	defer r.lock()()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetBySubject busca por username y después por teléfono.
func (r *UserRepo) GetBySubject(_ context.Context, subject string) (*entity.User, error) {
	defer r.lock()()
	var byPhone *entity.User
	for _, u := range r.s.users {
		if u.Username != "" && u.Username == subject {
			return &u, nil
		}
		if u.Phone == subject {
			cp := u
			byPhone = &cp
		}
	}
	return byPhone, nil
}

func (r *UserRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r *UserRepo) UpdateRole(_ context.Context, id int64, roleID int) error {
	defer r.lock()()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if _, ok := r.s.roles[roleID]; !ok {
		return domain.ErrNotFound
	}
	u.RoleID = roleID
	r.s.users[id] = u
	return nil
}

func (r *UserRepo) UpdateBalance(_ context.Context, id int64, balance decimal.Decimal) error {
	defer r.lock()()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Balance = balance
	r.s.users[id] = u
	return nil
}

// RoleRepo roles fijos sembrados en NewStore.
type RoleRepo struct{ base }

func (r *RoleRepo) GetByID(_ context.Context, id int) (*entity.Role, error) {
	defer r.lock()()
	role, ok := r.s.roles[id]
	if !ok {
		return nil, nil
	}
	role.Permissions = append([]string(nil), role.Permissions...)
	return &role, nil
}
