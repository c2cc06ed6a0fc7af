package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/samokat-api/internal/domain"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	"github.com/jhoicas/samokat-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, phone, COALESCE(username, ''), COALESCE(hashed_password, ''), role_id, balance, disabled`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario y asigna el ID. El trigger
// users_subject_guard rechaza un phone o username ya usado en la otra columna.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (phone, username, hashed_password, role_id, balance, disabled)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		user.Phone, user.Username, user.PasswordHash, user.RoleID, user.Balance, user.Disabled,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err, "") {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, "get user by id", id)
}

// GetBySubject busca por username; si no hay, por teléfono.
func (r *UserRepo) GetBySubject(ctx context.Context, subject string) (*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users WHERE username = $1 OR phone = $1
		ORDER BY (username = $1) DESC NULLS LAST
		LIMIT 1`
	return r.getOne(ctx, query, "get user by subject", subject)
}

// GetByIDForUpdate obtiene el usuario y bloquea la fila (SELECT FOR UPDATE).
func (r *UserRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, "get user for update", id)
}

// UpdateRole cambia el rol. Un role_id inexistente viola la FK.
func (r *UserRepo) UpdateRole(ctx context.Context, id int64, roleID int) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET role_id = $2 WHERE id = $1`, id, roleID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update user role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateBalance fija el saldo.
func (r *UserRepo) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET balance = $2 WHERE id = $1`, id, balance)
	if err != nil {
		return fmt.Errorf("update user balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, query, op string, args ...any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Phone, &u.Username, &u.PasswordHash, &u.RoleID, &u.Balance, &u.Disabled,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}
