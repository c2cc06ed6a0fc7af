package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/samokat-api/internal/application/dto"
	"github.com/jhoicas/samokat-api/internal/domain"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	"github.com/jhoicas/samokat-api/internal/domain/repository"
	"github.com/jhoicas/samokat-api/pkg/jwt"
	"github.com/jhoicas/samokat-api/pkg/logger"
)

const tokenTypeBearer = "bearer"

// AuthUseCase registro, login y la puerta de acceso (autenticar + autorizar).
type AuthUseCase struct {
	users    repository.UserRepository
	roles    repository.RoleRepository
	tokens   *jwt.Signer
	tokenTTL time.Duration
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth. tokenTTL es la vigencia de los tokens de login.
func NewAuthUseCase(users repository.UserRepository, roles repository.RoleRepository, tokens *jwt.Signer, tokenTTL time.Duration, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{users: users, roles: roles, tokens: tokens, tokenTTL: tokenTTL, log: log.Component("auth")}
}

// Register crea una cuenta con rol regular y saldo 0. Teléfono o username repetidos -> ErrDuplicate.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	phone := strings.TrimSpace(in.Phone)
	username := strings.TrimSpace(in.Username)
	if phone == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Phone:        phone,
		Username:     username,
		PasswordHash: string(hash),
		RoleID:       entity.RoleIDRegular,
		Balance:      decimal.Zero,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("user_id", user.ID).Msg("usuario registrado")
	return ToUserResponse(user, nil), nil
}

// SeedAdmin crea la cuenta admin inicial si el teléfono o username no existen.
// Devuelve false si ya había una cuenta con ese identificador.
func (uc *AuthUseCase) SeedAdmin(ctx context.Context, phone, username, password string) (bool, error) {
	for _, subject := range []string{username, phone} {
		if subject == "" {
			continue
		}
		existing, err := uc.users.GetBySubject(ctx, subject)
		if err != nil {
			return false, err
		}
		if existing != nil {
			return false, nil
		}
	}
	if strings.TrimSpace(phone) == "" || len(password) < 8 {
		return false, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	user := &entity.User{
		Phone:        strings.TrimSpace(phone),
		Username:     strings.TrimSpace(username),
		PasswordHash: string(hash),
		RoleID:       entity.RoleIDAdmin,
		Balance:      decimal.Zero,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return false, err
	}
	uc.log.Info().Int64("user_id", user.ID).Msg("admin inicial creado")
	return true, nil
}

// Login verifica username (o teléfono) y password y emite un token bearer.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := uc.users.GetBySubject(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	token, err := uc.tokens.Issue(user.Subject(), user.RoleID, uc.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{AccessToken: token, TokenType: tokenTypeBearer}, nil
}

// Authenticate resuelve el usuario dueño del token. Cualquier fallo -> ErrUnauthenticated.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	claims, err := uc.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	user, err := uc.users.GetBySubject(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// Authorize comprueba cuenta activa y nivel. Deshabilitada se evalúa antes que el nivel.
func Authorize(user *entity.User, tier entity.Tier) error {
	if user == nil {
		return domain.ErrUnauthenticated
	}
	if user.Disabled {
		return domain.ErrAccountDisabled
	}
	if !tier.Admits(user.RoleID) {
		return domain.ErrForbidden
	}
	return nil
}

// VerifyToken informa si el token es válido y devuelve sus claims.
func (uc *AuthUseCase) VerifyToken(token string) (*dto.VerifyTokenResponse, error) {
	claims, err := uc.tokens.Verify(token)
	if err != nil {
		if !errors.Is(err, jwt.ErrExpired) {
			uc.log.Debug().Err(err).Msg("token rechazado")
		}
		return nil, domain.ErrUnauthenticated
	}
	return &dto.VerifyTokenResponse{Message: "token válido", Subject: claims.Subject, Role: claims.Role}, nil
}

// Me perfil del usuario autenticado con los permisos de su rol.
func (uc *AuthUseCase) Me(ctx context.Context, user *entity.User) (*dto.UserResponse, error) {
	role, err := uc.roles.GetByID(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}
	var perms []string
	if role != nil {
		perms = role.Permissions
	}
	return ToUserResponse(user, perms), nil
}

// ToUserResponse mapea la entidad al DTO; nunca expone el hash.
func ToUserResponse(u *entity.User, permissions []string) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:          u.ID,
		Phone:       u.Phone,
		Username:    u.Username,
		RoleID:      u.RoleID,
		Tier:        u.Tier().String(),
		Balance:     u.Balance,
		Disabled:    u.Disabled,
		Permissions: permissions,
	}
}
