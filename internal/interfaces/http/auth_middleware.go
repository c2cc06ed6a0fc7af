package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/samokat-api/internal/application/auth"
	"github.com/jhoicas/samokat-api/internal/application/dto"
	"github.com/jhoicas/samokat-api/internal/domain"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
)

// LocalUser key de c.Locals con el *entity.User autenticado.
const LocalUser = "user"

// authenticator lo implementa *auth.AuthUseCase.
type authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

// AuthMiddleware valida el Bearer Token, resuelve el usuario y lo deja en c.Locals.
func AuthMiddleware(authn authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "MISSING_TOKEN", "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "INVALID_TOKEN", "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return unauthorized(c, "MISSING_TOKEN", "token vacío")
		}
		user, err := authn.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			if err == domain.ErrUnauthenticated {
				return unauthorized(c, "INVALID_TOKEN", domain.ErrUnauthenticated.Error())
			}
			return err
		}
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// RequireTier deja pasar si la cuenta está activa y alguno de los niveles la admite.
// Sin niveles solo se comprueba que la cuenta esté activa. Debe ir DESPUÉS de AuthMiddleware.
func RequireTier(tiers ...entity.Tier) fiber.Handler {
	if len(tiers) == 0 {
		tiers = []entity.Tier{entity.TierRegular}
	}
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		var err error
		for _, t := range tiers {
			if err = auth.Authorize(user, t); err == nil {
				return c.Next()
			}
			if err != domain.ErrForbidden {
				break
			}
		}
		switch err {
		case domain.ErrUnauthenticated:
			return unauthorized(c, "UNAUTHENTICATED", err.Error())
		case domain.ErrAccountDisabled:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "ACCOUNT_DISABLED", Message: err.Error()})
		default:
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: domain.ErrForbidden.Error()})
		}
	}
}

// GetUser devuelve el usuario autenticado (nil antes de AuthMiddleware).
func GetUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

func unauthorized(c *fiber.Ctx, code, msg string) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
