package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/samokat-api/internal/application/dto"
	"github.com/jhoicas/samokat-api/pkg/logger"
)

// LoginLimiter lo implementa *redis.RateLimiter.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit limita intentos por IP.
//
// Comportamiento:
//   - 429 Too Many Requests → se superó el límite de la ventana.
//   - Si Redis falla se deja pasar la petición y se registra el error.
//   - limiter nil desactiva el middleware.
func RateLimit(limiter LoginLimiter, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}
		ok, err := limiter.Allow(c.UserContext(), c.IP())
		if err != nil {
			log.Warn().Err(err).Str("ip", c.IP()).Msg("rate limit no disponible")
			return c.Next()
		}
		if !ok {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "TOO_MANY_REQUESTS",
				Message: "demasiados intentos, intente más tarde",
			})
		}
		return c.Next()
	}
}
