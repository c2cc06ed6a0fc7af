package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/samokat-api/internal/application/dto"
	"github.com/jhoicas/samokat-api/internal/domain"
	"github.com/jhoicas/samokat-api/pkg/logger"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// Orden relevante: el primer errors.Is que coincide gana.
var errorTable = []errorMapping{
	{domain.ErrUnauthenticated, fiber.StatusUnauthorized, "UNAUTHENTICATED"},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrAccountDisabled, fiber.StatusBadRequest, "ACCOUNT_DISABLED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},

	{domain.ErrScooterNotFound, fiber.StatusNotFound, "SCOOTER_NOT_FOUND"},
	{domain.ErrTariffNotFound, fiber.StatusNotFound, "TARIFF_NOT_FOUND"},
	{domain.ErrRentalNotFound, fiber.StatusNotFound, "RENTAL_NOT_FOUND"},
	{domain.ErrPaymentNotFound, fiber.StatusNotFound, "PAYMENT_NOT_FOUND"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},

	{domain.ErrScooterUnavailable, fiber.StatusBadRequest, "SCOOTER_UNAVAILABLE"},
	{domain.ErrRentalAlreadyClosed, fiber.StatusBadRequest, "RENTAL_ALREADY_CLOSED"},
	{domain.ErrRentalStillOpen, fiber.StatusBadRequest, "RENTAL_OPEN"},
	{domain.ErrConflict, fiber.StatusBadRequest, "CONFLICT"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},

	{domain.ErrAlreadyPaid, fiber.StatusConflict, "ALREADY_PAID"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},

	{domain.ErrInsufficientBalance, fiber.StatusPaymentRequired, "INSUFFICIENT_BALANCE"},
}

// writeError traduce un error de dominio a HTTP. Lo no mapeado es 500 con mensaje genérico.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			if m.status == fiber.StatusUnauthorized {
				c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func badParam(c *fiber.Ctx, name string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAM", Message: name + " debe ser un entero positivo"})
}

// ErrorHandler handler global de fiber: respeta *fiber.Error y delega el resto en writeError.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
		}
		return writeError(c, log, err)
	}
}
