package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/samokat-api/internal/application/dto"
	"github.com/jhoicas/samokat-api/internal/application/payment"
	"github.com/jhoicas/samokat-api/internal/domain"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	"github.com/jhoicas/samokat-api/pkg/logger"
)

// PaymentHandler pagos de alquileres.
type PaymentHandler struct {
	uc  *payment.PaymentUseCase
	log *logger.Logger
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *payment.PaymentUseCase, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{uc: uc, log: log}
}

// Pay godoc
// @Summary      Pagar un alquiler cerrado
// @Description  balance descuenta el saldo (402 si no alcanza, el intento queda como failed); card queda pending.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        rental_id  path  int             true  "ID del alquiler"
// @Param        body       body  dto.PayRequest  true  "method: balance | card"
// @Success      201  {object}  dto.PaymentResponse
// @Failure      402  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /rentals/{rental_id}/payments [post]
func (h *PaymentHandler) Pay(c *fiber.Ctx) error {
	id, err := paramID(c, "rental_id")
	if err != nil {
		return badParam(c, "rental_id")
	}
	var in dto.PayRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Pay(c.UserContext(), GetUser(c), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if out.Status == entity.PaymentStatusFailed {
		return writeError(c, h.log, domain.ErrInsufficientBalance)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Pagos de un alquiler
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        rental_id  path  int  true  "ID del alquiler"
// @Success      200  {array}  dto.PaymentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /rentals/{rental_id}/payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	id, err := paramID(c, "rental_id")
	if err != nil {
		return badParam(c, "rental_id")
	}
	out, err := h.uc.ListByRental(c.UserContext(), GetUser(c), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Liquidar pago pendiente
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        payment_id  path  int                             true  "ID del pago"
// @Param        body        body  dto.UpdatePaymentStatusRequest  true  "status: completed | failed"
// @Success      200  {object}  dto.PaymentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /payments/{payment_id} [patch]
func (h *PaymentHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "payment_id")
	if err != nil {
		return badParam(c, "payment_id")
	}
	var in dto.UpdatePaymentStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
