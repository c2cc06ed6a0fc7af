package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/samokat-api/internal/application/dto"
	"github.com/jhoicas/samokat-api/internal/application/rental"
	"github.com/jhoicas/samokat-api/pkg/logger"
)

// RentalHandler ciclo de vida del alquiler del usuario autenticado.
type RentalHandler struct {
	uc  *rental.RentalUseCase
	log *logger.Logger
}

// NewRentalHandler construye el handler.
func NewRentalHandler(uc *rental.RentalUseCase, log *logger.Logger) *RentalHandler {
	return &RentalHandler{uc: uc, log: log}
}

// Start godoc
// @Summary      Iniciar alquiler
// @Tags         rentals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartRentalRequest  true  "frame, tariff_id"
// @Success      200  {object}  dto.RentalResponse
// @Failure      400  {object}  dto.ErrorResponse  "patinete no disponible"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /rentals/start [post]
func (h *RentalHandler) Start(c *fiber.Ctx) error {
	var in dto.StartRentalRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.StartRental(c.UserContext(), GetUser(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// End godoc
// @Summary      Terminar alquiler
// @Tags         rentals
// @Security     Bearer
// @Produce      json
// @Param        rental_id  path  int  true  "ID del alquiler"
// @Success      200  {object}  dto.RentalResponse
// @Failure      400  {object}  dto.ErrorResponse  "ya cerrado"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /rentals/{rental_id}/end [patch]
func (h *RentalHandler) End(c *fiber.Ctx) error {
	id, err := paramID(c, "rental_id")
	if err != nil {
		return badParam(c, "rental_id")
	}
	out, err := h.uc.EndRental(c.UserContext(), GetUser(c), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de alquileres cerrados
// @Tags         rentals
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.RentalHistoryRow
// @Router       /rentals/history [get]
func (h *RentalHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), GetUser(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Recibo PDF de un alquiler cerrado
// @Tags         rentals
// @Security     Bearer
// @Produce      application/pdf
// @Param        rental_id  path  int  true  "ID del alquiler"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse  "alquiler abierto"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /rentals/{rental_id}/receipt [get]
func (h *RentalHandler) Receipt(c *fiber.Ctx) error {
	id, err := paramID(c, "rental_id")
	if err != nil {
		return badParam(c, "rental_id")
	}
	pdf, err := h.uc.Receipt(c.UserContext(), GetUser(c), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="rental-%d.pdf"`, id))
	return c.Send(pdf)
}
