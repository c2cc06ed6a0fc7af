package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/samokat-api/internal/application/dto"
	"github.com/jhoicas/samokat-api/internal/application/usecase"
	"github.com/jhoicas/samokat-api/pkg/logger"
)

// TariffHandler tarifas.
type TariffHandler struct {
	uc  *usecase.TariffUseCase
	log *logger.Logger
}

func NewTariffHandler(uc *usecase.TariffUseCase, log *logger.Logger) *TariffHandler {
	return &TariffHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar tarifas
// @Tags         tariffs
// @Produce      json
// @Success      200  {array}  dto.TariffResponse
// @Router       /tariffs [get]
func (h *TariffHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear tarifa
// @Tags         tariffs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTariffRequest  true  "name, cost_type, price"
// @Success      201  {object}  dto.TariffResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /tariffs [post]
func (h *TariffHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTariffRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
