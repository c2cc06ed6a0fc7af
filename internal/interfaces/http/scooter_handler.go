package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/samokat-api/internal/application/dto"
	"github.com/jhoicas/samokat-api/internal/application/usecase"
	"github.com/jhoicas/samokat-api/pkg/logger"
)

// ScooterHandler flota de patinetes.
type ScooterHandler struct {
	uc  *usecase.ScooterUseCase
	log *logger.Logger
}

// NewScooterHandler construye el handler.
func NewScooterHandler(uc *usecase.ScooterUseCase, log *logger.Logger) *ScooterHandler {
	return &ScooterHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar patinetes
// @Tags         scooters
// @Produce      json
// @Success      200  {array}  dto.ScooterResponse
// @Router       /scooters/ [get]
func (h *ScooterHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByFrame godoc
// @Summary      Patinete disponible por frame
// @Tags         scooters
// @Produce      json
// @Param        frame  path  string  true  "Número de frame"
// @Success      200  {object}  dto.ScooterResponse
// @Failure      400  {object}  dto.ErrorResponse  "no disponible"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /scooters/by-frame/{frame} [get]
func (h *ScooterHandler) GetByFrame(c *fiber.Ctx) error {
	out, err := h.uc.GetByFrame(c.UserContext(), c.Params("frame"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Actions godoc
// @Summary      Historial de acciones de un patinete
// @Tags         scooters
// @Security     Bearer
// @Produce      json
// @Param        id     path   int  true   "ID del patinete"
// @Param        limit  query  int  false  "Límite"  default(50)
// @Success      200  {object}  dto.ScooterActionsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /scooters/{id}/actions [get]
func (h *ScooterHandler) Actions(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badParam(c, "id")
	}
	out, err := h.uc.Actions(c.UserContext(), id, c.QueryInt("limit", usecase.DefaultActionsLimit))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// AddSample godoc
// @Summary      Cargar flota de ejemplo
// @Tags         scooters
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /scooter/add_sample [post]
func (h *ScooterHandler) AddSample(c *fiber.Ctx) error {
	out, err := h.uc.AddSample(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// DeleteAll godoc
// @Summary      Borrar toda la flota
// @Tags         scooters
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /scooters/delete_all [delete]
func (h *ScooterHandler) DeleteAll(c *fiber.Ctx) error {
	out, err := h.uc.DeleteAll(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Alta de patinete
// @Tags         scooters
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScooterRequest  true  "Datos del patinete"
// @Success      200  {object}  dto.AddScooterResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /scooter/add_scooter [post]
func (h *ScooterHandler) Create(c *fiber.Ctx) error {
	var in dto.ScooterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
