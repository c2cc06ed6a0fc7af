package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/samokat-api/internal/application/dto"
	"github.com/jhoicas/samokat-api/internal/application/usecase"
	"github.com/jhoicas/samokat-api/pkg/logger"
)

// UserHandler operaciones de staff sobre usuarios.
type UserHandler struct {
	uc  *usecase.UserUseCase
	log *logger.Logger
}

func NewUserHandler(uc *usecase.UserUseCase, log *logger.Logger) *UserHandler {
	return &UserHandler{uc: uc, log: log}
}

// ChangeRole godoc
// @Summary      Cambiar rol de un usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        user_id  path  int                    true  "ID del usuario"
// @Param        body     body  dto.ChangeRoleRequest  true  "role_id"
// @Success      200  {object}  dto.UserResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /admin/users/{user_id}/role [patch]
func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	id, err := paramID(c, "user_id")
	if err != nil {
		return badParam(c, "user_id")
	}
	var in dto.ChangeRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ChangeRole(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// TopUp godoc
// @Summary      Recargar saldo
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        user_id  path  int               true  "ID del usuario"
// @Param        body     body  dto.TopUpRequest  true  "amount"
// @Success      200  {object}  dto.UserResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /manager/users/{user_id}/balance [post]
func (h *UserHandler) TopUp(c *fiber.Ctx) error {
	id, err := paramID(c, "user_id")
	if err != nil {
		return badParam(c, "user_id")
	}
	var in dto.TopUpRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.TopUpBalance(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
