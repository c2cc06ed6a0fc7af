package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

var errBadID = errors.New("id inválido")

// paramID lee un parámetro de ruta como id positivo.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}
