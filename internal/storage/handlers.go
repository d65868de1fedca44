package storage

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the catalog. Names must end in metaSuffix, since the
// audit only lists metadata objects.
func RegisterRoutes(r fiber.Router, svc *Service, metaSuffix string, authMiddleware fiber.Handler) {
	r.Post("/objects", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Name     string          `json:"name"`
			URL      string          `json:"url"`
			Document json.RawMessage `json:"document"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name required")
		}
		if !strings.HasSuffix(body.Name, metaSuffix) {
			return fiber.NewError(fiber.StatusBadRequest, "name must end in "+metaSuffix)
		}
		if body.URL == "" && len(body.Document) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "url or document required")
		}
		id, err := svc.SaveObject(c.Context(), body.Name, body.URL, body.Document)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":   id,
			"name": body.Name,
		})
	})

	r.Get("/objects", func(c *fiber.Ctx) error {
		ids, err := svc.List(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(ids)
	})
}
