package audit

import (
	"errors"

	"backend-trackaudit/internal/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func RegisterRoutes(r fiber.Router, svc *Auditor, authMiddleware fiber.Handler) {
	r.Post("/audits", authMiddleware, func(c *fiber.Ctx) error {
		var opts Options
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&opts); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}
		if opts.RunID != "" {
			if _, err := uuid.Parse(opts.RunID); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "run_id must be a uuid")
			}
		}
		if !opts.From.IsZero() && !opts.To.IsZero() && opts.To.Before(opts.From) {
			return fiber.NewError(fiber.StatusBadRequest, "to is before from")
		}

		summary, err := svc.Run(c.UserContext(), opts)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.JSON(summary)
	})

	r.Post("/validate", func(c *fiber.Ctx) error {
		name := c.Query("name", "upload")
		doc, res, err := svc.Check(name, c.Body())
		if err != nil {
			return validationError(c, err)
		}
		return c.JSON(fiber.Map{
			"object":      doc.Record.Name,
			"description": doc.Description,
			"captures":    len(doc.Record.Captures),
			"points":      len(doc.Record.Track),
			"result":      res,
		})
	})

	r.Post("/tracks/clean", func(c *fiber.Ctx) error {
		track, err := svc.Track(c.Query("name", "upload"), c.Body())
		if err != nil {
			return validationError(c, err)
		}
		return c.JSON(track)
	})
}

func validationError(c *fiber.Ctx, err error) error {
	kind := validator.Kind(err)
	if kind == "io" {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	status := fiber.StatusUnprocessableEntity
	if errors.Is(err, validator.ErrParse) && len(c.Body()) == 0 {
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"kind":  kind,
		"error": err.Error(),
	})
}
