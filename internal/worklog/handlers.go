package worklog

import (
	"errors"

	"github.com/natikozel/Mapty/internal/workout"

	"github.com/gofiber/fiber/v2"
)

const defaultNearRadiusKm = 5.0

// RegisterRoutes mounts the workout endpoints. authMiddleware and
// rateLimiter guard the routes that change the log.
func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware, rateLimiter fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(svc.List())
	})

	r.Post("/", rateLimiter, authMiddleware, func(c *fiber.Ctx) error {
		var in workout.Input
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		view, err := svc.Create(c.Context(), in)
		if errors.Is(err, workout.ErrValidation) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "workout "+view.ID+" logged but not saved: "+err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(view)
	})

	r.Delete("/", rateLimiter, authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Reset(c.Context()); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/summary", func(c *fiber.Ctx) error {
		return c.JSON(svc.Summary())
	})

	r.Get("/near", func(c *fiber.Ctx) error {
		lat, okLat := workout.Raw(c.Query("lat")).Float()
		lng, okLng := workout.Raw(c.Query("lng")).Float()
		if !okLat || !okLng {
			return fiber.NewError(fiber.StatusBadRequest, "lat and lng must be finite numbers")
		}
		radius := defaultNearRadiusKm
		if raw := c.Query("radius_km"); raw != "" {
			v, ok := workout.Raw(raw).Float()
			if !ok || v <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "radius_km must be a positive number")
			}
			radius = v
		}
		return c.JSON(svc.Near(lat, lng, radius))
	})

	r.Get("/export.gpx", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "application/gpx+xml")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="workouts.gpx"`)
		if err := svc.Export(c); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return nil
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		view, err := svc.Get(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "workout not found")
		}
		return c.JSON(view)
	})

	r.Post("/:id/select", func(c *fiber.Ctx) error {
		selection, err := svc.Select(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "workout not found")
		}
		return c.JSON(selection)
	})
}
