package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mpetrov/liftbook/internal/domain"
)

type ExerciseHandler struct {
	catalog domain.ExerciseCatalog
}

func NewExerciseHandler(catalog domain.ExerciseCatalog) *ExerciseHandler {
	return &ExerciseHandler{catalog: catalog}
}

// ListExercises GET /v1/exercises
func (h *ExerciseHandler) ListExercises(c *fiber.Ctx) error {
	if name := c.Query("name"); name != "" {
		ex, err := h.catalog.FindByName(c.UserContext(), name)
		if err != nil {
			return statusError(c, err)
		}
		if ex == nil {
			return c.JSON([]domain.Exercise{})
		}
		return c.JSON([]domain.Exercise{*ex})
	}

	exs, err := h.catalog.All(c.UserContext())
	if err != nil {
		return statusError(c, err)
	}
	return c.JSON(exs)
}

// GetExercise GET /v1/exercises/:id
func (h *ExerciseHandler) GetExercise(c *fiber.Ctx) error {
	ex, err := h.catalog.FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return statusError(c, err)
	}
	if ex == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "exercise not found"})
	}
	return c.JSON(ex)
}
