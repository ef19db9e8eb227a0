package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/mpetrov/liftbook/internal/domain"
	"github.com/mpetrov/liftbook/internal/middleware"
	"github.com/mpetrov/liftbook/internal/repository"
	"github.com/mpetrov/liftbook/internal/service"
)

// TemplateHandler exposes workout template editing over HTTP. Each
// request opens its own editing session, applies the mutation and
// flushes, so the persisted document is always the unit of change.
type TemplateHandler struct {
	store   *repository.TemplateStore
	catalog domain.ExerciseCatalog
}

func NewTemplateHandler(store *repository.TemplateStore, catalog domain.ExerciseCatalog) *TemplateHandler {
	return &TemplateHandler{store: store, catalog: catalog}
}

// statusError maps domain failures onto HTTP statuses.
func statusError(c *fiber.Ctx, err error) error {
	var storeErr *domain.StoreError
	switch {
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &storeErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "storage unavailable"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

type entryRequest struct {
	ExerciseID string `json:"exercise_id"`
	TargetSets int    `json:"target_sets"`
	TargetReps string `json:"target_reps"`
	Notes      string `json:"notes"`
}

func (h *TemplateHandler) resolveExercise(c *fiber.Ctx, exerciseID string) (*domain.Exercise, error) {
	ex, err := h.catalog.FindByID(c.UserContext(), exerciseID)
	if err != nil {
		return nil, err
	}
	if ex == nil {
		return nil, nil
	}
	return ex, nil
}

// CreateTemplate POST /v1/templates
func (h *TemplateHandler) CreateTemplate(c *fiber.Ctx) error {
	var req struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Exercises   []entryRequest `json:"exercises"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	draft := domain.WorkoutTemplate{Name: req.Name, Description: req.Description}
	session := service.NewEditingSession(h.store, draft)
	for _, e := range req.Exercises {
		ex, err := h.resolveExercise(c, e.ExerciseID)
		if err != nil {
			return statusError(c, err)
		}
		if ex == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown exercise: " + e.ExerciseID})
		}
		if _, err := session.AddEntry(*ex, e.TargetSets, e.TargetReps, e.Notes); err != nil {
			return statusError(c, err)
		}
	}
	if err := session.Flush(c.UserContext()); err != nil {
		return statusError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(templateResponse(session.Working()))
}

// ListTemplates GET /v1/templates
func (h *TemplateHandler) ListTemplates(c *fiber.Ctx) error {
	tmps, err := h.store.ListByOwner(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return statusError(c, err)
	}
	out := make([]fiber.Map, 0, len(tmps))
	for _, t := range tmps {
		out = append(out, templateResponse(t))
	}
	return c.JSON(out)
}

// GetTemplate GET /v1/templates/:id
func (h *TemplateHandler) GetTemplate(c *fiber.Ctx) error {
	session, err := service.OpenEditingSession(c.UserContext(), h.store, c.Params("id"))
	if err != nil {
		return statusError(c, err)
	}
	return c.JSON(templateResponse(session.Working()))
}

// UpdateTemplate PATCH /v1/templates/:id
func (h *TemplateHandler) UpdateTemplate(c *fiber.Ctx) error {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	session, err := service.OpenEditingSession(c.UserContext(), h.store, c.Params("id"))
	if err != nil {
		return statusError(c, err)
	}
	if err := session.UpdateDetails(req.Name, req.Description); err != nil {
		return statusError(c, err)
	}
	if err := session.Flush(c.UserContext()); err != nil {
		return statusError(c, err)
	}
	return c.JSON(templateResponse(session.Working()))
}

// DeleteTemplate DELETE /v1/templates/:id
func (h *TemplateHandler) DeleteTemplate(c *fiber.Ctx) error {
	if err := h.store.Delete(c.UserContext(), c.Params("id")); err != nil {
		return statusError(c, err)
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}

// AddEntry POST /v1/templates/:id/exercises
func (h *TemplateHandler) AddEntry(c *fiber.Ctx) error {
	var req entryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	ex, err := h.resolveExercise(c, req.ExerciseID)
	if err != nil {
		return statusError(c, err)
	}
	if ex == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown exercise: " + req.ExerciseID})
	}

	session, err := service.OpenEditingSession(c.UserContext(), h.store, c.Params("id"))
	if err != nil {
		return statusError(c, err)
	}
	entry, err := session.AddEntry(*ex, req.TargetSets, req.TargetReps, req.Notes)
	if err != nil {
		return statusError(c, err)
	}
	if err := session.Flush(c.UserContext()); err != nil {
		return statusError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// UpdateEntry PUT /v1/templates/:id/exercises/:entryId
func (h *TemplateHandler) UpdateEntry(c *fiber.Ctx) error {
	var req struct {
		TargetSets *int    `json:"target_sets"`
		TargetReps *string `json:"target_reps"`
		Notes      *string `json:"notes"`
		Order      *int    `json:"order"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	session, err := service.OpenEditingSession(c.UserContext(), h.store, c.Params("id"))
	if err != nil {
		return statusError(c, err)
	}
	upd := domain.EntryUpdate{
		TargetSets: req.TargetSets,
		TargetReps: req.TargetReps,
		Notes:      req.Notes,
		Order:      req.Order,
	}
	if err := session.UpdateEntry(c.Params("entryId"), upd); err != nil {
		return statusError(c, err)
	}
	if err := session.Flush(c.UserContext()); err != nil {
		return statusError(c, err)
	}
	return c.JSON(templateResponse(session.Working()))
}

// RemoveEntry DELETE /v1/templates/:id/exercises/:entryId
func (h *TemplateHandler) RemoveEntry(c *fiber.Ctx) error {
	session, err := service.OpenEditingSession(c.UserContext(), h.store, c.Params("id"))
	if err != nil {
		return statusError(c, err)
	}
	if err := session.RemoveEntry(c.Params("entryId")); err != nil {
		return statusError(c, err)
	}
	if err := session.Flush(c.UserContext()); err != nil {
		return statusError(c, err)
	}
	return c.JSON(templateResponse(session.Working()))
}

// ReorderEntries PUT /v1/templates/:id/order
func (h *TemplateHandler) ReorderEntries(c *fiber.Ctx) error {
	var req struct {
		EntryIDs []string `json:"entry_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	session, err := service.OpenEditingSession(c.UserContext(), h.store, c.Params("id"))
	if err != nil {
		return statusError(c, err)
	}
	if err := session.Reorder(req.EntryIDs); err != nil {
		return statusError(c, err)
	}
	if err := session.Flush(c.UserContext()); err != nil {
		return statusError(c, err)
	}
	return c.JSON(templateResponse(session.Working()))
}

// templateResponse renders a template with its exercises sorted by
// their order field.
func templateResponse(t domain.WorkoutTemplate) fiber.Map {
	return fiber.Map{
		"id":          t.ID,
		"owner_id":    t.OwnerID,
		"name":        t.Name,
		"description": t.Description,
		"exercises":   t.EntriesInOrder(),
		"created_at":  t.CreatedAt,
		"updated_at":  t.UpdatedAt,
	}
}
