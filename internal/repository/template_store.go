package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mpetrov/liftbook/internal/domain"
)

const templatesCollection = "workoutTemplates"

// TemplateStore persists workout template aggregates as whole documents
// in the external document store. A save rewrites the complete
// exercises array; two writers racing on the same template produce a
// last-write-wins outcome with no conflict detection.
type TemplateStore struct {
	docs     DocumentStore
	identity domain.IdentityProvider
}

func NewTemplateStore(docs DocumentStore, identity domain.IdentityProvider) *TemplateStore {
	return &TemplateStore{docs: docs, identity: identity}
}

// Create persists a new template and returns its store-assigned id.
// The acting principal becomes the owner; createdAt/updatedAt are
// assigned server-side.
func (s *TemplateStore) Create(ctx context.Context, tmpl domain.WorkoutTemplate) (string, error) {
	principal := s.identity.CurrentPrincipalID(ctx)
	if principal == "" {
		return "", fmt.Errorf("%w: not authenticated", domain.ErrForbidden)
	}
	if tmpl.OwnerID != "" && tmpl.OwnerID != principal {
		return "", domain.ErrForbidden
	}
	if tmpl.Name == "" {
		return "", fmt.Errorf("%w: template name is required", domain.ErrValidation)
	}
	if len(tmpl.Exercises) == 0 {
		return "", fmt.Errorf("%w: template must have at least one exercise", domain.ErrValidation)
	}

	fields := map[string]any{
		"userId":      principal,
		"name":        tmpl.Name,
		"description": tmpl.Description,
		"exercises":   entriesToFields(tmpl.Exercises),
		"createdAt":   ServerTimestamp,
		"updatedAt":   ServerTimestamp,
	}
	id, err := s.docs.AddDocument(ctx, templatesCollection, fields)
	if err != nil {
		return "", &domain.StoreError{Op: "create", Err: err}
	}
	return id, nil
}

// Load fetches a template by id. A missing document is (nil, nil), not
// an error.
func (s *TemplateStore) Load(ctx context.Context, templateID string) (*domain.WorkoutTemplate, error) {
	fields, err := s.docs.GetDocument(ctx, templatesCollection, templateID)
	if err != nil {
		if errors.Is(err, ErrNoDocument) {
			return nil, nil
		}
		return nil, &domain.StoreError{Op: "load", Err: err}
	}
	tmpl := templateFromFields(templateID, fields)
	return &tmpl, nil
}

// ListByOwner returns the owner's templates, newest first. Results are
// unbounded; pagination is a known gap.
func (s *TemplateStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.WorkoutTemplate, error) {
	docs, err := s.docs.QueryDocuments(ctx, templatesCollection,
		[]Filter{{Field: "userId", Op: "==", Value: ownerID}},
		&OrderBy{Field: "createdAt", Descending: true},
	)
	if err != nil {
		return nil, &domain.StoreError{Op: "list", Err: err}
	}

	templates := make([]domain.WorkoutTemplate, 0, len(docs))
	for _, doc := range docs {
		templates = append(templates, templateFromFields(doc.ID, doc.Fields))
	}
	return templates, nil
}

// Save merge-writes name, description and the full exercises array of
// an already-created template, refreshing updatedAt server-side. The
// stored document's owner is authoritative for authorization.
func (s *TemplateStore) Save(ctx context.Context, tmpl domain.WorkoutTemplate) error {
	if tmpl.ID == "" {
		return fmt.Errorf("%w: template has not been created yet", domain.ErrValidation)
	}
	if tmpl.Name == "" {
		return fmt.Errorf("%w: template name is required", domain.ErrValidation)
	}
	principal := s.identity.CurrentPrincipalID(ctx)
	if principal == "" || principal != tmpl.OwnerID {
		return domain.ErrForbidden
	}

	stored, err := s.docs.GetDocument(ctx, templatesCollection, tmpl.ID)
	if err != nil {
		if errors.Is(err, ErrNoDocument) {
			return fmt.Errorf("%w: template %s", domain.ErrNotFound, tmpl.ID)
		}
		return &domain.StoreError{Op: "save", Err: err}
	}
	if owner, _ := stored["userId"].(string); owner != principal {
		return domain.ErrForbidden
	}

	fields := map[string]any{
		"name":        tmpl.Name,
		"description": tmpl.Description,
		"exercises":   entriesToFields(tmpl.Exercises),
		"updatedAt":   ServerTimestamp,
	}
	if err := s.docs.SetDocument(ctx, templatesCollection, tmpl.ID, fields, true); err != nil {
		return &domain.StoreError{Op: "save", Err: err}
	}
	return nil
}

// Delete removes a template and its entries. Deleting a missing id is
// not an error.
func (s *TemplateStore) Delete(ctx context.Context, templateID string) error {
	principal := s.identity.CurrentPrincipalID(ctx)
	if principal == "" {
		return fmt.Errorf("%w: not authenticated", domain.ErrForbidden)
	}

	fields, err := s.docs.GetDocument(ctx, templatesCollection, templateID)
	if err != nil {
		if errors.Is(err, ErrNoDocument) {
			return nil
		}
		return &domain.StoreError{Op: "delete", Err: err}
	}
	if owner, _ := fields["userId"].(string); owner != principal {
		return domain.ErrForbidden
	}

	if err := s.docs.DeleteDocument(ctx, templatesCollection, templateID); err != nil {
		return &domain.StoreError{Op: "delete", Err: err}
	}
	return nil
}

func entriesToFields(entries []domain.TemplateExercise) []any {
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = map[string]any{
			"id":           e.EntryID,
			"exerciseId":   e.ExerciseID,
			"exerciseName": e.ExerciseName,
			"targetSets":   e.TargetSets,
			"targetReps":   e.TargetReps,
			"notes":        e.Notes,
			"order":        e.Order,
		}
	}
	return out
}

func templateFromFields(id string, fields map[string]any) domain.WorkoutTemplate {
	tmpl := domain.WorkoutTemplate{
		ID:          id,
		OwnerID:     asString(fields["userId"]),
		Name:        asString(fields["name"]),
		Description: asString(fields["description"]),
		CreatedAt:   asTime(fields["createdAt"]),
		UpdatedAt:   asTime(fields["updatedAt"]),
	}

	raw, _ := fields["exercises"].([]any)
	tmpl.Exercises = make([]domain.TemplateExercise, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		tmpl.Exercises = append(tmpl.Exercises, domain.TemplateExercise{
			EntryID:      asString(entry["id"]),
			ExerciseID:   asString(entry["exerciseId"]),
			ExerciseName: asString(entry["exerciseName"]),
			TargetSets:   asInt(entry["targetSets"]),
			TargetReps:   asString(entry["targetReps"]),
			Notes:        asString(entry["notes"]),
			Order:        asInt(entry["order"]),
		})
	}
	return tmpl
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asInt tolerates the integer widths the different backends decode to.
func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func asTime(v any) time.Time {
	t, _ := v.(time.Time)
	return t
}
