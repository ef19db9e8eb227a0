package repository

import (
	"context"
	"errors"

	"github.com/mpetrov/liftbook/internal/domain"
)

const exercisesCollection = "exercises"

// DocstoreCatalog serves the exercise library from the document store
// instead of the compiled-in list. Same read contract as the static
// catalog: absence is (nil, nil).
type DocstoreCatalog struct {
	docs DocumentStore
}

func NewDocstoreCatalog(docs DocumentStore) *DocstoreCatalog {
	return &DocstoreCatalog{docs: docs}
}

func (c *DocstoreCatalog) FindByID(ctx context.Context, id string) (*domain.Exercise, error) {
	fields, err := c.docs.GetDocument(ctx, exercisesCollection, id)
	if err != nil {
		if errors.Is(err, ErrNoDocument) {
			return nil, nil
		}
		return nil, &domain.StoreError{Op: "catalog get", Err: err}
	}
	ex := exerciseFromFields(id, fields)
	return &ex, nil
}

func (c *DocstoreCatalog) FindByName(ctx context.Context, name string) (*domain.Exercise, error) {
	docs, err := c.docs.QueryDocuments(ctx, exercisesCollection,
		[]Filter{{Field: "name", Op: "==", Value: name}}, nil)
	if err != nil {
		return nil, &domain.StoreError{Op: "catalog query", Err: err}
	}
	if len(docs) == 0 {
		return nil, nil
	}
	ex := exerciseFromFields(docs[0].ID, docs[0].Fields)
	return &ex, nil
}

func (c *DocstoreCatalog) All(ctx context.Context) ([]domain.Exercise, error) {
	docs, err := c.docs.QueryDocuments(ctx, exercisesCollection, nil,
		&OrderBy{Field: "name"})
	if err != nil {
		return nil, &domain.StoreError{Op: "catalog list", Err: err}
	}

	exercises := make([]domain.Exercise, 0, len(docs))
	for _, doc := range docs {
		exercises = append(exercises, exerciseFromFields(doc.ID, doc.Fields))
	}
	return exercises, nil
}

// ExerciseFields flattens a definition for seeding into the store.
func ExerciseFields(ex domain.Exercise) map[string]any {
	return map[string]any{
		"name":        ex.Name,
		"description": ex.Description,
		"muscleGroup": ex.MuscleGroup,
		"category":    ex.Category,
	}
}

func exerciseFromFields(id string, fields map[string]any) domain.Exercise {
	return domain.Exercise{
		ID:          id,
		Name:        asString(fields["name"]),
		Description: asString(fields["description"]),
		MuscleGroup: asString(fields["muscleGroup"]),
		Category:    asString(fields["category"]),
	}
}
