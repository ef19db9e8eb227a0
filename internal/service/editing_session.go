package service

import (
	"context"
	"fmt"

	"github.com/mpetrov/liftbook/internal/domain"
	"github.com/mpetrov/liftbook/internal/repository"
)

// EditingSession holds one in-memory working copy of a template while
// it is being edited, batching entry mutations until Flush. A session
// belongs to a single caller context; concurrent use of the same
// session must be serialized by the caller.
type EditingSession struct {
	store   *repository.TemplateStore
	working domain.WorkoutTemplate
	dirty   bool
}

// NewEditingSession starts a session over a not-yet-persisted draft.
func NewEditingSession(store *repository.TemplateStore, draft domain.WorkoutTemplate) *EditingSession {
	return &EditingSession{store: store, working: draft, dirty: draft.ID == ""}
}

// OpenEditingSession loads an existing template into a fresh session.
func OpenEditingSession(ctx context.Context, store *repository.TemplateStore, templateID string) (*EditingSession, error) {
	tmpl, err := store.Load(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, fmt.Errorf("%w: template %s", domain.ErrNotFound, templateID)
	}
	return &EditingSession{store: store, working: *tmpl}, nil
}

// Working returns the current working copy.
func (s *EditingSession) Working() domain.WorkoutTemplate {
	return s.working
}

// Dirty reports whether the working copy has unflushed edits.
func (s *EditingSession) Dirty() bool {
	return s.dirty
}

func (s *EditingSession) apply(next domain.WorkoutTemplate, err error) error {
	if err != nil {
		return err
	}
	s.working = next
	s.dirty = true
	return nil
}

// AddEntry appends an exercise entry to the working copy and returns it.
func (s *EditingSession) AddEntry(ex domain.Exercise, targetSets int, targetReps, notes string) (domain.TemplateExercise, error) {
	next, err := s.working.WithEntryAdded(ex, targetSets, targetReps, notes)
	if err := s.apply(next, err); err != nil {
		return domain.TemplateExercise{}, err
	}
	return s.working.Exercises[len(s.working.Exercises)-1], nil
}

// UpdateEntry edits fields of an existing entry in the working copy.
func (s *EditingSession) UpdateEntry(entryID string, upd domain.EntryUpdate) error {
	return s.apply(s.working.WithEntryUpdated(entryID, upd))
}

// RemoveEntry drops an entry from the working copy.
func (s *EditingSession) RemoveEntry(entryID string) error {
	return s.apply(s.working.WithEntryRemoved(entryID))
}

// Reorder reassigns entry order from the given id permutation.
func (s *EditingSession) Reorder(entryIDs []string) error {
	return s.apply(s.working.Reordered(entryIDs))
}

// UpdateDetails changes the template name and/or description.
func (s *EditingSession) UpdateDetails(name, description *string) error {
	return s.apply(s.working.WithDetailsUpdated(name, description))
}

// Flush persists the working copy: a first flush creates the template
// and records its assigned id, later flushes save it. On failure the
// working copy and dirty flag are left untouched so the caller can
// retry or discard.
func (s *EditingSession) Flush(ctx context.Context) error {
	if !s.dirty {
		return nil
	}

	if s.working.ID == "" {
		id, err := s.store.Create(ctx, s.working)
		if err != nil {
			return err
		}
		s.working.ID = id
		// Pick up server-assigned fields (owner, timestamps); a failed
		// refresh is tolerable, the id is already recorded.
		if tmpl, err := s.store.Load(ctx, id); err == nil && tmpl != nil {
			s.working = *tmpl
		}
		s.dirty = false
		return nil
	}

	if err := s.store.Save(ctx, s.working); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Discard abandons unflushed edits by reloading the persisted state.
// Only a template that has been created can be discarded back to.
func (s *EditingSession) Discard(ctx context.Context) error {
	if s.working.ID == "" {
		return fmt.Errorf("%w: nothing persisted to discard to", domain.ErrValidation)
	}
	tmpl, err := s.store.Load(ctx, s.working.ID)
	if err != nil {
		return err
	}
	if tmpl == nil {
		return fmt.Errorf("%w: template %s", domain.ErrNotFound, s.working.ID)
	}
	s.working = *tmpl
	s.dirty = false
	return nil
}
