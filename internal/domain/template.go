package domain

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// TemplateExercise is one exercise entry inside a workout template.
// EntryID is generated client-side when the entry is added and stays
// stable across edits and reorders; it is never recycled within the
// owning template, even after the entry is removed.
type TemplateExercise struct {
	EntryID      string `json:"id"`
	ExerciseID   string `json:"exercise_id"`
	ExerciseName string `json:"exercise_name"` // denormalized snapshot, immutable once written
	TargetSets   int    `json:"target_sets"`
	TargetReps   string `json:"target_reps"` // "5" or an inclusive range "8-12"
	Notes        string `json:"notes,omitempty"`
	Order        int    `json:"order"` // sort key, gaps permitted
}

// WorkoutTemplate is the template aggregate: identity, ownership,
// details and the ordered exercise entries. All mutation operations are
// pure; they return a new value and never touch the receiver, so an
// editing session can hold multiple in-flight copies without aliasing.
type WorkoutTemplate struct {
	ID          string             `json:"id,omitempty"` // empty until first persisted
	OwnerID     string             `json:"owner_id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Exercises   []TemplateExercise `json:"exercises"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// EntryUpdate carries the fields of an entry that may change. Nil means
// "leave as is". EntryID and the name snapshot are not updatable.
type EntryUpdate struct {
	TargetSets *int
	TargetReps *string
	Notes      *string
	Order      *int
}

var targetRepsPattern = regexp.MustCompile(`^\d+(-\d+)?$`)

// NewEntryID generates a fresh ULID for a template exercise entry.
func NewEntryID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// ValidateTargetReps checks the reps format: a positive integer literal or
// an inclusive range "a-b" with 0 < a <= b.
func ValidateTargetReps(reps string) error {
	if reps == "" {
		return fmt.Errorf("%w: target reps must not be empty", ErrValidation)
	}
	if !targetRepsPattern.MatchString(reps) {
		return fmt.Errorf("%w: target reps %q must be a number or a range like \"8-12\"", ErrValidation, reps)
	}
	lo, hi, found := strings.Cut(reps, "-")
	a, _ := strconv.Atoi(lo)
	if a <= 0 {
		return fmt.Errorf("%w: target reps must be positive", ErrValidation)
	}
	if found {
		b, _ := strconv.Atoi(hi)
		if b < a {
			return fmt.Errorf("%w: target reps range %q is inverted", ErrValidation, reps)
		}
	}
	return nil
}

func validateTargetSets(sets int) error {
	if sets <= 0 {
		return fmt.Errorf("%w: target sets must be greater than zero", ErrValidation)
	}
	return nil
}

func (t WorkoutTemplate) cloneEntries() []TemplateExercise {
	entries := make([]TemplateExercise, len(t.Exercises))
	copy(entries, t.Exercises)
	return entries
}

func (t WorkoutTemplate) entryIndex(entryID string) int {
	for i := range t.Exercises {
		if t.Exercises[i].EntryID == entryID {
			return i
		}
	}
	return -1
}

// WithEntryAdded appends a new entry for the given exercise definition.
// The entry gets a fresh ULID and order = current max order + 1 (0 for
// the first entry).
func (t WorkoutTemplate) WithEntryAdded(ex Exercise, targetSets int, targetReps, notes string) (WorkoutTemplate, error) {
	if err := validateTargetSets(targetSets); err != nil {
		return t, err
	}
	if err := ValidateTargetReps(targetReps); err != nil {
		return t, err
	}

	maxOrder := -1
	for i := range t.Exercises {
		if t.Exercises[i].Order > maxOrder {
			maxOrder = t.Exercises[i].Order
		}
	}

	next := t
	next.Exercises = append(t.cloneEntries(), TemplateExercise{
		EntryID:      NewEntryID(),
		ExerciseID:   ex.ID,
		ExerciseName: ex.Name,
		TargetSets:   targetSets,
		TargetReps:   targetReps,
		Notes:        notes,
		Order:        maxOrder + 1,
	})
	return next, nil
}

// WithEntryUpdated replaces the fields of an existing entry in place.
// Sequence position, entry id and the name snapshot are preserved;
// order changes only when upd.Order is set.
func (t WorkoutTemplate) WithEntryUpdated(entryID string, upd EntryUpdate) (WorkoutTemplate, error) {
	i := t.entryIndex(entryID)
	if i < 0 {
		return t, fmt.Errorf("%w: entry %s", ErrNotFound, entryID)
	}
	if upd.TargetSets != nil {
		if err := validateTargetSets(*upd.TargetSets); err != nil {
			return t, err
		}
	}
	if upd.TargetReps != nil {
		if err := ValidateTargetReps(*upd.TargetReps); err != nil {
			return t, err
		}
	}

	next := t
	next.Exercises = t.cloneEntries()
	entry := &next.Exercises[i]
	if upd.TargetSets != nil {
		entry.TargetSets = *upd.TargetSets
	}
	if upd.TargetReps != nil {
		entry.TargetReps = *upd.TargetReps
	}
	if upd.Notes != nil {
		entry.Notes = *upd.Notes
	}
	if upd.Order != nil {
		entry.Order = *upd.Order
	}
	return next, nil
}

// WithEntryRemoved drops the entry with the given id. Remaining order
// values are left untouched; order is a sort key, not a dense index.
func (t WorkoutTemplate) WithEntryRemoved(entryID string) (WorkoutTemplate, error) {
	i := t.entryIndex(entryID)
	if i < 0 {
		return t, fmt.Errorf("%w: entry %s", ErrNotFound, entryID)
	}

	next := t
	entries := t.cloneEntries()
	next.Exercises = append(entries[:i], entries[i+1:]...)
	return next, nil
}

// WithDetailsUpdated changes name and/or description. Nil leaves the
// field as is; entries are untouched.
func (t WorkoutTemplate) WithDetailsUpdated(name, description *string) (WorkoutTemplate, error) {
	if name != nil && *name == "" {
		return t, fmt.Errorf("%w: template name must not be empty", ErrValidation)
	}

	next := t
	if name != nil {
		next.Name = *name
	}
	if description != nil {
		next.Description = *description
	}
	return next, nil
}

// Reordered reassigns order values from the index positions in entryIDs,
// which must be exactly a permutation of the current entry ids.
func (t WorkoutTemplate) Reordered(entryIDs []string) (WorkoutTemplate, error) {
	if len(entryIDs) != len(t.Exercises) {
		return t, fmt.Errorf("%w: reorder list has %d ids, template has %d entries", ErrValidation, len(entryIDs), len(t.Exercises))
	}
	position := make(map[string]int, len(entryIDs))
	for pos, id := range entryIDs {
		if _, dup := position[id]; dup {
			return t, fmt.Errorf("%w: duplicate entry id %s in reorder list", ErrValidation, id)
		}
		position[id] = pos
	}

	next := t
	next.Exercises = t.cloneEntries()
	for i := range next.Exercises {
		pos, ok := position[next.Exercises[i].EntryID]
		if !ok {
			return t, fmt.Errorf("%w: reorder list is missing entry %s", ErrValidation, next.Exercises[i].EntryID)
		}
		next.Exercises[i].Order = pos
	}
	return next, nil
}

// EntriesInOrder returns the entries sorted by their order key. The
// aggregate itself keeps insertion sequence; sorting is a read concern.
func (t WorkoutTemplate) EntriesInOrder() []TemplateExercise {
	entries := t.cloneEntries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Order < entries[j].Order
	})
	return entries
}
