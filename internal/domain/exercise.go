package domain

import "context"

// Exercise represents a predefined move in the exercise library.
type Exercise struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MuscleGroup string `json:"muscle_group,omitempty"` // e.g., "Legs", "Chest"
	Category    string `json:"category,omitempty"`     // e.g., "Barbell", "Bodyweight"
}

// ExerciseCatalog is a read-only lookup of exercise definitions.
// Absence is reported as (nil, nil), never as an error.
type ExerciseCatalog interface {
	FindByID(ctx context.Context, id string) (*Exercise, error)
	FindByName(ctx context.Context, name string) (*Exercise, error)
	All(ctx context.Context) ([]Exercise, error)
}

// PredefinedExercises is the built-in catalog, fixed at compile time.
var PredefinedExercises = []Exercise{
	{ID: "bench_press", Name: "Bench Press", MuscleGroup: "Chest", Category: "Barbell"},
	{ID: "squat", Name: "Squat", MuscleGroup: "Legs", Category: "Barbell"},
	{ID: "deadlift", Name: "Deadlift", MuscleGroup: "Back/Legs", Category: "Barbell"},
	{ID: "overhead_press", Name: "Overhead Press", MuscleGroup: "Shoulders", Category: "Barbell"},
	{ID: "barbell_row", Name: "Barbell Row", MuscleGroup: "Back", Category: "Barbell"},
	{ID: "pull_ups", Name: "Pull Ups", MuscleGroup: "Back/Biceps", Category: "Bodyweight"},
	{ID: "push_ups", Name: "Push Ups", MuscleGroup: "Chest/Shoulders", Category: "Bodyweight"},
	{ID: "bicep_curls_db", Name: "Dumbbell Bicep Curls", MuscleGroup: "Biceps", Category: "Dumbbell"},
	{ID: "tricep_dips", Name: "Tricep Dips", MuscleGroup: "Triceps", Category: "Bodyweight/Machine"},
	{ID: "leg_press", Name: "Leg Press", MuscleGroup: "Legs", Category: "Machine"},
	{ID: "lat_pulldown", Name: "Lat Pulldown", MuscleGroup: "Back", Category: "Machine"},
	{ID: "dumbbell_shoulder_press", Name: "Dumbbell Shoulder Press", MuscleGroup: "Shoulders", Category: "Dumbbell"},
	{ID: "dumbbell_flyes", Name: "Dumbbell Flyes", MuscleGroup: "Chest", Category: "Dumbbell"},
	{ID: "leg_curls", Name: "Leg Curls", MuscleGroup: "Hamstrings", Category: "Machine"},
	{ID: "leg_extensions", Name: "Leg Extensions", MuscleGroup: "Quads", Category: "Machine"},
	{ID: "calf_raises", Name: "Calf Raises", MuscleGroup: "Calves", Category: "Bodyweight/Machine"},
}

// StaticCatalog serves ExerciseCatalog from an in-process slice.
type StaticCatalog struct {
	exercises []Exercise
}

// NewStaticCatalog builds a catalog over the given definitions. Pass
// PredefinedExercises for the built-in list.
func NewStaticCatalog(exercises []Exercise) *StaticCatalog {
	list := make([]Exercise, len(exercises))
	copy(list, exercises)
	return &StaticCatalog{exercises: list}
}

func (c *StaticCatalog) FindByID(_ context.Context, id string) (*Exercise, error) {
	for i := range c.exercises {
		if c.exercises[i].ID == id {
			ex := c.exercises[i]
			return &ex, nil
		}
	}
	return nil, nil
}

func (c *StaticCatalog) FindByName(_ context.Context, name string) (*Exercise, error) {
	for i := range c.exercises {
		if c.exercises[i].Name == name {
			ex := c.exercises[i]
			return &ex, nil
		}
	}
	return nil, nil
}

func (c *StaticCatalog) All(_ context.Context) ([]Exercise, error) {
	list := make([]Exercise, len(c.exercises))
	copy(list, c.exercises)
	return list, nil
}
