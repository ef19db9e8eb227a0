package domain

import (
	"context"
	"testing"
)

func TestStaticCatalogLookups(t *testing.T) {
	catalog := NewStaticCatalog(PredefinedExercises)
	ctx := context.Background()

	ex, err := catalog.FindByID(ctx, "bench_press")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if ex == nil || ex.Name != "Bench Press" {
		t.Fatalf("FindByID(bench_press) = %+v", ex)
	}

	ex, err = catalog.FindByName(ctx, "Squat")
	if err != nil {
		t.Fatalf("FindByName() error = %v", err)
	}
	if ex == nil || ex.ID != "squat" {
		t.Fatalf("FindByName(Squat) = %+v", ex)
	}

	// Absence is not an error.
	ex, err = catalog.FindByID(ctx, "nope")
	if err != nil || ex != nil {
		t.Fatalf("FindByID(nope) = %+v, %v, want nil, nil", ex, err)
	}

	all, err := catalog.All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != len(PredefinedExercises) {
		t.Errorf("All() returned %d definitions, want %d", len(all), len(PredefinedExercises))
	}
}

func TestStaticCatalogReturnsCopies(t *testing.T) {
	catalog := NewStaticCatalog(PredefinedExercises)
	ctx := context.Background()

	ex, _ := catalog.FindByID(ctx, "squat")
	ex.Name = "Mutated"

	again, _ := catalog.FindByID(ctx, "squat")
	if again.Name != "Squat" {
		t.Error("catalog definitions must be immutable to callers")
	}
}
