package memory

import (
	"context"
	"testing"

	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"

	"github.com/bakeline/production-core/pkg/domain/entities"
)

func TestSpecRepository_GetSpec(t *testing.T) {
	repo := NewSpecRepository()
	repo.AddSpec(entities.BakeSpec{
		ItemGUID:        "croissant",
		DisplayName:     "Croissant",
		CapacityPerRack: 24,
		BakeTimeMinutes: 20,
		CoolTimeMinutes: 10,
		Active:          true,
	})

	spec, err := repo.GetSpec(context.Background(), "croissant")
	if err != nil {
		t.Fatalf("GetSpec failed: %v", err)
	}
	if spec.DisplayName != "Croissant" {
		t.Errorf("expected display name Croissant, got %s", spec.DisplayName)
	}
}

func TestSpecRepository_GetSpec_NotFound(t *testing.T) {
	repo := NewSpecRepository()

	_, err := repo.GetSpec(context.Background(), "nonexistent")
	if !domainerrors.Is(err, domainerrors.NotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestSpecRepository_GetActiveSpecs_FiltersInactive(t *testing.T) {
	repo := NewSpecRepository()
	repo.AddSpec(entities.BakeSpec{ItemGUID: "croissant", Active: true})
	repo.AddSpec(entities.BakeSpec{ItemGUID: "baguette", Active: false})
	repo.AddSpec(entities.BakeSpec{ItemGUID: "muffin", Active: true})

	specs, err := repo.GetActiveSpecs(context.Background())
	if err != nil {
		t.Fatalf("GetActiveSpecs failed: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("expected 2 active specs, got %d", len(specs))
	}
}

func TestSpecRepository_AddSpec_ReplacesExisting(t *testing.T) {
	repo := NewSpecRepository()
	repo.AddSpec(entities.BakeSpec{ItemGUID: "croissant", DisplayName: "Croissant v1", Active: true})
	repo.AddSpec(entities.BakeSpec{ItemGUID: "croissant", DisplayName: "Croissant v2", Active: true})

	spec, err := repo.GetSpec(context.Background(), "croissant")
	if err != nil {
		t.Fatalf("GetSpec failed: %v", err)
	}
	if spec.DisplayName != "Croissant v2" {
		t.Errorf("expected replaced spec, got %s", spec.DisplayName)
	}

	specs, _ := repo.GetActiveSpecs(context.Background())
	if len(specs) != 1 {
		t.Errorf("expected exactly one entry after replace, got %d specs", len(specs))
	}
}
