package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/napolitain/solver-aoe/internal/models"
)

func writeCatalogue(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalogue.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write catalogue: %v", err)
	}
	return path
}

func TestLoadCatalogue_EmptyPathIsDefault(t *testing.T) {
	cat, err := LoadCatalogue("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Horizon != 1200 {
		t.Errorf("horizon = %d, want 1200", cat.Horizon)
	}
	if got := cat.Structure(models.House).CapacityBonus; got != 5 {
		t.Errorf("house capacity bonus = %d, want 5", got)
	}
}

func TestLoadCatalogue_PartialStructureOverride(t *testing.T) {
	path := writeCatalogue(t, `
horizon: 1500
structures:
  house:
    build_time: 30
template:
  houses_after: [2, 7]
`)
	cat, err := LoadCatalogue(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Horizon != 1500 {
		t.Errorf("horizon = %d, want 1500", cat.Horizon)
	}
	house := cat.Structure(models.House)
	if house.BuildTime != 30 {
		t.Errorf("house build time = %d, want 30", house.BuildTime)
	}
	// Fields the overlay does not name keep their default.
	if house.Cost.Wood != 25 || house.CapacityBonus != 5 {
		t.Errorf("house spec lost defaults: %+v", house)
	}
	if cat.Structure(models.Mill).BuildTime != 35 {
		t.Errorf("mill should be untouched, got %+v", cat.Structure(models.Mill))
	}
	if len(cat.Template.HousesAfter) != 2 || cat.Template.HousesAfter[0] != 2 {
		t.Errorf("houses_after = %v, want [2 7]", cat.Template.HousesAfter)
	}
	if cat.Template.Workers != 13 {
		t.Errorf("template workers = %d, want 13", cat.Template.Workers)
	}
}

func TestLoadCatalogue_TechOverride(t *testing.T) {
	path := writeCatalogue(t, `
techs:
  farming:
    duration: 55
`)
	cat, err := LoadCatalogue(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	farming := cat.Tech(models.TechFarming)
	if farming.Duration != 55 || farming.Cost.Food != 125 {
		t.Errorf("farming = %+v", farming)
	}
}

func TestLoadCatalogue_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		invalid bool
	}{
		{"unknown top-level key", "bogus: 1\n", false},
		{"unknown structure", "structures:\n  castle:\n    build_time: 3\n", true},
		{"unknown tech", "techs:\n  alchemy:\n    duration: 3\n", true},
		{"negative horizon", "horizon: -1\n", true},
		{"anchor past template", "template:\n  tier2_after_worker: 20\n", true},
		{"house anchor zero", "template:\n  houses_after: [0]\n", true},
		{"population over capacity", "initial_population: 9\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalogue(writeCatalogue(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.invalid && !errors.Is(err, ErrInvalidCatalogue) {
				t.Errorf("expected ErrInvalidCatalogue, got %v", err)
			}
		})
	}
}

func TestLoadCatalogue_MissingFile(t *testing.T) {
	if _, err := LoadCatalogue(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestApplyOverlay_DoesNotMutateSource(t *testing.T) {
	base := models.DefaultCatalogue()
	shared := base.Structures

	cat := base
	if err := ApplyOverlay(&cat, []byte("structures:\n  house:\n    build_time: 99\n")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shared[models.House].BuildTime != 25 {
		t.Errorf("source map mutated: %+v", shared[models.House])
	}
	if cat.Structure(models.House).BuildTime != 99 {
		t.Errorf("overlay not applied")
	}
}
