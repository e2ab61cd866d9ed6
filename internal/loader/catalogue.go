package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/napolitain/solver-aoe/internal/models"
)

// ErrInvalidCatalogue is returned when an overlay leaves the catalogue unusable
var ErrInvalidCatalogue = errors.New("invalid catalogue")

// specOverlay captures per-entry YAML nodes so that an entry only overrides the
// fields it names instead of replacing the whole spec.
type specOverlay struct {
	Structures map[models.StructureType]yaml.Node `yaml:"structures"`
	Techs      map[models.TechName]yaml.Node      `yaml:"techs"`
}

// LoadCatalogue returns the default catalogue with the YAML file at path laid
// over it. An empty path yields the defaults.
func LoadCatalogue(path string) (models.Catalogue, error) {
	cat := models.DefaultCatalogue()
	if path == "" {
		return cat, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cat, fmt.Errorf("failed to read catalogue %s: %w", path, err)
	}
	if err := ApplyOverlay(&cat, data); err != nil {
		return cat, fmt.Errorf("failed to parse catalogue %s: %w", path, err)
	}
	return cat, nil
}

// ApplyOverlay decodes data on top of cat. Unknown keys are rejected.
func ApplyOverlay(cat *models.Catalogue, data []byte) error {
	structures := cloneStructures(cat.Structures)
	techs := cloneTechs(cat.Techs)
	cat.Structures, cat.Techs = nil, nil

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cat); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	var overlay specOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return err
	}
	for st, node := range overlay.Structures {
		if _, ok := structures[st]; !ok {
			return fmt.Errorf("%w: unknown structure %q", ErrInvalidCatalogue, st)
		}
		spec := structures[st]
		if err := node.Decode(&spec); err != nil {
			return fmt.Errorf("structure %s: %w", st, err)
		}
		structures[st] = spec
	}
	for name, node := range overlay.Techs {
		if _, ok := techs[name]; !ok {
			return fmt.Errorf("%w: unknown tech %q", ErrInvalidCatalogue, name)
		}
		spec := techs[name]
		if err := node.Decode(&spec); err != nil {
			return fmt.Errorf("tech %s: %w", name, err)
		}
		techs[name] = spec
	}
	cat.Structures = structures
	cat.Techs = techs

	return Validate(cat)
}

// Validate checks the internal consistency of a catalogue
func Validate(cat *models.Catalogue) error {
	t := cat.Template
	switch {
	case cat.Horizon <= 0:
		return fmt.Errorf("%w: horizon must be positive, got %d", ErrInvalidCatalogue, cat.Horizon)
	case t.Workers <= 0:
		return fmt.Errorf("%w: template needs at least one worker", ErrInvalidCatalogue)
	case t.Tier2AfterWorker > t.Workers || t.Tier1AfterWorker > t.Workers || t.EconomyAfter > t.Workers:
		return fmt.Errorf("%w: template anchors reference worker beyond %d", ErrInvalidCatalogue, t.Workers)
	case t.Tier1AfterWorker < 1 || t.Tier2AfterWorker < 1 || t.EconomyAfter < 1:
		return fmt.Errorf("%w: template anchors must name worker 1 or later", ErrInvalidCatalogue)
	case cat.InitialPopulation > cat.InitialCapacity:
		return fmt.Errorf("%w: initial population %d exceeds capacity %d",
			ErrInvalidCatalogue, cat.InitialPopulation, cat.InitialCapacity)
	case cat.InitialWorkers > cat.InitialPopulation:
		return fmt.Errorf("%w: initial workers %d exceed population %d",
			ErrInvalidCatalogue, cat.InitialWorkers, cat.InitialPopulation)
	}
	if t.ResearchAfterWorker < 1 || t.ResearchAfterWorker > t.Workers {
		return fmt.Errorf("%w: research anchor worker %d out of range", ErrInvalidCatalogue, t.ResearchAfterWorker)
	}
	for _, h := range t.HousesAfter {
		if h < 1 || h > t.Workers {
			return fmt.Errorf("%w: house anchor worker %d out of range", ErrInvalidCatalogue, h)
		}
	}
	for _, st := range models.AllStructureTypes() {
		if _, ok := cat.Structures[st]; !ok {
			return fmt.Errorf("%w: missing structure %s", ErrInvalidCatalogue, st)
		}
	}
	for _, tn := range models.AllTechNames() {
		if _, ok := cat.Techs[tn]; !ok {
			return fmt.Errorf("%w: missing tech %s", ErrInvalidCatalogue, tn)
		}
	}
	if cat.EstimatorCapacity.Food <= 0 || cat.EstimatorCapacity.Wood <= 0 || cat.EstimatorCapacity.Gold <= 0 {
		return fmt.Errorf("%w: estimator capacities must be positive", ErrInvalidCatalogue)
	}
	return nil
}

func cloneStructures(in map[models.StructureType]models.StructureSpec) map[models.StructureType]models.StructureSpec {
	out := make(map[models.StructureType]models.StructureSpec, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneTechs(in map[models.TechName]models.TechSpec) map[models.TechName]models.TechSpec {
	out := make(map[models.TechName]models.TechSpec, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
