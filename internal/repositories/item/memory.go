package item

import (
	"context"
	"sort"

	"github.com/openquest/gm-api/internal/entities"
	"github.com/openquest/gm-api/internal/errors"
)

// DefaultCatalog is the built-in definition set. Definitions are static
// game data, so an in-memory map is the whole storage story for now.
func DefaultCatalog() []*entities.ItemDefinition {
	return []*entities.ItemDefinition{
		{ID: "longsword", Name: "Longsword", Slot: "main_hand"},
		{ID: "shortbow", Name: "Shortbow", Slot: "main_hand"},
		{ID: "dagger", Name: "Dagger", Slot: "main_hand"},
		{ID: "shield", Name: "Shield", Slot: "off_hand", ACBonus: 2},
		{ID: "leather-armor", Name: "Leather Armor", Slot: "armor", ACBonus: 1},
		{ID: "chain-mail", Name: "Chain Mail", Slot: "armor", ACBonus: 6},
		{ID: "potion-healing", Name: "Potion of Healing", Consumable: true, HPEffect: 7},
		{ID: "potion-greater-healing", Name: "Potion of Greater Healing", Consumable: true, HPEffect: 14},
		{ID: "torch", Name: "Torch", Consumable: true},
		{ID: "rations", Name: "Rations", Consumable: true},
	}
}

// Config holds the configuration for the in-memory repository
type Config struct {
	// Definitions seeds the catalog; nil means DefaultCatalog.
	Definitions []*entities.ItemDefinition
}

type memoryRepository struct {
	definitions map[string]*entities.ItemDefinition
}

// NewMemoryRepository creates an in-memory item catalog
func NewMemoryRepository(cfg *Config) (Repository, error) {
	defs := DefaultCatalog()
	if cfg != nil && cfg.Definitions != nil {
		defs = cfg.Definitions
	}

	byID := make(map[string]*entities.ItemDefinition, len(defs))
	for _, def := range defs {
		if def.ID == "" {
			return nil, errors.InvalidArgument("item definition ID cannot be empty")
		}
		if _, ok := byID[def.ID]; ok {
			return nil, errors.InvalidArgumentf("duplicate item definition %s", def.ID)
		}
		byID[def.ID] = def
	}

	return &memoryRepository{definitions: byID}, nil
}

// Ensure memoryRepository implements Repository
var _ Repository = (*memoryRepository)(nil)

func (r *memoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("item definition ID cannot be empty")
	}

	def, ok := r.definitions[input.ID]
	if !ok {
		return nil, errors.NotFoundf("item definition %s not found", input.ID)
	}

	// Copy so callers cannot mutate the catalog.
	out := *def
	return &GetOutput{Definition: &out}, nil
}

func (r *memoryRepository) List(_ context.Context, _ ListInput) (*ListOutput, error) {
	defs := make([]*entities.ItemDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		out := *def
		defs = append(defs, &out)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })

	return &ListOutput{Definitions: defs}, nil
}
