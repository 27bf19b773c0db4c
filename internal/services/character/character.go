package character

import (
	"context"

	"github.com/openquest/gm-api/internal/entities"
	"github.com/openquest/gm-api/internal/errors"
	"github.com/openquest/gm-api/internal/pkg/idgen"
	characterrepo "github.com/openquest/gm-api/internal/repositories/character"
	itemrepo "github.com/openquest/gm-api/internal/repositories/item"
)

// Starting hit points by class, level 1. Unknown classes get the
// default so a typo'd class still produces a playable character.
var classBaseHP = map[string]int{
	"barbarian": 12,
	"fighter":   10,
	"paladin":   10,
	"ranger":    10,
	"cleric":    8,
	"rogue":     8,
	"bard":      8,
	"wizard":    6,
	"sorcerer":  6,
}

const defaultBaseHP = 8

// Config holds the dependencies for the character service
type Config struct {
	Repository     characterrepo.Repository
	ItemRepository itemrepo.Repository
	IDGenerator    idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.ItemRepository == nil {
		vb.RequiredField("ItemRepository")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	return vb.Build()
}

type service struct {
	repo  characterrepo.Repository
	items itemrepo.Repository
	idGen idgen.Generator
}

// NewService creates a new character service
func NewService(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &service{
		repo:  cfg.Repository,
		items: cfg.ItemRepository,
		idGen: cfg.IDGenerator,
	}, nil
}

// Ensure service implements Service
var _ Service = (*service)(nil)

func (s *service) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	vb := errors.NewValidationBuilder()
	if input.PlayerID == "" {
		vb.RequiredField("PlayerID")
	}
	if input.Name == "" {
		vb.RequiredField("Name")
	}
	if input.Race == "" {
		vb.RequiredField("Race")
	}
	if input.Class == "" {
		vb.RequiredField("Class")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	hp, ok := classBaseHP[input.Class]
	if !ok {
		hp = defaultBaseHP
	}

	char := &entities.Character{
		ID:       s.idGen.Generate(),
		PlayerID: input.PlayerID,
		Name:     input.Name,
		Race:     input.Race,
		Class:    input.Class,
		Level:    1,
		HP:       hp,
		MaxHP:    hp,
	}

	out, err := s.repo.Create(ctx, characterrepo.CreateInput{Character: char})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create character")
	}

	return &CreateOutput{Character: out.Character}, nil
}

func (s *service) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	out, err := s.repo.Get(ctx, characterrepo.GetInput{ID: input.ID})
	if err != nil {
		return nil, err
	}

	return &GetOutput{Character: out.Character}, nil
}

func (s *service) ListByPlayer(ctx context.Context, input ListByPlayerInput) (*ListByPlayerOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	out, err := s.repo.ListByPlayer(ctx, characterrepo.ListByPlayerInput{PlayerID: input.PlayerID})
	if err != nil {
		return nil, err
	}

	return &ListByPlayerOutput{Characters: out.Characters}, nil
}

func (s *service) ApplyHP(ctx context.Context, input ApplyHPInput) (*ApplyHPOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.Delta == 0 {
		return nil, errors.InvalidArgument("HP delta cannot be zero")
	}

	got, err := s.repo.Get(ctx, characterrepo.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}

	char := got.Character
	hp := char.HP + input.Delta
	if hp < 0 {
		hp = 0
	}
	if hp > char.MaxHP {
		hp = char.MaxHP
	}
	char.HP = hp

	updated, err := s.repo.Update(ctx, characterrepo.UpdateInput{Character: char})
	if err != nil {
		return nil, errors.Wrap(err, "failed to apply HP delta")
	}

	return &ApplyHPOutput{Character: updated.Character}, nil
}

func (s *service) ApplyXP(ctx context.Context, input ApplyXPInput) (*ApplyXPOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.Delta < 0 {
		return nil, errors.InvalidArgumentf("XP delta cannot be negative, got %d", input.Delta)
	}

	got, err := s.repo.Get(ctx, characterrepo.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}

	char := got.Character
	char.XP += input.Delta

	updated, err := s.repo.Update(ctx, characterrepo.UpdateInput{Character: char})
	if err != nil {
		return nil, errors.Wrap(err, "failed to apply XP delta")
	}

	return &ApplyXPOutput{Character: updated.Character}, nil
}

func (s *service) EquipItem(ctx context.Context, input EquipItemInput) (*EquipItemOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.DefinitionID == "" {
		return nil, errors.InvalidArgument("item definition ID is required")
	}

	defOut, err := s.items.Get(ctx, itemrepo.GetInput{ID: input.DefinitionID})
	if err != nil {
		return nil, err
	}
	def := defOut.Definition

	got, err := s.repo.Get(ctx, characterrepo.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}
	char := got.Character

	entry := char.FindItemByDefinition(def.ID)
	if entry == nil {
		char.Inventory = append(char.Inventory, entities.InventoryItem{
			ID:           s.idGen.Generate(),
			DefinitionID: def.ID,
			Name:         def.Name,
			Quantity:     1,
		})
		entry = &char.Inventory[len(char.Inventory)-1]
	} else if def.Slot == "" {
		// Slotless items stack; taking another just grows the pile.
		entry.Quantity++
	}

	if def.Slot != "" {
		// One item per slot; equipping displaces whatever held it.
		for i := range char.Inventory {
			other := &char.Inventory[i]
			if other.ID == entry.ID || !other.Equipped {
				continue
			}
			otherDef, err := s.items.Get(ctx, itemrepo.GetInput{ID: other.DefinitionID})
			if err != nil {
				if errors.IsNotFound(err) {
					continue
				}
				return nil, err
			}
			if otherDef.Definition.Slot == def.Slot {
				other.Equipped = false
			}
		}
		entry.Equipped = true
	}

	updated, err := s.repo.Update(ctx, characterrepo.UpdateInput{Character: char})
	if err != nil {
		return nil, errors.Wrap(err, "failed to equip item")
	}

	return &EquipItemOutput{
		Character: updated.Character,
		Item:      updated.Character.FindItem(entry.ID),
	}, nil
}

func (s *service) RemoveItem(ctx context.Context, input RemoveItemInput) (*RemoveItemOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.ItemID == "" {
		return nil, errors.InvalidArgument("item ID is required")
	}
	if input.Quantity < 1 {
		return nil, errors.InvalidArgumentf("quantity must be at least 1, got %d", input.Quantity)
	}

	got, err := s.repo.Get(ctx, characterrepo.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}
	char := got.Character

	entry := char.FindItem(input.ItemID)
	if entry == nil {
		return nil, errors.NotFoundf("character %s does not carry item %s", char.ID, input.ItemID)
	}
	if entry.Quantity < input.Quantity {
		return nil, errors.FailedPreconditionf(
			"cannot remove %d of item %s: only %d carried", input.Quantity, input.ItemID, entry.Quantity)
	}

	entry.Quantity -= input.Quantity
	if entry.Quantity == 0 {
		inventory := char.Inventory[:0]
		for _, existing := range char.Inventory {
			if existing.ID != input.ItemID {
				inventory = append(inventory, existing)
			}
		}
		char.Inventory = inventory
	}

	updated, err := s.repo.Update(ctx, characterrepo.UpdateInput{Character: char})
	if err != nil {
		return nil, errors.Wrap(err, "failed to remove item")
	}

	return &RemoveItemOutput{Character: updated.Character}, nil
}
