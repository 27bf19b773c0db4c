// Package item routes inventory operations through the action pipeline
// so equips, uses, and removals leave the same audit trail as chat and
// combat.
package item

import (
	"context"
	"log/slog"

	"github.com/openquest/gm-api/internal/errors"
	"github.com/openquest/gm-api/internal/instructions"
	"github.com/openquest/gm-api/internal/orchestrators/pipeline"
	"github.com/openquest/gm-api/internal/repositories/action"
	itemrepo "github.com/openquest/gm-api/internal/repositories/item"
	charactersvc "github.com/openquest/gm-api/internal/services/character"
)

// EquipInput grants and equips a catalog item.
type EquipInput struct {
	CharacterID  string
	DefinitionID string
}

// EquipOutput contains the terminal action record.
type EquipOutput struct {
	Record *action.Record
}

// UseInput consumes one of an inventory item.
type UseInput struct {
	CharacterID string
	ItemID      string
}

// UseOutput contains the terminal action record.
type UseOutput struct {
	Record *action.Record
}

// RemoveInput removes quantity from an inventory stack.
type RemoveInput struct {
	CharacterID string
	ItemID      string
	Quantity    int
}

// RemoveOutput contains the terminal action record.
type RemoveOutput struct {
	Record *action.Record
}

// Orchestrator handles inventory operations.
type Orchestrator interface {
	// Equip grants the item if needed and equips it.
	Equip(ctx context.Context, input EquipInput) (*EquipOutput, error)

	// Use consumes one of the item. An item with an HP effect applies
	// that delta in the same action.
	Use(ctx context.Context, input UseInput) (*UseOutput, error)

	// Remove discards quantity from a stack.
	Remove(ctx context.Context, input RemoveInput) (*RemoveOutput, error)
}

// Config holds the dependencies for the item orchestrator
type Config struct {
	Pipeline         pipeline.Pipeline
	CharacterService charactersvc.Service
	ItemRepository   itemrepo.Repository
	Logger           *slog.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Pipeline == nil {
		vb.RequiredField("Pipeline")
	}
	if c.CharacterService == nil {
		vb.RequiredField("CharacterService")
	}
	if c.ItemRepository == nil {
		vb.RequiredField("ItemRepository")
	}
	return vb.Build()
}

type orchestrator struct {
	pipe       pipeline.Pipeline
	characters charactersvc.Service
	items      itemrepo.Repository
	log        *slog.Logger
}

// New creates a new item orchestrator
func New(cfg *Config) (Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &orchestrator{
		pipe:       cfg.Pipeline,
		characters: cfg.CharacterService,
		items:      cfg.ItemRepository,
		log:        log,
	}, nil
}

// Ensure orchestrator implements Orchestrator
var _ Orchestrator = (*orchestrator)(nil)

func (o *orchestrator) Equip(ctx context.Context, input EquipInput) (*EquipOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.DefinitionID == "" {
		return nil, errors.InvalidArgument("item definition ID is required")
	}

	out, err := o.pipe.Execute(ctx, pipeline.ExecuteInput{
		CharacterID: input.CharacterID,
		Instructions: []instructions.Instruction{
			instructions.NewEquip(input.DefinitionID),
		},
	})
	if err != nil {
		return nil, err
	}

	return &EquipOutput{Record: out.Record}, nil
}

func (o *orchestrator) Use(ctx context.Context, input UseInput) (*UseOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.ItemID == "" {
		return nil, errors.InvalidArgument("item ID is required")
	}

	charOut, err := o.characters.Get(ctx, charactersvc.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}

	entry := charOut.Character.FindItem(input.ItemID)
	if entry == nil {
		return nil, errors.NotFoundf("character %s does not carry item %s",
			input.CharacterID, input.ItemID)
	}

	defOut, err := o.items.Get(ctx, itemrepo.GetInput{ID: entry.DefinitionID})
	if err != nil {
		return nil, err
	}
	def := defOut.Definition
	if !def.Consumable {
		return nil, errors.FailedPreconditionf("item %s is not consumable", def.ID)
	}

	// Consume first so using the last potion at full HP still works:
	// the HP clamp can make the delta a no-op but the consumption never
	// is. The batch stays one action either way.
	batch := []instructions.Instruction{
		instructions.NewRemove(input.ItemID, 1),
	}
	if def.HPEffect != 0 {
		batch = append(batch, instructions.NewHP(def.HPEffect))
	}

	out, err := o.pipe.Execute(ctx, pipeline.ExecuteInput{
		CharacterID:  input.CharacterID,
		Instructions: batch,
	})
	if err != nil {
		return nil, err
	}

	o.log.InfoContext(ctx, "item used",
		"character_id", input.CharacterID,
		"item_id", input.ItemID,
		"definition_id", def.ID)

	return &UseOutput{Record: out.Record}, nil
}

func (o *orchestrator) Remove(ctx context.Context, input RemoveInput) (*RemoveOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.ItemID == "" {
		return nil, errors.InvalidArgument("item ID is required")
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	out, err := o.pipe.Execute(ctx, pipeline.ExecuteInput{
		CharacterID: input.CharacterID,
		Instructions: []instructions.Instruction{
			instructions.NewRemove(input.ItemID, quantity),
		},
	})
	if err != nil {
		return nil, err
	}

	return &RemoveOutput{Record: out.Record}, nil
}
