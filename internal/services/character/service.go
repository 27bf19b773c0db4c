// Package character implements the character service: the single owner
// of character state mutation. Orchestrators never touch the repository
// directly; every HP, XP, and inventory change goes through here.
package character

import (
	"context"

	"github.com/openquest/gm-api/internal/entities"
)

//go:generate mockgen -destination=mock/mock_service.go -package=charactermock github.com/openquest/gm-api/internal/services/character Service

// CreateInput contains parameters for creating a character.
type CreateInput struct {
	PlayerID string
	Name     string
	Race     string
	Class    string
}

// CreateOutput contains the created character, at level 1 and full HP.
type CreateOutput struct {
	Character *entities.Character
}

// GetInput identifies the character to fetch.
type GetInput struct {
	ID string
}

// GetOutput contains the fetched character.
type GetOutput struct {
	Character *entities.Character
}

// ListByPlayerInput identifies the owning player.
type ListByPlayerInput struct {
	PlayerID string
}

// ListByPlayerOutput contains the player's characters.
type ListByPlayerOutput struct {
	Characters []*entities.Character
}

// ApplyHPInput applies a hit point delta to a character.
type ApplyHPInput struct {
	CharacterID string
	Delta       int
}

// ApplyHPOutput contains the character after the clamped mutation.
type ApplyHPOutput struct {
	Character *entities.Character
}

// ApplyXPInput applies a non-negative experience delta.
type ApplyXPInput struct {
	CharacterID string
	Delta       int
}

// ApplyXPOutput contains the character after the mutation.
type ApplyXPOutput struct {
	Character *entities.Character
}

// EquipItemInput grants a catalog item and, when it occupies a slot,
// equips it. Slotless items (consumables, sundries) stack unequipped.
type EquipItemInput struct {
	CharacterID  string
	DefinitionID string
}

// EquipItemOutput contains the character and the equipped entry.
type EquipItemOutput struct {
	Character *entities.Character
	Item      *entities.InventoryItem
}

// RemoveItemInput removes quantity from an inventory stack.
type RemoveItemInput struct {
	CharacterID string
	ItemID      string
	Quantity    int
}

// RemoveItemOutput contains the character after the removal.
type RemoveItemOutput struct {
	Character *entities.Character
}

// Service defines the character operations the rest of the system uses.
type Service interface {
	// Create makes a new level 1 character with class-based hit points.
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get fetches a character by ID.
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// ListByPlayer returns all characters owned by a player.
	ListByPlayer(ctx context.Context, input ListByPlayerInput) (*ListByPlayerOutput, error)

	// ApplyHP applies a hit point delta, clamped to [0, MaxHP]. Any
	// non-zero delta is accepted; the clamp handles overshoot.
	ApplyHP(ctx context.Context, input ApplyHPInput) (*ApplyHPOutput, error)

	// ApplyXP applies an experience delta. Negative deltas are rejected;
	// experience only accumulates.
	ApplyXP(ctx context.Context, input ApplyXPInput) (*ApplyXPOutput, error)

	// EquipItem grants the catalog item if the character does not carry
	// it. Slot items are equipped, unequipping anything in the same
	// slot; slotless items stack unequipped.
	EquipItem(ctx context.Context, input EquipItemInput) (*EquipItemOutput, error)

	// RemoveItem removes quantity from an inventory stack, deleting the
	// stack when it reaches zero.
	RemoveItem(ctx context.Context, input RemoveItemInput) (*RemoveItemOutput, error)
}
