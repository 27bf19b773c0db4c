// Package character provides the repository for character persistence.
package character

import (
	"context"

	"github.com/openquest/gm-api/internal/entities"
)

// CreateInput contains the character to store.
type CreateInput struct {
	Character *entities.Character
}

// CreateOutput contains the stored character.
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

// UpdateInput contains the full character state to persist.
type UpdateInput struct {
	Character *entities.Character
}

// UpdateOutput contains the persisted character.
type UpdateOutput struct {
	Character *entities.Character
}

// DeleteInput identifies the character to delete.
type DeleteInput struct {
	ID string
}

// DeleteOutput is empty but reserved for future use.
type DeleteOutput struct{}

// ListByPlayerInput identifies the owning player.
type ListByPlayerInput struct {
	PlayerID string
}

// ListByPlayerOutput contains the player's characters.
type ListByPlayerOutput struct {
	Characters []*entities.Character
}

// Repository defines the storage operations for characters.
type Repository interface {
	// Create stores a new character. The ID must not already exist.
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get fetches a character by ID.
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces the stored character state.
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a character and its player-index entry.
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ListByPlayer returns all characters owned by a player.
	ListByPlayer(ctx context.Context, input ListByPlayerInput) (*ListByPlayerOutput, error)
}
