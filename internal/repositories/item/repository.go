// Package item provides the read-only catalog of item definitions.
package item

import (
	"context"

	"github.com/openquest/gm-api/internal/entities"
)

// GetInput identifies the definition to fetch.
type GetInput struct {
	ID string
}

// GetOutput contains the fetched definition.
type GetOutput struct {
	Definition *entities.ItemDefinition
}

// ListInput lists all definitions.
type ListInput struct{}

// ListOutput contains every definition in the catalog.
type ListOutput struct {
	Definitions []*entities.ItemDefinition
}

// Repository defines read access to the item catalog.
type Repository interface {
	// Get fetches a definition by ID.
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// List returns every definition.
	List(ctx context.Context, input ListInput) (*ListOutput, error)
}
