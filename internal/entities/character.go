// Package entities holds the domain entities shared across orchestrators,
// services, and repositories.
package entities

import "time"

// Character is the player aggregate the pipeline mutates. The character
// service owns its persistence; everything else holds it by ID.
type Character struct {
	ID        string          `json:"id"`
	PlayerID  string          `json:"player_id"`
	Name      string          `json:"name"`
	Race      string          `json:"race"`
	Class     string          `json:"class"`
	Level     int             `json:"level"`
	HP        int             `json:"hp"`
	MaxHP     int             `json:"max_hp"`
	XP        int             `json:"xp"`
	Inventory []InventoryItem `json:"inventory"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// InventoryItem is one stack of items a character carries.
type InventoryItem struct {
	ID           string `json:"id"`
	DefinitionID string `json:"definition_id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	Equipped     bool   `json:"equipped"`
}

// FindItem returns the inventory entry with the given item ID, or nil.
func (c *Character) FindItem(itemID string) *InventoryItem {
	for i := range c.Inventory {
		if c.Inventory[i].ID == itemID {
			return &c.Inventory[i]
		}
	}
	return nil
}

// FindItemByDefinition returns the first inventory entry for a
// definition, or nil.
func (c *Character) FindItemByDefinition(definitionID string) *InventoryItem {
	for i := range c.Inventory {
		if c.Inventory[i].DefinitionID == definitionID {
			return &c.Inventory[i]
		}
	}
	return nil
}
