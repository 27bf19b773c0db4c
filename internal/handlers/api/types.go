package api

import (
	"time"

	"github.com/openquest/gm-api/internal/entities"
	"github.com/openquest/gm-api/internal/instructions"
	"github.com/openquest/gm-api/internal/repositories/action"
)

// CreateCharacterRequest creates a new character.
type CreateCharacterRequest struct {
	PlayerID string `json:"player_id" example:"player_42"`
	Name     string `json:"name" example:"Thorin"`
	Race     string `json:"race" example:"dwarf"`
	Class    string `json:"class" example:"fighter"`
}

// InventoryItemResponse is one stack in a character's inventory.
type InventoryItemResponse struct {
	ID           string `json:"id"`
	DefinitionID string `json:"definition_id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	Equipped     bool   `json:"equipped"`
}

// CharacterResponse is the wire form of a character.
type CharacterResponse struct {
	ID        string                  `json:"id"`
	PlayerID  string                  `json:"player_id"`
	Name      string                  `json:"name"`
	Race      string                  `json:"race"`
	Class     string                  `json:"class"`
	Level     int                     `json:"level"`
	HP        int                     `json:"hp"`
	MaxHP     int                     `json:"max_hp"`
	XP        int                     `json:"xp"`
	Inventory []InventoryItemResponse `json:"inventory"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// RollRequest evaluates a dice expression once, outside any action.
type RollRequest struct {
	Expr      string `json:"expr" example:"2d6+3"`
	Advantage string `json:"advantage,omitempty" enum:"none,advantage,disadvantage"`
}

// RollResponse is the outcome of an ad-hoc roll.
type RollResponse struct {
	Rolls     []int `json:"rolls"`
	Mod       int   `json:"mod"`
	Total     int   `json:"total"`
	Discarded []int `json:"discarded,omitempty"`
}

// ChatRequest is one player message to the game master.
type ChatRequest struct {
	Message string `json:"message" example:"I charge the goblin!"`
}

// DroppedResponse reports an instruction candidate the classifier
// rejected.
type DroppedResponse struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// ChatResponse carries the narration and, when the reply changed game
// state, the resulting action.
type ChatResponse struct {
	Narration string            `json:"narration"`
	Action    *ActionResponse   `json:"action,omitempty"`
	Dropped   []DroppedResponse `json:"dropped,omitempty"`
}

// AttackRequest resolves an attack against another character.
type AttackRequest struct {
	TargetID    string `json:"target_id"`
	AttackBonus int    `json:"attack_bonus,omitempty"`
	DamageExpr  string `json:"damage_expr" example:"1d8+2"`
	Advantage   string `json:"advantage,omitempty" enum:"none,advantage,disadvantage"`
}

// AttackResponse carries both actions of an attack. Damage is absent on
// a miss.
type AttackResponse struct {
	Hit      bool            `json:"hit"`
	TargetAC int             `json:"target_ac"`
	ToHit    *ActionResponse `json:"to_hit"`
	Damage   *ActionResponse `json:"damage,omitempty"`
}

// EquipItemRequest grants and equips a catalog item.
type EquipItemRequest struct {
	DefinitionID string `json:"definition_id" example:"longsword"`
}

// UseItemRequest consumes one of an inventory item.
type UseItemRequest struct {
	ItemID string `json:"item_id"`
}

// RemoveItemRequest discards quantity from an inventory stack.
type RemoveItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity,omitempty" minimum:"1"`
}

// InstructionResponse is the wire form of one instruction.
type InstructionResponse struct {
	Type         string `json:"type" enum:"hp,xp,roll,equip,remove"`
	HP           int    `json:"hp,omitempty"`
	FromRoll     bool   `json:"from_roll,omitempty"`
	XP           int    `json:"xp,omitempty"`
	Expr         string `json:"expr,omitempty"`
	Advantage    string `json:"advantage,omitempty"`
	DefinitionID string `json:"definition_id,omitempty"`
	ItemID       string `json:"item_id,omitempty"`
	Quantity     int    `json:"quantity,omitempty"`
}

// EffectResponse is the recorded outcome of one applied instruction.
type EffectResponse struct {
	InstructionIndex int       `json:"instruction_index"`
	Type             string    `json:"type"`
	Delta            int       `json:"delta,omitempty"`
	Resulting        int       `json:"resulting,omitempty"`
	Rolls            []int     `json:"rolls,omitempty"`
	Mod              int       `json:"mod,omitempty"`
	Total            int       `json:"total,omitempty"`
	Discarded        []int     `json:"discarded,omitempty"`
	ItemID           string    `json:"item_id,omitempty"`
	Quantity         int       `json:"quantity,omitempty"`
	AppliedAt        time.Time `json:"applied_at"`
}

// ActionResponse is the wire form of an action record.
type ActionResponse struct {
	ID            string                `json:"id"`
	CharacterID   string                `json:"character_id"`
	Status        string                `json:"status" enum:"PENDING,PROCESSING,APPLIED,FAILED"`
	Instructions  []InstructionResponse `json:"instructions"`
	Effects       []EffectResponse      `json:"effects,omitempty"`
	FailureReason string                `json:"failure_reason,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func characterResponse(char *entities.Character) CharacterResponse {
	inventory := make([]InventoryItemResponse, 0, len(char.Inventory))
	for _, entry := range char.Inventory {
		inventory = append(inventory, InventoryItemResponse{
			ID:           entry.ID,
			DefinitionID: entry.DefinitionID,
			Name:         entry.Name,
			Quantity:     entry.Quantity,
			Equipped:     entry.Equipped,
		})
	}
	return CharacterResponse{
		ID:        char.ID,
		PlayerID:  char.PlayerID,
		Name:      char.Name,
		Race:      char.Race,
		Class:     char.Class,
		Level:     char.Level,
		HP:        char.HP,
		MaxHP:     char.MaxHP,
		XP:        char.XP,
		Inventory: inventory,
		CreatedAt: char.CreatedAt,
		UpdatedAt: char.UpdatedAt,
	}
}

func mapCharacters(chars []*entities.Character) []CharacterResponse {
	out := make([]CharacterResponse, 0, len(chars))
	for _, char := range chars {
		out = append(out, characterResponse(char))
	}
	return out
}

func instructionResponse(in instructions.Instruction) InstructionResponse {
	return InstructionResponse{
		Type:         string(in.Type),
		HP:           in.HP,
		FromRoll:     in.FromRoll,
		XP:           in.XP,
		Expr:         in.Expr,
		Advantage:    string(in.Advantage),
		DefinitionID: in.DefinitionID,
		ItemID:       in.ItemID,
		Quantity:     in.Quantity,
	}
}

func actionResponse(record *action.Record) *ActionResponse {
	if record == nil {
		return nil
	}

	instrs := make([]InstructionResponse, 0, len(record.Instructions))
	for _, in := range record.Instructions {
		instrs = append(instrs, instructionResponse(in))
	}

	effects := make([]EffectResponse, 0, len(record.Effects))
	for _, effect := range record.Effects {
		effects = append(effects, EffectResponse{
			InstructionIndex: effect.InstructionIndex,
			Type:             string(effect.Type),
			Delta:            effect.Delta,
			Resulting:        effect.Resulting,
			Rolls:            effect.Rolls,
			Mod:              effect.Mod,
			Total:            effect.Total,
			Discarded:        effect.Discarded,
			ItemID:           effect.ItemID,
			Quantity:         effect.Quantity,
			AppliedAt:        effect.AppliedAt,
		})
	}

	return &ActionResponse{
		ID:            record.ID,
		CharacterID:   record.CharacterID,
		Status:        string(record.Status),
		Instructions:  instrs,
		Effects:       effects,
		FailureReason: record.FailureReason,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}

func mapDropped(dropped []instructions.Dropped) []DroppedResponse {
	if len(dropped) == 0 {
		return nil
	}
	out := make([]DroppedResponse, 0, len(dropped))
	for _, d := range dropped {
		out = append(out, DroppedResponse{Index: d.Index, Reason: d.Reason})
	}
	return out
}
