// Package instructions defines the closed set of game instructions the
// pipeline can apply to a character, and the classifier that converts
// raw chat-model output into that set.
package instructions

import (
	"github.com/openquest/gm-api/internal/dice"
	"github.com/openquest/gm-api/internal/errors"
)

// Type tags an instruction variant. Exactly one variant per instruction;
// unknown tags are rejected at the classifier boundary.
type Type string

// Instruction variants. The classifier only admits hp, xp, and roll from
// model output; equip and remove are constructed by orchestrators.
const (
	TypeHP     Type = "hp"
	TypeXP     Type = "xp"
	TypeRoll   Type = "roll"
	TypeEquip  Type = "equip"
	TypeRemove Type = "remove"
)

// Instruction is a tagged variant. Type selects which of the remaining
// fields are meaningful; the rest stay at their zero value.
type Instruction struct {
	Type Type `json:"type"`

	// TypeHP: signed hit point delta. When FromRoll is set the delta is
	// HP multiplied by the total of the closest preceding roll effect in
	// the same action (typically HP=-1 for weapon damage).
	HP       int  `json:"hp,omitempty"`
	FromRoll bool `json:"from_roll,omitempty"`

	// TypeXP: non-negative experience gain.
	XP int `json:"xp,omitempty"`

	// TypeRoll: dice expression and optional advantage mode.
	Expr      string         `json:"expr,omitempty"`
	Advantage dice.Advantage `json:"advantage,omitempty"`

	// TypeEquip: item definition to add to the inventory.
	DefinitionID string `json:"definition_id,omitempty"`

	// TypeRemove: inventory item and quantity to remove.
	ItemID   string `json:"item_id,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
}

// NewHP builds an HP delta instruction.
func NewHP(delta int) Instruction {
	return Instruction{Type: TypeHP, HP: delta}
}

// NewDamageFromRoll builds an HP instruction whose delta is the negated
// total of the preceding roll in the same action.
func NewDamageFromRoll() Instruction {
	return Instruction{Type: TypeHP, HP: -1, FromRoll: true}
}

// NewXP builds an XP gain instruction.
func NewXP(xp int) Instruction {
	return Instruction{Type: TypeXP, XP: xp}
}

// NewRoll builds a dice roll instruction.
func NewRoll(expr string, advantage dice.Advantage) Instruction {
	return Instruction{Type: TypeRoll, Expr: expr, Advantage: advantage}
}

// NewEquip builds an equip instruction.
func NewEquip(definitionID string) Instruction {
	return Instruction{Type: TypeEquip, DefinitionID: definitionID}
}

// NewRemove builds a remove-item instruction.
func NewRemove(itemID string, quantity int) Instruction {
	return Instruction{Type: TypeRemove, ItemID: itemID, Quantity: quantity}
}

// Validate checks variant-specific constraints. Instructions that fail
// validation never reach the pipeline.
func (in Instruction) Validate() error {
	switch in.Type {
	case TypeHP:
		if in.HP == 0 {
			return errors.InvalidArgument("hp instruction requires a non-zero delta")
		}
		return nil
	case TypeXP:
		if in.XP < 0 {
			return errors.InvalidArgumentf("xp instruction must be non-negative, got %d", in.XP)
		}
		return nil
	case TypeRoll:
		if _, err := dice.Parse(in.Expr); err != nil {
			return errors.Wrapf(err, "roll instruction has invalid expression %q", in.Expr)
		}
		if _, err := dice.ParseAdvantage(string(in.Advantage)); err != nil {
			return err
		}
		return nil
	case TypeEquip:
		if in.DefinitionID == "" {
			return errors.InvalidArgument("equip instruction requires a definition ID")
		}
		return nil
	case TypeRemove:
		if in.ItemID == "" {
			return errors.InvalidArgument("remove instruction requires an item ID")
		}
		if in.Quantity < 1 {
			return errors.InvalidArgumentf("remove instruction quantity must be at least 1, got %d", in.Quantity)
		}
		return nil
	default:
		return errors.InvalidArgumentf("unknown instruction type: %q", in.Type)
	}
}
