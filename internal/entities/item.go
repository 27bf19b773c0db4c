package entities

// ItemDefinition describes an item the catalog knows how to hand out.
type ItemDefinition struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Equippable items occupy a slot; consumables are used up.
	Slot       string `json:"slot,omitempty"`
	Consumable bool   `json:"consumable"`

	// ACBonus is added to the wearer's armor class while equipped.
	ACBonus int `json:"ac_bonus,omitempty"`

	// HPEffect is the hit point delta applied when the item is used,
	// e.g. +7 for a healing potion. Zero means no numeric effect.
	HPEffect int `json:"hp_effect,omitempty"`
}
