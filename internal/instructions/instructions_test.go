package instructions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openquest/gm-api/internal/dice"
	"github.com/openquest/gm-api/internal/instructions"
)

func TestInstructionValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      instructions.Instruction
		wantErr bool
	}{
		{name: "hp delta", in: instructions.NewHP(-4), wantErr: false},
		{name: "hp zero delta", in: instructions.NewHP(0), wantErr: true},
		{name: "damage from roll", in: instructions.NewDamageFromRoll(), wantErr: false},
		{name: "xp gain", in: instructions.NewXP(10), wantErr: false},
		{name: "xp zero", in: instructions.NewXP(0), wantErr: false},
		{name: "roll", in: instructions.NewRoll("2d6+3", dice.AdvantageNone), wantErr: false},
		{name: "roll bad expression", in: instructions.NewRoll("2x6", dice.AdvantageNone), wantErr: true},
		{name: "roll bad advantage", in: instructions.NewRoll("1d20", "lucky"), wantErr: true},
		{name: "equip", in: instructions.NewEquip("potion-healing"), wantErr: false},
		{name: "equip missing definition", in: instructions.NewEquip(""), wantErr: true},
		{name: "remove", in: instructions.NewRemove("item_1", 1), wantErr: false},
		{name: "remove zero quantity", in: instructions.NewRemove("item_1", 0), wantErr: true},
		{name: "unknown type", in: instructions.Instruction{Type: "fly"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
