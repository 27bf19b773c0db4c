// Package combat resolves attacks between characters. An attack is two
// tracked actions: a to-hit roll against the attacker, and on a hit a
// damage action [roll, hp from-roll] against the target.
package combat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openquest/gm-api/internal/dice"
	"github.com/openquest/gm-api/internal/entities"
	"github.com/openquest/gm-api/internal/errors"
	"github.com/openquest/gm-api/internal/instructions"
	"github.com/openquest/gm-api/internal/orchestrators/pipeline"
	"github.com/openquest/gm-api/internal/repositories/action"
	itemrepo "github.com/openquest/gm-api/internal/repositories/item"
	charactersvc "github.com/openquest/gm-api/internal/services/character"
)

// baseAC is an unarmored character's armor class. Equipped items add
// their ACBonus on top.
const baseAC = 10

// AttackInput describes one attack attempt.
type AttackInput struct {
	AttackerID  string
	TargetID    string
	AttackBonus int
	DamageExpr  string
	Advantage   dice.Advantage
}

// AttackOutput contains both action records. Damage is nil on a miss.
type AttackOutput struct {
	Hit      bool
	TargetAC int
	ToHit    *action.Record
	Damage   *action.Record
}

// Orchestrator resolves attacks.
type Orchestrator interface {
	Attack(ctx context.Context, input AttackInput) (*AttackOutput, error)
}

// Config holds the dependencies for the combat orchestrator
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

// New creates a new combat orchestrator
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

func (o *orchestrator) Attack(ctx context.Context, input AttackInput) (*AttackOutput, error) {
	if err := o.validateAttack(input); err != nil {
		return nil, err
	}

	targetOut, err := o.characters.Get(ctx, charactersvc.GetInput{ID: input.TargetID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve target")
	}

	targetAC, err := o.armorClass(ctx, targetOut.Character.Inventory)
	if err != nil {
		return nil, err
	}

	toHitExpr := fmt.Sprintf("1d20%+d", input.AttackBonus)
	if input.AttackBonus == 0 {
		toHitExpr = "1d20"
	}

	toHit, err := o.pipe.Execute(ctx, pipeline.ExecuteInput{
		CharacterID: input.AttackerID,
		Instructions: []instructions.Instruction{
			instructions.NewRoll(toHitExpr, input.Advantage),
		},
	})
	if err != nil {
		return nil, err
	}

	total := toHit.Record.Effects[0].Total
	out := &AttackOutput{
		TargetAC: targetAC,
		ToHit:    toHit.Record,
		Hit:      total >= targetAC,
	}

	o.log.InfoContext(ctx, "attack rolled",
		"attacker_id", input.AttackerID,
		"target_id", input.TargetID,
		"to_hit", total,
		"target_ac", targetAC,
		"hit", out.Hit)

	if !out.Hit {
		return out, nil
	}

	damage, err := o.pipe.Execute(ctx, pipeline.ExecuteInput{
		CharacterID: input.TargetID,
		Instructions: []instructions.Instruction{
			instructions.NewRoll(input.DamageExpr, dice.AdvantageNone),
			instructions.NewDamageFromRoll(),
		},
	})
	if err != nil {
		return nil, err
	}

	out.Damage = damage.Record
	return out, nil
}

func (o *orchestrator) validateAttack(input AttackInput) error {
	vb := errors.NewValidationBuilder()
	if input.AttackerID == "" {
		vb.RequiredField("AttackerID")
	}
	if input.TargetID == "" {
		vb.RequiredField("TargetID")
	}
	if input.DamageExpr == "" {
		vb.RequiredField("DamageExpr")
	}
	if err := vb.Build(); err != nil {
		return err
	}

	if input.AttackerID == input.TargetID {
		return errors.InvalidArgument("a character cannot attack itself")
	}
	if _, err := dice.Parse(input.DamageExpr); err != nil {
		return errors.Wrap(err, "invalid damage expression")
	}
	if _, err := dice.ParseAdvantage(string(input.Advantage)); err != nil {
		return err
	}
	return nil
}

// armorClass is base AC plus the bonuses of everything equipped.
func (o *orchestrator) armorClass(ctx context.Context, inventory []entities.InventoryItem) (int, error) {
	ac := baseAC
	for _, entry := range inventory {
		if !entry.Equipped {
			continue
		}
		def, err := o.items.Get(ctx, itemrepo.GetInput{ID: entry.DefinitionID})
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return 0, err
		}
		ac += def.Definition.ACBonus
	}
	return ac, nil
}
