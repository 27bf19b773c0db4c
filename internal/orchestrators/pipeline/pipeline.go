// Package pipeline executes instruction batches against a character
// through the tracked action lifecycle: every batch becomes an action
// record that moves PENDING -> PROCESSING -> APPLIED or FAILED, with
// one effect recorded per applied instruction.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/openquest/gm-api/internal/dice"
	"github.com/openquest/gm-api/internal/errors"
	"github.com/openquest/gm-api/internal/instructions"
	"github.com/openquest/gm-api/internal/pkg/clock"
	"github.com/openquest/gm-api/internal/pkg/idgen"
	"github.com/openquest/gm-api/internal/repositories/action"
	charactersvc "github.com/openquest/gm-api/internal/services/character"
)

//go:generate mockgen -destination=mock/mock_pipeline.go -package=pipelinemock github.com/openquest/gm-api/internal/orchestrators/pipeline Pipeline

// ExecuteInput contains the batch to apply.
type ExecuteInput struct {
	CharacterID  string
	Instructions []instructions.Instruction
}

// ExecuteOutput contains the terminal action record. Status is APPLIED;
// failures are returned as errors carrying the action ID in their meta.
type ExecuteOutput struct {
	Record *action.Record
}

// RecordFailureInput creates an already-failed audit record, used when
// work dies before any instruction can run (e.g. the chat provider is
// unreachable after the request was accepted).
type RecordFailureInput struct {
	CharacterID  string
	Instructions []instructions.Instruction
	Reason       string
}

// RecordFailureOutput contains the FAILED record.
type RecordFailureOutput struct {
	Record *action.Record
}

// Pipeline applies instruction batches through the action lifecycle.
type Pipeline interface {
	// Execute validates the batch, creates an action record, and applies
	// each instruction in order. Instructions already applied when a
	// later one fails stay applied; the record is marked FAILED and the
	// causing error is returned with an "action_id" meta entry.
	Execute(ctx context.Context, input ExecuteInput) (*ExecuteOutput, error)

	// RecordFailure creates a record and immediately fails it, so work
	// that died pre-execution still leaves an audit trail.
	RecordFailure(ctx context.Context, input RecordFailureInput) (*RecordFailureOutput, error)
}

// Config holds the dependencies for the pipeline
type Config struct {
	ActionRepository action.Repository
	CharacterService charactersvc.Service
	Roller           dice.Roller
	IDGenerator      idgen.Generator
	Clock            clock.Clock
	Logger           *slog.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.ActionRepository == nil {
		vb.RequiredField("ActionRepository")
	}
	if c.CharacterService == nil {
		vb.RequiredField("CharacterService")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	return vb.Build()
}

type pipeline struct {
	actions    action.Repository
	characters charactersvc.Service
	roller     dice.Roller
	idGen      idgen.Generator
	clock      clock.Clock
	log        *slog.Logger
}

// New creates a new pipeline
func New(cfg *Config) (Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &pipeline{
		actions:    cfg.ActionRepository,
		characters: cfg.CharacterService,
		roller:     cfg.Roller,
		idGen:      cfg.IDGenerator,
		clock:      c,
		log:        log,
	}, nil
}

// Ensure pipeline implements Pipeline
var _ Pipeline = (*pipeline)(nil)

func (p *pipeline) Execute(ctx context.Context, input ExecuteInput) (*ExecuteOutput, error) {
	if err := validateBatch(input); err != nil {
		return nil, err
	}

	// Resolve the character before creating a record; a batch against a
	// character that does not exist is a caller error, not an action.
	if _, err := p.characters.Get(ctx, charactersvc.GetInput{ID: input.CharacterID}); err != nil {
		return nil, err
	}

	actionID := p.idGen.Generate()
	if _, err := p.actions.Create(ctx, action.CreateInput{
		ID:           actionID,
		CharacterID:  input.CharacterID,
		Instructions: input.Instructions,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to create action record")
	}

	if _, err := p.actions.BeginProcessing(ctx, action.BeginProcessingInput{ID: actionID}); err != nil {
		return nil, errors.Wrap(err, "failed to begin processing")
	}

	p.log.InfoContext(ctx, "executing action",
		"action_id", actionID,
		"character_id", input.CharacterID,
		"instructions", len(input.Instructions))

	// Total of the most recent roll effect, for from_roll HP deltas.
	var lastRollTotal *int

	for i, in := range input.Instructions {
		effect, err := p.apply(ctx, input.CharacterID, i, in, lastRollTotal)
		if err != nil {
			return nil, p.failAction(ctx, actionID, i, in, err)
		}
		if in.Type == instructions.TypeRoll {
			total := effect.Total
			lastRollTotal = &total
		}

		if _, err := p.actions.RecordEffect(ctx, action.RecordEffectInput{
			ID:     actionID,
			Effect: *effect,
		}); err != nil {
			return nil, p.failAction(ctx, actionID, i, in, err)
		}
	}

	out, err := p.actions.Complete(ctx, action.CompleteInput{ID: actionID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to complete action")
	}

	p.log.InfoContext(ctx, "action applied", "action_id", actionID)

	return &ExecuteOutput{Record: out.Record}, nil
}

func (p *pipeline) RecordFailure(ctx context.Context, input RecordFailureInput) (*RecordFailureOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.Reason == "" {
		return nil, errors.InvalidArgument("failure reason is required")
	}

	actionID := p.idGen.Generate()
	if _, err := p.actions.Create(ctx, action.CreateInput{
		ID:           actionID,
		CharacterID:  input.CharacterID,
		Instructions: input.Instructions,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to create action record")
	}

	out, err := p.actions.Fail(ctx, action.FailInput{ID: actionID, Reason: input.Reason})
	if err != nil {
		return nil, errors.Wrap(err, "failed to fail action record")
	}

	p.log.WarnContext(ctx, "action failed before execution",
		"action_id", actionID,
		"character_id", input.CharacterID,
		"reason", input.Reason)

	return &RecordFailureOutput{Record: out.Record}, nil
}

// apply runs one instruction and builds its effect entry.
func (p *pipeline) apply(ctx context.Context, characterID string, index int, in instructions.Instruction, lastRollTotal *int) (*action.Effect, error) {
	effect := &action.Effect{
		InstructionIndex: index,
		Type:             in.Type,
		AppliedAt:        p.clock.Now(),
	}

	switch in.Type {
	case instructions.TypeRoll:
		expr, err := dice.Parse(in.Expr)
		if err != nil {
			return nil, err
		}
		result, err := dice.Evaluate(expr, in.Advantage, p.roller)
		if err != nil {
			return nil, err
		}
		effect.Rolls = result.Rolls
		effect.Mod = result.Mod
		effect.Total = result.Total()
		effect.Discarded = result.Discarded

	case instructions.TypeHP:
		delta := in.HP
		if in.FromRoll {
			if lastRollTotal == nil {
				return nil, errors.FailedPrecondition("hp instruction depends on a roll but no roll effect precedes it")
			}
			// A roll with a negative modifier can net zero or less; clamp
			// so damage never turns into healing.
			total := *lastRollTotal
			if total < 0 {
				total = 0
			}
			delta = in.HP * total
		}
		if in.FromRoll && delta == 0 {
			// A legitimate zero-damage outcome; record the no-op rather
			// than rejecting the whole batch.
			out, err := p.characters.Get(ctx, charactersvc.GetInput{ID: characterID})
			if err != nil {
				return nil, err
			}
			effect.Delta = 0
			effect.Resulting = out.Character.HP
			break
		}
		out, err := p.characters.ApplyHP(ctx, charactersvc.ApplyHPInput{
			CharacterID: characterID,
			Delta:       delta,
		})
		if err != nil {
			return nil, err
		}
		effect.Delta = delta
		effect.Resulting = out.Character.HP

	case instructions.TypeXP:
		out, err := p.characters.ApplyXP(ctx, charactersvc.ApplyXPInput{
			CharacterID: characterID,
			Delta:       in.XP,
		})
		if err != nil {
			return nil, err
		}
		effect.Delta = in.XP
		effect.Resulting = out.Character.XP

	case instructions.TypeEquip:
		out, err := p.characters.EquipItem(ctx, charactersvc.EquipItemInput{
			CharacterID:  characterID,
			DefinitionID: in.DefinitionID,
		})
		if err != nil {
			return nil, err
		}
		effect.ItemID = out.Item.ID
		effect.Quantity = 1

	case instructions.TypeRemove:
		if _, err := p.characters.RemoveItem(ctx, charactersvc.RemoveItemInput{
			CharacterID: characterID,
			ItemID:      in.ItemID,
			Quantity:    in.Quantity,
		}); err != nil {
			return nil, err
		}
		effect.ItemID = in.ItemID
		effect.Quantity = in.Quantity

	default:
		return nil, errors.InvalidArgumentf("unknown instruction type: %q", in.Type)
	}

	return effect, nil
}

// failAction marks the record FAILED and returns the causing error with
// the action ID attached. Effects already recorded stay recorded.
func (p *pipeline) failAction(ctx context.Context, actionID string, index int, in instructions.Instruction, cause error) error {
	reason := errors.Wrapf(cause, "instruction %d (%s) failed", index, in.Type).Error()

	if _, err := p.actions.Fail(ctx, action.FailInput{ID: actionID, Reason: reason}); err != nil {
		p.log.ErrorContext(ctx, "failed to mark action FAILED",
			"action_id", actionID, "error", err)
	}

	p.log.WarnContext(ctx, "action failed",
		"action_id", actionID,
		"instruction_index", index,
		"instruction_type", string(in.Type),
		"error", cause)

	wrapped := errors.Wrapf(cause, "instruction %d (%s) failed", index, in.Type)
	var coded *errors.Error
	if errors.As(wrapped, &coded) {
		return coded.WithMeta("action_id", actionID)
	}
	return wrapped
}

// validateBatch rejects batches that could never execute, before any
// record is created.
func validateBatch(input ExecuteInput) error {
	if input.CharacterID == "" {
		return errors.InvalidArgument("character ID is required")
	}
	if len(input.Instructions) == 0 {
		return errors.InvalidArgument("at least one instruction is required")
	}

	seenRoll := false
	for i, in := range input.Instructions {
		if err := in.Validate(); err != nil {
			return errors.Wrapf(err, "instruction %d invalid", i)
		}
		if in.Type == instructions.TypeRoll {
			seenRoll = true
		}
		if in.Type == instructions.TypeHP && in.FromRoll && !seenRoll {
			return errors.InvalidArgumentf("instruction %d depends on a roll but none precedes it", i)
		}
	}
	return nil
}
