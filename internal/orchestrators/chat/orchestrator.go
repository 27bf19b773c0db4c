// Package chat turns player chat into game state. It sends the player's
// message to the chat model, classifies the reply into instructions,
// and runs them through the action pipeline.
package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openquest/gm-api/internal/clients/llm"
	"github.com/openquest/gm-api/internal/errors"
	"github.com/openquest/gm-api/internal/instructions"
	"github.com/openquest/gm-api/internal/orchestrators/pipeline"
	"github.com/openquest/gm-api/internal/repositories/action"
	charactersvc "github.com/openquest/gm-api/internal/services/character"
)

// The model is asked for narration plus an optional fenced JSON block.
// Only hp, xp, and roll are admitted from chat; everything else is
// dropped at the classifier boundary no matter what the model says.
const systemPrompt = `You are the game master for a tabletop RPG session. Narrate the outcome
of the player's message in second person, two or three sentences.

When the outcome changes game state, append a fenced json block holding
an array of instructions. Supported instructions:

  {"type":"hp","hp":<signed integer>}            hit point delta
  {"type":"xp","xp":<non-negative integer>}      experience gain
  {"type":"roll","expr":"XdY+Z","advantage":"none|advantage|disadvantage"}

Emit no other instruction types. Omit the block entirely when nothing
mechanical happens.`

// HandleMessageInput contains one player chat message.
type HandleMessageInput struct {
	CharacterID string
	Message     string
}

// HandleMessageOutput contains the model's narration and, when the
// reply carried instructions, the terminal action record. Record is nil
// for pure narration. Dropped lists instruction candidates the
// classifier rejected.
type HandleMessageOutput struct {
	Narration string
	Record    *action.Record
	Dropped   []instructions.Dropped
}

// Orchestrator handles player chat messages.
type Orchestrator interface {
	HandleMessage(ctx context.Context, input HandleMessageInput) (*HandleMessageOutput, error)
}

// Config holds the dependencies for the chat orchestrator
type Config struct {
	LLMClient        llm.Client
	Pipeline         pipeline.Pipeline
	CharacterService charactersvc.Service
	Logger           *slog.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.LLMClient == nil {
		vb.RequiredField("LLMClient")
	}
	if c.Pipeline == nil {
		vb.RequiredField("Pipeline")
	}
	if c.CharacterService == nil {
		vb.RequiredField("CharacterService")
	}
	return vb.Build()
}

type orchestrator struct {
	client     llm.Client
	pipe       pipeline.Pipeline
	characters charactersvc.Service
	log        *slog.Logger
}

// New creates a new chat orchestrator
func New(cfg *Config) (Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &orchestrator{
		client:     cfg.LLMClient,
		pipe:       cfg.Pipeline,
		characters: cfg.CharacterService,
		log:        log,
	}, nil
}

// Ensure orchestrator implements Orchestrator
var _ Orchestrator = (*orchestrator)(nil)

func (o *orchestrator) HandleMessage(ctx context.Context, input HandleMessageInput) (*HandleMessageOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.Message == "" {
		return nil, errors.InvalidArgument("message is required")
	}

	charOut, err := o.characters.Get(ctx, charactersvc.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}
	char := charOut.Character

	completion, err := o.client.Complete(ctx, llm.CompleteInput{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleSystem, Content: fmt.Sprintf(
				"The player is %s, a level %d %s %s with %d/%d HP and %d XP.",
				char.Name, char.Level, char.Race, char.Class, char.HP, char.MaxHP, char.XP)},
			{Role: llm.RoleUser, Content: input.Message},
		},
	})
	if err != nil {
		// The request was accepted before the provider died; leave a
		// FAILED record so the attempt is visible in the audit trail.
		failed, recErr := o.pipe.RecordFailure(ctx, pipeline.RecordFailureInput{
			CharacterID: input.CharacterID,
			Reason:      errors.Wrap(err, "chat provider failed").Error(),
		})
		if recErr != nil {
			o.log.ErrorContext(ctx, "failed to record provider failure",
				"character_id", input.CharacterID, "error", recErr)
			return nil, err
		}

		var coded *errors.Error
		if errors.As(err, &coded) {
			return nil, coded.WithMeta("action_id", failed.Record.ID)
		}
		return nil, err
	}

	result, err := instructions.Classify(completion.Text)
	if err != nil {
		o.log.WarnContext(ctx, "chat reply could not be classified",
			"character_id", input.CharacterID,
			"error", err)
		return nil, errors.Wrap(err, "chat reply could not be classified")
	}

	out := &HandleMessageOutput{
		Narration: completion.Text,
		Dropped:   result.Dropped,
	}

	if len(result.Instructions) == 0 {
		o.log.DebugContext(ctx, "chat reply carried no instructions",
			"character_id", input.CharacterID)
		return out, nil
	}

	executed, err := o.pipe.Execute(ctx, pipeline.ExecuteInput{
		CharacterID:  input.CharacterID,
		Instructions: result.Instructions,
	})
	if err != nil {
		return nil, err
	}

	out.Record = executed.Record
	return out, nil
}
