// Package api exposes the HTTP surface: characters, dice, chat, combat,
// inventory, and action lookup. Routing is chi, operations are huma so
// the OpenAPI document comes for free.
package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/openquest/gm-api/internal/dice"
	"github.com/openquest/gm-api/internal/errors"
	chatorch "github.com/openquest/gm-api/internal/orchestrators/chat"
	combatorch "github.com/openquest/gm-api/internal/orchestrators/combat"
	itemorch "github.com/openquest/gm-api/internal/orchestrators/item"
	"github.com/openquest/gm-api/internal/repositories/action"
	charactersvc "github.com/openquest/gm-api/internal/services/character"
)

// Config holds the dependencies for the API handler
type Config struct {
	CharacterService charactersvc.Service
	ChatOrchestrator chatorch.Orchestrator
	CombatService    combatorch.Orchestrator
	ItemService      itemorch.Orchestrator
	ActionRepository action.Repository
	Roller           dice.Roller
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.CharacterService == nil {
		vb.RequiredField("CharacterService")
	}
	if c.ChatOrchestrator == nil {
		vb.RequiredField("ChatOrchestrator")
	}
	if c.CombatService == nil {
		vb.RequiredField("CombatService")
	}
	if c.ItemService == nil {
		vb.RequiredField("ItemService")
	}
	if c.ActionRepository == nil {
		vb.RequiredField("ActionRepository")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	return vb.Build()
}

// apiError is the error envelope every operation returns.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"NOT_FOUND"`
	Message string         `json:"message" example:"character char_123 not found"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// handleError maps coded domain errors onto HTTP statuses. Error meta
// (validation fields, action IDs) travels in the details object.
func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	code := errors.GetCode(err)
	return &apiError{
		status: code.HTTPStatus(),
		Body: apiErrorBody{
			Code:    code.String(),
			Message: errors.GetMessage(err),
			Details: errors.GetMeta(err),
		},
	}
}

// New returns the HTTP handler for the whole API.
func New(cfg *Config) (http.Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	hcfg := huma.DefaultConfig("GM API", "1.0.0")
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, "/v1")

	registerHealth(group)
	registerCharacters(group, cfg.CharacterService)
	registerDice(group, cfg.Roller)
	registerChat(group, cfg.ChatOrchestrator)
	registerCombat(group, cfg.CombatService)
	registerItems(group, cfg.ItemService)
	registerActions(group, cfg.ActionRepository)

	return router, nil
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerCharacters(api huma.API, svc charactersvc.Service) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-character",
		Method:        http.MethodPost,
		Path:          "/characters",
		Summary:       "Create character",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body CreateCharacterRequest `json:"body"`
	}) (*struct {
		Body CharacterResponse `json:"body"`
	}, error) {
		out, err := svc.Create(ctx, charactersvc.CreateInput{
			PlayerID: input.Body.PlayerID,
			Name:     input.Body.Name,
			Race:     input.Body.Race,
			Class:    input.Body.Class,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body CharacterResponse `json:"body"`
		}{Body: characterResponse(out.Character)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-character",
		Method:      http.MethodGet,
		Path:        "/characters/{id}",
		Summary:     "Get character",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body CharacterResponse `json:"body"`
	}, error) {
		out, err := svc.Get(ctx, charactersvc.GetInput{ID: input.ID})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body CharacterResponse `json:"body"`
		}{Body: characterResponse(out.Character)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-player-characters",
		Method:      http.MethodGet,
		Path:        "/players/{playerId}/characters",
		Summary:     "List a player's characters",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		PlayerID string `path:"playerId"`
	}) (*struct {
		Body []CharacterResponse `json:"body"`
	}, error) {
		out, err := svc.ListByPlayer(ctx, charactersvc.ListByPlayerInput{PlayerID: input.PlayerID})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []CharacterResponse `json:"body"`
		}{Body: mapCharacters(out.Characters)}, nil
	})
}

func registerDice(api huma.API, roller dice.Roller) {
	huma.Register(api, huma.Operation{
		OperationID: "roll-dice",
		Method:      http.MethodPost,
		Path:        "/dice/roll",
		Summary:     "Evaluate a dice expression",
		Errors:      []int{http.StatusBadRequest},
	}, func(_ context.Context, input *struct {
		Body RollRequest `json:"body"`
	}) (*struct {
		Body RollResponse `json:"body"`
	}, error) {
		expr, err := dice.Parse(input.Body.Expr)
		if err != nil {
			return nil, handleError(err)
		}
		advantage, err := dice.ParseAdvantage(input.Body.Advantage)
		if err != nil {
			return nil, handleError(err)
		}
		result, err := dice.Evaluate(expr, advantage, roller)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body RollResponse `json:"body"`
		}{Body: RollResponse{
			Rolls:     result.Rolls,
			Mod:       result.Mod,
			Total:     result.Total(),
			Discarded: result.Discarded,
		}}, nil
	})
}

func registerChat(api huma.API, orch chatorch.Orchestrator) {
	huma.Register(api, huma.Operation{
		OperationID: "character-chat",
		Method:      http.MethodPost,
		Path:        "/characters/{id}/chat",
		Summary:     "Send a chat message as a character",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusServiceUnavailable,
		},
	}, func(ctx context.Context, input *struct {
		ID   string      `path:"id"`
		Body ChatRequest `json:"body"`
	}) (*struct {
		Body ChatResponse `json:"body"`
	}, error) {
		out, err := orch.HandleMessage(ctx, chatorch.HandleMessageInput{
			CharacterID: input.ID,
			Message:     input.Body.Message,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ChatResponse `json:"body"`
		}{Body: ChatResponse{
			Narration: out.Narration,
			Action:    actionResponse(out.Record),
			Dropped:   mapDropped(out.Dropped),
		}}, nil
	})
}

func registerCombat(api huma.API, orch combatorch.Orchestrator) {
	huma.Register(api, huma.Operation{
		OperationID: "character-attack",
		Method:      http.MethodPost,
		Path:        "/characters/{id}/attack",
		Summary:     "Attack another character",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		ID   string        `path:"id"`
		Body AttackRequest `json:"body"`
	}) (*struct {
		Body AttackResponse `json:"body"`
	}, error) {
		out, err := orch.Attack(ctx, combatorch.AttackInput{
			AttackerID:  input.ID,
			TargetID:    input.Body.TargetID,
			AttackBonus: input.Body.AttackBonus,
			DamageExpr:  input.Body.DamageExpr,
			Advantage:   dice.Advantage(input.Body.Advantage),
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body AttackResponse `json:"body"`
		}{Body: AttackResponse{
			Hit:      out.Hit,
			TargetAC: out.TargetAC,
			ToHit:    actionResponse(out.ToHit),
			Damage:   actionResponse(out.Damage),
		}}, nil
	})
}

func registerItems(api huma.API, orch itemorch.Orchestrator) {
	huma.Register(api, huma.Operation{
		OperationID: "equip-item",
		Method:      http.MethodPost,
		Path:        "/characters/{id}/items/equip",
		Summary:     "Take and equip a catalog item",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		ID   string           `path:"id"`
		Body EquipItemRequest `json:"body"`
	}) (*struct {
		Body ActionResponse `json:"body"`
	}, error) {
		out, err := orch.Equip(ctx, itemorch.EquipInput{
			CharacterID:  input.ID,
			DefinitionID: input.Body.DefinitionID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ActionResponse `json:"body"`
		}{Body: *actionResponse(out.Record)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "use-item",
		Method:      http.MethodPost,
		Path:        "/characters/{id}/items/use",
		Summary:     "Use a consumable item",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusPreconditionFailed,
		},
	}, func(ctx context.Context, input *struct {
		ID   string         `path:"id"`
		Body UseItemRequest `json:"body"`
	}) (*struct {
		Body ActionResponse `json:"body"`
	}, error) {
		out, err := orch.Use(ctx, itemorch.UseInput{
			CharacterID: input.ID,
			ItemID:      input.Body.ItemID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ActionResponse `json:"body"`
		}{Body: *actionResponse(out.Record)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-item",
		Method:      http.MethodPost,
		Path:        "/characters/{id}/items/remove",
		Summary:     "Discard an inventory item",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusPreconditionFailed,
		},
	}, func(ctx context.Context, input *struct {
		ID   string            `path:"id"`
		Body RemoveItemRequest `json:"body"`
	}) (*struct {
		Body ActionResponse `json:"body"`
	}, error) {
		out, err := orch.Remove(ctx, itemorch.RemoveInput{
			CharacterID: input.ID,
			ItemID:      input.Body.ItemID,
			Quantity:    input.Body.Quantity,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ActionResponse `json:"body"`
		}{Body: *actionResponse(out.Record)}, nil
	})
}

func registerActions(api huma.API, repo action.Repository) {
	huma.Register(api, huma.Operation{
		OperationID: "get-action",
		Method:      http.MethodGet,
		Path:        "/actions/{id}",
		Summary:     "Get an action record",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body ActionResponse `json:"body"`
	}, error) {
		out, err := repo.Get(ctx, action.GetInput{ID: input.ID})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ActionResponse `json:"body"`
		}{Body: *actionResponse(out.Record)}, nil
	})
}
