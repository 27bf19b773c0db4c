package action

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/openquest/gm-api/internal/errors"
	"github.com/openquest/gm-api/internal/pkg/clock"
	redisclient "github.com/openquest/gm-api/internal/redis"
)

const (
	// Key pattern: action:{id}; unresolved records are also indexed in
	// a set so the reaper can find them without scanning.
	actionKeyPrefix = "action:"
	unresolvedKey   = "action:unresolved"

	// Error messages
	errActionIDEmpty    = "action ID cannot be empty"
	errCharacterIDEmpty = "character ID cannot be empty"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for action records
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Create stores a new record in PENDING
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errActionIDEmpty)
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	key := r.buildKey(input.ID)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("action %s already exists", input.ID)
	}

	now := r.clock.Now()
	record := &Record{
		ID:           input.ID,
		CharacterID:  input.CharacterID,
		Instructions: input.Instructions,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal action record")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0) // audit trail, no TTL
	pipe.SAdd(ctx, unresolvedKey, input.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create action record")
	}

	return &CreateOutput{Record: record}, nil
}

// BeginProcessing atomically transitions PENDING -> PROCESSING
func (r *redisRepository) BeginProcessing(ctx context.Context, input BeginProcessingInput) (*BeginProcessingOutput, error) {
	record, err := r.transition(ctx, input.ID, func(rec *Record) error {
		if rec.Status != StatusPending {
			return errors.Abortedf("action %s is %s, not PENDING", rec.ID, rec.Status)
		}
		rec.Status = StatusProcessing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &BeginProcessingOutput{Record: record}, nil
}

// RecordEffect appends one applied-effect entry without changing status
func (r *redisRepository) RecordEffect(ctx context.Context, input RecordEffectInput) (*RecordEffectOutput, error) {
	record, err := r.transition(ctx, input.ID, func(rec *Record) error {
		if rec.Status != StatusProcessing {
			return errors.FailedPreconditionf("cannot record effect on action %s in status %s", rec.ID, rec.Status)
		}
		idx := input.Effect.InstructionIndex
		if idx < 0 || idx >= len(rec.Instructions) {
			return errors.InvalidArgumentf("instruction index %d out of range for action %s", idx, rec.ID)
		}
		for _, effect := range rec.Effects {
			if effect.InstructionIndex == idx {
				return errors.FailedPreconditionf("action %s already has an effect for instruction %d", rec.ID, idx)
			}
		}
		rec.Effects = append(rec.Effects, input.Effect)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &RecordEffectOutput{Record: record}, nil
}

// Complete transitions PROCESSING -> APPLIED
func (r *redisRepository) Complete(ctx context.Context, input CompleteInput) (*CompleteOutput, error) {
	record, err := r.transition(ctx, input.ID, func(rec *Record) error {
		if rec.Status != StatusProcessing {
			return errors.FailedPreconditionf("cannot complete action %s in status %s", rec.ID, rec.Status)
		}
		if len(rec.Effects) != len(rec.Instructions) {
			return errors.FailedPreconditionf(
				"cannot complete action %s: %d of %d instructions have recorded effects",
				rec.ID, len(rec.Effects), len(rec.Instructions))
		}
		rec.Status = StatusApplied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CompleteOutput{Record: record}, nil
}

// Fail transitions PENDING or PROCESSING -> FAILED, keeping partial effects
func (r *redisRepository) Fail(ctx context.Context, input FailInput) (*FailOutput, error) {
	record, err := r.transition(ctx, input.ID, func(rec *Record) error {
		if rec.Status.Terminal() {
			return errors.FailedPreconditionf("cannot fail action %s in terminal status %s", rec.ID, rec.Status)
		}
		rec.Status = StatusFailed
		rec.FailureReason = input.Reason
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &FailOutput{Record: record}, nil
}

// Get fetches a record by ID
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errActionIDEmpty)
	}

	data, err := r.client.Get(ctx, r.buildKey(input.ID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("action %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get action record")
	}

	var record Record
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal action record")
	}

	return &GetOutput{Record: &record}, nil
}

// ListUnresolved returns every record not yet in a terminal state
func (r *redisRepository) ListUnresolved(ctx context.Context, _ ListUnresolvedInput) (*ListUnresolvedOutput, error) {
	ids, err := r.client.SMembers(ctx, unresolvedKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read unresolved index")
	}

	records := make([]*Record, 0, len(ids))
	for _, id := range ids {
		out, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				// Index entry with no record; drop it.
				r.client.SRem(ctx, unresolvedKey, id)
				continue
			}
			return nil, err
		}
		if out.Record.Status.Terminal() {
			r.client.SRem(ctx, unresolvedKey, id)
			continue
		}
		records = append(records, out.Record)
	}

	return &ListUnresolvedOutput{Records: records}, nil
}

// transition applies mutate to the record under a WATCH-based
// compare-and-set so concurrent callers cannot interleave. The record's
// PROCESSING status is the only lock held across external mutation
// calls; this guard only covers the read-modify-write itself.
func (r *redisRepository) transition(ctx context.Context, id string, mutate func(*Record) error) (*Record, error) {
	if id == "" {
		return nil, errors.InvalidArgument(errActionIDEmpty)
	}

	key := r.buildKey(id)
	var record *Record

	txErr := r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				return errors.NotFoundf("action %s not found", id)
			}
			return errors.Wrapf(err, "failed to get action record")
		}

		var rec Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return errors.Wrapf(err, "failed to unmarshal action record")
		}

		if err := mutate(&rec); err != nil {
			return err
		}
		rec.UpdatedAt = r.clock.Now()

		updated, err := json.Marshal(&rec)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal action record")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			if rec.Status.Terminal() {
				pipe.SRem(ctx, unresolvedKey, rec.ID)
			}
			return nil
		})
		if err != nil {
			return err
		}

		record = &rec
		return nil
	}, key)

	if txErr != nil {
		if txErr == redis.TxFailedErr {
			return nil, errors.Abortedf("action %s was modified concurrently", id)
		}
		return nil, txErr
	}

	return record, nil
}

// buildKey creates the Redis key for an action record
func (r *redisRepository) buildKey(id string) string {
	return actionKeyPrefix + id
}
