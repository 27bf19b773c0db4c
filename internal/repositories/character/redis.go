package character

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/openquest/gm-api/internal/entities"
	"github.com/openquest/gm-api/internal/errors"
	"github.com/openquest/gm-api/internal/pkg/clock"
	redisclient "github.com/openquest/gm-api/internal/redis"
)

const (
	// Key patterns: character:{id} for the record, player:{playerID}:characters
	// for the owner's index set.
	characterKeyPrefix = "character:"
	playerIndexPrefix  = "player:"
	playerIndexSuffix  = ":characters"

	// Error messages
	errCharacterIDEmpty = "character ID cannot be empty"
	errCharacterNil     = "character cannot be nil"
	errPlayerIDEmpty    = "player ID cannot be empty"
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

// NewRedisRepository creates a new Redis repository for characters
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

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Character == nil {
		return nil, errors.InvalidArgument(errCharacterNil)
	}
	if input.Character.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}
	if input.Character.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	key := r.buildKey(input.Character.ID)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("character %s already exists", input.Character.ID)
	}

	now := r.clock.Now()
	char := *input.Character
	char.CreatedAt = now
	char.UpdatedAt = now

	data, err := json.Marshal(&char)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, r.buildPlayerIndexKey(char.PlayerID), char.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create character")
	}

	return &CreateOutput{Character: &char}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	data, err := r.client.Get(ctx, r.buildKey(input.ID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("character %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get character")
	}

	var char entities.Character
	if err := json.Unmarshal([]byte(data), &char); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal character")
	}

	return &GetOutput{Character: &char}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Character == nil {
		return nil, errors.InvalidArgument(errCharacterNil)
	}
	if input.Character.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	key := r.buildKey(input.Character.ID)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("character %s not found", input.Character.ID)
	}

	char := *input.Character
	char.UpdatedAt = r.clock.Now()

	data, err := json.Marshal(&char)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to update character")
	}

	return &UpdateOutput{Character: &char}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	// Fetch first so we can clean the player index.
	out, err := r.Get(ctx, GetInput{ID: input.ID})
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.buildKey(input.ID))
	pipe.SRem(ctx, r.buildPlayerIndexKey(out.Character.PlayerID), input.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete character")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) ListByPlayer(ctx context.Context, input ListByPlayerInput) (*ListByPlayerOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	ids, err := r.client.SMembers(ctx, r.buildPlayerIndexKey(input.PlayerID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read player index")
	}

	characters := make([]*entities.Character, 0, len(ids))
	for _, id := range ids {
		out, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				// Index entry with no record; drop it.
				r.client.SRem(ctx, r.buildPlayerIndexKey(input.PlayerID), id)
				continue
			}
			return nil, err
		}
		characters = append(characters, out.Character)
	}

	return &ListByPlayerOutput{Characters: characters}, nil
}

// buildKey creates the Redis key for a character
func (r *redisRepository) buildKey(id string) string {
	return characterKeyPrefix + id
}

// buildPlayerIndexKey creates the Redis key for a player's character set
func (r *redisRepository) buildPlayerIndexKey(playerID string) string {
	return playerIndexPrefix + playerID + playerIndexSuffix
}
