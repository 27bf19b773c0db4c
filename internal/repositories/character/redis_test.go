package character_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/openquest/gm-api/internal/entities"
	"github.com/openquest/gm-api/internal/errors"
	"github.com/openquest/gm-api/internal/pkg/clock"
	"github.com/openquest/gm-api/internal/repositories/character"
	"github.com/openquest/gm-api/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	repo    character.Repository
	clock   *clock.Fixed
	cleanup func()
	ctx     context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.clock = clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	repo, err := character.NewRedisRepository(&character.Config{
		Client: client,
		Clock:  s.clock,
	})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) testCharacter() *entities.Character {
	return &entities.Character{
		ID:       "char_123",
		PlayerID: "player_456",
		Name:     "Thorin",
		Race:     "dwarf",
		Class:    "fighter",
		Level:    1,
		HP:       12,
		MaxHP:    12,
	}
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	created, err := s.repo.Create(s.ctx, character.CreateInput{Character: s.testCharacter()})
	s.Require().NoError(err)
	s.Equal(s.clock.Now(), created.Character.CreatedAt)

	got, err := s.repo.Get(s.ctx, character.GetInput{ID: "char_123"})
	s.Require().NoError(err)
	s.Equal("Thorin", got.Character.Name)
	s.Equal(12, got.Character.HP)

	s.Run("duplicate ID is rejected", func() {
		_, err := s.repo.Create(s.ctx, character.CreateInput{Character: s.testCharacter()})
		s.Error(err)
		s.True(errors.IsAlreadyExists(err))
	})
}

func (s *RedisRepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(s.ctx, character.GetInput{ID: "char_missing"})
	s.Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestUpdate() {
	_, err := s.repo.Create(s.ctx, character.CreateInput{Character: s.testCharacter()})
	s.Require().NoError(err)

	s.clock.Advance(time.Minute)

	char := s.testCharacter()
	char.HP = 8
	updated, err := s.repo.Update(s.ctx, character.UpdateInput{Character: char})
	s.Require().NoError(err)
	s.Equal(8, updated.Character.HP)
	s.Equal(s.clock.Now(), updated.Character.UpdatedAt)

	s.Run("unknown character is not found", func() {
		missing := s.testCharacter()
		missing.ID = "char_missing"
		_, err := s.repo.Update(s.ctx, character.UpdateInput{Character: missing})
		s.Error(err)
		s.True(errors.IsNotFound(err))
	})
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	_, err := s.repo.Create(s.ctx, character.CreateInput{Character: s.testCharacter()})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, character.DeleteInput{ID: "char_123"})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, character.GetInput{ID: "char_123"})
	s.True(errors.IsNotFound(err))

	listed, err := s.repo.ListByPlayer(s.ctx, character.ListByPlayerInput{PlayerID: "player_456"})
	s.Require().NoError(err)
	s.Empty(listed.Characters, "delete must also clear the player index")
}

func (s *RedisRepositoryTestSuite) TestListByPlayer() {
	first := s.testCharacter()
	second := s.testCharacter()
	second.ID = "char_124"
	second.Name = "Gimli"
	other := s.testCharacter()
	other.ID = "char_125"
	other.PlayerID = "player_999"

	for _, char := range []*entities.Character{first, second, other} {
		_, err := s.repo.Create(s.ctx, character.CreateInput{Character: char})
		s.Require().NoError(err)
	}

	out, err := s.repo.ListByPlayer(s.ctx, character.ListByPlayerInput{PlayerID: "player_456"})
	s.Require().NoError(err)
	s.Len(out.Characters, 2)

	names := make(map[string]bool)
	for _, char := range out.Characters {
		names[char.Name] = true
	}
	s.True(names["Thorin"])
	s.True(names["Gimli"])
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}
