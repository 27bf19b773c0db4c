package action_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/openquest/gm-api/internal/dice"
	"github.com/openquest/gm-api/internal/errors"
	"github.com/openquest/gm-api/internal/instructions"
	"github.com/openquest/gm-api/internal/pkg/clock"
	"github.com/openquest/gm-api/internal/repositories/action"
	"github.com/openquest/gm-api/internal/testutils"
)

const (
	testActionID = "act_1"
	testCharID   = "char_123"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	repo    action.Repository
	cleanup func()
	ctx     context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	repo, err := action.NewRedisRepository(&action.Config{
		Client: client,
		Clock:  clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)),
	})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) create(instrs ...instructions.Instruction) *action.Record {
	out, err := s.repo.Create(s.ctx, action.CreateInput{
		ID:           testActionID,
		CharacterID:  testCharID,
		Instructions: instrs,
	})
	s.Require().NoError(err)
	return out.Record
}

func (s *RedisRepositoryTestSuite) TestCreate() {
	record := s.create(instructions.NewHP(-4), instructions.NewXP(10))

	s.Equal(action.StatusPending, record.Status)
	s.Equal(testCharID, record.CharacterID)
	s.Len(record.Instructions, 2)
	s.Empty(record.Effects)
	s.Empty(record.FailureReason)
	s.False(record.CreatedAt.IsZero())

	s.Run("duplicate ID is rejected", func() {
		_, err := s.repo.Create(s.ctx, action.CreateInput{
			ID:          testActionID,
			CharacterID: testCharID,
		})
		s.Error(err)
		s.True(errors.IsAlreadyExists(err))
	})

	s.Run("listed as unresolved", func() {
		out, err := s.repo.ListUnresolved(s.ctx, action.ListUnresolvedInput{})
		s.Require().NoError(err)
		s.Require().Len(out.Records, 1)
		s.Equal(testActionID, out.Records[0].ID)
	})
}

func (s *RedisRepositoryTestSuite) TestBeginProcessing() {
	s.create(instructions.NewHP(-4))

	out, err := s.repo.BeginProcessing(s.ctx, action.BeginProcessingInput{ID: testActionID})
	s.Require().NoError(err)
	s.Equal(action.StatusProcessing, out.Record.Status)

	s.Run("second attempt conflicts", func() {
		_, err := s.repo.BeginProcessing(s.ctx, action.BeginProcessingInput{ID: testActionID})
		s.Error(err)
		s.True(errors.IsAborted(err))
	})

	s.Run("unknown action is not found", func() {
		_, err := s.repo.BeginProcessing(s.ctx, action.BeginProcessingInput{ID: "act_missing"})
		s.Error(err)
		s.True(errors.IsNotFound(err))
	})
}

func (s *RedisRepositoryTestSuite) TestBeginProcessing_ConcurrentCallers() {
	s.create(instructions.NewHP(-4))

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes, conflicts := 0, 0

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.repo.BeginProcessing(s.ctx, action.BeginProcessingInput{ID: testActionID})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if errors.IsAborted(err) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, successes, "exactly one caller may win the PENDING->PROCESSING gate")
	s.Equal(7, conflicts)
}

func (s *RedisRepositoryTestSuite) TestRecordEffect() {
	s.create(instructions.NewRoll("1d20+2", dice.AdvantageNone), instructions.NewHP(-4))

	s.Run("rejected while PENDING", func() {
		_, err := s.repo.RecordEffect(s.ctx, action.RecordEffectInput{
			ID:     testActionID,
			Effect: action.Effect{InstructionIndex: 0, Type: instructions.TypeRoll},
		})
		s.Error(err)
		s.True(errors.IsFailedPrecondition(err))
	})

	_, err := s.repo.BeginProcessing(s.ctx, action.BeginProcessingInput{ID: testActionID})
	s.Require().NoError(err)

	out, err := s.repo.RecordEffect(s.ctx, action.RecordEffectInput{
		ID: testActionID,
		Effect: action.Effect{
			InstructionIndex: 0,
			Type:             instructions.TypeRoll,
			Rolls:            []int{15},
			Mod:              2,
			Total:            17,
		},
	})
	s.Require().NoError(err)
	s.Require().Len(out.Record.Effects, 1)
	s.Equal(action.StatusProcessing, out.Record.Status, "recording an effect must not change status")

	s.Run("duplicate instruction index is rejected", func() {
		_, err := s.repo.RecordEffect(s.ctx, action.RecordEffectInput{
			ID:     testActionID,
			Effect: action.Effect{InstructionIndex: 0, Type: instructions.TypeRoll},
		})
		s.Error(err)
		s.True(errors.IsFailedPrecondition(err))
	})

	s.Run("out of range index is rejected", func() {
		_, err := s.repo.RecordEffect(s.ctx, action.RecordEffectInput{
			ID:     testActionID,
			Effect: action.Effect{InstructionIndex: 5, Type: instructions.TypeHP},
		})
		s.Error(err)
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *RedisRepositoryTestSuite) TestComplete() {
	s.create(instructions.NewHP(-4), instructions.NewXP(10))
	_, err := s.repo.BeginProcessing(s.ctx, action.BeginProcessingInput{ID: testActionID})
	s.Require().NoError(err)

	s.Run("rejected while effects are missing", func() {
		_, err := s.repo.Complete(s.ctx, action.CompleteInput{ID: testActionID})
		s.Error(err)
		s.True(errors.IsFailedPrecondition(err))
	})

	for i, typ := range []instructions.Type{instructions.TypeHP, instructions.TypeXP} {
		_, err := s.repo.RecordEffect(s.ctx, action.RecordEffectInput{
			ID:     testActionID,
			Effect: action.Effect{InstructionIndex: i, Type: typ},
		})
		s.Require().NoError(err)
	}

	out, err := s.repo.Complete(s.ctx, action.CompleteInput{ID: testActionID})
	s.Require().NoError(err)
	s.Equal(action.StatusApplied, out.Record.Status)

	s.Run("terminal state is immutable", func() {
		_, err := s.repo.Complete(s.ctx, action.CompleteInput{ID: testActionID})
		s.Error(err)
		s.True(errors.IsFailedPrecondition(err))

		_, err = s.repo.BeginProcessing(s.ctx, action.BeginProcessingInput{ID: testActionID})
		s.Error(err)
		s.True(errors.IsAborted(err))
	})

	s.Run("removed from unresolved index", func() {
		listed, err := s.repo.ListUnresolved(s.ctx, action.ListUnresolvedInput{})
		s.Require().NoError(err)
		s.Empty(listed.Records)
	})
}

func (s *RedisRepositoryTestSuite) TestFail() {
	s.create(instructions.NewHP(-4), instructions.NewXP(10))
	_, err := s.repo.BeginProcessing(s.ctx, action.BeginProcessingInput{ID: testActionID})
	s.Require().NoError(err)

	_, err = s.repo.RecordEffect(s.ctx, action.RecordEffectInput{
		ID:     testActionID,
		Effect: action.Effect{InstructionIndex: 0, Type: instructions.TypeHP, Delta: -4, Resulting: 6},
	})
	s.Require().NoError(err)

	out, err := s.repo.Fail(s.ctx, action.FailInput{
		ID:     testActionID,
		Reason: "instruction 1 (xp): character service rejected the mutation",
	})
	s.Require().NoError(err)

	s.Equal(action.StatusFailed, out.Record.Status)
	s.Len(out.Record.Effects, 1, "partial effects are retained, not rolled back")
	s.Contains(out.Record.FailureReason, "instruction 1")

	s.Run("terminal state is immutable", func() {
		_, err := s.repo.Fail(s.ctx, action.FailInput{ID: testActionID, Reason: "again"})
		s.Error(err)
		s.True(errors.IsFailedPrecondition(err))
	})
}

func (s *RedisRepositoryTestSuite) TestFail_FromPending() {
	// A record orphaned before processing (e.g. provider timeout) must
	// still be resolvable to a terminal state.
	s.create(instructions.NewHP(-4))

	out, err := s.repo.Fail(s.ctx, action.FailInput{ID: testActionID, Reason: "provider timeout"})
	s.Require().NoError(err)
	s.Equal(action.StatusFailed, out.Record.Status)
}

func (s *RedisRepositoryTestSuite) TestGet() {
	s.create(instructions.NewXP(10))

	out, err := s.repo.Get(s.ctx, action.GetInput{ID: testActionID})
	s.Require().NoError(err)
	s.Equal(testActionID, out.Record.ID)

	_, err = s.repo.Get(s.ctx, action.GetInput{ID: "act_missing"})
	s.Error(err)
	s.True(errors.IsNotFound(err))
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}
