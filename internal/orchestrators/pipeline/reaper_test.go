package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/openquest/gm-api/internal/instructions"
	"github.com/openquest/gm-api/internal/orchestrators/pipeline"
	"github.com/openquest/gm-api/internal/pkg/clock"
	"github.com/openquest/gm-api/internal/repositories/action"
	"github.com/openquest/gm-api/internal/testutils"
)

type ReaperTestSuite struct {
	suite.Suite
	reaper  *pipeline.Reaper
	actions action.Repository
	clock   *clock.Fixed
	cleanup func()
	ctx     context.Context
}

func (s *ReaperTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.ctx = context.Background()
	s.clock = clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	repo, err := action.NewRedisRepository(&action.Config{Client: client, Clock: s.clock})
	s.Require().NoError(err)
	s.actions = repo

	reaper, err := pipeline.NewReaper(&pipeline.ReaperConfig{
		ActionRepository: repo,
		Clock:            s.clock,
		Timeout:          2 * time.Minute,
	})
	s.Require().NoError(err)
	s.reaper = reaper
}

func (s *ReaperTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *ReaperTestSuite) createAction(id string) {
	_, err := s.actions.Create(s.ctx, action.CreateInput{
		ID:           id,
		CharacterID:  "char_123",
		Instructions: []instructions.Instruction{instructions.NewXP(10)},
	})
	s.Require().NoError(err)
}

func (s *ReaperTestSuite) TestSweep_FailsStaleActions() {
	s.createAction("act_stale")

	_, err := s.actions.BeginProcessing(s.ctx, action.BeginProcessingInput{ID: "act_stale"})
	s.Require().NoError(err)

	s.clock.Advance(3 * time.Minute)
	s.createAction("act_fresh")

	s.Require().NoError(s.reaper.Sweep(s.ctx))

	stale, err := s.actions.Get(s.ctx, action.GetInput{ID: "act_stale"})
	s.Require().NoError(err)
	s.Equal(action.StatusFailed, stale.Record.Status)
	s.Contains(stale.Record.FailureReason, "timed out")

	fresh, err := s.actions.Get(s.ctx, action.GetInput{ID: "act_fresh"})
	s.Require().NoError(err)
	s.Equal(action.StatusPending, fresh.Record.Status, "fresh records are left alone")
}

func (s *ReaperTestSuite) TestSweep_ReapsOrphanedPending() {
	// PENDING records count too: a crash between Create and
	// BeginProcessing must not leave the record unresolved forever.
	s.createAction("act_orphan")
	s.clock.Advance(3 * time.Minute)

	s.Require().NoError(s.reaper.Sweep(s.ctx))

	got, err := s.actions.Get(s.ctx, action.GetInput{ID: "act_orphan"})
	s.Require().NoError(err)
	s.Equal(action.StatusFailed, got.Record.Status)
}

func (s *ReaperTestSuite) TestSweep_EmptySet() {
	s.Require().NoError(s.reaper.Sweep(s.ctx))
}

func TestReaperTestSuite(t *testing.T) {
	suite.Run(t, new(ReaperTestSuite))
}

func TestNewReaper_RequiresRepository(t *testing.T) {
	_, err := pipeline.NewReaper(&pipeline.ReaperConfig{})
	require.Error(t, err)
}
