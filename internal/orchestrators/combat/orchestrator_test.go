package combat_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/openquest/gm-api/internal/dice"
	"github.com/openquest/gm-api/internal/errors"
	"github.com/openquest/gm-api/internal/orchestrators/combat"
	"github.com/openquest/gm-api/internal/orchestrators/pipeline"
	"github.com/openquest/gm-api/internal/pkg/idgen"
	"github.com/openquest/gm-api/internal/repositories/action"
	characterrepo "github.com/openquest/gm-api/internal/repositories/character"
	itemrepo "github.com/openquest/gm-api/internal/repositories/item"
	charactersvc "github.com/openquest/gm-api/internal/services/character"
	"github.com/openquest/gm-api/internal/testutils"
)

type OrchestratorTestSuite struct {
	suite.Suite
	orch       combat.Orchestrator
	svc        charactersvc.Service
	roller     *dice.MockRoller
	cleanup    func()
	ctx        context.Context
	attackerID string
	targetID   string
}

func (s *OrchestratorTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.ctx = context.Background()

	charRepo, err := characterrepo.NewRedisRepository(&characterrepo.Config{Client: client})
	s.Require().NoError(err)

	actionRepo, err := action.NewRedisRepository(&action.Config{Client: client})
	s.Require().NoError(err)

	items, err := itemrepo.NewMemoryRepository(nil)
	s.Require().NoError(err)

	svc, err := charactersvc.NewService(&charactersvc.Config{
		Repository:     charRepo,
		ItemRepository: items,
		IDGenerator:    idgen.NewSequential("item"),
	})
	s.Require().NoError(err)
	s.svc = svc

	s.roller = dice.NewMockRoller()

	pipe, err := pipeline.New(&pipeline.Config{
		ActionRepository: actionRepo,
		CharacterService: svc,
		Roller:           s.roller,
		IDGenerator:      idgen.NewSequential("act"),
	})
	s.Require().NoError(err)

	orch, err := combat.New(&combat.Config{
		Pipeline:         pipe,
		CharacterService: svc,
		ItemRepository:   items,
	})
	s.Require().NoError(err)
	s.orch = orch

	attacker, err := svc.Create(s.ctx, charactersvc.CreateInput{
		PlayerID: "player_1", Name: "Thorin", Race: "dwarf", Class: "fighter",
	})
	s.Require().NoError(err)
	s.attackerID = attacker.Character.ID

	target, err := svc.Create(s.ctx, charactersvc.CreateInput{
		PlayerID: "player_2", Name: "Saruman", Race: "human", Class: "wizard",
	})
	s.Require().NoError(err)
	s.targetID = target.Character.ID
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *OrchestratorTestSuite) TestAttack_Hit() {
	// To-hit 15+2=17 vs AC 10, then 3+4 damage.
	s.roller.SetRolls(15, 3, 4)

	out, err := s.orch.Attack(s.ctx, combat.AttackInput{
		AttackerID:  s.attackerID,
		TargetID:    s.targetID,
		AttackBonus: 2,
		DamageExpr:  "2d6",
	})
	s.Require().NoError(err)

	s.True(out.Hit)
	s.Equal(10, out.TargetAC)
	s.Equal(17, out.ToHit.Effects[0].Total)
	s.Equal(action.StatusApplied, out.ToHit.Status)

	s.Require().NotNil(out.Damage)
	s.Equal(action.StatusApplied, out.Damage.Status)
	s.Equal(7, out.Damage.Effects[0].Total)
	s.Equal(-7, out.Damage.Effects[1].Delta)

	target, err := s.svc.Get(s.ctx, charactersvc.GetInput{ID: s.targetID})
	s.Require().NoError(err)
	s.Equal(0, target.Character.HP, "wizard had 6 HP; damage clamps at zero")
}

func (s *OrchestratorTestSuite) TestAttack_Miss() {
	s.roller.SetRolls(3)

	out, err := s.orch.Attack(s.ctx, combat.AttackInput{
		AttackerID: s.attackerID,
		TargetID:   s.targetID,
		DamageExpr: "2d6",
	})
	s.Require().NoError(err)

	s.False(out.Hit)
	s.Nil(out.Damage, "a miss rolls no damage")

	target, err := s.svc.Get(s.ctx, charactersvc.GetInput{ID: s.targetID})
	s.Require().NoError(err)
	s.Equal(6, target.Character.HP)
}

func (s *OrchestratorTestSuite) TestAttack_EquippedArmorRaisesAC() {
	_, err := s.svc.EquipItem(s.ctx, charactersvc.EquipItemInput{
		CharacterID:  s.targetID,
		DefinitionID: "chain-mail",
	})
	s.Require().NoError(err)
	_, err = s.svc.EquipItem(s.ctx, charactersvc.EquipItemInput{
		CharacterID:  s.targetID,
		DefinitionID: "shield",
	})
	s.Require().NoError(err)

	// 15 vs AC 10+6+2=18: a roll that hits unarmored misses now.
	s.roller.SetRolls(15)

	out, err := s.orch.Attack(s.ctx, combat.AttackInput{
		AttackerID: s.attackerID,
		TargetID:   s.targetID,
		DamageExpr: "1d8",
	})
	s.Require().NoError(err)

	s.Equal(18, out.TargetAC)
	s.False(out.Hit)
}

func (s *OrchestratorTestSuite) TestAttack_Advantage() {
	// Advantage throws twice; 4 and 18, the 18 counts and hits AC 10.
	s.roller.SetRolls(4, 18, 5)

	out, err := s.orch.Attack(s.ctx, combat.AttackInput{
		AttackerID: s.attackerID,
		TargetID:   s.targetID,
		DamageExpr: "1d8",
		Advantage:  dice.AdvantageAdvantage,
	})
	s.Require().NoError(err)

	s.True(out.Hit)
	s.Equal(18, out.ToHit.Effects[0].Total)
	s.Equal([]int{4}, out.ToHit.Effects[0].Discarded)
}

func (s *OrchestratorTestSuite) TestAttack_Validation() {
	s.Run("self-attack is rejected", func() {
		_, err := s.orch.Attack(s.ctx, combat.AttackInput{
			AttackerID: s.attackerID,
			TargetID:   s.attackerID,
			DamageExpr: "1d8",
		})
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("bad damage expression is rejected", func() {
		_, err := s.orch.Attack(s.ctx, combat.AttackInput{
			AttackerID: s.attackerID,
			TargetID:   s.targetID,
			DamageExpr: "banana",
		})
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("unknown target is not found", func() {
		_, err := s.orch.Attack(s.ctx, combat.AttackInput{
			AttackerID: s.attackerID,
			TargetID:   "char_missing",
			DamageExpr: "1d8",
		})
		s.True(errors.IsNotFound(err))
	})
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}
