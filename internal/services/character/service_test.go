package character_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/openquest/gm-api/internal/errors"
	"github.com/openquest/gm-api/internal/pkg/idgen"
	characterrepo "github.com/openquest/gm-api/internal/repositories/character"
	itemrepo "github.com/openquest/gm-api/internal/repositories/item"
	"github.com/openquest/gm-api/internal/services/character"
	"github.com/openquest/gm-api/internal/testutils"
)

type ServiceTestSuite struct {
	suite.Suite
	svc     character.Service
	cleanup func()
	ctx     context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	repo, err := characterrepo.NewRedisRepository(&characterrepo.Config{Client: client})
	s.Require().NoError(err)

	items, err := itemrepo.NewMemoryRepository(nil)
	s.Require().NoError(err)

	svc, err := character.NewService(&character.Config{
		Repository:     repo,
		ItemRepository: items,
		IDGenerator:    idgen.NewSequential("char"),
	})
	s.Require().NoError(err)

	s.svc = svc
	s.ctx = context.Background()
}

func (s *ServiceTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *ServiceTestSuite) createFighter() string {
	out, err := s.svc.Create(s.ctx, character.CreateInput{
		PlayerID: "player_1",
		Name:     "Thorin",
		Race:     "dwarf",
		Class:    "fighter",
	})
	s.Require().NoError(err)
	return out.Character.ID
}

func (s *ServiceTestSuite) TestCreate() {
	out, err := s.svc.Create(s.ctx, character.CreateInput{
		PlayerID: "player_1",
		Name:     "Thorin",
		Race:     "dwarf",
		Class:    "fighter",
	})
	s.Require().NoError(err)

	s.Equal(1, out.Character.Level)
	s.Equal(10, out.Character.HP, "fighters start with 10 HP")
	s.Equal(10, out.Character.MaxHP)
	s.Equal(0, out.Character.XP)
	s.Empty(out.Character.Inventory)

	s.Run("unknown class falls back to default HP", func() {
		out, err := s.svc.Create(s.ctx, character.CreateInput{
			PlayerID: "player_1",
			Name:     "Zed",
			Race:     "human",
			Class:    "artificer",
		})
		s.Require().NoError(err)
		s.Equal(8, out.Character.MaxHP)
	})

	s.Run("missing fields are rejected together", func() {
		_, err := s.svc.Create(s.ctx, character.CreateInput{PlayerID: "player_1"})
		s.Error(err)
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *ServiceTestSuite) TestApplyHP() {
	id := s.createFighter()

	out, err := s.svc.ApplyHP(s.ctx, character.ApplyHPInput{CharacterID: id, Delta: -4})
	s.Require().NoError(err)
	s.Equal(6, out.Character.HP)

	s.Run("clamped at zero", func() {
		out, err := s.svc.ApplyHP(s.ctx, character.ApplyHPInput{CharacterID: id, Delta: -100})
		s.Require().NoError(err)
		s.Equal(0, out.Character.HP)
	})

	s.Run("clamped at max", func() {
		out, err := s.svc.ApplyHP(s.ctx, character.ApplyHPInput{CharacterID: id, Delta: 100})
		s.Require().NoError(err)
		s.Equal(10, out.Character.HP)
	})

	s.Run("zero delta is rejected", func() {
		_, err := s.svc.ApplyHP(s.ctx, character.ApplyHPInput{CharacterID: id, Delta: 0})
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("unknown character is not found", func() {
		_, err := s.svc.ApplyHP(s.ctx, character.ApplyHPInput{CharacterID: "char_missing", Delta: -1})
		s.True(errors.IsNotFound(err))
	})
}

func (s *ServiceTestSuite) TestApplyXP() {
	id := s.createFighter()

	out, err := s.svc.ApplyXP(s.ctx, character.ApplyXPInput{CharacterID: id, Delta: 50})
	s.Require().NoError(err)
	s.Equal(50, out.Character.XP)

	out, err = s.svc.ApplyXP(s.ctx, character.ApplyXPInput{CharacterID: id, Delta: 25})
	s.Require().NoError(err)
	s.Equal(75, out.Character.XP, "XP accumulates")

	s.Run("negative delta is rejected", func() {
		_, err := s.svc.ApplyXP(s.ctx, character.ApplyXPInput{CharacterID: id, Delta: -10})
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *ServiceTestSuite) TestEquipItem() {
	id := s.createFighter()

	out, err := s.svc.EquipItem(s.ctx, character.EquipItemInput{
		CharacterID:  id,
		DefinitionID: "longsword",
	})
	s.Require().NoError(err)
	s.Require().NotNil(out.Item)
	s.True(out.Item.Equipped)
	s.Equal("longsword", out.Item.DefinitionID)
	s.Len(out.Character.Inventory, 1)

	s.Run("same slot displaces the previous item", func() {
		out, err := s.svc.EquipItem(s.ctx, character.EquipItemInput{
			CharacterID:  id,
			DefinitionID: "dagger",
		})
		s.Require().NoError(err)
		s.True(out.Item.Equipped)

		sword := out.Character.FindItemByDefinition("longsword")
		s.Require().NotNil(sword)
		s.False(sword.Equipped, "longsword shares main_hand with the dagger")
	})

	s.Run("different slot coexists", func() {
		out, err := s.svc.EquipItem(s.ctx, character.EquipItemInput{
			CharacterID:  id,
			DefinitionID: "shield",
		})
		s.Require().NoError(err)

		dagger := out.Character.FindItemByDefinition("dagger")
		s.Require().NotNil(dagger)
		s.True(dagger.Equipped)
	})

	s.Run("slotless items stack unequipped", func() {
		for range 2 {
			_, err := s.svc.EquipItem(s.ctx, character.EquipItemInput{
				CharacterID:  id,
				DefinitionID: "potion-healing",
			})
			s.Require().NoError(err)
		}

		got, err := s.svc.Get(s.ctx, character.GetInput{ID: id})
		s.Require().NoError(err)
		potion := got.Character.FindItemByDefinition("potion-healing")
		s.Require().NotNil(potion)
		s.Equal(2, potion.Quantity)
		s.False(potion.Equipped)
	})

	s.Run("unknown definition is not found", func() {
		_, err := s.svc.EquipItem(s.ctx, character.EquipItemInput{
			CharacterID:  id,
			DefinitionID: "vorpal-sword",
		})
		s.True(errors.IsNotFound(err))
	})
}

func (s *ServiceTestSuite) TestRemoveItem() {
	id := s.createFighter()

	equipped, err := s.svc.EquipItem(s.ctx, character.EquipItemInput{
		CharacterID:  id,
		DefinitionID: "longsword",
	})
	s.Require().NoError(err)
	itemID := equipped.Item.ID

	out, err := s.svc.RemoveItem(s.ctx, character.RemoveItemInput{
		CharacterID: id,
		ItemID:      itemID,
		Quantity:    1,
	})
	s.Require().NoError(err)
	s.Empty(out.Character.Inventory, "stack at zero is deleted")

	s.Run("absent item is not found", func() {
		_, err := s.svc.RemoveItem(s.ctx, character.RemoveItemInput{
			CharacterID: id,
			ItemID:      itemID,
			Quantity:    1,
		})
		s.True(errors.IsNotFound(err))
	})
}

func (s *ServiceTestSuite) TestRemoveItem_InsufficientQuantity() {
	id := s.createFighter()

	equipped, err := s.svc.EquipItem(s.ctx, character.EquipItemInput{
		CharacterID:  id,
		DefinitionID: "longsword",
	})
	s.Require().NoError(err)

	_, err = s.svc.RemoveItem(s.ctx, character.RemoveItemInput{
		CharacterID: id,
		ItemID:      equipped.Item.ID,
		Quantity:    2,
	})
	s.True(errors.IsFailedPrecondition(err))
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
