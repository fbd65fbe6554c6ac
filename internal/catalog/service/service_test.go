package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"claimdocs/internal/catalog/models"
	"claimdocs/internal/catalog/store"
	claims "claimdocs/internal/claims/models"
	id "claimdocs/pkg/domain"
	dErrors "claimdocs/pkg/domain-errors"
)

const (
	company   = id.InsuranceCompanyID(7)
	claimType = id.ClaimTypeID(3)
)

var slots = models.DepositSlipConfig{
	StoreProvided:      models.DepositSlipSlot{DocumentID: 900, Name: "Store deposit slip", GroupID: claims.GroupAdminDocs, SortPriority: 50},
	ThirdPartyProvided: models.DepositSlipSlot{DocumentID: 901, Name: "Third-party deposit slip", GroupID: claims.GroupPictures, SortPriority: 51},
}

type ResolverSuite struct {
	suite.Suite
	store    *store.InMemoryStore
	resolver *Resolver
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.store = store.NewInMemoryStore()
	r, err := New(s.store, slots)
	s.Require().NoError(err)
	s.resolver = r
}

// =============================================================================
// GetRequirements
// =============================================================================

func (s *ResolverSuite) TestGetRequirements() {
	ctx := context.Background()

	s.Run("no configuration yields an empty result", func() {
		defs, err := s.resolver.GetRequirements(ctx, 99, 99)
		s.Require().NoError(err)
		s.Empty(defs)
	})

	s.Run("orders by sort priority then document id and derives level", func() {
		s.store.PutRequirements(company, claimType,
			models.DocumentRequirementDefinition{DocumentID: 30, Name: "Photo", GroupID: claims.GroupPicturesPerItem, SortPriority: 2},
			models.DocumentRequirementDefinition{DocumentID: 20, Name: "Front", GroupID: claims.GroupPictures, SortPriority: 2},
			models.DocumentRequirementDefinition{DocumentID: 10, Name: "ID Card", GroupID: claims.GroupAdminDocs, SortPriority: 1},
		)

		defs, err := s.resolver.GetRequirements(ctx, company, claimType)
		s.Require().NoError(err)
		s.Require().Len(defs, 3)
		s.Equal(id.DocumentID(10), defs[0].DocumentID)
		s.Equal(id.DocumentID(20), defs[1].DocumentID)
		s.Equal(id.DocumentID(30), defs[2].DocumentID)
		s.Equal(models.HeaderLevel, defs[0].Level)
		s.Equal(models.HeaderLevel, defs[1].Level)
		s.Equal(models.ItemLevel, defs[2].Level)
	})

	s.Run("drops definitions with an unknown group", func() {
		s.store.PutRequirements(5, 5,
			models.DocumentRequirementDefinition{DocumentID: 1, GroupID: claims.Group(42)},
			models.DocumentRequirementDefinition{DocumentID: 2, GroupID: claims.GroupTpaDocs},
		)
		defs, err := s.resolver.GetRequirements(ctx, 5, 5)
		s.Require().NoError(err)
		s.Require().Len(defs, 1)
		s.Equal(id.DocumentID(2), defs[0].DocumentID)
	})
}

func (s *ResolverSuite) TestItemLevelGroupsOverride() {
	r, err := New(s.store, slots, WithItemLevelGroups(claims.GroupPictures, claims.GroupPicturesPerItem))
	s.Require().NoError(err)
	s.Equal(models.ItemLevel, r.LevelOf(claims.GroupPictures))
	s.Equal(models.ItemLevel, r.LevelOf(claims.GroupPicturesPerItem))
	s.Equal(models.HeaderLevel, r.LevelOf(claims.GroupAdminDocs))
}

func (s *ResolverSuite) TestPartition() {
	defs := []models.DocumentRequirementDefinition{
		{DocumentID: 1, Level: models.HeaderLevel},
		{DocumentID: 2, Level: models.ItemLevel},
		{DocumentID: 3, Level: models.HeaderLevel},
	}
	header, item := Partition(defs)
	s.Len(header, 2)
	s.Len(item, 1)
	s.Equal(id.DocumentID(1), header[0].DocumentID)
	s.Equal(id.DocumentID(3), header[1].DocumentID)
	s.Equal(id.DocumentID(2), item[0].DocumentID)
}

// =============================================================================
// Collages, export settings and deposit slip
// =============================================================================

func (s *ResolverSuite) TestExportSettingsSorted() {
	ctx := context.Background()
	s.store.PutExportSettings(company, claimType, claims.DocumentTypeZip,
		models.ExportSetting{Type: models.ExportCollage, CollageID: 4, SortPriority: 3},
		models.ExportSetting{Type: models.ExportProbatoryDocument, ProbatoryDocumentID: 10, SortPriority: 1},
	)

	settings, err := s.resolver.GetExportSettings(ctx, company, claimType, claims.DocumentTypeZip)
	s.Require().NoError(err)
	s.Require().Len(settings, 2)
	s.Equal(1, settings[0].SortPriority)
	s.Equal(3, settings[1].SortPriority)

	pdf, err := s.resolver.GetExportSettings(ctx, company, claimType, claims.DocumentTypePdf)
	s.Require().NoError(err)
	s.Empty(pdf)
}

func (s *ResolverSuite) TestCollagesAreCopies() {
	ctx := context.Background()
	s.store.PutCollages(company, claimType, models.Collage{ID: 1, Name: "Damage", Columns: 2, DocumentIDs: []id.DocumentID{20, 30}})

	first, err := s.resolver.GetCollages(ctx, company, claimType)
	s.Require().NoError(err)
	s.Require().Len(first, 1)
	first[0].DocumentIDs[0] = 999

	second, err := s.resolver.GetCollages(ctx, company, claimType)
	s.Require().NoError(err)
	s.Equal(id.DocumentID(20), second[0].DocumentIDs[0])
}

func (s *ResolverSuite) TestDepositSlip() {
	ctx := context.Background()

	cfg, required, err := s.resolver.DepositSlip(ctx, company, claimType)
	s.Require().NoError(err)
	s.False(required)
	s.Equal(slots, cfg)

	s.store.SetDepositSlipRequired(company, claimType, true)
	_, required, err = s.resolver.DepositSlip(ctx, company, claimType)
	s.Require().NoError(err)
	s.True(required)

	s.Equal(slots.StoreProvided, cfg.SlotFor(true))
	s.Equal(slots.ThirdPartyProvided, cfg.SlotFor(false))
	s.True(cfg.IsSlotDocument(900))
	s.False(cfg.IsSlotDocument(10))
}

type failingStore struct{ store.InMemoryStore }

func (*failingStore) ListRequirements(context.Context, id.InsuranceCompanyID, id.ClaimTypeID) ([]models.DocumentRequirementDefinition, error) {
	return nil, errors.New("connection reset")
}

func (s *ResolverSuite) TestStoreErrorsAreInternal() {
	r, err := New(&failingStore{}, slots)
	s.Require().NoError(err)
	_, err = r.GetRequirements(context.Background(), company, claimType)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ResolverSuite) TestNilStoreRejected() {
	_, err := New(nil, slots)
	s.Error(err)
}
