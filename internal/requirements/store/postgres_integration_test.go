//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	claims "claimdocs/internal/claims/models"
	claimstore "claimdocs/internal/claims/store"
	"claimdocs/internal/requirements/store"
	id "claimdocs/pkg/domain"
	"claimdocs/pkg/platform/sentinel"
	"claimdocs/pkg/platform/tx"
	"claimdocs/pkg/testutil/containers"
)

type PostgresRequirementSuite struct {
	suite.Suite
	pg     *containers.PostgresContainer
	store  *store.PostgresStore
	tx     *tx.Postgres
	claim  *claims.Claim
	ctx    context.Context
	header claims.ClaimProbatoryDocument
}

func TestPostgresRequirementSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresRequirementSuite))
}

func (s *PostgresRequirementSuite) SetupSuite() {
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.pg.DB)
	s.tx = tx.NewPostgres(s.pg.DB, 5*time.Second)
}

func (s *PostgresRequirementSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.pg.Truncate(s.ctx))
	c, err := claims.NewClaim(id.NewClaimID(), 1, 2, 0, 3, "ORD-"+id.NewClaimID().String(), false, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(claimstore.NewPostgres(s.pg.DB).Create(s.ctx, c))
	s.claim = c

	s.header = s.requirement(10, "ID Card", claims.GroupAdminDocs, 1, nil)
	docs := []claims.ClaimProbatoryDocument{s.header}
	for i := 1; i <= 3; i++ {
		item := i
		docs = append(docs, s.requirement(20, "Photo", claims.GroupPicturesPerItem, 2, &item))
	}
	s.Require().NoError(s.store.InsertProbatoryDocuments(s.ctx, docs))
}

func (s *PostgresRequirementSuite) requirement(docID id.DocumentID, name string, g claims.Group, prio int, item *int) claims.ClaimProbatoryDocument {
	return claims.ClaimProbatoryDocument{
		ID:           id.NewRequirementID(),
		ClaimID:      s.claim.ID,
		DocumentID:   docID,
		Name:         name,
		GroupID:      g,
		SortPriority: prio,
		ClaimItemID:  item,
	}
}

func (s *PostgresRequirementSuite) TestListOrdered() {
	docs, err := s.store.ListByClaim(s.ctx, s.claim.ID)

	s.Require().NoError(err)
	s.Require().Len(docs, 4)
	s.Equal(s.header.ID, docs[0].ID)
	s.Nil(docs[0].ClaimItemID)
	for i, doc := range docs[1:] {
		s.Equal(i+1, doc.ItemIndex())
		s.Equal(claims.GroupPicturesPerItem, doc.GroupID)
	}
}

func (s *PostgresRequirementSuite) TestDuplicateKeyConflicts() {
	dup := s.requirement(10, "ID Card", claims.GroupAdminDocs, 1, nil)
	s.ErrorIs(s.store.InsertProbatoryDocuments(s.ctx, []claims.ClaimProbatoryDocument{dup}), sentinel.ErrConflict)
}

func (s *PostgresRequirementSuite) TestDeleteItemLevelAbove() {
	n, err := s.store.DeleteItemLevelAbove(s.ctx, s.claim.ID, 1)
	s.Require().NoError(err)
	s.Equal(2, n)

	docs, err := s.store.ListByClaim(s.ctx, s.claim.ID)
	s.Require().NoError(err)
	s.Len(docs, 2)
}

func (s *PostgresRequirementSuite) TestDeleteIfExistsIgnoresItemLevel() {
	deleted, err := s.store.DeleteIfExists(s.ctx, s.claim.ID, 20)
	s.Require().NoError(err)
	s.False(deleted)

	deleted, err = s.store.DeleteIfExists(s.ctx, s.claim.ID, 10)
	s.Require().NoError(err)
	s.True(deleted)

	deleted, err = s.store.DeleteIfExists(s.ctx, s.claim.ID, 10)
	s.Require().NoError(err)
	s.False(deleted)
}

func (s *PostgresRequirementSuite) TestSetAndClearMedia() {
	media := &claims.Media{
		ID:          id.NewMediaID(),
		FileName:    "front.png",
		StorageKey:  "claims/x/front.png",
		ContentType: "image/png",
		URL:         "https://cdn/claims/x/front.png",
	}
	s.Require().NoError(s.store.SetMedia(s.ctx, s.claim.ID, s.header.ID, media))

	docs, err := s.store.ListByClaim(s.ctx, s.claim.ID)
	s.Require().NoError(err)
	s.Equal(media, docs[0].Media)

	s.Require().NoError(s.store.SetMedia(s.ctx, s.claim.ID, s.header.ID, nil))
	docs, err = s.store.ListByClaim(s.ctx, s.claim.ID)
	s.Require().NoError(err)
	s.Nil(docs[0].Media)

	s.ErrorIs(s.store.SetMedia(s.ctx, s.claim.ID, id.NewRequirementID(), media), sentinel.ErrNotFound)
}

func (s *PostgresRequirementSuite) TestClaimDocumentLifecycle() {
	slot := claims.ClaimDocument{
		ID:           id.NewClaimDocumentID(),
		ClaimID:      s.claim.ID,
		DocumentType: claims.DocumentTypeReceipt,
		GroupID:      claims.GroupReceipt,
		SortPriority: 1,
		Status:       claims.ClaimDocumentInProcess,
	}
	s.Require().NoError(s.store.InsertClaimDocuments(s.ctx, []claims.ClaimDocument{slot}))

	done, err := s.store.CompleteClaimDocument(s.ctx, s.claim.ID, claims.DocumentTypeReceipt, claims.Document{
		FileName: "receipt.pdf", StorageKey: "claims/x/receipt.pdf", ContentType: "application/pdf",
	})
	s.Require().NoError(err)
	s.Equal(slot.ID, done.ID)
	s.True(done.IsCompleted())
	s.Equal("receipt.pdf", done.Document.FileName)

	_, err = s.store.CompleteClaimDocument(s.ctx, s.claim.ID, claims.DocumentTypeSignature, claims.Document{FileName: "s.png"})
	s.ErrorIs(err, sentinel.ErrNotFound)

	docs, err := s.store.ListClaimDocuments(s.ctx, s.claim.ID)
	s.Require().NoError(err)
	s.Require().Len(docs, 1)
	s.Equal(claims.ClaimDocumentCompleted, docs[0].Status)
}

func (s *PostgresRequirementSuite) TestReplaceArtifactInOneTransaction() {
	artifact := func(name string) claims.ClaimDocument {
		return claims.ClaimDocument{
			ID:           id.NewClaimDocumentID(),
			ClaimID:      s.claim.ID,
			DocumentType: claims.DocumentTypeZip,
			GroupID:      claims.GroupAdminDocs,
			Status:       claims.ClaimDocumentCompleted,
			Document:     &claims.Document{FileName: name, StorageKey: "claims/x/exports/" + name},
		}
	}
	first := artifact("a.zip")
	s.Require().NoError(s.store.InsertClaimDocuments(s.ctx, []claims.ClaimDocument{first}))

	var previous *claims.ClaimDocument
	err := s.tx.RunInTx(s.ctx, func(ctx context.Context) error {
		var err error
		previous, err = s.store.DeleteClaimDocumentIfExists(ctx, s.claim.ID, claims.DocumentTypeZip)
		if err != nil {
			return err
		}
		return s.store.InsertClaimDocuments(ctx, []claims.ClaimDocument{artifact("b.zip")})
	})
	s.Require().NoError(err)
	s.Require().NotNil(previous)
	s.Equal(first.ID, previous.ID)

	docs, err := s.store.ListClaimDocuments(s.ctx, s.claim.ID)
	s.Require().NoError(err)
	s.Require().Len(docs, 1)
	s.Equal("b.zip", docs[0].Document.FileName)

	none, err := s.store.DeleteClaimDocumentIfExists(s.ctx, s.claim.ID, claims.DocumentTypePdf)
	s.Require().NoError(err)
	s.Nil(none)
}

func (s *PostgresRequirementSuite) TestRolledBackReplaceKeepsPrevious() {
	first := claims.ClaimDocument{
		ID:           id.NewClaimDocumentID(),
		ClaimID:      s.claim.ID,
		DocumentType: claims.DocumentTypePdf,
		GroupID:      claims.GroupAdminDocs,
		Status:       claims.ClaimDocumentCompleted,
		Document:     &claims.Document{FileName: "a.pdf", StorageKey: "k"},
	}
	s.Require().NoError(s.store.InsertClaimDocuments(s.ctx, []claims.ClaimDocument{first}))

	err := s.tx.RunInTx(s.ctx, func(ctx context.Context) error {
		if _, err := s.store.DeleteClaimDocumentIfExists(ctx, s.claim.ID, claims.DocumentTypePdf); err != nil {
			return err
		}
		return sentinel.ErrUnavailable
	})
	s.ErrorIs(err, sentinel.ErrUnavailable)

	docs, err := s.store.ListClaimDocuments(s.ctx, s.claim.ID)
	s.Require().NoError(err)
	s.Require().Len(docs, 1)
	s.Equal(first.ID, docs[0].ID)
}
