package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimdocs/internal/claims/models"
	"claimdocs/pkg/testutil"
)

// newScenario reuses the suite wiring for plain Given/When/Then tests.
func newScenario(t *testing.T) *ServiceSuite {
	s := new(ServiceSuite)
	s.SetT(t)
	s.SetupTest()
	return s
}

func TestClaimLifecycleScenario(t *testing.T) {
	ctx := context.Background()

	testutil.Given(t, "a two item claim requiring an ID card and a photo per item", func(t *testing.T) {
		s := newScenario(t)
		claim := s.create("SCN-1", 2, false)

		testutil.Then(t, "one ID card and two photo slots are required", func(t *testing.T) {
			assert.Equal(t, 1, count(claim.ProbatoryDocuments, idCardDoc))
			assert.Equal(t, 2, count(claim.ProbatoryDocuments, photoDoc))
		})

		testutil.When(t, "only the ID card is uploaded", func(t *testing.T) {
			for _, d := range claim.ProbatoryDocuments {
				if d.DocumentID != idCardDoc {
					continue
				}
				_, err := s.service.AttachMedia(ctx, claim.ID, d.ID, MediaInput{FileName: "id.jpg", StorageKey: "media/id"})
				require.NoError(t, err)
			}

			testutil.Then(t, "per item pictures are still missing", func(t *testing.T) {
				report, err := s.service.Completeness(ctx, claim.ID)
				require.NoError(t, err)
				assert.False(t, report.PicturesPerItem)
				assert.False(t, report.CanComplete)
			})
		})

		testutil.When(t, "every slot and claim document is fulfilled", func(t *testing.T) {
			s.SetT(t)
			s.fulfillAll(claim)

			testutil.Then(t, "the claim can be completed", func(t *testing.T) {
				report, err := s.service.Completeness(ctx, claim.ID)
				require.NoError(t, err)
				assert.True(t, report.CanComplete)

				updated, err := s.service.ChangeStatus(ctx, claim.ID, models.ClaimStatusCompleted)
				require.NoError(t, err)
				assert.Equal(t, models.ClaimStatusCompleted, updated.Status)
			})
		})
	})

	testutil.Given(t, "a claim whose deposit slip is provided by a third party", func(t *testing.T) {
		s := newScenario(t)
		claim := s.create("SCN-2", 1, false)
		require.Equal(t, 1, count(claim.ProbatoryDocuments, tpaSlip))

		testutil.When(t, "the store starts providing the slip", func(t *testing.T) {
			yes := true
			updated, err := s.service.Update(ctx, claim.ID, UpdateRequest{HasDepositSlip: &yes})
			require.NoError(t, err)

			testutil.Then(t, "the requirement moves to the store slot", func(t *testing.T) {
				assert.Equal(t, 1, count(updated.ProbatoryDocuments, storeSlip))
				assert.Equal(t, 0, count(updated.ProbatoryDocuments, tpaSlip))
			})
		})

		testutil.When(t, "the store stops providing the slip", func(t *testing.T) {
			no := false
			updated, err := s.service.Update(ctx, claim.ID, UpdateRequest{HasDepositSlip: &no})
			require.NoError(t, err)

			testutil.Then(t, "the third party slot is restored", func(t *testing.T) {
				assert.Equal(t, 0, count(updated.ProbatoryDocuments, storeSlip))
				assert.Equal(t, 1, count(updated.ProbatoryDocuments, tpaSlip))
			})
		})
	})
}
