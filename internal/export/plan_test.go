package export

import (
	"testing"

	"github.com/stretchr/testify/assert"

	catalog "claimdocs/internal/catalog/models"
	claims "claimdocs/internal/claims/models"
	"claimdocs/internal/collage"
	id "claimdocs/pkg/domain"
)

func item(n int) *int { return &n }

func TestEntryName(t *testing.T) {
	assert.Equal(t, "001_ID_Card.png", entryName(1, "ID Card", 0, ".png"))
	assert.Equal(t, "012_Photo_item3.jpg", entryName(12, "Photo", 3, ".jpg"))
	assert.Equal(t, "100_a_b_.pdf", entryName(100, "a/b?", 0, ".pdf"))
}

func TestPlanEntries(t *testing.T) {
	idCard := claims.ClaimProbatoryDocument{
		ID: id.NewRequirementID(), DocumentID: 1, Name: "ID Card",
		Media: &claims.Media{FileName: "front.PNG", StorageKey: "k/id"},
	}
	photo1 := claims.ClaimProbatoryDocument{
		ID: id.NewRequirementID(), DocumentID: 2, Name: "Photo", ClaimItemID: item(1),
		Media: &claims.Media{FileName: "p1.jpg", StorageKey: "k/p1"},
	}
	photo2 := claims.ClaimProbatoryDocument{
		ID: id.NewRequirementID(), DocumentID: 2, Name: "Photo", ClaimItemID: item(2),
		Media: &claims.Media{FileName: "p2.jpg", StorageKey: "k/p2"},
	}
	unfulfilled := claims.ClaimProbatoryDocument{ID: id.NewRequirementID(), DocumentID: 3, Name: "Invoice"}
	claim := &claims.Claim{ProbatoryDocuments: []claims.ClaimProbatoryDocument{idCard, photo1, photo2, unfulfilled}}

	t.Run("settings order and claim order", func(t *testing.T) {
		settings := []catalog.ExportSetting{
			{Type: catalog.ExportProbatoryDocument, ProbatoryDocumentID: 2, SortPriority: 5},
			{Type: catalog.ExportProbatoryDocument, ProbatoryDocumentID: 1, SortPriority: 1},
			{Type: catalog.ExportProbatoryDocument, ProbatoryDocumentID: 3, SortPriority: 9},
		}

		entries := planEntries(claim, settings, collage.Result{})

		assert.Equal(t, []entry{
			{name: "001_ID_Card.png", storageKey: "k/id"},
			{name: "005_Photo_item1.jpg", storageKey: "k/p1"},
			{name: "005_Photo_item2.jpg", storageKey: "k/p2"},
		}, entries)
	})

	t.Run("collage consumed records are not repeated", func(t *testing.T) {
		built := collage.Result{
			Collages: []catalog.Collage{{
				ID: 7, Name: "Photos",
				Media: &claims.Media{FileName: "Photos.png", StorageKey: "k/c7", ContentType: "image/png"},
			}},
			Consumed: map[id.RequirementID]struct{}{photo1.ID: {}, photo2.ID: {}},
		}
		settings := []catalog.ExportSetting{
			{Type: catalog.ExportCollage, CollageID: 7, SortPriority: 2},
			{Type: catalog.ExportProbatoryDocument, ProbatoryDocumentID: 2, SortPriority: 3},
			{Type: catalog.ExportCollage, CollageID: 8, SortPriority: 4},
		}

		entries := planEntries(claim, settings, built)

		assert.Equal(t, []entry{
			{name: "002_Photos.png", storageKey: "k/c7", contentType: "image/png"},
		}, entries)
	})
}

func TestCollagesInSettings(t *testing.T) {
	collages := []catalog.Collage{{ID: 1}, {ID: 2}, {ID: 3}}
	settings := []catalog.ExportSetting{
		{Type: catalog.ExportCollage, CollageID: 3},
		{Type: catalog.ExportProbatoryDocument, ProbatoryDocumentID: 1},
	}
	assert.Equal(t, []catalog.Collage{{ID: 3}}, collagesInSettings(collages, settings))
}
