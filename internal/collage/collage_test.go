package collage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"claimdocs/internal/blob"
	catalog "claimdocs/internal/catalog/models"
	claims "claimdocs/internal/claims/models"
	id "claimdocs/pkg/domain"
	dErrors "claimdocs/pkg/domain-errors"
)

type stubDefinitions struct {
	defs []catalog.DocumentRequirementDefinition
	err  error
}

func (s stubDefinitions) GetRequirements(context.Context, id.InsuranceCompanyID, id.ClaimTypeID) ([]catalog.DocumentRequirementDefinition, error) {
	return s.defs, s.err
}

type recordingComposer struct {
	calls   [][]Image
	columns []int
	err     error
}

func (r *recordingComposer) Compose(_ context.Context, images []Image, columns int) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.calls = append(r.calls, images)
	r.columns = append(r.columns, columns)
	return []byte("png"), nil
}

type BuilderSuite struct {
	suite.Suite
	ctx      context.Context
	blobs    *blob.MemoryStore
	composer *recordingComposer
	builder  *Builder
	claim    *claims.Claim
}

func TestBuilderSuite(t *testing.T) {
	suite.Run(t, new(BuilderSuite))
}

const (
	docFront id.DocumentID = 10
	docSide  id.DocumentID = 11
	docScan  id.DocumentID = 12
)

func encodePNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func (s *BuilderSuite) SetupTest() {
	s.ctx = context.Background()
	s.blobs = blob.NewMemory("")
	s.composer = &recordingComposer{}
	defs := stubDefinitions{defs: []catalog.DocumentRequirementDefinition{
		{DocumentID: docFront, Orientation: catalog.OrientationLandscape},
		{DocumentID: docSide, Orientation: catalog.OrientationPortrait},
	}}
	var err error
	s.builder, err = NewBuilder(s.composer, defs, s.blobs, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.Require().NoError(err)

	s.claim = &claims.Claim{ID: id.NewClaimID(), InsuranceCompanyID: 1, ClaimTypeID: 1, ItemsQuantity: 2}
}

func (s *BuilderSuite) addDoc(documentID id.DocumentID, priority int, item *int, fileName string) claims.ClaimProbatoryDocument {
	doc := claims.ClaimProbatoryDocument{
		ID:           id.NewRequirementID(),
		ClaimID:      s.claim.ID,
		DocumentID:   documentID,
		SortPriority: priority,
		ClaimItemID:  item,
	}
	if fileName != "" {
		key := blob.ClaimKey(s.claim.ID, "media", doc.ID.String()+"-"+fileName)
		s.Require().NoError(s.blobs.Put(s.ctx, key, "", encodePNG(4, 2)))
		doc.Media = &claims.Media{ID: id.NewMediaID(), FileName: fileName, StorageKey: key}
	}
	s.claim.ProbatoryDocuments = append(s.claim.ProbatoryDocuments, doc)
	return doc
}

func intPtr(v int) *int { return &v }

func (s *BuilderSuite) storedCollages() []string {
	var out []string
	for _, k := range s.blobs.Keys() {
		if strings.Contains(k, "/collages/") {
			out = append(out, k)
		}
	}
	return out
}

func (s *BuilderSuite) TestBuild() {
	s.Run("renders fulfilled images in claim order and marks them consumed", func() {
		s.SetupTest()
		side2 := s.addDoc(docSide, 2, intPtr(2), "side2.png")
		side1 := s.addDoc(docSide, 2, intPtr(1), "side1.png")
		front := s.addDoc(docFront, 1, nil, "front.png")
		pdf := s.addDoc(docFront, 1, nil, "report.pdf")
		missing := s.addDoc(docSide, 2, nil, "")
		other := s.addDoc(docScan, 3, nil, "scan.png")

		result, err := s.builder.Build(s.ctx, s.claim, []catalog.Collage{
			{ID: 5, Name: "vehicle", Columns: 2, DocumentIDs: []id.DocumentID{docFront, docSide}},
		})

		s.Require().NoError(err)
		s.Require().Len(result.Collages, 1)
		s.Require().Len(s.composer.calls, 1)
		s.Equal([]int{2}, s.composer.columns)

		images := s.composer.calls[0]
		s.Require().Len(images, 3)
		s.Equal(catalog.OrientationLandscape, images[0].Orientation)
		s.Equal(catalog.OrientationPortrait, images[1].Orientation)

		s.True(result.IsConsumed(front.ID))
		s.True(result.IsConsumed(side1.ID))
		s.True(result.IsConsumed(side2.ID))
		s.False(result.IsConsumed(pdf.ID))
		s.False(result.IsConsumed(missing.ID))
		s.False(result.IsConsumed(other.ID))

		rendered, ok := result.Find(5)
		s.Require().True(ok)
		s.Require().NotNil(rendered.Media)
		s.Equal("vehicle.png", rendered.Media.FileName)
		stored, ok := s.blobs.Object(rendered.Media.StorageKey)
		s.Require().True(ok)
		s.Equal("image/png", stored.ContentType)
		s.Equal(s.blobs.URL(rendered.Media.StorageKey), rendered.Media.URL)
	})

	s.Run("collages without qualifying images are skipped", func() {
		s.SetupTest()
		s.addDoc(docFront, 1, nil, "report.pdf")

		result, err := s.builder.Build(s.ctx, s.claim, []catalog.Collage{
			{ID: 5, Columns: 2, DocumentIDs: []id.DocumentID{docFront}},
		})

		s.Require().NoError(err)
		s.Empty(result.Collages)
		s.Empty(result.Consumed)
		s.Empty(s.composer.calls)
	})

	s.Run("unknown definitions default to NA orientation", func() {
		s.SetupTest()
		s.addDoc(docScan, 1, nil, "scan.png")

		_, err := s.builder.Build(s.ctx, s.claim, []catalog.Collage{
			{ID: 6, Columns: 1, DocumentIDs: []id.DocumentID{docScan}},
		})

		s.Require().NoError(err)
		s.Equal(catalog.OrientationNA, s.composer.calls[0][0].Orientation)
	})

	s.Run("undecodable source aborts the build", func() {
		s.SetupTest()
		doc := s.addDoc(docFront, 1, nil, "front.jpg")
		s.Require().NoError(s.blobs.Put(s.ctx, doc.Media.StorageKey, "", []byte("garbage")))

		_, err := s.builder.Build(s.ctx, s.claim, []catalog.Collage{
			{ID: 5, Columns: 1, DocumentIDs: []id.DocumentID{docFront}},
		})

		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("composer failure aborts the build", func() {
		s.SetupTest()
		s.composer.err = errors.New("out of memory")
		s.addDoc(docFront, 1, nil, "front.png")

		_, err := s.builder.Build(s.ctx, s.claim, []catalog.Collage{
			{ID: 5, Columns: 1, DocumentIDs: []id.DocumentID{docFront}},
		})

		s.Require().Error(err)
		s.Len(s.blobs.Keys(), 1)
	})

	s.Run("failure after a rendered collage removes it", func() {
		s.SetupTest()
		s.addDoc(docFront, 1, nil, "front.png")
		bad := s.addDoc(docSide, 2, nil, "side.jpg")
		s.Require().NoError(s.blobs.Put(s.ctx, bad.Media.StorageKey, "", []byte("garbage")))

		_, err := s.builder.Build(s.ctx, s.claim, []catalog.Collage{
			{ID: 5, Columns: 1, DocumentIDs: []id.DocumentID{docFront}},
			{ID: 6, Columns: 1, DocumentIDs: []id.DocumentID{docSide}},
		})

		s.Require().Error(err)
		s.Len(s.composer.calls, 1)
		s.Empty(s.storedCollages())
	})
}

func (s *BuilderSuite) TestDiscard() {
	s.addDoc(docFront, 1, nil, "front.png")
	result, err := s.builder.Build(s.ctx, s.claim, []catalog.Collage{
		{ID: 5, Columns: 1, DocumentIDs: []id.DocumentID{docFront}},
	})
	s.Require().NoError(err)
	s.Require().Len(s.storedCollages(), 1)

	s.builder.Discard(s.ctx, result)

	s.Empty(s.storedCollages())
	s.Len(s.blobs.Keys(), 1)
	s.NotPanics(func() { s.builder.Discard(s.ctx, Result{}) })
}

func (s *BuilderSuite) TestGridComposer() {
	composer := NewGridComposer(100, 80)
	images := []Image{
		{Image: image.NewRGBA(image.Rect(0, 0, 400, 100)), Orientation: catalog.OrientationLandscape},
		{Image: image.NewRGBA(image.Rect(0, 0, 50, 200)), Orientation: catalog.OrientationPortrait},
		{Image: image.NewRGBA(image.Rect(0, 0, 30, 30)), Orientation: catalog.OrientationNA},
	}

	out, err := composer.Compose(context.Background(), images, 2)
	s.Require().NoError(err)

	img, err := png.Decode(bytes.NewReader(out))
	s.Require().NoError(err)
	s.Equal(200, img.Bounds().Dx())
	s.Equal(160, img.Bounds().Dy())

	_, err = composer.Compose(context.Background(), nil, 2)
	s.Error(err)
}
