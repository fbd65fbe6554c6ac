// Package collage renders configured photo collages for a claim and stores
// the composite as a PNG. Composites only live for one export: callers
// Discard the result once the artifact is assembled.
package collage

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"claimdocs/internal/blob"
	catalog "claimdocs/internal/catalog/models"
	claims "claimdocs/internal/claims/models"
	"claimdocs/internal/imaging"
	id "claimdocs/pkg/domain"
	dErrors "claimdocs/pkg/domain-errors"
)

// Image is one decoded photo with its layout hint.
type Image struct {
	Image       image.Image
	Orientation catalog.Orientation
}

// Composer lays out images in a grid with the given column count and returns
// the encoded PNG.
type Composer interface {
	Compose(ctx context.Context, images []Image, columns int) ([]byte, error)
}

// Definitions resolves the configured requirement definitions, used for the
// orientation hint of each source document.
type Definitions interface {
	GetRequirements(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) ([]catalog.DocumentRequirementDefinition, error)
}

// Blobs reads source photos and stores and removes composites.
type Blobs interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Builder renders collages.
type Builder struct {
	composer    Composer
	definitions Definitions
	blobs       Blobs
	logger      *slog.Logger
}

type Option func(*Builder)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

func NewBuilder(composer Composer, definitions Definitions, blobs Blobs, opts ...Option) (*Builder, error) {
	if composer == nil || definitions == nil || blobs == nil {
		return nil, fmt.Errorf("composer, definitions and blobs are required")
	}
	b := &Builder{
		composer:    composer,
		definitions: definitions,
		blobs:       blobs,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Result holds the rendered collages and the requirement records they used.
type Result struct {
	Collages []catalog.Collage
	Consumed map[id.RequirementID]struct{}
}

// IsConsumed reports whether a rendered collage already includes the record.
func (r Result) IsConsumed(requirementID id.RequirementID) bool {
	_, ok := r.Consumed[requirementID]
	return ok
}

// Find returns the rendered collage with the given ID.
func (r Result) Find(collageID id.CollageID) (catalog.Collage, bool) {
	for _, c := range r.Collages {
		if c.ID == collageID {
			return c, true
		}
	}
	return catalog.Collage{}, false
}

// Build renders every collage that has at least one fulfilled image. Collages
// without qualifying images are skipped. Any fetch, decode, compose or upload
// failure aborts the whole build and removes the composites already stored.
func (b *Builder) Build(ctx context.Context, claim *claims.Claim, collages []catalog.Collage) (Result, error) {
	result, err := b.build(ctx, claim, collages)
	if err != nil {
		b.Discard(context.WithoutCancel(ctx), result)
		return Result{}, err
	}
	return result, nil
}

// Discard deletes the stored composites of r. Failures are logged and
// otherwise ignored.
func (b *Builder) Discard(ctx context.Context, r Result) {
	for _, c := range r.Collages {
		if c.Media == nil || c.Media.StorageKey == "" {
			continue
		}
		if err := b.blobs.Delete(ctx, c.Media.StorageKey); err != nil {
			b.logger.WarnContext(ctx, "collage cleanup failed",
				"collage_id", c.ID,
				"key", c.Media.StorageKey,
				"error", err,
			)
		}
	}
}

func (b *Builder) build(ctx context.Context, claim *claims.Claim, collages []catalog.Collage) (Result, error) {
	result := Result{Consumed: make(map[id.RequirementID]struct{})}
	if len(collages) == 0 {
		return result, nil
	}

	defs, err := b.definitions.GetRequirements(ctx, claim.InsuranceCompanyID, claim.ClaimTypeID)
	if err != nil {
		return Result{}, err
	}
	orientations := make(map[id.DocumentID]catalog.Orientation, len(defs))
	for _, d := range defs {
		orientations[d.DocumentID] = d.Orientation
	}

	for _, c := range collages {
		sources := selectSources(claim.ProbatoryDocuments, c)
		if len(sources) == 0 {
			b.logger.DebugContext(ctx, "collage skipped, no images",
				"claim_id", claim.ID,
				"collage_id", c.ID,
			)
			continue
		}

		images := make([]Image, 0, len(sources))
		for _, src := range sources {
			raw, err := b.blobs.Get(ctx, src.Media.StorageKey)
			if err != nil {
				return result, dErrors.Wrap(err, dErrors.CodeInternal, "collage source unavailable")
			}
			img, _, err := imaging.Decode(raw)
			if err != nil {
				return result, dErrors.Wrap(err, dErrors.CodeInternal, "transform failed")
			}
			orientation, ok := orientations[src.DocumentID]
			if !ok {
				orientation = catalog.OrientationNA
			}
			images = append(images, Image{Image: img, Orientation: orientation})
		}

		png, err := b.composer.Compose(ctx, images, c.Columns)
		if err != nil {
			return result, dErrors.Wrap(err, dErrors.CodeInternal, "transform failed")
		}

		mediaID := id.NewMediaID()
		key := blob.ClaimKey(claim.ID, "collages", fmt.Sprintf("%d-%s.png", c.ID, uuid.UUID(mediaID).String()))
		if err := b.blobs.Put(ctx, key, "image/png", png); err != nil {
			return result, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store collage")
		}

		rendered := c
		rendered.DocumentIDs = append([]id.DocumentID(nil), c.DocumentIDs...)
		rendered.Media = &claims.Media{
			ID:          mediaID,
			FileName:    c.Name + ".png",
			StorageKey:  key,
			ContentType: "image/png",
			URL:         b.blobs.URL(key),
		}
		result.Collages = append(result.Collages, rendered)
		for _, src := range sources {
			result.Consumed[src.ID] = struct{}{}
		}

		b.logger.InfoContext(ctx, "collage rendered",
			"claim_id", claim.ID,
			"collage_id", c.ID,
			"images", len(images),
		)
	}
	return result, nil
}

// selectSources picks fulfilled image records feeding c in claim order.
func selectSources(docs []claims.ClaimProbatoryDocument, c catalog.Collage) []claims.ClaimProbatoryDocument {
	var out []claims.ClaimProbatoryDocument
	for _, d := range docs {
		if d.Media == nil || !c.Includes(d.DocumentID) {
			continue
		}
		if !imaging.IsImage(d.Media.FileName) {
			continue
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortPriority != out[j].SortPriority {
			return out[i].SortPriority < out[j].SortPriority
		}
		return out[i].ItemIndex() < out[j].ItemIndex()
	})
	return out
}
