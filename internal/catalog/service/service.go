// Package service resolves per-claim document configuration.
package service

import (
	"context"
	"log/slog"
	"sort"

	"claimdocs/internal/catalog/models"
	claims "claimdocs/internal/claims/models"
	id "claimdocs/pkg/domain"
	dErrors "claimdocs/pkg/domain-errors"
)

// Store reads raw configuration rows. Implementations return empty slices,
// not errors, when a pair has no configuration.
type Store interface {
	ListRequirements(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) ([]models.DocumentRequirementDefinition, error)
	ListCollages(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) ([]models.Collage, error)
	ListExportSettings(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID, exportType claims.DocumentType) ([]models.ExportSetting, error)
	DepositSlipRequired(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) (bool, error)
}

// Resolver answers "which documents does this claim need". Results are
// deterministic for a pair, so Store is usually wrapped in a cache.
type Resolver struct {
	store           Store
	itemLevelGroups map[claims.Group]struct{}
	depositSlip     models.DepositSlipConfig
	logger          *slog.Logger
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithItemLevelGroups overrides the groups treated as per-item.
func WithItemLevelGroups(groups ...claims.Group) Option {
	return func(r *Resolver) {
		r.itemLevelGroups = make(map[claims.Group]struct{}, len(groups))
		for _, g := range groups {
			r.itemLevelGroups[g] = struct{}{}
		}
	}
}

// New constructs a Resolver. By default only PicturesPerItem is item-level.
func New(store Store, depositSlip models.DepositSlipConfig, opts ...Option) (*Resolver, error) {
	if store == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "catalog store is required")
	}
	r := &Resolver{
		store:           store,
		depositSlip:     depositSlip,
		itemLevelGroups: map[claims.Group]struct{}{claims.GroupPicturesPerItem: {}},
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// GetRequirements returns the pair's definitions ordered by sort priority,
// each tagged with its level.
func (r *Resolver) GetRequirements(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) ([]models.DocumentRequirementDefinition, error) {
	defs, err := r.store.ListRequirements(ctx, companyID, claimTypeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load document requirements")
	}
	out := make([]models.DocumentRequirementDefinition, 0, len(defs))
	for _, def := range defs {
		if !def.GroupID.IsValid() {
			r.logger.WarnContext(ctx, "skipping requirement with unknown group",
				"insurance_company_id", companyID,
				"claim_type_id", claimTypeID,
				"document_id", def.DocumentID,
				"group_id", int(def.GroupID),
			)
			continue
		}
		def.Level = r.LevelOf(def.GroupID)
		out = append(out, def)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortPriority != out[j].SortPriority {
			return out[i].SortPriority < out[j].SortPriority
		}
		return out[i].DocumentID < out[j].DocumentID
	})
	return out, nil
}

// LevelOf classifies a group.
func (r *Resolver) LevelOf(g claims.Group) models.Level {
	if _, ok := r.itemLevelGroups[g]; ok {
		return models.ItemLevel
	}
	return models.HeaderLevel
}

// Partition splits definitions into header-level and item-level subsets,
// preserving order.
func Partition(defs []models.DocumentRequirementDefinition) (header, item []models.DocumentRequirementDefinition) {
	for _, def := range defs {
		if def.Level == models.ItemLevel {
			item = append(item, def)
			continue
		}
		header = append(header, def)
	}
	return header, item
}

// GetCollages returns the collage configuration for the pair.
func (r *Resolver) GetCollages(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) ([]models.Collage, error) {
	collages, err := r.store.ListCollages(ctx, companyID, claimTypeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load collages")
	}
	return collages, nil
}

// GetExportSettings returns what goes into an artifact of exportType, ordered
// by sort priority. An empty result is returned as-is; callers decide whether
// that is fatal.
func (r *Resolver) GetExportSettings(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID, exportType claims.DocumentType) ([]models.ExportSetting, error) {
	settings, err := r.store.ListExportSettings(ctx, companyID, claimTypeID, exportType)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load export settings")
	}
	sort.SliceStable(settings, func(i, j int) bool {
		return settings[i].SortPriority < settings[j].SortPriority
	})
	return settings, nil
}

// DepositSlip returns the fixed deposit-slip slots and whether claims of the
// pair require one of them.
func (r *Resolver) DepositSlip(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) (models.DepositSlipConfig, bool, error) {
	required, err := r.store.DepositSlipRequired(ctx, companyID, claimTypeID)
	if err != nil {
		return models.DepositSlipConfig{}, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load deposit slip configuration")
	}
	return r.depositSlip, required, nil
}

// Slots returns the deposit-slip slots without consulting the store.
func (r *Resolver) Slots() models.DepositSlipConfig {
	return r.depositSlip
}
