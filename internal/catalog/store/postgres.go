package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"claimdocs/internal/catalog/models"
	claims "claimdocs/internal/claims/models"
	id "claimdocs/pkg/domain"
)

// PostgresStore reads catalog configuration tables.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListRequirements(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) ([]models.DocumentRequirementDefinition, error) {
	query := `
		SELECT document_id, name, group_id, sort_priority, orientation
		FROM document_requirements
		WHERE insurance_company_id = $1 AND claim_type_id = $2
		ORDER BY sort_priority, document_id
	`
	rows, err := s.db.QueryContext(ctx, query, int64(companyID), int64(claimTypeID))
	if err != nil {
		return nil, fmt.Errorf("list document requirements: %w", err)
	}
	defer rows.Close()

	defs := []models.DocumentRequirementDefinition{}
	for rows.Next() {
		var (
			def         models.DocumentRequirementDefinition
			documentID  int64
			groupID     int
			orientation string
		)
		if err := rows.Scan(&documentID, &def.Name, &groupID, &def.SortPriority, &orientation); err != nil {
			return nil, fmt.Errorf("scan document requirement: %w", err)
		}
		def.DocumentID = id.DocumentID(documentID)
		def.GroupID = claims.Group(groupID)
		def.Orientation = models.ParseOrientation(orientation)
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document requirements: %w", err)
	}
	return defs, nil
}

func (s *PostgresStore) ListCollages(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) ([]models.Collage, error) {
	query := `
		SELECT c.id, c.name, c.columns,
			COALESCE(array_agg(cd.document_id ORDER BY cd.position) FILTER (WHERE cd.document_id IS NOT NULL), '{}')
		FROM collages c
		LEFT JOIN collage_documents cd ON cd.collage_id = c.id
		WHERE c.insurance_company_id = $1 AND c.claim_type_id = $2
		GROUP BY c.id, c.name, c.columns
		ORDER BY c.id
	`
	rows, err := s.db.QueryContext(ctx, query, int64(companyID), int64(claimTypeID))
	if err != nil {
		return nil, fmt.Errorf("list collages: %w", err)
	}
	defer rows.Close()

	collages := []models.Collage{}
	for rows.Next() {
		var (
			c         models.Collage
			collageID int64
			docIDs    pq.Int64Array
		)
		if err := rows.Scan(&collageID, &c.Name, &c.Columns, &docIDs); err != nil {
			return nil, fmt.Errorf("scan collage: %w", err)
		}
		c.ID = id.CollageID(collageID)
		c.DocumentIDs = make([]id.DocumentID, len(docIDs))
		for i, d := range docIDs {
			c.DocumentIDs[i] = id.DocumentID(d)
		}
		collages = append(collages, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collages: %w", err)
	}
	return collages, nil
}

func (s *PostgresStore) ListExportSettings(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID, exportType claims.DocumentType) ([]models.ExportSetting, error) {
	query := `
		SELECT export_document_type, probatory_document_id, collage_id, sort_priority
		FROM export_settings
		WHERE insurance_company_id = $1 AND claim_type_id = $2 AND export_type_id = $3
		ORDER BY sort_priority
	`
	rows, err := s.db.QueryContext(ctx, query, int64(companyID), int64(claimTypeID), int(exportType))
	if err != nil {
		return nil, fmt.Errorf("list export settings: %w", err)
	}
	defer rows.Close()

	settings := []models.ExportSetting{}
	for rows.Next() {
		var (
			setting    models.ExportSetting
			kind       int
			documentID sql.NullInt64
			collageID  sql.NullInt64
		)
		if err := rows.Scan(&kind, &documentID, &collageID, &setting.SortPriority); err != nil {
			return nil, fmt.Errorf("scan export setting: %w", err)
		}
		setting.Type = models.ExportDocumentType(kind)
		if documentID.Valid {
			setting.ProbatoryDocumentID = id.DocumentID(documentID.Int64)
		}
		if collageID.Valid {
			setting.CollageID = id.CollageID(collageID.Int64)
		}
		settings = append(settings, setting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export settings: %w", err)
	}
	return settings, nil
}

func (s *PostgresStore) DepositSlipRequired(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) (bool, error) {
	var required bool
	err := s.db.QueryRowContext(ctx, `
		SELECT required FROM deposit_slip_requirements
		WHERE insurance_company_id = $1 AND claim_type_id = $2
	`, int64(companyID), int64(claimTypeID)).Scan(&required)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check deposit slip requirement: %w", err)
	}
	return required, nil
}
