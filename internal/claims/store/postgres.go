package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"claimdocs/internal/claims/models"
	id "claimdocs/pkg/domain"
	"claimdocs/pkg/platform/sentinel"
	txcontext "claimdocs/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists claim headers in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const claimColumns = `id, status, claim_type_id, insurance_company_id, store_id, items_quantity,
	is_deposit_slip_required, has_deposit_slip, external_order_number, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, claim *models.Claim) error {
	_, err := txcontext.Execer(ctx, s.db).ExecContext(ctx, `
		INSERT INTO claims (`+claimColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, uuid.UUID(claim.ID), string(claim.Status), int64(claim.ClaimTypeID), int64(claim.InsuranceCompanyID),
		int64(claim.StoreID), claim.ItemsQuantity, claim.IsDepositSlipRequired, claim.HasDepositSlip,
		claim.ExternalOrderNumber, claim.CreatedAt, claim.UpdatedAt)
	if err != nil {
		return translateWriteError("create claim", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, claimID id.ClaimID) (*models.Claim, error) {
	return s.find(ctx, `SELECT `+claimColumns+` FROM claims WHERE id = $1`, claimID)
}

// FindByIDForUpdate locks the claim row until the surrounding transaction ends.
func (s *PostgresStore) FindByIDForUpdate(ctx context.Context, claimID id.ClaimID) (*models.Claim, error) {
	return s.find(ctx, `SELECT `+claimColumns+` FROM claims WHERE id = $1 FOR UPDATE`, claimID)
}

func (s *PostgresStore) find(ctx context.Context, query string, claimID id.ClaimID) (*models.Claim, error) {
	var (
		c                       models.Claim
		cid                     uuid.UUID
		status                  string
		claimType, company, str int64
	)
	err := txcontext.Execer(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(claimID)).Scan(
		&cid, &status, &claimType, &company, &str, &c.ItemsQuantity,
		&c.IsDepositSlipRequired, &c.HasDepositSlip, &c.ExternalOrderNumber, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find claim: %w", err)
	}
	c.ID = id.ClaimID(cid)
	c.Status = models.ClaimStatus(status)
	c.ClaimTypeID = id.ClaimTypeID(claimType)
	c.InsuranceCompanyID = id.InsuranceCompanyID(company)
	c.StoreID = id.StoreID(str)
	return &c, nil
}

func (s *PostgresStore) Update(ctx context.Context, claim *models.Claim) error {
	res, err := txcontext.Execer(ctx, s.db).ExecContext(ctx, `
		UPDATE claims SET
			status = $2, store_id = $3, items_quantity = $4, is_deposit_slip_required = $5,
			has_deposit_slip = $6, external_order_number = $7, updated_at = $8
		WHERE id = $1
	`, uuid.UUID(claim.ID), string(claim.Status), int64(claim.StoreID), claim.ItemsQuantity,
		claim.IsDepositSlipRequired, claim.HasDepositSlip, claim.ExternalOrderNumber, claim.UpdatedAt)
	if err != nil {
		return translateWriteError("update claim", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update claim rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func translateWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
