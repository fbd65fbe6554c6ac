package models

import (
	"strings"
	"time"

	id "claimdocs/pkg/domain"
	dErrors "claimdocs/pkg/domain-errors"
)

// ClaimStatus is the lifecycle state of a claim.
type ClaimStatus string

const (
	ClaimStatusInProgress ClaimStatus = "in_progress"
	ClaimStatusCompleted  ClaimStatus = "completed"
	ClaimStatusInvoiced   ClaimStatus = "invoiced"
	ClaimStatusCancelled  ClaimStatus = "cancelled"
)

// ParseClaimStatus validates a status coming from a request.
func ParseClaimStatus(s string) (ClaimStatus, error) {
	st := ClaimStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case ClaimStatusInProgress, ClaimStatusCompleted, ClaimStatusInvoiced, ClaimStatusCancelled:
		return st, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown claim status")
}

// IsActive reports whether the claim still reserves its external order number.
func (s ClaimStatus) IsActive() bool {
	return s != ClaimStatusCancelled
}

// Claim is the aggregate root for an insurance service order.
//
// Invariants:
//   - ItemsQuantity >= 1
//   - for every item-level definition there is exactly one requirement per
//     item index 1..ItemsQuantity
//   - when IsDepositSlipRequired, exactly one of the two deposit-slip
//     requirements exists; none exists otherwise
//   - ExternalOrderNumber is unique among active claims (enforced by the store)
type Claim struct {
	ID                    id.ClaimID            `json:"id"`
	Status                ClaimStatus           `json:"status"`
	ClaimTypeID           id.ClaimTypeID        `json:"claim_type_id"`
	InsuranceCompanyID    id.InsuranceCompanyID `json:"insurance_company_id"`
	StoreID               id.StoreID            `json:"store_id"`
	ItemsQuantity         int                   `json:"items_quantity"`
	IsDepositSlipRequired bool                  `json:"is_deposit_slip_required"`
	HasDepositSlip        bool                  `json:"has_deposit_slip"`
	ExternalOrderNumber   string                `json:"external_order_number"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`

	ProbatoryDocuments []ClaimProbatoryDocument `json:"probatory_documents,omitempty"`
	Documents          []ClaimDocument          `json:"documents,omitempty"`
}

// NewClaim validates creation input and returns an in-progress claim.
func NewClaim(claimID id.ClaimID, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID, storeID id.StoreID,
	itemsQuantity int, externalOrderNumber string, hasDepositSlip bool, now time.Time) (*Claim, error) {
	externalOrderNumber = strings.TrimSpace(externalOrderNumber)
	if claimID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "claim id is required")
	}
	if companyID <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "insurance_company_id is required")
	}
	if claimTypeID <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "claim_type_id is required")
	}
	if itemsQuantity < 1 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "items_quantity must be at least 1")
	}
	if externalOrderNumber == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "external_order_number is required")
	}
	return &Claim{
		ID:                  claimID,
		Status:              ClaimStatusInProgress,
		ClaimTypeID:         claimTypeID,
		InsuranceCompanyID:  companyID,
		StoreID:             storeID,
		ItemsQuantity:       itemsQuantity,
		HasDepositSlip:      hasDepositSlip,
		ExternalOrderNumber: externalOrderNumber,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// RequirementsInGroup returns the claim's requirement records in group g.
func (c *Claim) RequirementsInGroup(g Group) []ClaimProbatoryDocument {
	var out []ClaimProbatoryDocument
	for _, doc := range c.ProbatoryDocuments {
		if doc.GroupID == g {
			out = append(out, doc)
		}
	}
	return out
}

// DocumentsOfType returns the claim documents of type t.
func (c *Claim) DocumentsOfType(t DocumentType) []ClaimDocument {
	var out []ClaimDocument
	for _, doc := range c.Documents {
		if doc.DocumentType == t {
			out = append(out, doc)
		}
	}
	return out
}
