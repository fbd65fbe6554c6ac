// Package domain holds typed identifiers shared across bounded contexts.
//
// Record identifiers (claims, requirement records, claim documents, media) are
// UUIDs. Configuration identifiers (insurance companies, claim types, document
// definitions, collages, stores) are positive integers owned by the catalog.
package domain

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "claimdocs/pkg/domain-errors"
)

type (
	ClaimID         uuid.UUID
	RequirementID   uuid.UUID
	ClaimDocumentID uuid.UUID
	MediaID         uuid.UUID
)

type (
	InsuranceCompanyID int64
	ClaimTypeID        int64
	DocumentID         int64
	CollageID          int64
	StoreID            int64
)

func (id ClaimID) String() string         { return uuid.UUID(id).String() }
func (id ClaimID) IsNil() bool            { return uuid.UUID(id) == uuid.Nil }
func (id RequirementID) String() string   { return uuid.UUID(id).String() }
func (id RequirementID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id ClaimDocumentID) String() string { return uuid.UUID(id).String() }
func (id ClaimDocumentID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id MediaID) String() string         { return uuid.UUID(id).String() }
func (id MediaID) IsNil() bool            { return uuid.UUID(id) == uuid.Nil }

func (id ClaimID) MarshalText() ([]byte, error)         { return uuid.UUID(id).MarshalText() }
func (id RequirementID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }
func (id ClaimDocumentID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id MediaID) MarshalText() ([]byte, error)         { return uuid.UUID(id).MarshalText() }

func (id *ClaimID) UnmarshalText(b []byte) error {
	parsed, err := ParseClaimID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *RequirementID) UnmarshalText(b []byte) error {
	parsed, err := ParseRequirementID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ClaimDocumentID) UnmarshalText(b []byte) error {
	parsed, err := ParseClaimDocumentID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *MediaID) UnmarshalText(b []byte) error {
	parsed, err := ParseMediaID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// NewClaimID returns a random claim identifier.
func NewClaimID() ClaimID { return ClaimID(uuid.New()) }

// NewRequirementID returns a random requirement record identifier.
func NewRequirementID() RequirementID { return RequirementID(uuid.New()) }

// NewClaimDocumentID returns a random claim document identifier.
func NewClaimDocumentID() ClaimDocumentID { return ClaimDocumentID(uuid.New()) }

// NewMediaID returns a random media identifier.
func NewMediaID() MediaID { return MediaID(uuid.New()) }

// ParseClaimID validates a claim identifier at a trust boundary.
func ParseClaimID(s string) (ClaimID, error) {
	u, err := parseUUID(s, "claim_id")
	return ClaimID(u), err
}

// ParseRequirementID validates a requirement record identifier.
func ParseRequirementID(s string) (RequirementID, error) {
	u, err := parseUUID(s, "requirement_id")
	return RequirementID(u), err
}

// ParseClaimDocumentID validates a claim document identifier.
func ParseClaimDocumentID(s string) (ClaimDocumentID, error) {
	u, err := parseUUID(s, "claim_document_id")
	return ClaimDocumentID(u), err
}

// ParseMediaID validates a media identifier.
func ParseMediaID(s string) (MediaID, error) {
	u, err := parseUUID(s, "media_id")
	return MediaID(u), err
}

// ParseDocumentID validates a document definition identifier.
func ParseDocumentID(s string) (DocumentID, error) {
	n, err := parsePositive(s, "document_id")
	return DocumentID(n), err
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	if !utf8.ValidString(s) || len(s) > 64 {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is malformed")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, field+" is malformed")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must not be nil")
	}
	return u, nil
}

func parsePositive(s, field string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, field+" must be a positive integer")
	}
	return n, nil
}
