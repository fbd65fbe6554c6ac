// Package export builds claim delivery artifacts (ZIP and PDF) from the
// claim's fulfilled documents and rendered collages, attaches them to the
// claim and announces them.
package export

import (
	"context"
	"errors"

	catalog "claimdocs/internal/catalog/models"
	claims "claimdocs/internal/claims/models"
	"claimdocs/internal/collage"
	"claimdocs/internal/export/queue"
	id "claimdocs/pkg/domain"
	dErrors "claimdocs/pkg/domain-errors"
)

var (
	// ErrNoExportSettings means the company and claim type configure nothing
	// for the requested artifact, so there is no way to decide its contents.
	ErrNoExportSettings = errors.New("no export settings configured")
	// ErrNothingToExport means the settings matched no fulfilled file.
	ErrNothingToExport = errors.New("no files matched the export settings")
)

// State is a step of an export run.
type State string

const (
	StateRequested  State = "requested"
	StateValidating State = "validating"
	StateBlocked    State = "blocked"
	StateBuilding   State = "building"
	StateAttaching  State = "attaching"
	StateNotifying  State = "notifying"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Message types pushed once an artifact is attached.
const (
	MessageZipReady = "export.zip.ready"
	MessagePdfReady = "export.pdf.ready"
	MessageZipEmail = "export.zip.email"
)

// Request asks for one artifact of one claim.
type Request struct {
	Kind         queue.Kind
	ClaimID      id.ClaimID
	ArtifactType claims.DocumentType
	GroupID      claims.Group
	SortPriority int
	EmailTo      string
	RequestID    string
}

// RequestFromMessage converts a queue message.
func RequestFromMessage(m queue.Message) Request {
	return Request{
		Kind:         m.Kind,
		ClaimID:      m.ClaimID,
		ArtifactType: m.ArtifactDocumentTypeID,
		GroupID:      m.GroupID,
		SortPriority: m.SortPriority,
		EmailTo:      m.EmailTo,
		RequestID:    m.RequestID,
	}
}

func (r Request) validate() error {
	if r.ClaimID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "claim_id is required")
	}
	if r.ArtifactType != claims.DocumentTypeZip && r.ArtifactType != claims.DocumentTypePdf {
		return dErrors.New(dErrors.CodeValidation, "artifact must be zip or pdf")
	}
	if r.Kind == queue.KindZipAndEmail && r.EmailTo == "" {
		return dErrors.New(dErrors.CodeValidation, "email_to is required")
	}
	return nil
}

// Outcome reports where a run ended and what it attached.
type Outcome struct {
	State    State
	Artifact *claims.ClaimDocument
	Collages int
	Files    int
}

// File is one entry of an artifact.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Artifact is an assembled ZIP or PDF.
type Artifact struct {
	Data        []byte
	ContentType string
	Extension   string
}

// Notification is the payload pushed when an artifact is ready.
type Notification struct {
	URL          string             `json:"url"`
	ClaimID      id.ClaimID         `json:"claim_id"`
	DocumentID   id.ClaimDocumentID `json:"document_id"`
	DocumentType string             `json:"document_type"`
	RequestID    string             `json:"request_id,omitempty"`
}

// ClaimLoader loads a claim with its requirement records and claim documents.
type ClaimLoader interface {
	Get(ctx context.Context, claimID id.ClaimID) (*claims.Claim, error)
}

// Catalog serves collage and export configuration.
type Catalog interface {
	GetCollages(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) ([]catalog.Collage, error)
	GetExportSettings(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID, exportType claims.DocumentType) ([]catalog.ExportSetting, error)
}

// CollageBuilder renders the claim's collages. Discard removes the stored
// composites once the artifact no longer needs them.
type CollageBuilder interface {
	Build(ctx context.Context, claim *claims.Claim, collages []catalog.Collage) (collage.Result, error)
	Discard(ctx context.Context, result collage.Result)
}

// DocumentStore replaces claim-level artifacts.
type DocumentStore interface {
	DeleteClaimDocumentIfExists(ctx context.Context, claimID id.ClaimID, docType claims.DocumentType) (*claims.ClaimDocument, error)
	InsertClaimDocuments(ctx context.Context, docs []claims.ClaimDocument) error
}

// TxRunner runs fn inside a transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Blobs stores source files and artifacts.
type Blobs interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Resizer normalizes one file before assembly.
type Resizer interface {
	Resize(ctx context.Context, f File) (File, error)
}

// Assembler packs files into one artifact.
type Assembler interface {
	Assemble(ctx context.Context, files []File) (Artifact, error)
}

// Notifier pushes a message to a target.
type Notifier interface {
	Send(ctx context.Context, target, messageType string, payload any) error
}
