package models

import (
	"path/filepath"
	"strings"

	id "claimdocs/pkg/domain"
)

// Media is a fulfilled file attached to a requirement record.
type Media struct {
	ID          id.MediaID `json:"id"`
	FileName    string     `json:"file_name"`
	StorageKey  string     `json:"storage_key"`
	ContentType string     `json:"content_type,omitempty"`
	URL         string     `json:"url,omitempty"`
}

// Extension returns the lower-cased file extension including the dot.
func (m Media) Extension() string {
	return strings.ToLower(filepath.Ext(m.FileName))
}

// ClaimProbatoryDocument is one required piece of evidence on a claim.
// ClaimItemID is nil for header-level requirements and 1..N for item-level ones.
type ClaimProbatoryDocument struct {
	ID           id.RequirementID `json:"id"`
	ClaimID      id.ClaimID       `json:"claim_id"`
	DocumentID   id.DocumentID    `json:"document_id"`
	Name         string           `json:"name"`
	GroupID      Group            `json:"group_id"`
	SortPriority int              `json:"sort_priority"`
	ClaimItemID  *int             `json:"claim_item_id,omitempty"`
	Media        *Media           `json:"media,omitempty"`
}

// IsItemLevel reports whether the record belongs to a specific item.
func (d ClaimProbatoryDocument) IsItemLevel() bool { return d.ClaimItemID != nil }

// IsFulfilled reports whether media is attached.
func (d ClaimProbatoryDocument) IsFulfilled() bool { return d.Media != nil }

// ItemIndex returns the item index or 0 for header-level records.
func (d ClaimProbatoryDocument) ItemIndex() int {
	if d.ClaimItemID == nil {
		return 0
	}
	return *d.ClaimItemID
}

// RequirementKey identifies a requirement record inside its claim.
type RequirementKey struct {
	DocumentID  id.DocumentID
	ClaimItemID int
}

// Key returns the (definition, item index) key; header-level records use index 0.
func (d ClaimProbatoryDocument) Key() RequirementKey {
	return RequirementKey{DocumentID: d.DocumentID, ClaimItemID: d.ItemIndex()}
}

// DocumentType identifies a claim-level administrative document slot.
type DocumentType int

const (
	DocumentTypeReceipt   DocumentType = 1
	DocumentTypeSignature DocumentType = 2
	DocumentTypeZip       DocumentType = 3
	DocumentTypePdf       DocumentType = 4
)

var documentTypeNames = map[DocumentType]string{
	DocumentTypeReceipt:   "receipt",
	DocumentTypeSignature: "signature",
	DocumentTypeZip:       "zip",
	DocumentTypePdf:       "pdf",
}

func (t DocumentType) IsValid() bool {
	_, ok := documentTypeNames[t]
	return ok
}

func (t DocumentType) String() string {
	if name, ok := documentTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseDocumentType maps a configuration name to a document type.
func ParseDocumentType(s string) (DocumentType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range documentTypeNames {
		if name == s {
			return t, true
		}
	}
	return 0, false
}

// ClaimDocumentStatus tracks whether a slot has its file.
type ClaimDocumentStatus string

const (
	ClaimDocumentInProcess ClaimDocumentStatus = "in_process"
	ClaimDocumentCompleted ClaimDocumentStatus = "completed"
)

// Document is the stored file behind a claim document.
type Document struct {
	FileName    string `json:"file_name"`
	StorageKey  string `json:"storage_key"`
	ContentType string `json:"content_type,omitempty"`
	URL         string `json:"url,omitempty"`
}

// ClaimDocument is a claim-level administrative document (receipt, signature,
// exported ZIP/PDF).
type ClaimDocument struct {
	ID           id.ClaimDocumentID  `json:"id"`
	ClaimID      id.ClaimID          `json:"claim_id"`
	DocumentType DocumentType        `json:"document_type"`
	GroupID      Group               `json:"group_id"`
	SortPriority int                 `json:"sort_priority"`
	Status       ClaimDocumentStatus `json:"status"`
	Document     *Document           `json:"document,omitempty"`
}

// IsCompleted reports whether the slot holds its file.
func (d ClaimDocument) IsCompleted() bool {
	return d.Status == ClaimDocumentCompleted
}
