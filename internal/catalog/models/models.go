// Package models holds the insurance-company / claim-type configuration the
// requirement engine consumes. All of it is read-only from this service's
// point of view.
package models

import (
	claims "claimdocs/internal/claims/models"
	id "claimdocs/pkg/domain"
)

// Level says whether a requirement applies once per claim or once per item.
type Level int

const (
	HeaderLevel Level = iota
	ItemLevel
)

func (l Level) String() string {
	if l == ItemLevel {
		return "item"
	}
	return "header"
}

// Orientation is a layout hint for collage composition.
type Orientation string

const (
	OrientationNA        Orientation = "na"
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// ParseOrientation defaults unknown values to NA.
func ParseOrientation(s string) Orientation {
	switch Orientation(s) {
	case OrientationPortrait, OrientationLandscape:
		return Orientation(s)
	}
	return OrientationNA
}

// DocumentRequirementDefinition is one configured probatory document for a
// (company, claim type) pair.
type DocumentRequirementDefinition struct {
	DocumentID   id.DocumentID `json:"document_id"`
	Name         string        `json:"name"`
	GroupID      claims.Group  `json:"group_id"`
	SortPriority int           `json:"sort_priority"`
	Level        Level         `json:"level"`
	Orientation  Orientation   `json:"orientation"`
}

// Collage lists the documents that feed one composite image. Media is set
// only after rendering and is never persisted with the configuration.
type Collage struct {
	ID          id.CollageID    `json:"id"`
	Name        string          `json:"name"`
	Columns     int             `json:"columns"`
	DocumentIDs []id.DocumentID `json:"document_ids"`
	Media       *claims.Media   `json:"-"`
}

// Includes reports whether documentID feeds this collage.
func (c Collage) Includes(documentID id.DocumentID) bool {
	for _, d := range c.DocumentIDs {
		if d == documentID {
			return true
		}
	}
	return false
}

// ExportDocumentType says what an export setting points at.
type ExportDocumentType int

const (
	ExportProbatoryDocument ExportDocumentType = 1
	ExportCollage           ExportDocumentType = 2
)

// ExportSetting places a probatory document or a collage inside an artifact.
// Exactly one of ProbatoryDocumentID and CollageID is set, per Type.
type ExportSetting struct {
	ProbatoryDocumentID id.DocumentID      `json:"probatory_document_id,omitempty"`
	CollageID           id.CollageID       `json:"collage_id,omitempty"`
	Type                ExportDocumentType `json:"export_document_type"`
	SortPriority        int                `json:"sort_priority"`
}

// DepositSlipSlot is one of the two fixed deposit-slip requirements.
type DepositSlipSlot struct {
	DocumentID   id.DocumentID
	Name         string
	GroupID      claims.Group
	SortPriority int
}

// DepositSlipConfig names the store-provided and third-party slots.
type DepositSlipConfig struct {
	StoreProvided      DepositSlipSlot
	ThirdPartyProvided DepositSlipSlot
}

// SlotFor returns the slot matching hasDepositSlip.
func (c DepositSlipConfig) SlotFor(hasDepositSlip bool) DepositSlipSlot {
	if hasDepositSlip {
		return c.StoreProvided
	}
	return c.ThirdPartyProvided
}

// IsSlotDocument reports whether documentID is one of the two slots.
func (c DepositSlipConfig) IsSlotDocument(documentID id.DocumentID) bool {
	return documentID == c.StoreProvided.DocumentID || documentID == c.ThirdPartyProvided.DocumentID
}
