// Package queue carries export requests between the API and the export
// worker over Kafka.
package queue

import (
	"encoding/json"
	"fmt"
	"strings"

	claims "claimdocs/internal/claims/models"
	id "claimdocs/pkg/domain"
	dErrors "claimdocs/pkg/domain-errors"
)

// Kind selects the artifact pipeline.
type Kind string

const (
	KindZip         Kind = "zip"
	KindPdf         Kind = "pdf"
	KindZipAndEmail Kind = "zip_email"
)

// Kinds lists every pipeline in topic order.
var Kinds = []Kind{KindZip, KindPdf, KindZipAndEmail}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindZip, KindPdf, KindZipAndEmail:
		return k, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown export kind %q", s))
}

// Topic returns the topic for kind under prefix.
func Topic(prefix string, kind Kind) string {
	return prefix + "." + string(kind)
}

// DeadLetterTopic returns the topic exhausted records of topic are moved to.
func DeadLetterTopic(topic string) string {
	return topic + ".dlq"
}

// KindForTopic returns the kind whose request topic under prefix is topic.
func KindForTopic(prefix, topic string) (Kind, bool) {
	for _, k := range Kinds {
		if Topic(prefix, k) == topic {
			return k, true
		}
	}
	return "", false
}

// ZipEmailDefaults place the artifact of a ZipAndEmail request that does
// not name a group.
type ZipEmailDefaults struct {
	GroupID      claims.Group
	SortPriority int
}

// DefaultZipEmail files ZipAndEmail artifacts with the admin documents.
var DefaultZipEmail = ZipEmailDefaults{GroupID: claims.GroupAdminDocs, SortPriority: 100}

// Message is one export request. Zip and Pdf requests carry the artifact's
// document type, group and sort priority; ZipAndEmail requests carry EmailTo.
type Message struct {
	Kind                   Kind                `json:"kind"`
	ClaimID                id.ClaimID          `json:"claim_id"`
	ArtifactDocumentTypeID claims.DocumentType `json:"artifact_document_type_id,omitempty"`
	GroupID                claims.Group        `json:"group_id,omitempty"`
	SortPriority           int                 `json:"sort_priority,omitempty"`
	EmailTo                string              `json:"email_to,omitempty"`
	RequestID              string              `json:"request_id,omitempty"`
}

// Validate checks the fields each kind needs.
func (m Message) Validate() error {
	if m.ClaimID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "claim_id is required")
	}
	switch m.Kind {
	case KindZip:
		if m.ArtifactDocumentTypeID != claims.DocumentTypeZip {
			return dErrors.New(dErrors.CodeValidation, "zip exports must use the zip document type")
		}
	case KindPdf:
		if m.ArtifactDocumentTypeID != claims.DocumentTypePdf {
			return dErrors.New(dErrors.CodeValidation, "pdf exports must use the pdf document type")
		}
	case KindZipAndEmail:
		if !strings.Contains(m.EmailTo, "@") {
			return dErrors.New(dErrors.CodeValidation, "email_to must be an email address")
		}
		if m.ArtifactDocumentTypeID != 0 && m.ArtifactDocumentTypeID != claims.DocumentTypeZip {
			return dErrors.New(dErrors.CodeValidation, "zip_email exports must use the zip document type")
		}
	default:
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown export kind %q", m.Kind))
	}
	if m.Kind != KindZipAndEmail && !m.GroupID.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "group_id is invalid")
	}
	return nil
}

// Normalize fills what a request received on the topic for kind may leave
// out: the kind itself, the artifact document type, and for ZipAndEmail the
// artifact placement from d. A kind that disagrees with the topic is a
// validation error.
func (m Message) Normalize(kind Kind, d ZipEmailDefaults) (Message, error) {
	switch {
	case m.Kind == "":
		m.Kind = kind
	case m.Kind != kind:
		return Message{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s request on the %s topic", m.Kind, kind))
	}
	switch m.Kind {
	case KindZip, KindZipAndEmail:
		if m.ArtifactDocumentTypeID == 0 {
			m.ArtifactDocumentTypeID = claims.DocumentTypeZip
		}
	case KindPdf:
		if m.ArtifactDocumentTypeID == 0 {
			m.ArtifactDocumentTypeID = claims.DocumentTypePdf
		}
	}
	if m.Kind == KindZipAndEmail && !m.GroupID.IsValid() {
		m.GroupID = d.GroupID
		m.SortPriority = d.SortPriority
	}
	if err := m.Validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}

// Key is the record key. All requests for one claim land on one partition.
func (m Message) Key() []byte {
	return []byte(m.ClaimID.String())
}

func Encode(m Message) ([]byte, error) {
	return json.Marshal(m)
}

func Decode(b []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return Message{}, fmt.Errorf("decode export message: %w", err)
	}
	return m, nil
}
