// Package completeness evaluates per-group document completeness of a claim
// and gates status transitions on it. Everything here is pure.
package completeness

import (
	"fmt"

	claims "claimdocs/internal/claims/models"
	dErrors "claimdocs/pkg/domain-errors"
)

// GroupComplete reports whether no requirement record in group g lacks media.
// An empty group is complete.
func GroupComplete(claim *claims.Claim, g claims.Group) bool {
	for _, doc := range claim.ProbatoryDocuments {
		if doc.GroupID == g && !doc.IsFulfilled() {
			return false
		}
	}
	return true
}

// ReceiptComplete reports whether the claim has a receipt slot and every
// receipt slot is completed.
func ReceiptComplete(claim *claims.Claim) bool {
	return claimDocumentsComplete(claim, claims.DocumentTypeReceipt)
}

// SignaturePresent reports whether the signature slot holds its file.
func SignaturePresent(claim *claims.Claim) bool {
	return claimDocumentsComplete(claim, claims.DocumentTypeSignature)
}

func claimDocumentsComplete(claim *claims.Claim, t claims.DocumentType) bool {
	docs := claim.DocumentsOfType(t)
	if len(docs) == 0 {
		return false
	}
	for _, doc := range docs {
		if !doc.IsCompleted() {
			return false
		}
	}
	return true
}

func AdminDocsComplete(claim *claims.Claim) bool {
	return GroupComplete(claim, claims.GroupAdminDocs)
}

func PicturesComplete(claim *claims.Claim) bool {
	return GroupComplete(claim, claims.GroupPictures)
}

func PicturesPerItemComplete(claim *claims.Claim) bool {
	return GroupComplete(claim, claims.GroupPicturesPerItem)
}

func TpaDocsComplete(claim *claims.Claim) bool {
	return GroupComplete(claim, claims.GroupTpaDocs)
}

// PostSignatureDocsComplete is true when no post-signature documents are
// configured.
func PostSignatureDocsComplete(claim *claims.Claim) bool {
	return GroupComplete(claim, claims.GroupPostSignature)
}

// Report is every predicate evaluated at once.
type Report struct {
	Receipt          bool `json:"receipt"`
	AdminDocs        bool `json:"admin_docs"`
	Pictures         bool `json:"pictures"`
	PicturesPerItem  bool `json:"pictures_per_item"`
	TpaDocs          bool `json:"tpa_docs"`
	PostSignature    bool `json:"post_signature"`
	Signature        bool `json:"signature"`
	CanComplete      bool `json:"can_complete"`
	CanInvoice       bool `json:"can_invoice"`
	ExportReady      bool `json:"export_ready"`
	MissingDocuments int  `json:"missing_documents"`
}

func Evaluate(claim *claims.Claim) Report {
	r := Report{
		Receipt:         ReceiptComplete(claim),
		AdminDocs:       AdminDocsComplete(claim),
		Pictures:        PicturesComplete(claim),
		PicturesPerItem: PicturesPerItemComplete(claim),
		TpaDocs:         TpaDocsComplete(claim),
		PostSignature:   PostSignatureDocsComplete(claim),
		Signature:       SignaturePresent(claim),
	}
	r.CanComplete = r.Receipt && r.AdminDocs && r.Pictures && r.PicturesPerItem && r.PostSignature
	r.CanInvoice = r.TpaDocs
	r.ExportReady = r.AdminDocs && r.Pictures && r.PicturesPerItem && r.PostSignature && r.Signature
	for _, doc := range claim.ProbatoryDocuments {
		if !doc.IsFulfilled() {
			r.MissingDocuments++
		}
	}
	return r
}

// ExportReady is the precondition for building any export artifact.
func ExportReady(claim *claims.Claim) bool {
	return AdminDocsComplete(claim) &&
		PicturesComplete(claim) &&
		PicturesPerItemComplete(claim) &&
		PostSignatureDocsComplete(claim) &&
		SignaturePresent(claim)
}

// CanTransition returns nil when claim may move to status to.
func CanTransition(claim *claims.Claim, to claims.ClaimStatus) error {
	from := claim.Status
	switch {
	case from == claims.ClaimStatusInProgress && to == claims.ClaimStatusCancelled:
		return nil

	case from == claims.ClaimStatusInProgress && to == claims.ClaimStatusCompleted:
		var missing []string
		if !ReceiptComplete(claim) {
			missing = append(missing, "receipt")
		}
		for _, g := range []claims.Group{claims.GroupAdminDocs, claims.GroupPictures, claims.GroupPicturesPerItem, claims.GroupPostSignature} {
			if !GroupComplete(claim, g) {
				missing = append(missing, g.String())
			}
		}
		if len(missing) > 0 {
			return dErrors.New(dErrors.CodePreconditionFailed, fmt.Sprintf("claim documents incomplete: %v", missing))
		}
		return nil

	case from == claims.ClaimStatusCompleted && to == claims.ClaimStatusInvoiced:
		if !TpaDocsComplete(claim) {
			return dErrors.New(dErrors.CodePreconditionFailed, "claim documents incomplete: [tpa_docs]")
		}
		return nil
	}
	return dErrors.New(dErrors.CodeInvalidTransition, fmt.Sprintf("cannot move claim from %s to %s", from, to))
}
