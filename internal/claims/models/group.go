package models

import (
	"fmt"

	dErrors "claimdocs/pkg/domain-errors"
)

// Group buckets document requirements for completeness gating. The numeric
// values match the configuration tables.
type Group int

const (
	GroupAdminDocs       Group = 1
	GroupPictures        Group = 2
	GroupPicturesPerItem Group = 3
	GroupTpaDocs         Group = 4
	GroupReceipt         Group = 5
	GroupPostSignature   Group = 6
)

var groupNames = map[Group]string{
	GroupAdminDocs:       "admin_docs",
	GroupPictures:        "pictures",
	GroupPicturesPerItem: "pictures_per_item",
	GroupTpaDocs:         "tpa_docs",
	GroupReceipt:         "receipt",
	GroupPostSignature:   "post_signature",
}

// ParseGroup rejects values outside the closed set so a misconfigured row
// cannot silently land in no group.
func ParseGroup(v int) (Group, error) {
	g := Group(v)
	if !g.IsValid() {
		return 0, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown document group %d", v))
	}
	return g, nil
}

func (g Group) IsValid() bool {
	_, ok := groupNames[g]
	return ok
}

func (g Group) String() string {
	if name, ok := groupNames[g]; ok {
		return name
	}
	return fmt.Sprintf("group(%d)", int(g))
}
