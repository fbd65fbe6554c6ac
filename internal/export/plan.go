package export

import (
	"fmt"
	"path"
	"sort"
	"strings"

	catalog "claimdocs/internal/catalog/models"
	claims "claimdocs/internal/claims/models"
	"claimdocs/internal/collage"
	id "claimdocs/pkg/domain"
)

// entry is one file selected for the artifact, before it is fetched.
type entry struct {
	name        string
	storageKey  string
	contentType string
}

// planEntries joins the export settings against the claim's fulfilled
// media and rendered collages. Records already inside a rendered collage
// are left out. Entries follow the settings' sort priority and, within one
// setting, claim order.
func planEntries(claim *claims.Claim, settings []catalog.ExportSetting, built collage.Result) []entry {
	ordered := append([]catalog.ExportSetting(nil), settings...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SortPriority < ordered[j].SortPriority
	})

	var entries []entry
	for _, setting := range ordered {
		switch setting.Type {
		case catalog.ExportProbatoryDocument:
			for _, doc := range claim.ProbatoryDocuments {
				if doc.DocumentID != setting.ProbatoryDocumentID || doc.Media == nil {
					continue
				}
				if built.IsConsumed(doc.ID) {
					continue
				}
				entries = append(entries, entry{
					name:        entryName(setting.SortPriority, documentName(doc), doc.ItemIndex(), doc.Media.Extension()),
					storageKey:  doc.Media.StorageKey,
					contentType: doc.Media.ContentType,
				})
			}
		case catalog.ExportCollage:
			rendered, ok := built.Find(setting.CollageID)
			if !ok || rendered.Media == nil {
				continue
			}
			entries = append(entries, entry{
				name:        entryName(setting.SortPriority, collageName(rendered), 0, rendered.Media.Extension()),
				storageKey:  rendered.Media.StorageKey,
				contentType: rendered.Media.ContentType,
			})
		}
	}
	return entries
}

// collagesInSettings keeps the collages some setting refers to.
func collagesInSettings(collages []catalog.Collage, settings []catalog.ExportSetting) []catalog.Collage {
	wanted := make(map[id.CollageID]struct{})
	for _, s := range settings {
		if s.Type == catalog.ExportCollage {
			wanted[s.CollageID] = struct{}{}
		}
	}
	var out []catalog.Collage
	for _, c := range collages {
		if _, ok := wanted[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}

func documentName(doc claims.ClaimProbatoryDocument) string {
	if strings.TrimSpace(doc.Name) != "" {
		return doc.Name
	}
	return fmt.Sprintf("document_%d", doc.DocumentID)
}

func collageName(c catalog.Collage) string {
	if strings.TrimSpace(c.Name) != "" {
		return c.Name
	}
	return fmt.Sprintf("collage_%d", c.ID)
}

// entryName formats "<priority>_<name>[_item<n>]<ext>".
func entryName(priority int, name string, item int, ext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%03d_%s", priority, sanitize(name))
	if item > 0 {
		fmt.Fprintf(&b, "_item%d", item)
	}
	b.WriteString(ext)
	return b.String()
}

func sanitize(name string) string {
	name = strings.TrimSpace(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}

func withExtension(name, ext string) string {
	return strings.TrimSuffix(name, path.Ext(name)) + ext
}
