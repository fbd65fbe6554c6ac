// Package strings holds the list and file-name helpers shared by config
// parsing and archive assembly.
package strings

import (
	"fmt"
	"path"
	"strings"
)

// SplitList splits v on sep, trims each element and drops blanks and
// repeats. Order is preserved.
//
//	SplitList(" a,b ,a,, ", ",") // []string{"a", "b"}
func SplitList(v, sep string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(v, sep) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}

// UniqueNames returns names with later duplicates suffixed before their
// extension, so the result can be used as archive entry names.
//
// Example:
//
//	UniqueNames([]string{"a.jpg", "a.jpg", "b.pdf"})
//	// Returns: []string{"a.jpg", "a_2.jpg", "b.pdf"}
func UniqueNames(names []string) []string {
	seen := make(map[string]int, len(names))
	taken := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))

	for _, name := range names {
		candidate := name
		if _, dup := taken[candidate]; dup {
			ext := path.Ext(name)
			base := strings.TrimSuffix(name, ext)
			for n := seen[name] + 1; ; n++ {
				candidate = fmt.Sprintf("%s_%d%s", base, n, ext)
				if _, dup := taken[candidate]; !dup {
					seen[name] = n
					break
				}
			}
		} else {
			seen[name] = 1
		}
		taken[candidate] = struct{}{}
		result = append(result, candidate)
	}

	return result
}
