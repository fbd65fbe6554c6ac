// Package blob stores uploaded media and generated artifacts. S3Store talks
// to an S3 bucket (or a compatible endpoint such as LocalStack or MinIO);
// MemoryStore backs tests and local development.
package blob

import (
	"path"
	"strings"

	id "claimdocs/pkg/domain"
)

// Object is a stored blob with its content type.
type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

// ClaimKey builds an object key under the claim's prefix.
func ClaimKey(claimID id.ClaimID, parts ...string) string {
	elems := append([]string{"claims", claimID.String()}, parts...)
	return path.Join(elems...)
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
