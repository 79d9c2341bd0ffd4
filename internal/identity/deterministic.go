package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID hashes key into a stable UUID. Keys are namespaced by the callers
// below; an empty key yields uuid.Nil.
func UUID(key string) uuid.UUID {
	key = strings.TrimSpace(key)
	if key == "" {
		return uuid.Nil
	}
	id, err := hashid.NewUUID(key, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err == nil && id != uuid.Nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key))
}

// ExportUUID identifies an archive by its content checksum, so re-exporting
// an unchanged bento for the same target yields the same id.
func ExportUUID(checksum, target string) uuid.UUID {
	return UUID("openbento:export:" + strings.ToLower(strings.TrimSpace(target)) + ":" + strings.TrimSpace(checksum))
}

// SiteUUID derives the id of a saved bento from its name.
func SiteUUID(name string) uuid.UUID {
	return UUID("openbento:site:" + strings.ToLower(strings.TrimSpace(name)))
}
