// Package storage mirrors local archives to object storage.
package storage

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/jittakal/logarchive/internal/template"
)

// KeyRouter builds object keys for mirrored archives.
// Keys have the form <expanded prefix>/<archive file name>.
type KeyRouter struct {
	protocol string
	bucket   string
	prefix   string
	expander *template.Expander
}

// NewKeyRouter creates a router. The prefix may contain {Name:Format}
// tokens, expanded on every Route call. A nil expander uses the default
// token registry.
func NewKeyRouter(protocol, bucket, prefix string, expander *template.Expander) *KeyRouter {
	if expander == nil {
		expander = template.NewExpander(nil)
	}
	return &KeyRouter{
		protocol: protocol,
		bucket:   bucket,
		prefix:   prefix,
		expander: expander,
	}
}

// Route returns the object key for a local archive path.
func (r *KeyRouter) Route(archivePath string) string {
	name := filepath.Base(archivePath)
	prefix := strings.Trim(r.expander.Expand(r.prefix), "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// URI returns the full object location for a key.
// Format: protocol://bucket/key
func (r *KeyRouter) URI(key string) string {
	return fmt.Sprintf("%s://%s/%s", r.protocol, r.bucket, key)
}
