// Package iostore persists hierarchy records across runs.
package iostore

import (
	"fmt"
	"strings"

	"github.com/huangsam/pkgpulse/internal/contract"
	"github.com/huangsam/pkgpulse/schema"
)

// NewRecordStore initializes and returns a RecordStore for the backend type.
func NewRecordStore(topo schema.Topology, backend schema.StoreBackend, dataDir, connStr string) (contract.RecordStore, error) {
	switch backend {
	case schema.FileBackend:
		return NewFileStore(topo, dataDir)
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend, schema.NoneBackend:
		return NewSQLStore(recordsTable, topo, backend, connStr)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s. Must be file, sqlite, mysql, postgresql, or none", backend)
	}
}

// encodeStoreKey renders a key as escaped components joined by "/". Escaping
// keeps the separator unambiguous even when identifiers contain slashes.
func encodeStoreKey(k schema.Key) string {
	parts := k.Parts()
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = contract.EscapeComponent(p)
	}
	return strings.Join(escaped, "/")
}

// decodeStoreKey reverses encodeStoreKey.
func decodeStoreKey(s string) (schema.Key, error) {
	segments := strings.Split(s, "/")
	parts := make([]string, len(segments))
	for i, seg := range segments {
		p, err := contract.UnescapeComponent(seg)
		if err != nil {
			return schema.Key{}, fmt.Errorf("store key %q: %w", s, err)
		}
		parts[i] = p
	}
	return schema.NewKey(parts...)
}
