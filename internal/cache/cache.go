package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching capability lookups
// (context enrichment, search evidence).
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a namespaced cache key from a lookup kind and its input,
// e.g. Key("enrich", "Chennai") or Key("search", queryDigest).
func Key(kind, input string) string {
	hash := sha256.Sum256([]byte(input))
	return "infoshield:v1:" + kind + ":" + hex.EncodeToString(hash[:16])
}
