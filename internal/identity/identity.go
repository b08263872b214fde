package identity

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/Artin0123/API-backend/internal/domain"
)

// keyLen is the number of hex characters kept from the digest. Collisions
// are tolerable: the key only correlates log lines, it is never a storage
// key and never an authorization input.
const keyLen = 16

// ComputeKey derives a stable, one-way correlation key for a visitor
// identity. The same (ip, source) pair always maps to the same key.
func ComputeKey(ip string, source domain.SourceType) string {
	sum := sha256.Sum256([]byte(ip + "|" + string(source)))
	return hex.EncodeToString(sum[:])[:keyLen]
}
