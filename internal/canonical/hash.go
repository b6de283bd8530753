package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content digests.
// The version suffix leaves room for changing the canonical form later.
const (
	DomainFramed  = "ldframe/framed/v1"
	DomainContext = "ldframe/context/v1"
)

// Digest returns the hex SHA-256 of the canonical form of v, separated from
// other digest kinds by domain.
// Format: SHA256(domain + 0x00 + canonical(v))
func Digest(domain string, v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", domain, err)
	}
	return hashWithDomain(domain, data), nil
}

// DigestBytes hashes already-canonical bytes under domain.
func DigestBytes(domain string, data []byte) string {
	return hashWithDomain(domain, data)
}

func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
