package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// Hasher wraps bcrypt for the two secrets the service stores: account
// passwords and refresh-token fingerprints.  The two cost factors are
// configured independently; fingerprints are verified on every refresh, so
// they usually run at a lower cost than passwords.
type Hasher struct {
	passwordCost int
	refreshCost  int
}

// NewHasher returns a Hasher with the given bcrypt cost factors.
func NewHasher(passwordCost, refreshCost int) *Hasher {
	return &Hasher{passwordCost: passwordCost, refreshCost: refreshCost}
}

// HashPassword returns the bcrypt hash of a plaintext password.
func (h *Hasher) HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.passwordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares a bcrypt hash and a plain password.  It
// returns false on any malformed digest instead of surfacing an error.
func (h *Hasher) VerifyPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// HashRefresh returns the bcrypt fingerprint of a raw refresh token.
// bcrypt only considers the first 72 bytes of its input and signed tokens
// are longer than that, so the token is reduced to a SHA-256 hex digest
// (64 bytes) before hashing.
func (h *Hasher) HashRefresh(raw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(refreshFingerprint(raw), h.refreshCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyRefresh compares a raw refresh token against a stored fingerprint.
func (h *Hasher) VerifyRefresh(raw, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), refreshFingerprint(raw)) == nil
}

func refreshFingerprint(raw string) []byte {
	sum := sha256.Sum256([]byte(raw))
	return []byte(hex.EncodeToString(sum[:]))
}
