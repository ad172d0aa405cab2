package auth // token creation and verification for the access/refresh pair

import (
    "crypto/rand"   // random token identifiers
    "encoding/hex"  // hex encoding for the jti claim
    "time"          // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// Claims is the claim set carried by every issued token.  It embeds the
// registered claims (exp, iat) and adds the user identity.  Both token
// classes use the same shape; only the signing key and TTL differ.
type Claims struct {
    jwt.RegisteredClaims
    UserID uint64 `json:"user_id"`
    Email  string `json:"email"`
}

// TokenSigner issues and verifies the two token classes.  The secrets are
// independent so that leaking one class's signing key cannot forge tokens
// of the other class.
type TokenSigner struct {
    accessSecret  []byte        // signing key for short-lived access tokens
    refreshSecret []byte        // signing key for long-lived refresh tokens
    accessTTL     time.Duration // validity window for access tokens
    refreshTTL    time.Duration // validity window for refresh tokens
}

// NewTokenSigner builds a TokenSigner from the configured secrets and TTLs
// in seconds.
func NewTokenSigner(accessSecret, refreshSecret string, accessTTLSec, refreshTTLSec int) *TokenSigner {
    return &TokenSigner{
        accessSecret:  []byte(accessSecret),
        refreshSecret: []byte(refreshSecret),
        accessTTL:     time.Duration(accessTTLSec) * time.Second,
        refreshTTL:    time.Duration(refreshTTLSec) * time.Second,
    }
}

// IssueAccess signs a short-lived HS256 access token for the identity.
func (s *TokenSigner) IssueAccess(id uint64, email string) (string, error) {
    return s.issue(id, email, s.accessSecret, s.accessTTL)
}

// IssueRefresh signs a long-lived HS256 refresh token for the identity.
func (s *TokenSigner) IssueRefresh(id uint64, email string) (string, error) {
    return s.issue(id, email, s.refreshSecret, s.refreshTTL)
}

func (s *TokenSigner) issue(id uint64, email string, secret []byte, ttl time.Duration) (string, error) {
    if len(secret) == 0 {
        return "", ErrSecretMissing
    }
    now := time.Now().UTC()
    token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
        RegisteredClaims: jwt.RegisteredClaims{
            ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
            IssuedAt:  jwt.NewNumericDate(now),
            // iat has second precision, so two tokens minted back to back
            // would otherwise be byte-identical.  The jti keeps every
            // issued token distinct, which rotation relies on.
            ID: newJTI(),
        },
        UserID: id,
        Email:  email,
    })
    return token.SignedString(secret)
}

func newJTI() string {
    b := make([]byte, 8)
    _, _ = rand.Read(b)
    return hex.EncodeToString(b)
}

// VerifyAccess checks an access token's signature and expiry and returns the
// embedded claims.  Used by the HTTP middleware guarding protected routes.
func (s *TokenSigner) VerifyAccess(raw string) (*Claims, error) {
    return verify(raw, s.accessSecret)
}

// VerifyRefresh checks a refresh token's signature and expiry and returns
// the embedded claims.  A token signed with the access secret fails here.
func (s *TokenSigner) VerifyRefresh(raw string) (*Claims, error) {
    return verify(raw, s.refreshSecret)
}

func verify(raw string, secret []byte) (*Claims, error) {
    if len(secret) == 0 {
        return nil, ErrSecretMissing
    }
    claims := &Claims{}
    token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
        // Ensure the signing method is what we expect.  Reject tokens
        // using different algorithms.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return secret, nil
    })
    if err != nil || !token.Valid {
        return nil, ErrInvalidToken
    }
    return claims, nil
}
