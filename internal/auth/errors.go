// Package auth implements the credential and token primitives of the session
// subsystem: bcrypt hashing for passwords and refresh-token fingerprints, and
// HS256 signing/verification of the access/refresh token pair.  The sentinel
// errors below form the failure taxonomy shared with the service layer;
// handlers translate them into HTTP statuses with errors.Is.
package auth

import "errors"

// ErrInvalidCredentials is returned when an email/password pair does not
// match a stored record, or when a presented refresh token does not match
// the stored fingerprint.  Handlers should translate this into HTTP 401.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken is returned when a token's signature cannot be verified or
// the token has expired.  Kept distinct from ErrInvalidCredentials so logs
// can tell a forged/stale token from a mismatched one.
var ErrInvalidToken = errors.New("invalid or expired token")

// ErrNoActiveSession is returned when a rotation finds no stored refresh
// fingerprint for the user, either because the session was revoked or
// because the token was already consumed by an earlier rotation.
var ErrNoActiveSession = errors.New("no active refresh token")

// ErrSecretMissing is returned when a token is requested but the relevant
// signing secret was never configured.
var ErrSecretMissing = errors.New("signing secret is not configured")
