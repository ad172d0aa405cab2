package model

import "time"

// Identity is the claim payload embedded in every issued token.  It is
// immutable once signed into a token; anything else the caller needs
// (username, profile) is loaded from the store, never trusted from a token.
//
// Fields:
//  ID    – primary key identifier of the user.
//  Email – unique email address.
type Identity struct {
    ID    uint64 `json:"id"`    // users.id
    Email string `json:"email"` // users.email
}

// User represents an application user record as stored in the `users` table.
// Each field corresponds to a column in the database.  The json tags are
// omitted here because these structs are primarily used internally by the
// repository layer; handlers define separate response types with appropriate
// JSON tags so that PasswordHash and RefreshTokenHash can never leak.
//
// RefreshTokenHash is nil unless a login or rotation issued a refresh token
// that has not yet been consumed or revoked.  It holds the hash of exactly
// one currently-valid refresh token, never the raw token.
//
// Fields:
//  ID               – primary key identifier of the user.
//  Email            – unique email address.
//  Username         – display name chosen at signup.
//  PasswordHash     – bcrypt hashed password.
//  RefreshTokenHash – bcrypt fingerprint of the live refresh token (nullable).
//  UserInfoID       – foreign key into the user_info table.
//  CreatedAt        – timestamp of creation.
//  UpdatedAt        – timestamp of last update.
type User struct {
    ID               uint64    // users.id
    Email            string    // users.email
    Username         string    // users.username
    PasswordHash     string    // users.password_hash
    RefreshTokenHash *string   // users.refresh_token_hash (nullable)
    UserInfoID       uint64    // users.user_info_id (references user_info.id)
    CreatedAt        time.Time // users.created_at
    UpdatedAt        time.Time // users.updated_at
}

// Identity projects the token claim payload out of a stored record.
func (u *User) Identity() Identity {
    return Identity{ID: u.ID, Email: u.Email}
}

// UserInfo models a row in the `user_info` table.  A row is created empty at
// signup and filled in later through profile updates.
//
// Fields:
//  ID      – primary key identifier.
//  Address – free-form postal address (nullable).
//  Photo   – public URL of the uploaded profile photo (nullable).
type UserInfo struct {
    ID      uint64  `json:"id"`      // user_info.id
    Address *string `json:"address"` // user_info.address (nullable)
    Photo   *string `json:"photo"`   // user_info.photo (nullable)
}
