package model

import "time"

// Role names form a closed set with a total order: readonly < user < admin.
// An action that requires "user" is therefore also permitted for "admin".
// Comparison happens through RoleRank at the authorization boundary; handlers
// never branch on the raw string.
const (
	RoleReadonly = "readonly"
	RoleUser     = "user"
	RoleAdmin    = "admin"
)

// roleRanks maps each role to its position in the ladder.  Unknown roles map
// to -1 so they never satisfy any requirement.
var roleRanks = map[string]int{
	RoleReadonly: 0,
	RoleUser:     1,
	RoleAdmin:    2,
}

// RoleRank returns the position of the role in the ladder, or -1 when the
// role is not one of the closed set.
func RoleRank(role string) int {
	if r, ok := roleRanks[role]; ok {
		return r
	}
	return -1
}

// ValidRole reports whether role belongs to the closed set.
func ValidRole(role string) bool { return RoleRank(role) >= 0 }

// RoleAtLeast reports whether role satisfies the required minimum role.
func RoleAtLeast(role, required string) bool {
	r := RoleRank(role)
	return r >= 0 && r >= RoleRank(required)
}

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  The json
// tags are omitted here because these structs are primarily used internally
// by the repository layer; handlers define separate response types with
// appropriate JSON tags.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique login name.
//	Email        – unique email address.
//	PasswordHash – bcrypt hashed password.
//	Salt         – bcrypt salt prefix, stored for schema compatibility; the
//	               hash already embeds it and verification uses only the hash.
//	Role         – one of readonly/user/admin.
//	IsActive     – whether the account may log in.
//	CreatedAt    – timestamp of creation.
//	LastLogin    – last successful authentication (nil before first login).
type User struct {
	ID           uint64     // users.id
	Username     string     // users.username
	Email        string     // users.email
	PasswordHash string     // users.password_hash
	Salt         string     // users.salt
	Role         string     // users.role
	IsActive     bool       // users.is_active
	CreatedAt    time.Time  // users.created_at
	LastLogin    *time.Time // users.last_login (nullable)
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each refresh
// token belongs to a user and contains metadata for expiry and revocation.
// The plain token is not stored; only its SHA‑256 hash.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – owner of the token.
//	TokenHash – SHA‑256 hex digest of the token value.
//	ExpiresAt – expiration timestamp of the token.
//	RevokedAt – when the token was revoked (null if still active).
//	CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
