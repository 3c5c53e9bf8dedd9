package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// AuthSource represents the authentication source for a user account.
type AuthSource string

const (
	// AuthSourceLocal indicates the user authenticates with a local database password.
	AuthSourceLocal AuthSource = "local"
	// AuthSourceOIDC indicates the account was last used through the OpenID Connect provider.
	// Accounts are never created by the provider, they are matched by email.
	AuthSourceOIDC AuthSource = "oidc"
)

// User represents an admin panel account. Deleting an account removes the
// row, so its username and email can be reused; audit entries keep the id.
// Role holds the raw stored role string. It is normalized into an rbac.Role
// once per request by the actor middleware, so unknown values behave like VIEWER.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Active indicates whether the user account is active and can log in.
	Active bool `json:"active"`
	// Username is the unique username for login.
	Username string `gorm:"uniqueIndex;size:100;not null" json:"username"`
	// Email is the user's email address, also used to match OIDC identities.
	Email string `gorm:"size:255;not null;index" json:"email"`
	// Password is the Argon2id hashed password. It never leaves the server.
	Password string `gorm:"size:255" json:"-"`
	// FirstName is the user's first or given name.
	FirstName string `gorm:"size:100" json:"firstName"`
	// LastName is the user's last or family name.
	LastName string `gorm:"size:100" json:"lastName"`
	// Role is the stored role string (SUPER_ADMIN, ADMIN, EDITOR, MODERATOR, VIEWER).
	Role string `gorm:"size:20;not null;default:'VIEWER'" json:"role"`
	// AuthSource records how this user last authenticated.
	AuthSource AuthSource `gorm:"type:varchar(20);not null;default:'local'" json:"authSource"`
	// LastLoginAt is set on every successful login.
	LastLoginAt *time.Time `json:"lastLoginAt"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// GetID implements Entity.
func (u *User) GetID() uint64 {
	return u.ID
}

// AuditName implements Entity.
func (u *User) AuditName() string {
	return u.Username
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// SetPassword hashes password and stores the hash on u.
func (u *User) SetPassword(password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	u.Password = hash

	return nil
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison. Returns true if the password matches, false otherwise.
func (u *User) VerifyPassword(password string) bool {
	if u.Password == "" {
		return false
	}

	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Uint64("user", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}
