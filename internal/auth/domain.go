package auth

import (
	"time"

	"github.com/verda-api/verda/internal/shared"
)

// Principal represents a registered account. It never carries the password hash.
type Principal struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      shared.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Credential pairs a principal with its password hash. It only travels
// between the repository and the login flow.
type Credential struct {
	Principal
	PasswordHash string
}

// CreateParams describes a new principal. PasswordHash must already be a digest.
type CreateParams struct {
	Name         string
	Email        string
	PasswordHash string
	Role         shared.Role
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Principal Principal
}
