package domain

import "time"

// User is the stored identity and credential state for a single account.
// Username and Email are unique across all records; the store enforces this.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // base64(salt || pbkdf2 key), see pkg/cryptox
	Role         string

	// Refresh state, rotated on every successful login or refresh.
	RefreshToken          string
	RefreshTokenExpiresAt *time.Time

	// Reset state, set on reset-request and cleared on successful completion.
	ResetToken          string
	ResetTokenExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicUser is the externally visible projection of a User. Credential and
// token fields never leave the service.
type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns the redacted projection of u.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
