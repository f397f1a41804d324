package domain

import "time"

// Auth providers. An identity created through OTP signup carries
// ProviderEmail; one created or linked through Google sign-in carries
// ProviderGoogle and is verified from the start.
const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

// OTPChallenge is the outstanding one-time code for an identity. Code and
// expiry always travel together: either the whole challenge is present or
// the identity has none.
type OTPChallenge struct {
	Code      string
	ExpiresAt time.Time
}

// Expired reports whether the challenge is no longer valid at now.
// Validity is strict: the code is usable only before ExpiresAt.
func (c OTPChallenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

type User struct {
	ID              string
	Name            string
	Email           string
	DateOfBirth     *string
	Avatar          *string
	AuthProvider    string
	GoogleID        *string
	IsEmailVerified bool
	Challenge       *OTPChallenge
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PublicProfile is the projection of a User that is safe to return to
// clients. OTP state and provider identifiers never leave the server.
type PublicProfile struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	DateOfBirth  *string `json:"dateOfBirth,omitempty"`
	Avatar       *string `json:"avatar,omitempty"`
	AuthProvider string  `json:"authProvider"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		DateOfBirth:  u.DateOfBirth,
		Avatar:       u.Avatar,
		AuthProvider: u.AuthProvider,
	}
}
