package oauth2svc

import (
	"context"

	"google.golang.org/api/idtoken"
)

type GoogleUser struct {
	Sub     string // Google unique user ID
	Email   string
	Name    string
	Picture string
}

// VerifyGoogleToken validates a Google-issued ID token against the
// configured client ID and extracts the profile claims the auth flow needs.
func VerifyGoogleToken(ctx context.Context, token, clientID string) (*GoogleUser, error) {
	payload, err := idtoken.Validate(ctx, token, clientID)
	if err != nil {
		return nil, err
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	sub, _ := payload.Claims["sub"].(string)

	return &GoogleUser{
		Sub:     sub,
		Email:   email,
		Name:    name,
		Picture: picture,
	}, nil
}
