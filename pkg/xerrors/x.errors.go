package xerrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

func ParsePGErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code // e.g. 23505 for unique_violation
	}
	return "unknown"
}

// Generic
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternalServer = errors.New("internal server error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not found")
)

// Signup / Signin
var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailNotVerified  = errors.New("email not verified")

	// Returned when an OTP signin is attempted against a Google-linked
	// account. The handler surfaces a provider-specific message.
	ErrWrongAuthProvider = errors.New("account uses a different sign-in method")
)

// OTP
var (
	ErrInvalidOTP = errors.New("invalid otp")
	ErrExpiredOTP = errors.New("otp has expired")
)

// Social auth
var (
	ErrInvalidGoogleToken = errors.New("invalid google token")
)

// Notes
var (
	ErrNoteNotFound = errors.New("note not found")
)
