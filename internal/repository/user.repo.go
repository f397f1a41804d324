package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/achieveradarsh/hdnotebackend/internal/domain"
	xerrors "github.com/achieveradarsh/hdnotebackend/pkg/xerrors"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, date_of_birth, avatar, auth_provider, google_id, is_email_verified, otp_code, otp_expires_at, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	u := new(domain.User)
	var otpCode *string
	var otpExpires *time.Time

	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.DateOfBirth, &u.Avatar,
		&u.AuthProvider, &u.GoogleID, &u.IsEmailVerified,
		&otpCode, &otpExpires, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrUserNotFound
		}
		return nil, err
	}

	if otpCode != nil && otpExpires != nil {
		u.Challenge = &domain.OTPChallenge{Code: *otpCode, ExpiresAt: *otpExpires}
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) FindByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID)
	return scanUser(row)
}

// FindByEmailOrGoogleID prefers the provider match when both keys would
// resolve, so a linked account is never shadowed by a plain email row.
func (r *UserRepository) FindByEmailOrGoogleID(ctx context.Context, email, googleID string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE google_id = $2 OR email = $1
		 ORDER BY (google_id = $2) DESC NULLS LAST
		 LIMIT 1`, email, googleID)
	return scanUser(row)
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	var otpCode *string
	var otpExpires *time.Time
	if u.Challenge != nil {
		otpCode = &u.Challenge.Code
		otpExpires = &u.Challenge.ExpiresAt
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO users (id, name, email, date_of_birth, avatar, auth_provider, google_id, is_email_verified, otp_code, otp_expires_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at`,
		u.ID, u.Name, u.Email, u.DateOfBirth, u.Avatar,
		u.AuthProvider, u.GoogleID, u.IsEmailVerified, otpCode, otpExpires,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if xerrors.ParsePGErrorCode(err) == "23505" {
			return xerrors.ErrUserAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Save writes back every flow-owned field of the record. OTP code and
// expiry are written from the challenge as a pair, or both NULL when no
// challenge is outstanding.
func (r *UserRepository) Save(ctx context.Context, u *domain.User) error {
	var otpCode *string
	var otpExpires *time.Time
	if u.Challenge != nil {
		otpCode = &u.Challenge.Code
		otpExpires = &u.Challenge.ExpiresAt
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET name = $2, date_of_birth = $3, avatar = $4, auth_provider = $5,
		    google_id = $6, is_email_verified = $7, otp_code = $8,
		    otp_expires_at = $9, updated_at = now()
		WHERE id = $1`,
		u.ID, u.Name, u.DateOfBirth, u.Avatar, u.AuthProvider,
		u.GoogleID, u.IsEmailVerified, otpCode, otpExpires,
	)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}
