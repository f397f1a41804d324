package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/achieveradarsh/hdnotebackend/internal/domain"
	oauth2svc "github.com/achieveradarsh/hdnotebackend/internal/service/oauth2"
	xerrors "github.com/achieveradarsh/hdnotebackend/pkg/xerrors"
)

// UserRepository is the identity store contract the auth flow runs
// against. Save is a full-record write of the flow-owned fields.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	FindByEmailOrGoogleID(ctx context.Context, email, googleID string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Save(ctx context.Context, u *domain.User) error
}

// Mailer dispatches auth notifications. Calls are synchronous: the flow
// waits for the outcome and reports a failed dispatch as a failed request.
type Mailer interface {
	SendOTP(email, code, name string) error
	SendWelcome(email, name string) error
}

type OTPIssuer interface {
	Issue() (code string, expiresAt time.Time)
}

type TokenIssuer interface {
	Sign(userID string) (string, error)
}

type AuthUsecase struct {
	userRepo UserRepository
	mailer   Mailer
	otp      OTPIssuer
	tokens   TokenIssuer
	logger   *zap.Logger

	googleClientID string

	// Overridable in tests.
	now          func() time.Time
	verifyGoogle func(ctx context.Context, token, clientID string) (*oauth2svc.GoogleUser, error)
}

func NewAuthUsecase(
	userRepo UserRepository,
	mailer Mailer,
	otp OTPIssuer,
	tokens TokenIssuer,
	googleClientID string,
	logger *zap.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:       userRepo,
		mailer:         mailer,
		otp:            otp,
		tokens:         tokens,
		googleClientID: googleClientID,
		logger:         logger,
		now:            time.Now,
		verifyGoogle:   oauth2svc.VerifyGoogleToken,
	}
}

// Signup starts (or restarts) registration for an email address. A
// verified identity blocks the email; an unverified one is updated in
// place with the new name, date of birth, and a fresh OTP challenge.
func (uc *AuthUsecase) Signup(ctx context.Context, name, email string, dateOfBirth *string) error {
	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil && err != xerrors.ErrUserNotFound {
		return fmt.Errorf("lookup user: %w", err)
	}
	if user != nil && user.IsEmailVerified {
		return xerrors.ErrUserAlreadyExists
	}

	code, expiresAt := uc.otp.Issue()
	challenge := &domain.OTPChallenge{Code: code, ExpiresAt: expiresAt}

	if user != nil {
		// Re-signup before verification: the profile fields are still
		// mutable and the old code is superseded.
		user.Name = name
		user.DateOfBirth = dateOfBirth
		user.Challenge = challenge
		if err := uc.userRepo.Save(ctx, user); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
	} else {
		user = &domain.User{
			ID:           uuid.New().String(),
			Name:         name,
			Email:        email,
			DateOfBirth:  dateOfBirth,
			AuthProvider: domain.ProviderEmail,
			Challenge:    challenge,
		}
		if err := uc.userRepo.Create(ctx, user); err != nil {
			if err == xerrors.ErrUserAlreadyExists {
				return err
			}
			return fmt.Errorf("create user: %w", err)
		}
	}

	if err := uc.mailer.SendOTP(user.Email, code, user.Name); err != nil {
		// The challenge is already persisted; surfacing the dispatch
		// failure here is the accepted inconsistency window.
		return fmt.Errorf("dispatch otp email: %w", err)
	}
	return nil
}

// VerifyOTP completes signup. The code must match before expiry is even
// considered, and nothing is written unless both checks pass, so a failed
// attempt leaves the stored challenge intact.
func (uc *AuthUsecase) VerifyOTP(ctx context.Context, email, code string) (*domain.User, string, error) {
	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == xerrors.ErrUserNotFound {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	if user.Challenge == nil || user.Challenge.Code != code {
		return nil, "", xerrors.ErrInvalidOTP
	}
	if user.Challenge.Expired(uc.now()) {
		return nil, "", xerrors.ErrExpiredOTP
	}

	user.Challenge = nil
	user.IsEmailVerified = true
	if err := uc.userRepo.Save(ctx, user); err != nil {
		return nil, "", fmt.Errorf("save user: %w", err)
	}

	if err := uc.mailer.SendWelcome(user.Email, user.Name); err != nil {
		return nil, "", fmt.Errorf("dispatch welcome email: %w", err)
	}

	token, err := uc.tokens.Sign(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return user, token, nil
}

// Signin issues a fresh OTP challenge for a verified email identity.
func (uc *AuthUsecase) Signin(ctx context.Context, email string) error {
	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == xerrors.ErrUserNotFound {
			return err
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if user.AuthProvider != domain.ProviderEmail {
		return xerrors.ErrWrongAuthProvider
	}
	if !user.IsEmailVerified {
		return xerrors.ErrEmailNotVerified
	}

	code, expiresAt := uc.otp.Issue()
	user.Challenge = &domain.OTPChallenge{Code: code, ExpiresAt: expiresAt}
	if err := uc.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	if err := uc.mailer.SendOTP(user.Email, code, user.Name); err != nil {
		return fmt.Errorf("dispatch otp email: %w", err)
	}
	return nil
}

// SigninVerify consumes a signin challenge and mints a session token.
// Unlike VerifyOTP it neither flips the verification flag nor sends a
// welcome mail.
func (uc *AuthUsecase) SigninVerify(ctx context.Context, email, code string) (*domain.User, string, error) {
	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == xerrors.ErrUserNotFound {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	if user.Challenge == nil || user.Challenge.Code != code {
		return nil, "", xerrors.ErrInvalidOTP
	}
	if user.Challenge.Expired(uc.now()) {
		return nil, "", xerrors.ErrExpiredOTP
	}

	user.Challenge = nil
	if err := uc.userRepo.Save(ctx, user); err != nil {
		return nil, "", fmt.Errorf("save user: %w", err)
	}

	token, err := uc.tokens.Sign(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return user, token, nil
}

// ResendOTP rotates the outstanding code for any known identity. There is
// deliberately no verified-state check here: an unverified signup may ask
// for its code again.
func (uc *AuthUsecase) ResendOTP(ctx context.Context, email string) error {
	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == xerrors.ErrUserNotFound {
			return err
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	code, expiresAt := uc.otp.Issue()
	user.Challenge = &domain.OTPChallenge{Code: code, ExpiresAt: expiresAt}
	if err := uc.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	if err := uc.mailer.SendOTP(user.Email, code, user.Name); err != nil {
		return fmt.Errorf("dispatch otp email: %w", err)
	}
	return nil
}

// GoogleLogin verifies a Google ID token and resolves it to an identity:
// an existing row (by Google id, then email) gets the Google id and avatar
// attached when missing; otherwise a new, already-verified identity is
// created. Idempotent on the Google subject id.
func (uc *AuthUsecase) GoogleLogin(ctx context.Context, idToken string) (*domain.User, string, error) {
	gu, err := uc.verifyGoogle(ctx, idToken, uc.googleClientID)
	if err != nil {
		uc.logger.Warn("google token rejected", zap.Error(err))
		return nil, "", xerrors.ErrInvalidGoogleToken
	}

	user, err := uc.userRepo.FindByEmailOrGoogleID(ctx, gu.Email, gu.Sub)
	if err != nil && err != xerrors.ErrUserNotFound {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	if user != nil {
		changed := false
		if user.GoogleID == nil {
			sub := gu.Sub
			user.GoogleID = &sub
			changed = true
		}
		if user.Avatar == nil && gu.Picture != "" {
			pic := gu.Picture
			user.Avatar = &pic
			changed = true
		}
		if changed {
			if err := uc.userRepo.Save(ctx, user); err != nil {
				return nil, "", fmt.Errorf("save user: %w", err)
			}
		}
	} else {
		sub := gu.Sub
		user = &domain.User{
			ID:              uuid.New().String(),
			Name:            gu.Name,
			Email:           gu.Email,
			AuthProvider:    domain.ProviderGoogle,
			GoogleID:        &sub,
			IsEmailVerified: true,
		}
		if gu.Picture != "" {
			pic := gu.Picture
			user.Avatar = &pic
		}
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return nil, "", fmt.Errorf("create user: %w", err)
		}

		if err := uc.mailer.SendWelcome(user.Email, user.Name); err != nil {
			return nil, "", fmt.Errorf("dispatch welcome email: %w", err)
		}
	}

	token, err := uc.tokens.Sign(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return user, token, nil
}

// GetUserByID backs the session profile endpoint.
func (uc *AuthUsecase) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return uc.userRepo.FindByID(ctx, id)
}
