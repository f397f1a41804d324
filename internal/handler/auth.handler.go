package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/achieveradarsh/hdnotebackend/internal/domain"
	"github.com/achieveradarsh/hdnotebackend/internal/usecase"
	"github.com/achieveradarsh/hdnotebackend/pkg/middleware"
	"github.com/achieveradarsh/hdnotebackend/pkg/response"
	xerrors "github.com/achieveradarsh/hdnotebackend/pkg/xerrors"
)

type AuthHandler struct {
	uc        *usecase.AuthUsecase
	otpDigits int
	tokenTTL  time.Duration
	logger    *zap.Logger
}

func NewAuthHandler(uc *usecase.AuthUsecase, otpDigits int, tokenTTL time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, otpDigits: otpDigits, tokenTTL: tokenTTL, logger: logger}
}

func (h *AuthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(h.otpDigits); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.uc.Signup(r.Context(), req.Name, req.Email, req.DateOfBirth); err != nil {
		h.writeAuthError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{
		"message": "OTP sent to your email",
		"email":   req.Email,
	})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(h.otpDigits); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.uc.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	response.JSON(w, http.StatusOK, sessionPayload(user, token))
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.uc.Signin(r.Context(), req.Email); err != nil {
		h.writeAuthError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{
		"message": "OTP sent to your email",
		"email":   req.Email,
	})
}

func (h *AuthHandler) SigninVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(h.otpDigits); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.uc.SigninVerify(r.Context(), req.Email, req.OTP)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	response.JSON(w, http.StatusOK, sessionPayload(user, token))
}

func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req ResendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.uc.ResendOTP(r.Context(), req.Email); err != nil {
		h.writeAuthError(w, err)
		return
	}

	response.Message(w, http.StatusOK, "OTP resent to your email")
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.uc.GoogleLogin(r.Context(), req.IDToken)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	response.JSON(w, http.StatusOK, sessionPayload(user, token))
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextUserID).(string)
	if !ok || userID == "" {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.uc.GetUserByID(r.Context(), userID)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"user": user.Public()})
}

func sessionPayload(user *domain.User, token string) map[string]interface{} {
	return map[string]interface{}{
		"token": token,
		"user":  user.Public(),
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// writeAuthError maps business rejections to 400 with their distinct
// messages; anything else is an unexpected dependency failure that gets
// logged and surfaced as a generic 500.
func (h *AuthHandler) writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, xerrors.ErrUserAlreadyExists):
		response.Error(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, xerrors.ErrUserNotFound):
		response.Error(w, http.StatusBadRequest, "User not found")
	case errors.Is(err, xerrors.ErrInvalidOTP):
		response.Error(w, http.StatusBadRequest, "Invalid OTP")
	case errors.Is(err, xerrors.ErrExpiredOTP):
		response.Error(w, http.StatusBadRequest, "OTP has expired")
	case errors.Is(err, xerrors.ErrWrongAuthProvider):
		response.Error(w, http.StatusBadRequest, "This account uses Google sign-in. Please sign in with Google.")
	case errors.Is(err, xerrors.ErrEmailNotVerified):
		response.Error(w, http.StatusBadRequest, "Email not verified. Please complete signup first.")
	case errors.Is(err, xerrors.ErrInvalidGoogleToken):
		response.Error(w, http.StatusBadRequest, "Invalid Google token")
	default:
		h.logger.Error("auth request failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}
