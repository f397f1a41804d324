package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/achieveradarsh/hdnotebackend/pkg/utils"
)

// Request schemas. Each Validate normalizes the payload in place and
// returns a human-readable error on the first failed rule.

type SignupRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	DateOfBirth *string `json:"dateOfBirth,omitempty"`
}

func (r *SignupRequest) Validate(otpDigits int) error {
	r.Name = strings.TrimSpace(r.Name)
	if !utils.ValidateName(r.Name) {
		return errors.New("name is required")
	}
	if !utils.ValidateEmail(r.Email) {
		return errors.New("a valid email is required")
	}
	r.Email = utils.NormalizeEmail(r.Email)
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		if !utils.ValidateDateOfBirth(*r.DateOfBirth) {
			return errors.New("dateOfBirth must be a past YYYY-MM-DD date")
		}
	} else {
		r.DateOfBirth = nil
	}
	return nil
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (r *VerifyOTPRequest) Validate(otpDigits int) error {
	if !utils.ValidateEmail(r.Email) {
		return errors.New("a valid email is required")
	}
	r.Email = utils.NormalizeEmail(r.Email)
	if !utils.ValidateOTP(r.OTP, otpDigits) {
		return fmt.Errorf("otp must be a %d-digit code", otpDigits)
	}
	return nil
}

type SigninRequest struct {
	Email string `json:"email"`
}

func (r *SigninRequest) Validate() error {
	if !utils.ValidateEmail(r.Email) {
		return errors.New("a valid email is required")
	}
	r.Email = utils.NormalizeEmail(r.Email)
	return nil
}

type ResendOTPRequest struct {
	Email string `json:"email"`
}

func (r *ResendOTPRequest) Validate() error {
	if !utils.ValidateEmail(r.Email) {
		return errors.New("a valid email is required")
	}
	r.Email = utils.NormalizeEmail(r.Email)
	return nil
}

type GoogleLoginRequest struct {
	IDToken string `json:"idToken"`
}

func (r *GoogleLoginRequest) Validate() error {
	r.IDToken = strings.TrimSpace(r.IDToken)
	if r.IDToken == "" {
		return errors.New("idToken is required")
	}
	return nil
}

type NoteRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (r *NoteRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return errors.New("title is required")
	}
	if len(r.Title) > 200 {
		return errors.New("title must not exceed 200 characters")
	}
	return nil
}
