package jwtutil

import (
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		Secret:   "test-secret",
		Issuer:   "hdnotebackend",
		Audience: "hdnotes-web",
		TTL:      time.Hour,
	}
}

func TestSignVerifyRoundtrip(t *testing.T) {
	iss, err := NewIssuer(testConfig())
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	token, err := iss.Sign("user-1")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := iss.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("uid = %q, want user-1", claims.UserID)
	}
}

func TestMissingSecretIsFatalAtConstruction(t *testing.T) {
	cfg := testConfig()
	cfg.Secret = ""
	if _, err := NewIssuer(cfg); err != ErrMissingSecret {
		t.Fatalf("err = %v, want ErrMissingSecret", err)
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	iss, _ := NewIssuer(testConfig())

	other := testConfig()
	other.Secret = "different-secret"
	otherIss, _ := NewIssuer(other)

	token, _ := otherIss.Sign("user-1")
	if _, err := iss.Verify(token); err == nil {
		t.Fatal("token signed with a different secret must not verify")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	iss, _ := NewIssuer(testConfig())
	if _, err := iss.Verify("not.a.jwt"); err == nil {
		t.Fatal("garbage token must not verify")
	}
}
