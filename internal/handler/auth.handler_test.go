package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/achieveradarsh/hdnotebackend/internal/domain"
	"github.com/achieveradarsh/hdnotebackend/internal/service/otp"
	"github.com/achieveradarsh/hdnotebackend/internal/usecase"
	"github.com/achieveradarsh/hdnotebackend/pkg/jwtutil"
	"github.com/achieveradarsh/hdnotebackend/pkg/middleware"
	"github.com/achieveradarsh/hdnotebackend/pkg/response"
	xerrors "github.com/achieveradarsh/hdnotebackend/pkg/xerrors"
)

// In-memory stand-ins for the Postgres repositories and the SMTP mailer,
// so the HTTP surface can be exercised end to end.

type memUserRepo struct {
	users map[string]*domain.User
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, xerrors.ErrUserNotFound
}

func (r *memUserRepo) FindByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	for _, u := range r.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, xerrors.ErrUserNotFound
}

func (r *memUserRepo) FindByEmailOrGoogleID(ctx context.Context, email, googleID string) (*domain.User, error) {
	if u, err := r.FindByGoogleID(ctx, googleID); err == nil {
		return u, nil
	}
	return r.FindByEmail(ctx, email)
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, xerrors.ErrUserNotFound
}

func (r *memUserRepo) Create(_ context.Context, u *domain.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) Save(_ context.Context, u *domain.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

type memMailer struct {
	lastCode string
}

func (m *memMailer) SendOTP(_, code, _ string) error {
	m.lastCode = code
	return nil
}

func (m *memMailer) SendWelcome(_, _ string) error { return nil }

type memNoteRepo struct {
	notes map[string]*domain.Note
}

func (r *memNoteRepo) Create(_ context.Context, n *domain.Note) error {
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	cp := *n
	r.notes[n.ID] = &cp
	return nil
}

func (r *memNoteRepo) ListByUser(_ context.Context, userID string) ([]*domain.Note, error) {
	out := []*domain.Note{}
	for _, n := range r.notes {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memNoteRepo) GetByID(_ context.Context, id, userID string) (*domain.Note, error) {
	if n, ok := r.notes[id]; ok && n.UserID == userID {
		cp := *n
		return &cp, nil
	}
	return nil, xerrors.ErrNoteNotFound
}

func (r *memNoteRepo) Update(_ context.Context, n *domain.Note) error {
	n.UpdatedAt = time.Now()
	cp := *n
	r.notes[n.ID] = &cp
	return nil
}

func (r *memNoteRepo) Delete(_ context.Context, id, userID string) error {
	if n, ok := r.notes[id]; ok && n.UserID == userID {
		delete(r.notes, id)
		return nil
	}
	return xerrors.ErrNoteNotFound
}

type testApp struct {
	router chi.Router
	mailer *memMailer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	tokens, err := jwtutil.NewIssuer(jwtutil.Config{Secret: "test-secret", Issuer: "test", Audience: "test", TTL: time.Hour})
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}

	userRepo := &memUserRepo{users: map[string]*domain.User{}}
	noteRepo := &memNoteRepo{notes: map[string]*domain.Note{}}
	mail := &memMailer{}
	logger := zap.NewNop()

	authUC := usecase.NewAuthUsecase(userRepo, mail, otp.NewIssuer(6, 10*time.Minute), tokens, "client-id", logger)
	noteUC := usecase.NewNoteUsecase(noteRepo)

	authHandler := NewAuthHandler(authUC, 6, time.Hour, logger)
	noteHandler := NewNoteHandler(noteUC, logger)

	r := chi.NewRouter()
	r.Route("/api/v1", func(api chi.Router) {
		api.Post("/auth/signup", authHandler.Signup)
		api.Post("/auth/verify-otp", authHandler.VerifyOTP)
		api.Post("/auth/signin", authHandler.Signin)
		api.Post("/auth/signin/verify", authHandler.SigninVerify)
		api.Post("/auth/resend-otp", authHandler.ResendOTP)

		api.Group(func(priv chi.Router) {
			priv.Use(middleware.RequireAuth(tokens))
			priv.Get("/auth/me", authHandler.Me)
			priv.Route("/notes", func(n chi.Router) {
				n.Post("/", noteHandler.Create)
				n.Get("/", noteHandler.List)
				n.Get("/{id}", noteHandler.Get)
				n.Put("/{id}", noteHandler.Update)
				n.Delete("/{id}", noteHandler.Delete)
			})
		})
	})

	return &testApp{router: r, mailer: mail}
}

func (a *testApp) post(t *testing.T, path, token string, body interface{}) (*httptest.ResponseRecorder, response.APIResponse) {
	t.Helper()
	return a.do(t, http.MethodPost, path, token, body)
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, response.APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var parsed response.APIResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &parsed)
	return rec, parsed
}

func signupAndVerify(t *testing.T, app *testApp, email string) string {
	t.Helper()

	rec, _ := app.post(t, "/api/v1/auth/signup", "", map[string]string{"name": "A", "email": email})
	if rec.Code != http.StatusOK {
		t.Fatalf("signup status %d: %s", rec.Code, rec.Body.String())
	}

	rec, parsed := app.post(t, "/api/v1/auth/verify-otp", "", map[string]string{"email": email, "otp": app.mailer.lastCode})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status %d: %s", rec.Code, rec.Body.String())
	}

	data := parsed.Data.(map[string]interface{})
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatal("verify response missing token")
	}
	return token
}

func TestSignupVerifySigninFlow(t *testing.T) {
	app := newTestApp(t)
	signupAndVerify(t, app, "a@x.com")

	// Re-signup for a verified email is rejected.
	rec, parsed := app.post(t, "/api/v1/auth/signup", "", map[string]string{"name": "A", "email": "a@x.com"})
	if rec.Code != http.StatusBadRequest || parsed.Message != "User already exists" {
		t.Fatalf("dup signup: status %d message %q", rec.Code, parsed.Message)
	}

	// Signin issues a new code that mints a session.
	rec, _ = app.post(t, "/api/v1/auth/signin", "", map[string]string{"email": "a@x.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("signin status %d", rec.Code)
	}
	rec, _ = app.post(t, "/api/v1/auth/signin/verify", "", map[string]string{"email": "a@x.com", "otp": app.mailer.lastCode})
	if rec.Code != http.StatusOK {
		t.Fatalf("signin verify status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestVerifyOTPWrongCodeMessage(t *testing.T) {
	app := newTestApp(t)
	app.post(t, "/api/v1/auth/signup", "", map[string]string{"name": "A", "email": "a@x.com"})

	wrong := "000000"
	if wrong == app.mailer.lastCode {
		wrong = "000001"
	}
	rec, parsed := app.post(t, "/api/v1/auth/verify-otp", "", map[string]string{"email": "a@x.com", "otp": wrong})
	if rec.Code != http.StatusBadRequest || parsed.Message != "Invalid OTP" {
		t.Fatalf("status %d message %q", rec.Code, parsed.Message)
	}
}

func TestValidationRejectsBadPayloads(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		name string
		path string
		body map[string]string
	}{
		{"missing name", "/api/v1/auth/signup", map[string]string{"email": "a@x.com"}},
		{"bad email", "/api/v1/auth/signup", map[string]string{"name": "A", "email": "nope"}},
		{"short otp", "/api/v1/auth/verify-otp", map[string]string{"email": "a@x.com", "otp": "123"}},
		{"bad signin email", "/api/v1/auth/signin", map[string]string{"email": ""}},
	}
	for _, tc := range cases {
		rec, _ := app.post(t, tc.path, "", tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", tc.name, rec.Code)
		}
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	app := newTestApp(t)

	rec, _ := app.do(t, http.MethodGet, "/api/v1/notes/", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
	rec, _ = app.do(t, http.MethodGet, "/api/v1/auth/me", "garbage-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}

func TestNoteCRUDOverHTTP(t *testing.T) {
	app := newTestApp(t)
	token := signupAndVerify(t, app, "a@x.com")

	rec, parsed := app.post(t, "/api/v1/notes/", token, map[string]string{"title": "First", "description": "body"})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status %d: %s", rec.Code, rec.Body.String())
	}
	note := parsed.Data.(map[string]interface{})["note"].(map[string]interface{})
	noteID, _ := note["id"].(string)
	if noteID == "" {
		t.Fatal("create response missing note id")
	}

	rec, parsed = app.do(t, http.MethodGet, "/api/v1/notes/", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status %d", rec.Code)
	}
	notes := parsed.Data.(map[string]interface{})["notes"].([]interface{})
	if len(notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(notes))
	}

	rec, _ = app.do(t, http.MethodPut, "/api/v1/notes/"+noteID, token, map[string]string{"title": "Renamed", "description": "body"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status %d", rec.Code)
	}

	rec, _ = app.do(t, http.MethodDelete, "/api/v1/notes/"+noteID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status %d", rec.Code)
	}
	rec, _ = app.do(t, http.MethodGet, "/api/v1/notes/"+noteID, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted status %d, want 404", rec.Code)
	}
}

func TestNotesAreOwnerScoped(t *testing.T) {
	app := newTestApp(t)
	tokenA := signupAndVerify(t, app, "a@x.com")
	tokenB := signupAndVerify(t, app, "b@x.com")

	_, parsed := app.post(t, "/api/v1/notes/", tokenA, map[string]string{"title": "Private", "description": ""})
	noteID := parsed.Data.(map[string]interface{})["note"].(map[string]interface{})["id"].(string)

	rec, _ := app.do(t, http.MethodGet, "/api/v1/notes/"+noteID, tokenB, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("cross-user read status %d, want 404", rec.Code)
	}
}

func TestMeReturnsPublicProjection(t *testing.T) {
	app := newTestApp(t)
	token := signupAndVerify(t, app, "a@x.com")

	rec, parsed := app.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status %d", rec.Code)
	}
	user := parsed.Data.(map[string]interface{})["user"].(map[string]interface{})
	if user["email"] != "a@x.com" {
		t.Errorf("email = %v", user["email"])
	}
	for _, secret := range []string{"otp", "otpExpires", "Challenge", "googleId"} {
		if _, ok := user[secret]; ok {
			t.Errorf("public profile leaked field %q", secret)
		}
	}
}
