package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/achieveradarsh/hdnotebackend/internal/config"
	"github.com/achieveradarsh/hdnotebackend/internal/handler"
	"github.com/achieveradarsh/hdnotebackend/internal/repository"
	"github.com/achieveradarsh/hdnotebackend/internal/router"
	"github.com/achieveradarsh/hdnotebackend/internal/service/mailer"
	"github.com/achieveradarsh/hdnotebackend/internal/service/otp"
	"github.com/achieveradarsh/hdnotebackend/internal/usecase"
	"github.com/achieveradarsh/hdnotebackend/pkg/jwtutil"
)

// NewServer wires storage, services, usecases, and handlers into an HTTP
// server. A missing JWT secret is fatal misconfiguration, reported here
// and never as a per-request failure.
func NewServer(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) (*http.Server, func(), error) {
	db, err := config.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})

	tokens, err := jwtutil.NewIssuer(jwtutil.Config{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.JWTTTL,
	})
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	otpIssuer := otp.NewIssuer(cfg.OTPDigits, cfg.OTPTTL)
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP, logger)

	authUC := usecase.NewAuthUsecase(userRepo, smtpMailer, otpIssuer, tokens, cfg.GoogleClientID, logger)
	noteUC := usecase.NewNoteUsecase(noteRepo)

	authHandler := handler.NewAuthHandler(authUC, cfg.OTPDigits, cfg.JWTTTL, logger)
	noteHandler := handler.NewNoteHandler(noteUC, logger)

	r := chi.NewRouter()
	router.SetupRoutes(r, authHandler, noteHandler, tokens, rdb, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	cleanup := func() {
		db.Close()
		_ = rdb.Close()
	}
	return srv, cleanup, nil
}
