package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/achieveradarsh/hdnotebackend/internal/handler"
	"github.com/achieveradarsh/hdnotebackend/pkg/jwtutil"
	"github.com/achieveradarsh/hdnotebackend/pkg/middleware"
)

// SetupRoutes mounts the auth and note surfaces. The CORS allow-list is
// fixed configuration handed in at startup; handlers never modify it.
func SetupRoutes(
	r chi.Router,
	authHandler *handler.AuthHandler,
	noteHandler *handler.NoteHandler,
	tokens *jwtutil.Issuer,
	rdb *redis.Client,
	allowedOrigins []string,
) chi.Router {
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(api chi.Router) {
		// ---------------- Public auth ----------------
		api.Group(func(pub chi.Router) {
			pub.Use(middleware.RateLimiter(rdb, 10, time.Minute, time.Minute, "auth_public"))

			pub.Get("/auth/health", authHandler.Health)
			pub.Post("/auth/signup", authHandler.Signup)
			pub.Post("/auth/verify-otp", authHandler.VerifyOTP)
			pub.Post("/auth/signin", authHandler.Signin)
			pub.Post("/auth/signin/verify", authHandler.SigninVerify)
			pub.Post("/auth/resend-otp", authHandler.ResendOTP)
			pub.Post("/auth/google", authHandler.GoogleLogin)
		})

		// ---------------- Authenticated ----------------
		api.Group(func(priv chi.Router) {
			priv.Use(middleware.RequireAuth(tokens))
			priv.Use(middleware.RateLimiter(rdb, 120, time.Minute, time.Minute, "user_api"))

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

	return r
}
