package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mvalle/auth-api/internal/core/ports"
)

func NewHandler(authService ports.AuthService, userService ports.UserService) http.Handler {
	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService, authService)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/password-recovery", authHandler.RecoverPassword)
			r.Post("/reset-password", authHandler.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(Authenticator(authService), RequireActive)
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(Authenticator(authService), RequireActive)
			r.Get("/", userHandler.List)
			r.Get("/me", userHandler.GetMe)
			r.Put("/me", userHandler.UpdateMe)
			r.Put("/me/password", userHandler.ChangePassword)
			r.Get("/{id}", userHandler.GetByID)
			r.Put("/{id}", userHandler.UpdateByID)
			r.Delete("/{id}", userHandler.DeleteByID)
		})
	})

	return r
}
