package handler

import (
	"net/http"

	"social-scheduler/internal/model"
	"social-scheduler/internal/security"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRoutes : публичные маршруты аутентификации, защищенные /me и /admin, swagger.
// authenticate - это security.JWTMiddleware, собранный в cmd.
func SetupRoutes(r chi.Router, authHandler *AuthenticationHandler, userHandler *UserHandler, authenticate func(http.Handler) http.Handler, allowedOrigins []string) {
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	SetupAuthRoutes(r, authHandler, authenticate)
	SetupAdminRoutes(r, userHandler, authenticate)
}

func SetupAuthRoutes(r chi.Router, h *AuthenticationHandler, authenticate func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Post("/refresh", h.Refresh)
		r.Get("/verify-email/{token}", h.VerifyEmail)
		r.Post("/resend-verification-email", h.ResendVerificationEmail)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password/{token}", h.ResetPassword)
		r.Get("/verify-reset-token/{token}", h.VerifyResetToken)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/me", h.Me)
	})
}

func SetupAdminRoutes(r chi.Router, h *UserHandler, authenticate func(http.Handler) http.Handler) {
	r.Route("/admin/users", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(security.RequireRole(model.RoleAdmin, model.RoleSuperadmin))

		r.With(security.RequirePermission(model.PermissionUsersRead)).Get("/", h.ListUsers)
		r.With(security.RequirePermission(model.PermissionUsersCreate)).Post("/", h.CreateUser)

		r.Route("/{userId}", func(r chi.Router) {
			r.With(security.RequirePermission(model.PermissionUsersRead)).Get("/", h.GetUser)
			r.With(security.RequirePermission(model.PermissionUsersUpdate)).Put("/", h.UpdateUser)
			r.With(security.RequirePermission(model.PermissionUsersDelete)).Delete("/", h.DeleteUser)
		})
	})
}
