package routes

import (
	"time"

	"github.com/companyportal/backend/internal/auth"
	"github.com/companyportal/backend/internal/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	registrationHandler *handlers.RegistrationHandler,
	authHandler *handlers.AuthHandler,
	accountHandler *handlers.AccountHandler,
	companyHandler *handlers.CompanyHandler,
	tokenManager *auth.TokenManager,
) {
	// Public routes - no authentication required
	router.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(30, 1*time.Minute))

		r.Post("/auth/register", registrationHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/send-otp", registrationHandler.SendOTP)
		r.Post("/verify-otp", authHandler.VerifyOTP)
		r.Post("/verify-registration-otp", registrationHandler.VerifyOTP)
		r.Post("/resend-otp", authHandler.ResendOTP)
		r.Post("/token/refresh", authHandler.Refresh)
	})

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(tokenManager))

		r.Get("/profile", accountHandler.GetProfile)
		r.Patch("/profile", accountHandler.UpdateProfile)
		r.Post("/auth/change-password", accountHandler.ChangePassword)
		r.Post("/auth/delete-account", accountHandler.DeleteAccount)

		r.Post("/company/register", companyHandler.Register)
		r.Get("/company/profile", companyHandler.GetProfile)
		r.Put("/company/profile", companyHandler.UpdateProfile)
		r.Patch("/company/profile", companyHandler.UpdateProfile)
		r.Post("/company/upload-logo", companyHandler.UploadLogo)
		r.Post("/company/upload-banner", companyHandler.UploadBanner)
	})
}
