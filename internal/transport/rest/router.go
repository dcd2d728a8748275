package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/api"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/department"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/ocr"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/token"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/transport/middleware"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/transport/swagger"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/user"
	"github.com/go-chi/chi"
)

// Handlers groups the domain handlers mounted by RegisterAllRoutes. A nil
// handler leaves its routes unregistered.
type Handlers struct {
	Department *department.Handler
	Token      *token.Handler
	User       *user.Handler
	OCR        *ocr.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, handlers Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORS(allowedOrigins))

	router.Get("/health", healthHandler.HealthCheck)
	router.Get("/ping", healthHandler.Ping)

	router.Get(swagger.DocURL, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(api.Document())
	})
	router.Handle("/swagger/*", swagger.Handler())

	if h := handlers.Department; h != nil {
		router.Route("/departments", func(r chi.Router) {
			r.Get("/", h.ListDepartments)
			r.Post("/", h.CreateDepartment)
			r.Get("/{id}", h.GetDepartment)
			r.Put("/{id}", h.UpdateDepartment)
			r.Delete("/{id}", h.DeleteDepartment)
		})
	}

	if h := handlers.Token; h != nil {
		router.Route("/tokens", func(r chi.Router) {
			r.Get("/", h.ListTokens)
			r.Post("/", h.CreateToken)
			r.Get("/{id}", h.GetToken)
			r.Delete("/{id}", h.DeleteToken)
			r.Post("/{id}/verify-password", h.VerifyPassword)
		})
	}

	if h := handlers.User; h != nil {
		router.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			// static segment first so "export" is never read as a user id
			r.Get("/export", h.ExportUsers)
			r.Get("/{id}", h.GetUser)
			r.Put("/{id}", h.UpdateUser)
			r.Delete("/{id}", h.DeleteUser)
		})
	}

	if h := handlers.OCR; h != nil {
		router.Post("/ocr", h.ScanIDCard)
	}
}
