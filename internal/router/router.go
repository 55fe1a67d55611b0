package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/tozikala/backend/api/handler"
)

type Handlers struct {
	Verification *apiHandler.VerificationHandler
	Catalog      *apiHandler.CatalogHandler
	Records      *apiHandler.RecordsHandler
	Report       *apiHandler.ReportHandler
	Health       *apiHandler.HealthHandler
}

func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Lookup/registration workflow
	r.GET("/api/v1/verification", handlers.Verification.State)
	r.POST("/api/v1/verification/check", handlers.Verification.Check)
	r.POST("/api/v1/verification/toggle", handlers.Verification.Toggle)
	r.PUT("/api/v1/verification/name", handlers.Verification.SetFullName)
	r.POST("/api/v1/verification/commit", handlers.Verification.Commit)
	r.POST("/api/v1/verification/cancel", handlers.Verification.Cancel)

	// History and dashboard
	r.GET("/api/v1/records", handlers.Records.History)
	r.GET("/api/v1/stats", handlers.Records.Stats)

	// Catalog management
	r.GET("/api/v1/products", handlers.Catalog.List)
	r.POST("/api/v1/products", handlers.Catalog.Create)
	r.PUT("/api/v1/products/{id}", handlers.Catalog.Update)
	r.DELETE("/api/v1/products/{id}", handlers.Catalog.Delete)

	// Best-effort analytics
	r.POST("/api/v1/report", handlers.Report.Generate)

	return r
}
