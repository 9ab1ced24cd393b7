package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-records-server/internal/config"
	"clinic-records-server/internal/dispatch"
	"clinic-records-server/internal/handlers"
	"clinic-records-server/internal/mailer"
	"clinic-records-server/internal/middleware"
	"clinic-records-server/internal/repository"
	"clinic-records-server/internal/services"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Repositories
	userRepo := repository.NewGormUserRepository(db)
	tokenRepo := repository.NewGormRefreshTokenRepository(db)
	companyRepo := repository.NewGormCompanyRepository(db)
	patientRepo := repository.NewGormPatientRepository(db)
	recordRepo := repository.NewGormMedicalRecordRepository(db)

	// Services
	companyService := services.NewCompanyService(companyRepo)
	patientService := services.NewPatientService(patientRepo, companyRepo)
	recordService := services.NewMedicalRecordService(recordRepo, patientRepo)
	dispatcher := dispatch.NewService(
		companyRepo, patientRepo,
		mailer.NewSMTPMailer(cfg.Mailer),
		cfg.Mailer.Sender,
		time.Duration(cfg.Mailer.TimeoutSeconds)*time.Second,
		cfg.DispatchWorkers,
	)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, tokenRepo, cfg)
	companyHandler := handlers.NewCompanyHandler(companyService)
	patientHandler := handlers.NewPatientHandler(patientService)
	recordHandler := handlers.NewMedicalRecordHandler(recordService, dispatcher)
	dispatchHandler := handlers.NewDispatchHandler(dispatcher, companyService)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg)) // Apply JWT authentication middleware
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/password", authHandler.ChangePassword)
		}

		companyRoutes := private.Group("/companies")
		{
			companyRoutes.POST("", companyHandler.CreateCompany)
			companyRoutes.GET("", companyHandler.GetCompanies)
			companyRoutes.GET("/:id", companyHandler.GetCompanyByID)
			companyRoutes.PUT("/:id", companyHandler.UpdateCompany)
			companyRoutes.DELETE("/:id", companyHandler.DeleteCompany)
		}

		patientRoutes := private.Group("/patients")
		{
			patientRoutes.POST("", patientHandler.CreatePatient)
			patientRoutes.GET("", patientHandler.GetPatients)
			patientRoutes.GET("/:id", patientHandler.GetPatientByID)
			patientRoutes.PUT("/:id", patientHandler.UpdatePatient)
			patientRoutes.DELETE("/:id", patientHandler.DeletePatient)
		}

		// Records are append-only: no update or delete routes.
		recordRoutes := private.Group("/medical-records")
		{
			recordRoutes.POST("", recordHandler.CreateMedicalRecord)
			recordRoutes.GET("", recordHandler.GetMedicalRecords)
			recordRoutes.GET("/:id", recordHandler.GetMedicalRecordByID)
			recordRoutes.POST("/:id/send", recordHandler.SendMedicalRecord)
		}

		dispatchRoutes := private.Group("/dispatch")
		{
			dispatchRoutes.GET("/companies", dispatchHandler.GetDispatchCandidates)
			dispatchRoutes.POST("", dispatchHandler.Dispatch)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
