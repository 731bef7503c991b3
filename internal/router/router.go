package router

import (
	"net/http"
	"time"

	"github.com/Hongbi-Kim/BreezI-sub000/config"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/handler"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/middleware"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/repository"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers onto a gin engine.
// The retention sweeper is returned separately so main can run it on
// its own goroutine.
func Setup(cfg *config.Config, db *gorm.DB) (*gin.Engine, *service.RetentionService) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)
	unbanRepo := repository.NewUnbanRequestRepository(db)
	verifRepo := repository.NewVerificationRepository(db)
	archiveRepo := repository.NewArchiveRepository(db)
	logRepo := repository.NewActivityLogRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Services
	accountSvc := service.NewAccountService(db, userRepo, logRepo, cfg.Moderation.WarningThreshold)
	reportSvc := service.NewReportService(db, reportRepo, userRepo, accountSvc, logRepo)
	unbanSvc := service.NewUnbanService(db, unbanRepo, userRepo, accountSvc, logRepo)
	verifSvc := service.NewVerificationService(db, verifRepo, userRepo, archiveRepo, accountSvc, logRepo)
	authSvc := service.NewAuthService(db, userRepo, verifSvc, logRepo)
	deletionSvc := service.NewDeletionService(db, userRepo, reportRepo, archiveRepo, logRepo)
	retentionSvc := service.NewRetentionService(db, archiveRepo, reportRepo, unbanRepo, verifRepo, logRepo, cfg.Moderation)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, &cfg.JWT)
	reportHandler := handler.NewReportHandler(reportSvc)
	accountHandler := handler.NewAccountHandler(unbanSvc, deletionSvc)
	adminHandler := handler.NewAdminHandler(adminRepo, userRepo, reportRepo, unbanRepo, verifRepo, logRepo, accountSvc, reportSvc, unbanSvc, verifSvc)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	user := api.Group("/user", middleware.AuthRequired(&cfg.JWT))
	{
		user.PUT("/birth-date", authHandler.SetBirthDate)
		user.POST("/unban-request", accountHandler.RequestUnban)
		user.DELETE("/delete", accountHandler.DeleteAccount)
	}

	community := api.Group("/community", middleware.AuthRequired(&cfg.JWT))
	{
		community.POST("/report", reportHandler.Submit)
	}

	admin := api.Group("/admin", middleware.AuthRequired(&cfg.JWT), middleware.AdminRequired())
	{
		admin.GET("/stats", adminHandler.Stats)

		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/users/:id/details", adminHandler.UserDetails)
		admin.GET("/users/:id/activity-logs", adminHandler.ListUserActivityLogs)
		admin.POST("/users/:id/suspend", adminHandler.SuspendUser)
		admin.POST("/users/:id/ban", adminHandler.BanUser)
		admin.POST("/users/:id/activate", adminHandler.ActivateUser)
		admin.POST("/users/:id/warn", adminHandler.WarnUser)

		admin.GET("/reports", adminHandler.ListReports)
		admin.POST("/reports/:id/process", adminHandler.ProcessReport)

		admin.GET("/unban-requests", adminHandler.ListUnbanRequests)
		admin.POST("/unban-requests/:id/process", adminHandler.ProcessUnbanRequest)

		admin.GET("/verifications", adminHandler.ListVerifications)
		admin.POST("/verifications/:id/process", adminHandler.ProcessVerification)

		admin.GET("/activity-logs", adminHandler.ListActivityLogs)
	}

	return r, retentionSvc
}
