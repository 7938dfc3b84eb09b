package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/engagebot/timetable-api/api/swagger"
	"github.com/engagebot/timetable-api/internal/handler"
	"github.com/engagebot/timetable-api/internal/middleware"
	"github.com/engagebot/timetable-api/internal/models"
	"github.com/engagebot/timetable-api/internal/pdfext"
	"github.com/engagebot/timetable-api/internal/repository"
	"github.com/engagebot/timetable-api/internal/service"
	"github.com/engagebot/timetable-api/pkg/cache"
	"github.com/engagebot/timetable-api/pkg/config"
	"github.com/engagebot/timetable-api/pkg/database"
	"github.com/engagebot/timetable-api/pkg/export"
	"github.com/engagebot/timetable-api/pkg/llm"
	"github.com/engagebot/timetable-api/pkg/logger"
	corsmiddleware "github.com/engagebot/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/engagebot/timetable-api/pkg/middleware/requestid"
	"github.com/engagebot/timetable-api/pkg/storage"
)

// @title Timetable Assistant API
// @version 1.0.0
// @description Teacher timetable extraction, schedule queries and conversational assistant
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	store, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare upload storage", "error", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone.Name)
	if err != nil {
		logr.Sugar().Warnw("unknown timezone, falling back to UTC", "name", cfg.Timezone.Name)
		loc = time.UTC
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	uploadRepo := repository.NewUploadRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()

	authSvc := service.NewAuthService(userRepo, profileRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "timetable-api",
		Audience:           []string{"timetable-api"},
	})
	uploadSvc := service.NewUploadService(uploadRepo, entryRepo, store, pdfext.NewExtractor(), metricsSvc, validate, logr, service.UploadConfig{
		MaxFileSizeBytes: cfg.Uploads.MaxFileSizeBytes,
		AllowedMIMEs:     cfg.Uploads.AllowedMIMEs,
	})
	assistantSvc := service.NewAssistantService(entryRepo, profileRepo, llm.NewClient(cfg.Assistant), metricsSvc, validate, logr, loc)
	scheduleSvc := service.NewScheduleService(entryRepo, logr, loc)
	exportSvc := service.NewExportService(entryRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)
	adminSvc := service.NewAdminService(userRepo, profileRepo, uploadRepo, entryRepo, cacheRepo, validate, logr, cfg.Dashboard.CacheTTL)
	departmentSvc := service.NewDepartmentService(departmentRepo, store, validate, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	uploadHandler := handler.NewUploadHandler(uploadSvc)
	assistantHandler := handler.NewAssistantHandler(assistantSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, exportSvc)
	adminHandler := handler.NewAdminHandler(adminSvc)
	departmentHandler := handler.NewDepartmentHandler(departmentSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		authed.POST("/auth/logout", authHandler.Logout)
		authed.GET("/me/dashboard", scheduleHandler.Dashboard)
		authed.POST("/timetable/upload", uploadHandler.Upload)
		authed.POST("/assistant/ask", assistantHandler.Ask)

		schedule := authed.Group("/schedule")
		{
			schedule.GET("", scheduleHandler.Weekly)
			schedule.GET("/day/:day", scheduleHandler.Day)
			schedule.GET("/next", scheduleHandler.Next)
			schedule.GET("/free/:day", scheduleHandler.FreeSlots)
			schedule.GET("/plan", scheduleHandler.WeeklyPlan)
			schedule.GET("/export", scheduleHandler.Export)
		}

		departments := authed.Group("/departments")
		{
			departments.GET("", departmentHandler.List)
			departments.GET("/semesters/:id/timetables", departmentHandler.ListPublished)
			departments.GET("/timetables/:id", departmentHandler.Download)
		}
	}

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/dashboard", adminHandler.Dashboard)
		admin.GET("/chart", adminHandler.Chart)
		admin.GET("/teachers", adminHandler.ListTeachers)
		admin.POST("/teachers", adminHandler.CreateTeacher)
		admin.POST("/teachers/:id/toggle", adminHandler.ToggleTeacher)
		admin.DELETE("/teachers/:id", adminHandler.DeleteTeacher)
		admin.GET("/uploads", adminHandler.ListUploads)
		admin.POST("/departments", departmentHandler.Create)
		admin.DELETE("/departments/:id", departmentHandler.Delete)
		admin.POST("/departments/:id/timetables", departmentHandler.Publish)
		admin.DELETE("/departments/timetables/:id", departmentHandler.DeletePublished)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
