package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/madaris-ops-api/api/swagger"
	"github.com/noah-isme/madaris-ops-api/internal/handler"
	"github.com/noah-isme/madaris-ops-api/internal/ingest"
	"github.com/noah-isme/madaris-ops-api/internal/middleware"
	"github.com/noah-isme/madaris-ops-api/internal/models"
	"github.com/noah-isme/madaris-ops-api/internal/repository"
	"github.com/noah-isme/madaris-ops-api/internal/service"
	"github.com/noah-isme/madaris-ops-api/pkg/cache"
	"github.com/noah-isme/madaris-ops-api/pkg/config"
	"github.com/noah-isme/madaris-ops-api/pkg/database"
	"github.com/noah-isme/madaris-ops-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/madaris-ops-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/madaris-ops-api/pkg/middleware/requestid"
)

// @title Madaris Ops API
// @version 1.0.0
// @description Timetable ingestion and substitution conflict engine
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	timetableRepo := repository.NewTimetableRepository(db)
	substitutionRepo := repository.NewSubstitutionRepository(db)
	mappingRepo := repository.NewTeacherMappingRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	parser := ingest.NewParser(cfg.Timetable.FallbackDayNames, logr)
	metricsSvc := service.NewMetricsService()
	timetableSvc := service.NewTimetableService(parser, timetableRepo, cacheRepo, cfg.Timetable.CacheTTL, logr)
	calendarSvc := service.NewCalendarService(cfg.Substitution.MaxRangeDays, logr)
	scheduleSvc := service.NewScheduleService(timetableSvc, logr)
	conflictSvc := service.NewConflictService(timetableSvc, mappingRepo, substitutionRepo, nil, logr)
	substitutionSvc := service.NewSubstitutionService(timetableSvc, calendarSvc, substitutionRepo, nil, logr)
	mappingSvc := service.NewTeacherMappingService(mappingRepo, nil, logr)
	auditSvc := service.NewAuditService(auditRepo, logr)
	auditSvc.Start(context.Background())
	defer auditSvc.Stop()

	timetableHandler := handler.NewTimetableHandler(timetableSvc, metricsSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	calendarHandler := handler.NewCalendarHandler(calendarSvc)
	substitutionHandler := handler.NewSubstitutionHandler(substitutionSvc, conflictSvc, metricsSvc)
	mappingHandler := handler.NewTeacherMappingHandler(mappingSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		timetables := api.Group("/timetables")
		{
			timetables.POST("/import",
				middleware.Audit(auditSvc, models.AuditActionTimetableImport, "timetable"),
				timetableHandler.Import)
			timetables.GET("/active", timetableHandler.GetActive)
			timetables.GET("/:id", timetableHandler.Get)
			timetables.GET("/:id/classes/:classId/slot", scheduleHandler.SlotForClass)
			timetables.GET("/:id/teachers/:teacherId/slots", scheduleHandler.SlotsForTeacher)
			timetables.GET("/:id/teachers/:teacherId/subjects", scheduleHandler.SubjectsForTeacher)
			timetables.GET("/:id/subjects/:subjectId/teachers", scheduleHandler.TeachersForSubject)
		}

		api.GET("/calendar/expand", calendarHandler.Expand)

		substitutions := api.Group("/substitutions")
		{
			substitutions.POST("/calculate", substitutionHandler.Calculate)
			substitutions.POST("/conflicts/check", substitutionHandler.CheckConflicts)
			substitutions.POST("",
				middleware.Audit(auditSvc, models.AuditActionSubstitutionCreate, "substitution"),
				substitutionHandler.Create)
			substitutions.PUT("/:id/assignments",
				middleware.Audit(auditSvc, models.AuditActionSubstitutionUpdate, "substitution"),
				substitutionHandler.UpdateAssignments)
			substitutions.POST("/:id/deactivate",
				middleware.Audit(auditSvc, models.AuditActionSubstitutionUpdate, "substitution"),
				substitutionHandler.Deactivate)
			substitutions.DELETE("/:id",
				middleware.Audit(auditSvc, models.AuditActionSubstitutionDelete, "substitution"),
				substitutionHandler.Delete)
		}

		api.GET("/teachers/:userId/substitutions", substitutionHandler.ListForTeacher)

		mappings := api.Group("/teacher-mappings")
		{
			mappings.GET("", mappingHandler.List)
			mappings.GET("/:sourceTeacherId", mappingHandler.Get)
			mappings.PUT("",
				middleware.Audit(auditSvc, models.AuditActionMappingUpsert, "teacher_mapping"),
				mappingHandler.Upsert)
			mappings.DELETE("/:sourceTeacherId", mappingHandler.Delete)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
