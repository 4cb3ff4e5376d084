package server

import (
	"net/http"

	"tubeinsight/internal/auth"
	"tubeinsight/internal/config"
	"tubeinsight/internal/handler"
	"tubeinsight/internal/middleware"
	"tubeinsight/internal/repository"
	"tubeinsight/internal/sentiment"
	"tubeinsight/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Server struct {
	router    *gin.Engine
	cfg       *config.Config
	logger    *zap.Logger
	sentiment *sentiment.Service
	db        *sqlx.DB
}

func NewServer(cfg *config.Config, db *sqlx.DB, sentimentSvc *sentiment.Service, logger *zap.Logger) *Server {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	s := &Server{
		router:    router,
		cfg:       cfg,
		logger:    logger,
		sentiment: sentimentSvc,
		db:        db,
	}

	s.router.Use(corsMiddleware(cfg.CORS.AllowedOrigin))
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	profileRepo := repository.NewProfileRepository(s.db, s.logger)
	videoRepo := repository.NewVideoRepository(s.db, s.logger)
	analysisRepo := repository.NewAnalysisRepository(s.db, s.logger)
	auditRepo := repository.NewAuditRepository(s.db, s.logger)
	usageRepo := repository.NewUsageRepository(s.db, s.logger)

	authService := service.NewAuthService(profileRepo, s.cfg.Auth.JWTSecret, s.cfg.TokenTTL(), s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)
	analysisHandler := handler.NewAnalysisHandler(s.sentiment, analysisRepo, videoRepo, s.logger)
	adminHandler := handler.NewAdminHandler(profileRepo, analysisRepo, auditRepo, usageRepo, s.logger)

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	api := s.router.Group("/api")
	api.Use(middleware.AuthMiddleware(s.cfg.Auth.JWTSecret, s.logger))
	{
		api.POST("/analyze-video", analysisHandler.AnalyzeVideo)
		api.GET("/analyses", analysisHandler.GetHistory)
		api.GET("/analyses/:id", analysisHandler.GetDetail)
	}

	admin := s.router.Group("/v1/admin")
	admin.Use(middleware.AuthMiddleware(s.cfg.Auth.JWTSecret, s.logger))
	{
		users := admin.Group("/users")
		users.GET("", middleware.RequirePermission(auth.PermViewUsers), adminHandler.ListUsers)
		users.GET("/:id", middleware.RequirePermission(auth.PermViewUsers), adminHandler.GetUser)
		users.PUT("/:id/role", middleware.RequirePermission(auth.PermModifyUserRole), adminHandler.UpdateUserRole)
		users.PUT("/:id/status", middleware.RequirePermission(auth.PermModifyUserStatus), adminHandler.UpdateUserStatus)

		moderation := admin.Group("/moderation")
		moderation.Use(middleware.RequirePermission(auth.PermModerateContent))
		moderation.GET("/analyses", adminHandler.ListModerationAnalyses)
		moderation.GET("/analyses/:id", adminHandler.GetModerationAnalysis)
		moderation.PUT("/analyses/:id", adminHandler.UpdateModerationAnalysis)

		system := admin.Group("/system")
		system.GET("/audit-logs", middleware.RequireRole(auth.RoleSuperAdmin), adminHandler.ListAuditLogs)
		system.GET("/api-usage", middleware.RequirePermission(auth.PermViewAPIUsage), adminHandler.GetAPIUsage)
	}
}

func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) Run(addr string) error {
	s.logger.Info("Server starting", zap.String("addr", addr))
	return s.router.Run(addr)
}
