package handlers

import (
	"net/http"
	"time"

	"github.com/SAP-F-2025/testtask-service/internal/services"
	"github.com/SAP-F-2025/testtask-service/internal/utils"
	"github.com/SAP-F-2025/testtask-service/internal/validator"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	AllowedOrigins []string
	ImagesDir      string
}

type HandlerManager struct {
	sessionHandler *SessionHandler
	logger         utils.Logger
}

func NewHandlerManager(
	quizService services.QuizService,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		sessionHandler: NewSessionHandler(quizService, validator, logger),
		logger:         logger,
	}
}

// NewRouter builds the engine with the common middleware chain and all routes.
func (hm *HandlerManager) NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware(hm.logger))
	router.Use(utils.ContextLogger(hm.logger))

	hm.SetupRoutes(router, cfg)
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "testtask-service",
		})
	})

	if cfg.ImagesDir != "" {
		router.Static("/images", cfg.ImagesDir)
	}

	v1 := router.Group("/api/v1")
	{
		session := v1.Group("/session")
		{
			session.GET("", hm.sessionHandler.GetSession)
			session.POST("/reset", hm.sessionHandler.ResetSession)
			session.POST("/navigate", hm.sessionHandler.Navigate)
			session.POST("/answers", hm.sessionHandler.ToggleAnswer)
			session.GET("/tasks/:task_id/questions/:question_index/selection", hm.sessionHandler.GetSelection)
			session.GET("/completion", hm.sessionHandler.GetCompletion)
			session.POST("/export", hm.sessionHandler.Export)
		}
	}
}
