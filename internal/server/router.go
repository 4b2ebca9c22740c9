package server

import (
	"net/http"

	"blogapi/internal/handlers"
	"blogapi/internal/middleware"
	"blogapi/internal/monitoring"
	"blogapi/internal/repository"
	"blogapi/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Deps is everything the router needs. The process entry point owns the
// lifecycle of the underlying database handle.
type Deps struct {
	Posts      repository.PostRepository
	Users      repository.UserRepository
	Tokens     *utils.TokenManager
	Monitor    *monitoring.Service
	MonitorKey string
	Log        logrus.FieldLogger
}

// NewRouter registers all routes. Only mutating post routes and /me sit
// behind the bearer-token guard.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestIDMiddleware(deps.Log),
		monitoring.RequestMetricsMiddleware(),
		gin.CustomRecovery(recoveryHandler(deps.Log)),
	)

	router.GET("/health", handlers.HealthCheck)
	router.GET("/api/status", handlers.Status)

	requireAuth := middleware.AuthMiddleware(deps.Tokens)

	authHandler := handlers.NewAuthHandler(deps.Users, deps.Tokens, deps.Log)
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", requireAuth, authHandler.Me)
	}

	postHandler := handlers.NewPostHandler(deps.Posts, deps.Log)
	posts := router.Group("/api/posts")
	{
		posts.GET("", postHandler.ListPosts)
		posts.GET("/:id", postHandler.GetPost)
		posts.POST("", requireAuth, postHandler.CreatePost)
		posts.PUT("/:id", requireAuth, postHandler.UpdatePost)
		posts.DELETE("/:id", requireAuth, postHandler.DeletePost)
	}

	if deps.Monitor != nil {
		monitorHandler := handlers.NewMonitorHandler(deps.Monitor, deps.MonitorKey)
		monitor := router.Group("/api/monitor")
		{
			monitor.GET("/status", monitorHandler.MonitorStatus)
			monitor.GET("/snapshot", monitorHandler.MonitorSnapshot)
		}
	}

	return router
}

func recoveryHandler(log logrus.FieldLogger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		log.WithFields(logrus.Fields{
			"request_id": middleware.RequestIDFromContext(c),
			"panic":      recovered,
		}).Error("recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
