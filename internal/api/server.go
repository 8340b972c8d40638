package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// NewServer builds the HTTP server with all routes configured.
func NewServer(handler *Handler, apiKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	// CORS, the dashboard frontend is served from a different origin.
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-Api-Key, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, apiKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, apiKey string) {
	r.GET("/health", handler.GetHealth)
	r.GET("/briefings", handler.ListBriefings)
	r.GET("/briefings/latest", handler.GetLatestBriefing)
	r.GET("/briefings/:date", handler.GetBriefing)

	r.POST("/briefings/seen", handler.MarkAsSeen)

	if apiKey != "" {
		authed := r.Group("")
		authed.Use(authMiddleware(apiKey))
		authed.POST("/briefings", handler.SubmitBriefing)
		slog.Info("briefing submission endpoint enabled")
	} else {
		slog.Warn("briefing submission endpoint disabled (BRIEFING_API_KEY not set)")
	}
}

// authMiddleware guards the submission endpoint. The key is accepted either
// as X-Api-Key or as a bearer token.
func authMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-Api-Key")
		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" || providedKey != apiKey {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API key"})
			c.Abort()
			return
		}

		c.Next()
	}
}
