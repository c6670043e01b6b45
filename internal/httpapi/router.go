package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/holistic-guidance/internal/guidance"
)

const maxBodyBytes = 1 << 20

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Guidance produces the response envelope for one concern.
type Guidance interface {
	Handle(ctx context.Context, concern string) (*guidance.Response, error)
}

type guidanceRequest struct {
	Concern string `json:"concern" binding:"required"`
}

// NewRouter wires every route. db may be nil when the database is disabled.
func NewRouter(svc Guidance, db HealthChecker, staticRoot string, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		requestID(),
		requestLogger(logger),
		gin.Recovery(),
		noStore(),
		limitBodySize(maxBodyBytes),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	router.Static("/static", staticRoot)
	router.StaticFile("/", filepath.Join(staticRoot, "index.html"))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"db":     fmt.Sprintf("unhealthy: %v", err),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
	})

	api := router.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"patientName": "John Doe",
			"age":         43,
			"status":      "healthy",
			"notes":       "Example data only. No real patient data.",
		})
	})
	api.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Server initialized correctly"})
	})
	api.POST("/guidance", handleGuidance(svc))

	return router
}

func handleGuidance(svc Guidance) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req guidanceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large."})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Patient concern is required."})
			return
		}

		resp, err := svc.Handle(c.Request.Context(), req.Concern)
		switch {
		case err == nil:
		case errors.Is(err, guidance.ErrConcernRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Patient concern is required."})
			return
		case errors.Is(err, guidance.ErrMalformedGuidance):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse guidance JSON."})
			return
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate guidance."})
			return
		}

		if resp.Fallback {
			c.Header("X-Guidance-Fallback", "true")
		}
		c.JSON(http.StatusOK, resp)
	}
}
