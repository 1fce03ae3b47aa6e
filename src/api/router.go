package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	sharedconfig "github.com/etbot-dev/etbot/src/config"
)

func NewRouter(cfg *sharedconfig.APIConfig, svc SenateService, limiter *RateLimiter) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, svc, limiter)
	return g
}

func attachRoutes(r *gin.Engine, cfg *sharedconfig.APIConfig, svc SenateService, limiter *RateLimiter) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	r.Use(RateLimitMiddleware(limiter))

	secret := []byte(cfg.JWTSecret)
	authH := NewAuth(cfg.AdminPasswordHash, secret)
	senateH := NewSenate(svc)

	v1 := r.Group("/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		v1.POST("/auth/token", authH.Token)
		v1.GET("/senate/index", senateH.Index)
		v1.GET("/senate/bills/:number", senateH.Bill)

		secured := v1.Group("")
		secured.Use(JWTMiddleware(secret))
		secured.PUT("/senate/index", senateH.SetIndex)
	}
}
