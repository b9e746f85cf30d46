// Package http wires the gin front door: static assets, health check, CORS,
// the WebSocket endpoint, the likes REST API and the admin overview.
package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/antirom-design/funkhaus/internal/app"
	"github.com/antirom-design/funkhaus/internal/adapters/signal"
	"github.com/antirom-design/funkhaus/internal/config"
	"github.com/antirom-design/funkhaus/internal/storage"
)

// ClientTokenMiddleware issues a stable per-browser token cookie so likes can
// be attributed without accounts.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, intercom *app.Intercom, likes *storage.LikeStore) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	corsCfg.AllowCredentials = !corsCfg.AllowAllOrigins
	r.Use(cors.New(corsCfg))

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("FunkhausSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	ctrl := signal.NewController(intercom, cfg)
	api.GET("/ws", func(c *gin.Context) {
		ctrl.HandleIntercom(ctx, c)
	})

	likesHandler := NewLikesHandler(likes)
	api.POST("/likes", likesHandler.AddLike)
	api.DELETE("/likes/:gameModeId", likesHandler.RemoveLike)
	api.GET("/likes/:gameModeId", likesHandler.GetDetails)
	api.GET("/games", likesHandler.ListGameModes)

	admin := api.Group("/admin", AdminAuth(cfg))
	admin.GET("/houses", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"houses": intercom.Overview()})
	})

	return r
}

// AdminAuth gates operator endpoints behind the single shared password.
// Plain in-process compare; there is no account system.
func AdminAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.AdminPassword == "" || c.GetHeader("X-Admin-Password") != cfg.AdminPassword {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
