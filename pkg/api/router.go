package api

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/stashnotify/stashnotify/config"
	"github.com/stashnotify/stashnotify/pkg/api/health"
	"github.com/stashnotify/stashnotify/pkg/api/middleware"
	"github.com/stashnotify/stashnotify/pkg/api/notify"
	"github.com/stashnotify/stashnotify/pkg/api/settings"
	"github.com/stashnotify/stashnotify/pkg/core"
	"github.com/stashnotify/stashnotify/pkg/lumber"
)

// Router represents the routes for the http server.
type Router struct {
	signalCtx       context.Context
	cfg             *config.Config
	notifier        core.Notifier
	credentialStore core.CredentialStore
	logger          lumber.Logger
}

// New returns a New Router
func New(
	signalCtx context.Context,
	cfg *config.Config,
	notifier core.Notifier,
	credentialStore core.CredentialStore,
	logger lumber.Logger) Router {
	return Router{
		signalCtx:       signalCtx,
		cfg:             cfg,
		notifier:        notifier,
		credentialStore: credentialStore,
		logger:          logger,
	}
}

// Handler returns the api handler for the http server.
func (r *Router) Handler() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(r.logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders(middleware.RequestIDHeader)
	router.Use(cors.New(corsConfig))

	router.GET("/health", health.Handler(r.signalCtx))

	v1 := router.Group("/v1")
	{
		v1.POST("/notify", notify.HandleBuildEvent(r.cfg, r.notifier, r.credentialStore, r.logger))
		v1.POST("/notify/step", notify.HandleStep(r.cfg, r.notifier, r.credentialStore, r.logger))
		v1.POST("/config/validate", settings.HandleHostValidation(r.logger))
	}
	return router
}
