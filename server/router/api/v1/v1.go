// Package v1 exposes the HTTP API: message turns (batch and streaming),
// thread state, document management and model listing.
package v1

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/thinktank/internal/profile"
	"github.com/hrygo/thinktank/plugin/llm"
	"github.com/hrygo/thinktank/server/middleware"
	"github.com/hrygo/thinktank/server/service/chat"
	"github.com/hrygo/thinktank/server/service/docs"
	"github.com/hrygo/thinktank/store"
)

type APIV1Service struct {
	Profile     *profile.Profile
	Store       *store.Store
	Coordinator *chat.Coordinator
	Docs        *docs.Service
	Gateway     llm.Gateway
	Logger      *slog.Logger
}

func NewAPIV1Service(p *profile.Profile, s *store.Store, coordinator *chat.Coordinator, docService *docs.Service, gateway llm.Gateway, logger *slog.Logger) *APIV1Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIV1Service{
		Profile:     p,
		Store:       s,
		Coordinator: coordinator,
		Docs:        docService,
		Gateway:     gateway,
		Logger:      logger,
	}
}

// RegisterRoutes mounts all v1 routes on the echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo, limiter *middleware.RateLimiter) {
	g := e.Group("/api/v1")
	if limiter != nil {
		g.Use(limiter.Middleware())
	}

	g.POST("/messages", s.PostMessage)
	g.POST("/messages/stream", s.PostMessageStream)
	g.GET("/threads/:id", s.GetThread)

	g.GET("/docs", s.ListDocs)
	g.POST("/docs", s.UploadDoc)
	g.PATCH("/docs", s.PatchDoc)
	g.DELETE("/docs", s.ClearDocs)

	g.GET("/models", s.ListModels)
}

// threadIDParam resolves the threadId query parameter, defaulting like the
// rest of the API.
func threadIDParam(c echo.Context) string {
	if id := c.QueryParam("threadId"); id != "" {
		return id
	}
	return "default"
}
