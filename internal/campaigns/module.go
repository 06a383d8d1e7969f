// Package campaigns provides the campaigns bounded context module.
package campaigns

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"webexpress_backend/internal/campaigns/handler"
	"webexpress_backend/internal/campaigns/repository"
	"webexpress_backend/internal/campaigns/service"
	appevents "webexpress_backend/internal/events"
	apphttp "webexpress_backend/internal/http"
	"webexpress_backend/platform/config"
	"webexpress_backend/platform/logger"
	"webexpress_backend/platform/validator"
)

// Module is the campaigns bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the campaigns module.
func NewModule(pool *pgxpool.Pool, bus appevents.Bus, val *validator.Validator, cfg config.CampaignConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log, cfg.GetCampaignCacheTTL())
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "campaigns"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts campaign routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/campaigns/active", m.handler.ActiveCampaign)

	adminGroup := ctx.Admin.Group("/campaigns")
	adminGroup.GET("", m.handler.List)
	adminGroup.POST("", m.handler.Create)
	adminGroup.PUT("/:id", m.handler.Update)
	adminGroup.DELETE("/:id", m.handler.Delete)
	adminGroup.POST("/:id/end", m.handler.End)
}
