// Package leads provides the leads bounded context module.
package leads

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "webexpress_backend/internal/http"
	"webexpress_backend/internal/leads/handler"
	"webexpress_backend/internal/leads/repository"
	"webexpress_backend/internal/leads/service"
	"webexpress_backend/platform/logger"
	"webexpress_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	adminGroup := ctx.Admin.Group("/leads")
	adminGroup.GET("", m.handler.List)
	adminGroup.GET("/:id", m.handler.GetByID)
	adminGroup.DELETE("/:id", m.handler.Delete)

	ctx.Admin.GET("/stats/funnel", m.handler.FunnelStats)
}
