// Package catalog provides the catalog bounded context module.
package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"webexpress_backend/internal/catalog/handler"
	"webexpress_backend/internal/catalog/repository"
	"webexpress_backend/internal/catalog/service"
	apphttp "webexpress_backend/internal/http"
	"webexpress_backend/platform/config"
	"webexpress_backend/platform/logger"
	"webexpress_backend/platform/validator"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access by other modules.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// Seed populates the catalog from the configured seed file when empty.
func (m *Module) Seed(ctx context.Context, cfg config.CatalogConfig) error {
	return m.service.SeedFromFile(ctx, cfg.GetCatalogSeedFile())
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public pricing-page endpoints
	ctx.V1.GET("/plans", m.handler.ListPlans)
	ctx.V1.GET("/addons", m.handler.ListAddons)
	ctx.V1.GET("/plans/:slug/timelines", m.handler.ResolveTimelines)

	// Admin CRUD endpoints
	adminGroup := ctx.Admin.Group("/catalog")
	adminGroup.GET("/plans", m.handler.AdminListPlans)
	adminGroup.POST("/plans", m.handler.CreatePlan)
	adminGroup.PUT("/plans/:id", m.handler.UpdatePlan)
	adminGroup.DELETE("/plans/:id", m.handler.DeletePlan)

	adminGroup.GET("/addons", m.handler.AdminListAddons)
	adminGroup.POST("/addons", m.handler.CreateAddon)
	adminGroup.PUT("/addons/:id", m.handler.UpdateAddon)
	adminGroup.DELETE("/addons/:id", m.handler.DeleteAddon)

	adminGroup.GET("/rush-fees", m.handler.ListRushFees)
	adminGroup.POST("/rush-fees", m.handler.CreateRushFee)
	adminGroup.PUT("/rush-fees/:id", m.handler.UpdateRushFee)
	adminGroup.DELETE("/rush-fees/:id", m.handler.DeleteRushFee)
}
