// Package funnel provides the quote wizard bounded context module.
package funnel

import (
	"github.com/redis/go-redis/v9"

	catalogrepo "webexpress_backend/internal/catalog/repository"
	appevents "webexpress_backend/internal/events"
	"webexpress_backend/internal/funnel/handler"
	"webexpress_backend/internal/funnel/recovery"
	"webexpress_backend/internal/funnel/service"
	apphttp "webexpress_backend/internal/http"
	"webexpress_backend/platform/config"
	"webexpress_backend/platform/logger"
	"webexpress_backend/platform/validator"
)

// Module is the funnel bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the funnel module.
func NewModule(
	catalog catalogrepo.Repository,
	discounts service.DiscountProvider,
	leads service.LeadRecorder,
	redisClient *redis.Client,
	bus appevents.Bus,
	val *validator.Validator,
	cfg *config.Config,
	log *logger.Logger,
) *Module {
	snapshots := recovery.New(redisClient, cfg.GetRecoveryTTL())
	svc := service.New(catalog, discounts, leads, snapshots, bus, log, cfg.GetWhatsAppNumber())
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "funnel"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts funnel routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/quote/price", m.handler.Price)

	funnelGroup := ctx.V1.Group("/funnel")
	funnelGroup.POST("/advance", m.handler.Advance)
	funnelGroup.POST("/back", m.handler.Back)
	funnelGroup.POST("/submit", m.handler.Submit)
	funnelGroup.POST("/abandon", m.handler.Abandon)
	funnelGroup.GET("/recover/:sessionId", m.handler.Recover)
	funnelGroup.GET("/whatsapp-qr/:sessionId", m.handler.WhatsAppQR)
}
