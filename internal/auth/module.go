// Package auth provides the admin authentication module.
package auth

import (
	"webexpress_backend/internal/auth/handler"
	"webexpress_backend/internal/auth/service"
	apphttp "webexpress_backend/internal/http"
	"webexpress_backend/platform/config"
	"webexpress_backend/platform/logger"
	"webexpress_backend/platform/validator"
)

// Module is the auth module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the auth module.
func NewModule(cfg config.AuthConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(cfg, log)
	h := handler.New(svc, val)
	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/auth/login", ctx.AuthLimiter, m.handler.Login)
}
