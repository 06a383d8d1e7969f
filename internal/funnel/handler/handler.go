// Package handler contains HTTP handlers for the funnel.
package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"webexpress_backend/internal/funnel/service"
	"webexpress_backend/internal/funnel/transport"
	"webexpress_backend/platform/httpkit"
	"webexpress_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidSession   = "invalid session id"
)

// Handler handles HTTP requests for the funnel.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new funnel handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Price recalculates the quote for the current selection.
// POST /api/v1/quote/price
func (h *Handler) Price(c *gin.Context) {
	var req transport.PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Price(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Advance moves the wizard one step forward.
// POST /api/v1/funnel/advance
func (h *Handler) Advance(c *gin.Context) {
	state, ok := h.bindState(c)
	if !ok {
		return
	}

	result, err := h.svc.Advance(c.Request.Context(), state.ToDomain())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Back moves the wizard one step backwards.
// POST /api/v1/funnel/back
func (h *Handler) Back(c *gin.Context) {
	state, ok := h.bindState(c)
	if !ok {
		return
	}

	result, err := h.svc.Back(c.Request.Context(), state.ToDomain())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Submit completes the wizard and returns the WhatsApp hand-off.
// POST /api/v1/funnel/submit
func (h *Handler) Submit(c *gin.Context) {
	state, ok := h.bindState(c)
	if !ok {
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), state.ToDomain())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Abandon records a page-hide beacon. Always 204 for well-formed requests;
// the beacon sender never reads the body.
// POST /api/v1/funnel/abandon
func (h *Handler) Abandon(c *gin.Context) {
	state, ok := h.bindState(c)
	if !ok {
		return
	}

	h.svc.Abandon(c.Request.Context(), state.ToDomain())
	c.Status(http.StatusNoContent)
}

// Recover restores a saved session.
// GET /api/v1/funnel/recover/:sessionId
func (h *Handler) Recover(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Param("sessionId"))
	if sessionID == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidSession, nil)
		return
	}

	result, err := h.svc.Recover(c.Request.Context(), sessionID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// WhatsAppQR renders the hand-off link of a completed quote as a PNG.
// GET /api/v1/funnel/whatsapp-qr/:sessionId
func (h *Handler) WhatsAppQR(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Param("sessionId"))
	if sessionID == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidSession, nil)
		return
	}

	size := 0
	if raw := c.Query("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 64 || parsed > 1024 {
			httpkit.Error(c, http.StatusBadRequest, "size must be between 64 and 1024", nil)
			return
		}
		size = parsed
	}

	png, err := h.svc.WhatsAppQR(c.Request.Context(), sessionID, size)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) bindState(c *gin.Context) (transport.StateRequest, bool) {
	var req transport.StateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return transport.StateRequest{}, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return transport.StateRequest{}, false
	}
	return req, true
}
