// Package handler contains HTTP handlers for catalog.
package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"webexpress_backend/internal/catalog/service"
	"webexpress_backend/internal/catalog/transport"
	"webexpress_backend/platform/httpkit"
	"webexpress_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid catalog id"
	msgInvalidSlug      = "invalid plan slug"
)

// Handler handles HTTP requests for catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListPlans retrieves active plans for the pricing page.
// GET /api/v1/plans
func (h *Handler) ListPlans(c *gin.Context) {
	result, err := h.svc.ListPlans(c.Request.Context(), true)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListAddons retrieves active add-ons for the pricing page.
// GET /api/v1/addons
func (h *Handler) ListAddons(c *gin.Context) {
	result, err := h.svc.ListAddons(c.Request.Context(), true)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ResolveTimelines retrieves the delivery options for a plan.
// GET /api/v1/plans/:slug/timelines
func (h *Handler) ResolveTimelines(c *gin.Context) {
	slug := strings.TrimSpace(strings.ToLower(c.Param("slug")))
	if slug == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidSlug, nil)
		return
	}

	result, err := h.svc.ResolveTimelines(c.Request.Context(), slug)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AdminListPlans retrieves all plans, including inactive ones.
// GET /api/v1/admin/catalog/plans
func (h *Handler) AdminListPlans(c *gin.Context) {
	result, err := h.svc.ListPlans(c.Request.Context(), false)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreatePlan creates a plan.
// POST /api/v1/admin/catalog/plans
func (h *Handler) CreatePlan(c *gin.Context) {
	var req transport.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.CreatePlan(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// UpdatePlan updates a plan.
// PUT /api/v1/admin/catalog/plans/:id
func (h *Handler) UpdatePlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.UpdatePlan(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeletePlan removes a plan.
// DELETE /api/v1/admin/catalog/plans/:id
func (h *Handler) DeletePlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	if httpkit.HandleError(c, h.svc.DeletePlan(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// AdminListAddons retrieves all add-ons, including inactive ones.
// GET /api/v1/admin/catalog/addons
func (h *Handler) AdminListAddons(c *gin.Context) {
	result, err := h.svc.ListAddons(c.Request.Context(), false)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateAddon creates an add-on.
// POST /api/v1/admin/catalog/addons
func (h *Handler) CreateAddon(c *gin.Context) {
	var req transport.CreateAddonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.CreateAddon(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// UpdateAddon updates an add-on.
// PUT /api/v1/admin/catalog/addons/:id
func (h *Handler) UpdateAddon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateAddonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.UpdateAddon(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteAddon removes an add-on.
// DELETE /api/v1/admin/catalog/addons/:id
func (h *Handler) DeleteAddon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteAddon(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ListRushFees retrieves all rush-fee rows.
// GET /api/v1/admin/catalog/rush-fees
func (h *Handler) ListRushFees(c *gin.Context) {
	result, err := h.svc.ListRushFees(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateRushFee creates a rush-fee row.
// POST /api/v1/admin/catalog/rush-fees
func (h *Handler) CreateRushFee(c *gin.Context) {
	var req transport.CreateRushFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.CreateRushFee(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// UpdateRushFee updates a rush-fee row.
// PUT /api/v1/admin/catalog/rush-fees/:id
func (h *Handler) UpdateRushFee(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateRushFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.UpdateRushFee(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteRushFee removes a rush-fee row.
// DELETE /api/v1/admin/catalog/rush-fees/:id
func (h *Handler) DeleteRushFee(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteRushFee(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}
