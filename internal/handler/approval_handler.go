package handler

import (
	"errors"
	"fmt"
	"net/http"

	"cmcs-backend/internal/middleware"
	"cmcs-backend/internal/model"
	"cmcs-backend/internal/repository"
	"cmcs-backend/internal/service"
	"cmcs-backend/pkg/pagination"
	"cmcs-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ApprovalHandler is the review gateway for coordinators and managers.
// Each route is a thin adapter that fixes the target status its role may
// request; all transition rules live in the lifecycle service.
type ApprovalHandler struct {
	lifecycle service.LifecycleService
	claims    service.ClaimService
}

func NewApprovalHandler(lifecycle service.LifecycleService, claims service.ClaimService) *ApprovalHandler {
	return &ApprovalHandler{lifecycle: lifecycle, claims: claims}
}

func (h *ApprovalHandler) RegisterRoutes(router *gin.RouterGroup) {
	approvals := router.Group("/api/v1/approvals")
	{
		approvals.GET("/pending", middleware.RequireRole(model.RoleCoordinator, model.RoleManager, model.RoleHR), h.ListPending)
		approvals.GET("/verified", middleware.RequireRole(model.RoleCoordinator, model.RoleManager, model.RoleHR), h.ListVerified)

		// Coordinator moves SUBMITTED claims forward or rejects them
		approvals.POST("/:id/verify", middleware.RequireRole(model.RoleCoordinator), h.transition(model.ClaimStatusUnderReview, "Claim verified"))
		// Manager decides UNDER_REVIEW claims
		approvals.POST("/:id/approve", middleware.RequireRole(model.RoleManager), h.transition(model.ClaimStatusApproved, "Claim approved"))
		// Both reviewing roles may reject
		approvals.POST("/:id/reject", middleware.RequireRole(model.RoleCoordinator, model.RoleManager), h.transition(model.ClaimStatusRejected, "Claim rejected"))

		approvals.POST("/bulk/verify", middleware.RequireRole(model.RoleCoordinator), h.bulkTransition(model.ClaimStatusUnderReview))
		approvals.POST("/bulk/approve", middleware.RequireRole(model.RoleManager), h.bulkTransition(model.ClaimStatusApproved))
		approvals.POST("/bulk/reject", middleware.RequireRole(model.RoleCoordinator, model.RoleManager), h.bulkTransition(model.ClaimStatusRejected))
	}
}

type transitionRequest struct {
	Comments string `json:"comments"`
}

type bulkTransitionRequest struct {
	ClaimIDs []string `json:"claimIds" binding:"required"`
	Comments string   `json:"comments"`
}

// ListPending returns claims awaiting coordinator verification
// @Summary      List pending claims
// @Description  Returns submitted claims waiting for coordinator verification
// @Tags         approvals
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/approvals/pending [get]
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	h.listByStatus(c, model.ClaimStatusSubmitted)
}

// ListVerified returns claims awaiting manager decision
// @Summary      List verified claims
// @Description  Returns claims under review waiting for a manager decision
// @Tags         approvals
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/approvals/verified [get]
func (h *ApprovalHandler) ListVerified(c *gin.Context) {
	h.listByStatus(c, model.ClaimStatusUnderReview)
}

func (h *ApprovalHandler) listByStatus(c *gin.Context, status model.ClaimStatus) {
	params := pagination.Parse(c)
	filter := repository.ClaimFilter{
		Status: status,
		Page:   params.Page,
		Limit:  params.Limit,
	}

	claims, total, err := h.claims.ListClaims(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch claims"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   claims,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// transition builds a handler applying one fixed target status to a single claim.
func (h *ApprovalHandler) transition(target model.ClaimStatus, successMessage string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Fail("Invalid claim id"))
			return
		}

		var req transitionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			// Empty body is fine; comments are only mandatory for rejections,
			// which the engine enforces.
			req.Comments = ""
		}

		actorID := currentUserID(c)
		_, err = h.lifecycle.ApplyTransition(c.Request.Context(), claimID, target, actorID, req.Comments)
		if err != nil {
			status, msg := transitionError(err)
			c.JSON(status, response.Fail(msg))
			return
		}

		c.JSON(http.StatusOK, response.Ok(successMessage))
	}
}

// bulkTransition builds a handler applying one fixed target status to many
// claims, best-effort: the reply carries only the transitioned count.
func (h *ApprovalHandler) bulkTransition(target model.ClaimStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bulkTransitionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Fail("Invalid request payload"))
			return
		}

		ids := make([]uuid.UUID, 0, len(req.ClaimIDs))
		for _, raw := range req.ClaimIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				// Unparseable ids are skipped like any other failed guard
				continue
			}
			ids = append(ids, id)
		}

		actorID := currentUserID(c)
		transitioned, err := h.lifecycle.ApplyTransitionBulk(c.Request.Context(), ids, target, actorID, req.Comments)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.Fail("Bulk transition failed"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"transitioned": transitioned,
			"message":      fmt.Sprintf("%d of %d claims transitioned", transitioned, len(req.ClaimIDs)),
		})
	}
}

// transitionError maps the lifecycle error taxonomy onto HTTP statuses.
// Persistence failures stay generic so internals never leak to the caller.
func transitionError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrClaimNotFound):
		return http.StatusNotFound, "Claim not found"
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrMissingReason):
		return http.StatusBadRequest, "A rejection reason is required"
	default:
		return http.StatusInternalServerError, "Failed to process claim"
	}
}

// currentUserID reads the authenticated user's id from the gin context.
// Returns nil if absent so system-initiated calls stay representable.
func currentUserID(c *gin.Context) *uuid.UUID {
	raw, exists := c.Get("userID")
	if !exists {
		return nil
	}
	idStr, ok := raw.(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil
	}
	return &id
}
