package handler

import (
	"net/http"

	"cmcs-backend/internal/middleware"
	"cmcs-backend/internal/model"
	"cmcs-backend/internal/service"
	"cmcs-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/v1/dashboard",
		middleware.RequireRole(model.RoleCoordinator, model.RoleManager, model.RoleHR),
		h.GetMetrics)
}

// GetMetrics returns the caller's review-queue metrics
// @Summary      Dashboard metrics
// @Description  Pending queue size, urgent claims (pending > 5 days) and this week's approved total for the caller's role
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.DashboardMetrics}
// @Router       /api/v1/dashboard [get]
func (h *DashboardHandler) GetMetrics(c *gin.Context) {
	role, _ := c.Get("userRole")
	roleStr, _ := role.(string)

	metrics, err := h.dashboardService.GetMetrics(c.Request.Context(), roleStr)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute dashboard metrics"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, metrics))
}
