package handler

import (
	"net/http"
	"time"

	"cmcs-backend/internal/middleware"
	"cmcs-backend/internal/model"
	"cmcs-backend/internal/repository"
	"cmcs-backend/pkg/pagination"
	"cmcs-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// HistoryHandler exposes the global transition audit trail to HR and managers.
type HistoryHandler struct {
	history repository.HistoryRepository
}

func NewHistoryHandler(history repository.HistoryRepository) *HistoryHandler {
	return &HistoryHandler{history: history}
}

func (h *HistoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/v1/history")
	group.Use(middleware.RequireRole(model.RoleManager, model.RoleHR)) // Protect audit trail
	{
		group.GET("", h.ListHistory)
	}
}

type auditEntryResponse struct {
	ID             string `json:"id"`
	ClaimID        string `json:"claim_id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	ActorID        string `json:"actor_id"`
	ActorName      string `json:"actor_name"`
	Comment        string `json:"comment"`
	CreatedAt      string `json:"created_at"`
}

// ListHistory retrieves the paginated transition audit trail across all claims
// @Summary      Get transition history
// @Description  Retrieves the append-only audit trail of claim status transitions
// @Tags         history
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /api/v1/history [get]
func (h *HistoryHandler) ListHistory(c *gin.Context) {
	params := pagination.Parse(c)

	entries, total, err := h.history.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve history: "+err.Error()))
		return
	}

	res := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		actorName := "System"
		actorID := ""
		if e.Actor != nil {
			actorName = e.Actor.Username
		}
		if e.ActorID != nil {
			actorID = e.ActorID.String()
		}

		res = append(res, auditEntryResponse{
			ID:             e.ID.String(),
			ClaimID:        e.ClaimID.String(),
			PreviousStatus: string(e.PreviousStatus),
			NewStatus:      string(e.NewStatus),
			ActorID:        actorID,
			ActorName:      actorName,
			Comment:        e.Comment,
			CreatedAt:      e.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"entries": res,
		"total":   total,
		"page":    params.Page,
		"limit":   params.Limit,
	}))
}
