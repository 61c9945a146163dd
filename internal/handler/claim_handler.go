package handler

import (
	"errors"
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

type ClaimHandler struct {
	claimService    service.ClaimService
	documentService service.DocumentService
}

func NewClaimHandler(claimService service.ClaimService, documentService service.DocumentService) *ClaimHandler {
	return &ClaimHandler{claimService: claimService, documentService: documentService}
}

func (h *ClaimHandler) RegisterRoutes(router *gin.RouterGroup) {
	claims := router.Group("/api/v1/claims")
	{
		claims.POST("", middleware.RequireRole(model.RoleLecturer), h.SubmitClaim)
		claims.GET("/my", middleware.RequireRole(model.RoleLecturer), h.ListMyClaims)
		claims.GET("", middleware.RequireRole(model.RoleHR), h.ListClaims)
		claims.GET("/:id", middleware.RequireRole(model.RoleLecturer, model.RoleCoordinator, model.RoleManager, model.RoleHR), h.GetClaim)
		claims.GET("/:id/history", middleware.RequireRole(model.RoleLecturer, model.RoleCoordinator, model.RoleManager, model.RoleHR), h.GetHistory)
		claims.POST("/:id/documents", middleware.RequireRole(model.RoleLecturer), h.UploadDocument)
		claims.GET("/:id/documents", middleware.RequireRole(model.RoleLecturer, model.RoleCoordinator, model.RoleManager, model.RoleHR), h.ListDocuments)
		claims.GET("/:id/documents/:docId", middleware.RequireRole(model.RoleLecturer, model.RoleCoordinator, model.RoleManager, model.RoleHR), h.DownloadDocument)
	}
}

// SubmitClaim creates a new monthly claim in SUBMITTED status
// @Summary      Submit a claim
// @Description  Creates a monthly claim for the authenticated lecturer; hours must be in (0, 180]
// @Tags         claims
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SubmitClaimRequest  true  "Claim Payload"
// @Success      201      {object}  response.Response{data=service.ClaimResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/v1/claims [post]
func (h *ClaimHandler) SubmitClaim(c *gin.Context) {
	var req service.SubmitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	lecturerID := currentUserID(c)
	if lecturerID == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	claim, err := h.claimService.SubmitClaim(c.Request.Context(), *lecturerID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, claim))
}

// ListMyClaims returns the authenticated lecturer's own claims
// @Summary      List own claims
// @Tags         claims
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  map[string]interface{}
// @Router       /api/v1/claims/my [get]
func (h *ClaimHandler) ListMyClaims(c *gin.Context) {
	lecturerID := currentUserID(c)
	if lecturerID == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	filter, ok := h.buildFilter(c)
	if !ok {
		return
	}
	filter.LecturerID = lecturerID

	h.list(c, filter)
}

// ListClaims returns all claims for HR reporting, filterable by status and period
// @Summary      List all claims
// @Tags         claims
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Param        period  query     string  false  "Filter by claim period (YYYY-MM)"
// @Success      200     {object}  map[string]interface{}
// @Router       /api/v1/claims [get]
func (h *ClaimHandler) ListClaims(c *gin.Context) {
	filter, ok := h.buildFilter(c)
	if !ok {
		return
	}
	filter.Period = c.Query("period")

	h.list(c, filter)
}

func (h *ClaimHandler) buildFilter(c *gin.Context) (repository.ClaimFilter, bool) {
	params := pagination.Parse(c)
	filter := repository.ClaimFilter{Page: params.Page, Limit: params.Limit}

	if raw := c.Query("status"); raw != "" {
		status, err := model.ParseClaimStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
			return repository.ClaimFilter{}, false
		}
		filter.Status = status
	}

	return filter, true
}

func (h *ClaimHandler) list(c *gin.Context, filter repository.ClaimFilter) {
	claims, total, err := h.claimService.ListClaims(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch claims"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   claims,
		"total":  total,
		"page":   filter.Page,
		"limit":  filter.Limit,
	})
}

// GetClaim returns one claim; lecturers may only read their own
// @Summary      Get claim detail
// @Tags         claims
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Claim ID"
// @Success      200  {object}  response.Response{data=service.ClaimResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/v1/claims/{id} [get]
func (h *ClaimHandler) GetClaim(c *gin.Context) {
	_, claim, ok := h.loadAuthorized(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, claim))
}

// GetHistory returns the claim's full status transition trail
// @Summary      Get claim history
// @Tags         claims
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Claim ID"
// @Success      200  {object}  response.Response{data=[]service.HistoryEntryResponse}
// @Router       /api/v1/claims/{id}/history [get]
func (h *ClaimHandler) GetHistory(c *gin.Context) {
	claimID, _, ok := h.loadAuthorized(c)
	if !ok {
		return
	}

	history, err := h.claimService.GetHistory(c.Request.Context(), claimID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch claim history"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, history))
}

// UploadDocument attaches a supporting file to a claim
// @Summary      Upload supporting document
// @Tags         claims
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Claim ID"
// @Param        file  formData  file    true  "Supporting document"
// @Success      201   {object}  response.Response{data=service.DocumentResponse}
// @Router       /api/v1/claims/{id}/documents [post]
func (h *ClaimHandler) UploadDocument(c *gin.Context) {
	claimID, _, ok := h.loadAuthorized(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing file upload"))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to read uploaded file"))
		return
	}
	defer src.Close()

	doc, err := h.documentService.Attach(
		c.Request.Context(),
		claimID,
		currentUserID(c),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		src,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to store document"))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, doc))
}

// ListDocuments returns the metadata of files attached to a claim
// @Summary      List supporting documents
// @Tags         claims
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Claim ID"
// @Success      200  {object}  response.Response{data=[]service.DocumentResponse}
// @Router       /api/v1/claims/{id}/documents [get]
func (h *ClaimHandler) ListDocuments(c *gin.Context) {
	claimID, _, ok := h.loadAuthorized(c)
	if !ok {
		return
	}

	docs, err := h.documentService.ListByClaim(c.Request.Context(), claimID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch documents"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, docs))
}

// DownloadDocument streams the stored file bytes back to the caller
// @Summary      Download supporting document
// @Tags         claims
// @Security     BearerAuth
// @Produce      octet-stream
// @Param        id     path  string  true  "Claim ID"
// @Param        docId  path  string  true  "Document ID"
// @Success      200  {file}    file
// @Failure      404  {object}  response.Response
// @Router       /api/v1/claims/{id}/documents/{docId} [get]
func (h *ClaimHandler) DownloadDocument(c *gin.Context) {
	claimID, _, ok := h.loadAuthorized(c)
	if !ok {
		return
	}

	docID, err := uuid.Parse(c.Param("docId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid document id"))
		return
	}

	doc, src, err := h.documentService.Download(c.Request.Context(), claimID, docID)
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Document not found"))
		} else {
			c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to read document"))
		}
		return
	}
	defer src.Close()

	c.DataFromReader(http.StatusOK, doc.SizeBytes, doc.ContentType, src, map[string]string{
		"Content-Disposition": `attachment; filename="` + doc.FileName + `"`,
	})
}

// loadAuthorized parses the claim id, loads the claim and enforces that
// lecturers only see their own claims. Staff roles may read any claim.
func (h *ClaimHandler) loadAuthorized(c *gin.Context) (uuid.UUID, service.ClaimResponse, bool) {
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid claim id"))
		return uuid.Nil, service.ClaimResponse{}, false
	}

	claim, err := h.claimService.GetClaim(c.Request.Context(), claimID)
	if err != nil {
		if errors.Is(err, service.ErrClaimNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Claim not found"))
		} else {
			c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch claim"))
		}
		return uuid.Nil, service.ClaimResponse{}, false
	}

	role, _ := c.Get("userRole")
	if role == model.RoleLecturer {
		userID := currentUserID(c)
		if userID == nil || claim.LecturerID != userID.String() {
			c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied"))
			return uuid.Nil, service.ClaimResponse{}, false
		}
	}

	return claimID, claim, true
}
