package handler

import (
	"net/http"

	"cmcs-backend/internal/middleware"
	"cmcs-backend/internal/model"
	"cmcs-backend/internal/service"
	"cmcs-backend/pkg/pagination"
	"cmcs-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ModuleHandler struct {
	moduleService service.ModuleService
}

func NewModuleHandler(moduleService service.ModuleService) *ModuleHandler {
	return &ModuleHandler{moduleService: moduleService}
}

func (h *ModuleHandler) RegisterRoutes(router *gin.RouterGroup) {
	modules := router.Group("/api/v1/modules")
	{
		modules.GET("", middleware.RequireRole(model.RoleLecturer, model.RoleCoordinator, model.RoleManager, model.RoleHR), h.ListModules)
		modules.GET("/:id", middleware.RequireRole(model.RoleLecturer, model.RoleCoordinator, model.RoleManager, model.RoleHR), h.GetModule)
		modules.POST("", middleware.RequireRole(model.RoleHR), h.CreateModule)
	}
}

// CreateModule registers a new course module
// @Summary      Create module
// @Tags         modules
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateModuleRequest  true  "Module Payload"
// @Success      201      {object}  response.Response{data=service.ModuleResponse}
// @Router       /api/v1/modules [post]
func (h *ModuleHandler) CreateModule(c *gin.Context) {
	var req service.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	mod, err := h.moduleService.CreateModule(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, mod))
}

// ListModules returns the paginated module catalogue
// @Summary      List modules
// @Tags         modules
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/modules [get]
func (h *ModuleHandler) ListModules(c *gin.Context) {
	params := pagination.Parse(c)

	modules, total, err := h.moduleService.ListModules(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch modules"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"modules": modules,
		"total":   total,
		"page":    params.Page,
		"limit":   params.Limit,
	}))
}

// GetModule fetches a single module by id
// @Summary      Get module
// @Tags         modules
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Module ID"
// @Success      200  {object}  response.Response{data=service.ModuleResponse}
// @Router       /api/v1/modules/{id} [get]
func (h *ModuleHandler) GetModule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid module id"))
		return
	}

	mod, err := h.moduleService.GetModule(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, mod))
}
