package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobportal/internal/api/middleware"
	"jobportal/internal/applications"
)

// ApplicationHandler 处理职位申请。
type ApplicationHandler struct {
	apps *applications.Service
}

// NewApplicationHandler 构造申请处理器。
func NewApplicationHandler(appService *applications.Service) *ApplicationHandler {
	return &ApplicationHandler{apps: appService}
}

// Apply 申请路径中的职位。
func (h *ApplicationHandler) Apply(c *gin.Context) {
	jobID, err := pathID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	app, err := h.apps.Apply(c.Request.Context(), middleware.PrincipalFromContext(c), jobID)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newApplicationResponse(app))
}

// Mine 返回当前用户的全部申请。
func (h *ApplicationHandler) Mine(c *gin.Context) {
	items, err := h.apps.ListForApplicant(c.Request.Context(), middleware.PrincipalFromContext(c))
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newApplicationList(items))
}

// ForJob 返回某职位收到的申请，仅职位所有者可见。
func (h *ApplicationHandler) ForJob(c *gin.Context) {
	jobID, err := pathID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	items, err := h.apps.ListForJob(c.Request.Context(), middleware.PrincipalFromContext(c), jobID)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newApplicationList(items))
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus 修改申请状态。
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	app, err := h.apps.UpdateStatus(c.Request.Context(), middleware.PrincipalFromContext(c), id, req.Status)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newApplicationResponse(app))
}
