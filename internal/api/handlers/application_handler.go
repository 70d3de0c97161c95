package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/hirescreen/internal/models"
	"github.com/yoockh/hirescreen/internal/services"
	"github.com/yoockh/hirescreen/internal/utils"
)

type ApplicationHandler struct {
	apps      services.ApplicationService
	dashboard services.DashboardService
}

func NewApplicationHandler(apps services.ApplicationService, dashboard services.DashboardService) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, dashboard: dashboard}
}

type UpdateStatusRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required"`
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ApplicationHandler.UpdateStatus", "status is required", err))
		return
	}

	app, err := h.apps.UpdateStatus(c.Request.Context(), userID, c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) ListApplied(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	apps, err := h.apps.ListAppliedJobs(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHandler) ListShortlisted(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	apps, err := h.apps.ListShortlisted(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHandler) Dashboard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	d, err := h.dashboard.Recruiter(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, d)
}
