package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/hirescreen/internal/services"
	"github.com/yoockh/hirescreen/internal/utils"
)

type JobHandler struct {
	jobs services.JobService
	apps services.ApplicationService
}

func NewJobHandler(jobs services.JobService, apps services.ApplicationService) *JobHandler {
	return &JobHandler{jobs: jobs, apps: apps}
}

func (h *JobHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var in services.JobInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "JobHandler.Create", "invalid request body", err))
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), userID, in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	detail, err := h.jobs.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *JobHandler) ListApplications(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	apps, err := h.jobs.ListApplications(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, apps)
}

func (h *JobHandler) Apply(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	app, err := h.apps.Create(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}
