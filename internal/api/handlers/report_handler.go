package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/hirescreen/internal/services"
)

type ReportHandler struct {
	svc services.ReportService
}

func NewReportHandler(svc services.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) GetByApplication(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	view, err := h.svc.GetByApplication(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
