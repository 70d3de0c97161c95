package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/hirescreen/internal/services"
	"github.com/yoockh/hirescreen/internal/utils"
	"github.com/yoockh/hirescreen/internal/workers"
)

type InterviewHandler struct {
	interviews services.InterviewService
	reports    services.ReportService
	queue      workers.ReportQueue
	timeout    time.Duration
	log        logrus.FieldLogger
}

// NewInterviewHandler wires the interview endpoints. queue may be nil, in which case
// clients request the report explicitly.
func NewInterviewHandler(interviews services.InterviewService, reports services.ReportService, queue workers.ReportQueue, timeout time.Duration, log logrus.FieldLogger) *InterviewHandler {
	return &InterviewHandler{interviews: interviews, reports: reports, queue: queue, timeout: timeout, log: log}
}

func (h *InterviewHandler) Start(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	ctx, cancel := completionContext(c, h.timeout)
	defer cancel()

	res, err := h.interviews.Start(ctx, userID, c.Param("id"))
	if err != nil {
		writeError(c, timeoutAware(ctx, "InterviewHandler.Start", err))
		return
	}

	c.JSON(http.StatusOK, res)
}

type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *InterviewHandler) SendMessage(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.SendMessage", "message is required", err))
		return
	}

	ctx, cancel := completionContext(c, h.timeout)
	defer cancel()

	interviewID := c.Param("id")
	res, err := h.interviews.SendMessage(ctx, userID, interviewID, req.Message)
	if err != nil {
		writeError(c, timeoutAware(ctx, "InterviewHandler.SendMessage", err))
		return
	}

	if res.IsFinished && h.queue != nil {
		if err := h.queue.Enqueue(c.Request.Context(), interviewID, userID); err != nil {
			h.log.WithError(err).WithField("interview_id", interviewID).Warn("report enqueue failed")
		}
	}

	c.JSON(http.StatusOK, res)
}

func (h *InterviewHandler) GenerateReport(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	ctx, cancel := completionContext(c, h.timeout)
	defer cancel()

	rep, err := h.reports.Generate(ctx, userID, c.Param("id"))
	if err != nil {
		writeError(c, timeoutAware(ctx, "InterviewHandler.GenerateReport", err))
		return
	}

	c.JSON(http.StatusOK, rep)
}

func (h *InterviewHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sess, err := h.interviews.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

func (h *InterviewHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.interviews.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
