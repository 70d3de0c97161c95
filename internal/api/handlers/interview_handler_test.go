package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/hirescreen/internal/logger"
	"github.com/yoockh/hirescreen/internal/models"
	"github.com/yoockh/hirescreen/internal/services"
	"github.com/yoockh/hirescreen/internal/utils"
)

type fakeInterviews struct {
	chat    *services.ChatResult
	err     error
	block   bool
	gotText string
}

func (f *fakeInterviews) Start(ctx context.Context, candidateID, applicationID string) (*services.StartResult, error) {
	if f.block {
		<-ctx.Done()
		return nil, utils.E(utils.CodeUnavailable, "InterviewService.Start", "AI service unavailable", ctx.Err())
	}
	return &services.StartResult{JobTitle: "Backend Engineer"}, f.err
}

func (f *fakeInterviews) SendMessage(_ context.Context, _, _, text string) (*services.ChatResult, error) {
	f.gotText = text
	return f.chat, f.err
}

func (f *fakeInterviews) Get(context.Context, string, string) (*models.InterviewSession, error) {
	return &models.InterviewSession{ID: "I1"}, f.err
}

func (f *fakeInterviews) Delete(context.Context, string, string) error { return f.err }

type fakeQueue struct {
	jobs []string
}

func (q *fakeQueue) Enqueue(_ context.Context, interviewID, requestedBy string) error {
	q.jobs = append(q.jobs, interviewID+"/"+requestedBy)
	return nil
}

func newRouter(h *InterviewHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "C1")
		c.Set("role", "candidate")
	})
	r.POST("/applications/:id/interview", h.Start)
	r.POST("/interviews/:id/messages", h.SendMessage)
	r.DELETE("/interviews/:id", h.Delete)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSendMessageEnqueuesReportWhenFinished(t *testing.T) {
	svc := &fakeInterviews{chat: &services.ChatResult{IsFinished: true}}
	q := &fakeQueue{}
	r := newRouter(NewInterviewHandler(svc, nil, q, time.Second, logger.Discard()))

	w := do(r, http.MethodPost, "/interviews/I1/messages", `{"message":"Yes, I led the migration."}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Yes, I led the migration.", svc.gotText)
	assert.Equal(t, []string{"I1/C1"}, q.jobs)
}

func TestSendMessageDoesNotEnqueueMidInterview(t *testing.T) {
	svc := &fakeInterviews{chat: &services.ChatResult{IsFinished: false}}
	q := &fakeQueue{}
	r := newRouter(NewInterviewHandler(svc, nil, q, time.Second, logger.Discard()))

	w := do(r, http.MethodPost, "/interviews/I1/messages", `{"message":"hello"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, q.jobs)
}

func TestSendMessageRequiresBody(t *testing.T) {
	r := newRouter(NewInterviewHandler(&fakeInterviews{}, nil, nil, time.Second, logger.Discard()))

	w := do(r, http.MethodPost, "/interviews/I1/messages", `{}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, utils.CodeInvalidArgument, body.Code)
}

func TestStartMapsDeadlineToTimeout(t *testing.T) {
	svc := &fakeInterviews{block: true}
	r := newRouter(NewInterviewHandler(svc, nil, nil, 20*time.Millisecond, logger.Discard()))

	w := do(r, http.MethodPost, "/applications/A1/interview", "")

	require.Equal(t, http.StatusGatewayTimeout, w.Code)
	var body APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, utils.CodeTimeout, body.Code)
}

func TestDeleteReturnsNoContent(t *testing.T) {
	r := newRouter(NewInterviewHandler(&fakeInterviews{}, nil, nil, time.Second, logger.Discard()))

	w := do(r, http.MethodDelete, "/interviews/I1", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestWriteErrorHidesUntypedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	writeError(c, errors.New("pq: connection reset"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
	assert.Len(t, c.Errors, 1)
}

func TestAIResponseErrorIs500WithCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	writeError(c, utils.E(utils.CodeAIResponse, "ReportService.Generate", "failed to parse AI report response", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, utils.CodeAIResponse, body.Code)
	assert.Equal(t, "failed to parse AI report response", body.Message)
}

func TestUserRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Equal(t, models.UserRole(""), userRole(c))
	c.Set("role", "recruiter")
	assert.Equal(t, models.RoleRecruiter, userRole(c))
	c.Set("role", "admin")
	assert.Equal(t, models.UserRole(""), userRole(c))
}
