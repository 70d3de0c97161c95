package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/jobs/:id", func(c *gin.Context) {
		c.Set("user_id", "U1")
		c.Set("role", "candidate")
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/jobs/J1", nil)
	req.Header.Set("X-Request-Id", "req-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get("X-Request-Id"))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "/jobs/:id", entry.Data["path"])
	assert.Equal(t, "U1", entry.Data["user_id"])
	assert.Equal(t, "candidate", entry.Data["role"])
	assert.Equal(t, 404, entry.Data["status"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	entry = hook.LastEntry()
	assert.Equal(t, "unmatched", entry.Data["path"])
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.NotContains(t, entry.Data, "user_id")
}
