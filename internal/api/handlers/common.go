package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/hirescreen/internal/models"
	"github.com/yoockh/hirescreen/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		if ae.Code == utils.CodeInternal || ae.Code == utils.CodeAIResponse {
			_ = c.Error(err)
		}
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
		})
		return
	}

	_ = c.Error(err)
	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

// userRole returns the role set by the auth middleware; an unknown value yields "".
func userRole(c *gin.Context) models.UserRole {
	v, _ := c.Get("role")
	s, _ := v.(string)
	r := models.UserRole(s)
	if !r.Valid() {
		return ""
	}
	return r
}

// completionContext bounds a request that waits on the completion provider.
// A deadline hit surfaces as CodeTimeout instead of a generic unavailable error.
func completionContext(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

func timeoutAware(ctx context.Context, op string, err error) error {
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return utils.E(utils.CodeTimeout, op, "AI service timed out", err)
	}
	return err
}
