package server

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/conversation"
	"github.com/effective-security/toolchat/registry"
	"github.com/effective-security/xlog"
	"github.com/gin-gonic/gin"
)

// API error codes, in addition to the conversation and registry codes
const (
	CodeBadRequest   = 4000
	CodeMissingToken = 4011
	CodeInvalidToken = 4012
	CodeNotFound     = 4040
	CodeInternal     = 7000
)

// Response is the envelope of every API response
type Response struct {
	Success bool         `json:"success"`
	Result  any          `json:"result,omitempty"`
	Errors  []ErrorEntry `json:"errors,omitempty"`
}

// ErrorEntry describes a failure
type ErrorEntry struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func success(c *gin.Context, result any) {
	c.JSON(http.StatusOK, Response{Success: true, Result: result})
}

func abort(c *gin.Context, status, code int, msg string) {
	c.AbortWithStatusJSON(status, Response{
		Errors: []ErrorEntry{{Code: code, Message: msg}},
	})
}

// fail renders the error returned by an operation
func fail(c *gin.Context, err error) {
	code, msg := CodeInternal, "internal error"

	var cerr *conversation.Error
	var rerr *registry.Error
	switch {
	case errors.As(err, &cerr):
		code, msg = cerr.Code, cerr.Message
	case errors.As(err, &rerr):
		code, msg = rerr.Code, rerr.Message
	}

	status := statusOf(code)
	if status >= http.StatusInternalServerError {
		logger.ContextKV(c.Request.Context(), xlog.ERROR,
			"status", "request_failed",
			"request_id", c.GetString(keyRequestID),
			"code", code,
			"err", err.Error(),
		)
	}
	abort(c, status, code, msg)
}

func statusOf(code int) int {
	switch {
	case code == CodeNotFound:
		return http.StatusNotFound
	case code == CodeMissingToken, code == CodeInvalidToken:
		return http.StatusUnauthorized
	case code >= 4000 && code < 5000:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
