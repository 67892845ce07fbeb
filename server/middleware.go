package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/effective-security/toolchat/chatmodel"
	"github.com/effective-security/xlog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID is the request correlation header
const HeaderRequestID = "X-Request-ID"

const keyRequestID = "request_id"

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(keyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		level := xlog.DEBUG
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = xlog.WARNING
		}
		logger.KV(level,
			"status", "request",
			"request_id", c.GetString(keyRequestID),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"code", c.Writer.Status(),
			"took", time.Since(started).String(),
		)
	}
}

// authenticate maps the bearer token to the owner of the request
func authenticate(tokens map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			abort(c, http.StatusUnauthorized, CodeMissingToken, "missing bearer token")
			return
		}

		owner := ""
		for t, o := range tokens {
			if subtle.ConstantTimeCompare([]byte(token), []byte(t)) == 1 {
				owner = o
			}
		}
		if owner == "" {
			abort(c, http.StatusUnauthorized, CodeInvalidToken, "invalid bearer token")
			return
		}

		c.Request = c.Request.WithContext(chatmodel.WithOwner(c.Request.Context(), owner))
		c.Next()
	}
}
