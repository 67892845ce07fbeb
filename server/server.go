// Package server provides the HTTP API of the chat service.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/chatmodel"
	"github.com/effective-security/toolchat/conversation"
	"github.com/effective-security/toolchat/registry"
	"github.com/effective-security/xlog"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolchat", "server")

// Conversation provides the chat operations
type Conversation interface {
	SendMessage(ctx context.Context, owner, text string) (*conversation.Result, error)
	ListMessages(ctx context.Context, owner string, limit, offset int) (*conversation.MessagesPage, error)
	ClearMessages(ctx context.Context, owner string) (int, error)
}

// Registry provides the tool server operations
type Registry interface {
	ConnectServer(ctx context.Context, owner string, req *registry.ConnectRequest) (*registry.ConnectResult, error)
	ListServers(ctx context.Context, owner string) ([]*registry.ServerInfo, error)
	ListServerTools(ctx context.Context, owner string, serverID uint64) ([]*chatmodel.Tool, error)
	SetServerActive(ctx context.Context, owner string, serverID uint64, active bool) error
	SetToolEnabled(ctx context.Context, owner string, serverID, toolID uint64, enabled bool) error
}

// Server is the HTTP API
type Server struct {
	conv     Conversation
	registry Registry
	tokens   map[string]string
	engine   *gin.Engine
}

var setupValidator sync.Once

// New returns Server.
// tokens maps a bearer token to the owner it authenticates.
func New(conv Conversation, reg Registry, tokens map[string]string) *Server {
	setupValidator.Do(func() {
		// request payloads share the validate tags with the domain types
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.SetTagName("validate")
		}
	})

	s := &Server{
		conv:     conv,
		registry: reg,
		tokens:   tokens,
		engine:   gin.New(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.engine
	e.Use(gin.Recovery(), requestID(), accessLog())

	e.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := e.Group("/", authenticate(s.tokens))
	{
		api.POST("/messages", s.sendMessage)
		api.GET("/messages", s.listMessages)
		api.DELETE("/messages", s.clearMessages)

		api.POST("/mcp/servers", s.connectServer)
		api.GET("/mcp/servers", s.listServers)
		api.PATCH("/mcp/servers/:server_id", s.updateServer)
		api.GET("/mcp/servers/:server_id/tools", s.listServerTools)
		api.PATCH("/mcp/servers/:server_id/tools/:tool_id", s.updateTool)
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until the context is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.KV(xlog.INFO, "status", "listening", "addr", addr, "owners", len(s.tokens))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.WithStack(err)
	case <-ctx.Done():
		// a run in flight may wait on the model for its full timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
