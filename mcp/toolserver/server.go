// Package toolserver serves Go tools over the tool protocol:
// `GET /tools` lists the registered tools and `POST /tools/{name}` executes one.
package toolserver

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/mcp/mcpclient"
	"github.com/effective-security/toolchat/tools"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
	"github.com/tidwall/sjson"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolchat/mcp", "toolserver")

// maxRequestSize limits the size of the invocation body
const maxRequestSize = 1 << 20

// Option configures the server
type Option func(*Server)

// WithAPIKey requires `Authorization: Bearer {key}` on every request
func WithAPIKey(key string) Option {
	return func(s *Server) {
		s.apiKey = key
	}
}

// Server is a tool protocol server
type Server struct {
	apiKey string

	mu    sync.RWMutex
	tools map[string]tools.ITool
	names []string

	mux *http.ServeMux
}

// New returns Server
func New(opts ...Option) *Server {
	s := &Server{
		tools: make(map[string]tools.ITool),
		mux:   http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mux.HandleFunc("GET /tools", s.handleList)
	s.mux.HandleFunc("POST /tools/{name}", s.handleInvoke)
	return s
}

// Register adds the tools to the server
func (s *Server) Register(list ...tools.ITool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range list {
		name := t.Name()
		if name == "" {
			return errors.New("tool name is required")
		}
		if _, ok := s.tools[name]; ok {
			return errors.Newf("tool already registered: %s", name)
		}
		s.tools[name] = t
		s.names = append(s.names, name)
	}
	return nil
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.apiKey != "" && !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	s.mux.ServeHTTP(w, r)
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
		logger.KV(xlog.INFO, "status", "listening", "addr", addr, "tools", len(s.names))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.WithStack(err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) authorized(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.apiKey)) == 1
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := mcpclient.ListToolsResponse{
		Tools: make([]mcpclient.ToolDescriptor, 0, len(s.names)),
	}
	for _, name := range s.names {
		t := s.tools[name]
		js, err := json.Marshal(t.Parameters())
		if err != nil {
			logger.ContextKV(r.Context(), xlog.ERROR,
				"status", "schema_failed",
				"tool", name,
				"err", err.Error(),
			)
			js = nil
		}
		res.Tools = append(res.Tools, mcpclient.ToolDescriptor{
			Name:        name,
			Description: t.Description(),
			InputSchema: js,
		})
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("name")

	s.mu.RLock()
	tool, ok := s.tools[name]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "tool not found: "+name)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var req mcpclient.InvokeRequest
	if len(body) > 0 {
		if err = json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.Arguments == nil {
		req.Arguments = map[string]any{}
	}
	input, _ := json.Marshal(req.Arguments)

	started := time.Now()
	out, err := tool.Call(ctx, string(input))
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "tool_failed",
			"tool", name,
			"input", slices.StringUpto(string(input), 256),
			"err", err.Error(),
		)
		if errors.Is(err, tools.ErrFailedUnmarshalInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "tool_called",
		"tool", name,
		"elapsed", time.Since(started).String(),
	)

	raw := []byte(strings.TrimSpace(out))
	if len(raw) == 0 || !json.Valid(raw) {
		// plain text output
		raw, err = sjson.SetBytes([]byte(`{}`), "result", out)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to encode result")
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	js, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(js)
}
