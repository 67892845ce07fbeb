// Package mcpclient implements discovery and invocation of tools
// exposed by external tool protocol servers:
// `GET {url}/tools` lists the tools and `POST {url}/tools/{name}` executes one.
package mcpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/chatmodel"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolchat/mcp", "mcpclient")

//go:generate mockgen -source=client.go -destination=../../mocks/mockmcp/client_mock.gen.go -package mockmcp

// DefaultTimeout is applied to each outbound call when no timeout is configured
const DefaultTimeout = 30 * time.Second

// maxResponseSize limits the size of a tool server response
const maxResponseSize = 8 << 20

// ReasonTimeout is the failure reason for calls exceeding the timeout
const ReasonTimeout = "timeout"

// ToolDescriptor describes a tool as listed by a tool server
type ToolDescriptor struct {
	Name        string          `json:"tool_name"`
	Description string          `json:"tool_description,omitempty"`
	InputSchema json.RawMessage `json:"input_schema,omitempty"`
}

// ListToolsResponse is the body of `GET /tools`
type ListToolsResponse struct {
	Tools []ToolDescriptor `json:"tools"`
}

// InvokeRequest is the body of `POST /tools/{name}`
type InvokeRequest struct {
	Arguments map[string]any `json:"arguments"`
}

// ToolCall is a request to execute a named tool
type ToolCall struct {
	ToolName  string
	Arguments map[string]any
}

// DiscoverResult is the outcome of tools discovery.
// On failure Error carries the diagnostic string.
type DiscoverResult struct {
	Success bool
	Tools   []ToolDescriptor
	Error   string
}

// InvokeResult is the outcome of a tool invocation.
// On success Result holds the JSON document returned by the tool,
// on failure Error carries the reason.
type InvokeResult struct {
	Success bool
	Result  json.RawMessage
	Error   string
}

// Client calls external tool servers.
// Both operations never return transport errors, all failures are
// normalized into the result.
type Client interface {
	// DiscoverTools lists the tools of the server at serverURL
	DiscoverTools(ctx context.Context, serverURL, apiKey string) *DiscoverResult
	// InvokeTool executes the tool on the server
	InvokeTool(ctx context.Context, server *chatmodel.ToolServer, tool *chatmodel.Tool, call ToolCall) *InvokeResult
}

// Option configures the client
type Option func(*client)

// WithHTTPClient sets the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.http = hc
	}
}

// WithTimeout sets the timeout of each outbound call
func WithTimeout(timeout time.Duration) Option {
	return func(c *client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

type client struct {
	http    *http.Client
	timeout time.Duration
}

// New returns Client
func New(opts ...Option) Client {
	c := &client{
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) DiscoverTools(ctx context.Context, serverURL, apiKey string) *DiscoverResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status, body, err := c.do(ctx, http.MethodGet, joinURL(serverURL, "tools"), apiKey, nil)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "discover_failed",
			"url", serverURL,
			"err", err.Error(),
		)
		return &DiscoverResult{Error: reason(err)}
	}
	if !isSuccess(status) {
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "discover_failed",
			"url", serverURL,
			"code", status,
			"body", slices.StringUpto(string(body), 256),
		)
		return &DiscoverResult{Error: fmt.Sprintf("Failed to discover tools: %d", status)}
	}

	var res ListToolsResponse
	if err = json.Unmarshal(body, &res); err != nil {
		return &DiscoverResult{Error: "invalid tools response: " + err.Error()}
	}
	tools := make([]ToolDescriptor, 0, len(res.Tools))
	for _, t := range res.Tools {
		if t.Name == "" {
			continue
		}
		tools = append(tools, t)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "discovered",
		"url", serverURL,
		"tools", len(tools),
	)
	return &DiscoverResult{Success: true, Tools: tools}
}

func (c *client) InvokeTool(ctx context.Context, server *chatmodel.ToolServer, tool *chatmodel.Tool, call ToolCall) *InvokeResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := call.Arguments
	if args == nil {
		args = map[string]any{}
	}
	payload, err := json.Marshal(InvokeRequest{Arguments: args})
	if err != nil {
		return &InvokeResult{Error: "invalid arguments: " + err.Error()}
	}

	name := tool.Name
	if name == "" {
		name = call.ToolName
	}

	status, body, err := c.do(ctx, http.MethodPost, joinURL(server.BaseURL, "tools", url.PathEscape(name)), server.APIKey, payload)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "invoke_failed",
			"tool", name,
			"err", err.Error(),
		)
		return &InvokeResult{Error: reason(err)}
	}
	if !isSuccess(status) {
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "invoke_failed",
			"tool", name,
			"code", status,
			"body", slices.StringUpto(string(body), 256),
		)
		return &InvokeResult{Error: fmt.Sprintf("Tool execution failed: %d %s", status, http.StatusText(status))}
	}

	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return &InvokeResult{Error: "Tool returned malformed response"}
	}
	return &InvokeResult{Success: true, Result: json.RawMessage(body)}
}

func (c *client) do(ctx context.Context, method, target, apiKey string, payload []byte) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, nil, errors.Wrap(err, "failed to read response")
	}
	return resp.StatusCode, data, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func joinURL(base string, parts ...string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Join(parts, "/")
}

// reason returns the failure reason for a transport error
func reason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return ReasonTimeout
	}
	return err.Error()
}
