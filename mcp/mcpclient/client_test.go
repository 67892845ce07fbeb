package mcpclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/effective-security/toolchat/chatmodel"
	"github.com/effective-security/toolchat/mcp/mcpclient"
	"github.com/effective-security/toolchat/mcp/toolserver"
	"github.com/effective-security/toolchat/tools/builtin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newToolServer(t *testing.T, opts ...toolserver.Option) *httptest.Server {
	t.Helper()

	srv := toolserver.New(opts...)
	list, err := builtin.Tools()
	require.NoError(t, err)
	require.NoError(t, srv.Register(list...))

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

func TestDiscoverTools(t *testing.T) {
	t.Parallel()
	ts := newToolServer(t, toolserver.WithAPIKey("key"))
	ctx := context.Background()
	c := mcpclient.New()

	res := c.DiscoverTools(ctx, ts.URL+"/", "key")
	require.True(t, res.Success, res.Error)
	require.Len(t, res.Tools, 2)
	assert.Equal(t, builtin.EchoToolName, res.Tools[0].Name)
	assert.Equal(t, "Echoes the provided text.", res.Tools[0].Description)
	assert.Contains(t, string(res.Tools[0].InputSchema), `"text"`)
	assert.Equal(t, builtin.CurrentTimeToolName, res.Tools[1].Name)

	res = c.DiscoverTools(ctx, ts.URL, "")
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to discover tools: 401", res.Error)
	assert.Empty(t, res.Tools)
}

func TestDiscoverTools_Responses(t *testing.T) {
	t.Parallel()

	var body string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tools", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, body)
	}))
	defer ts.Close()

	ctx := context.Background()
	c := mcpclient.New(mcpclient.WithHTTPClient(ts.Client()))

	body = `{}`
	res := c.DiscoverTools(ctx, ts.URL, "")
	require.True(t, res.Success)
	assert.NotNil(t, res.Tools)
	assert.Empty(t, res.Tools)

	body = `{"tools":[{"tool_name":"a"},{"tool_description":"no name"},{"tool_name":"b","input_schema":{"type":"object"}}]}`
	res = c.DiscoverTools(ctx, ts.URL, "")
	require.True(t, res.Success)
	require.Len(t, res.Tools, 2)
	assert.Equal(t, "a", res.Tools[0].Name)
	assert.Empty(t, res.Tools[0].InputSchema)
	assert.Equal(t, "b", res.Tools[1].Name)
	assert.JSONEq(t, `{"type":"object"}`, string(res.Tools[1].InputSchema))

	body = `not json`
	res = c.DiscoverTools(ctx, ts.URL, "")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "invalid tools response")
}

func TestDiscoverTools_Unreachable(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	res := mcpclient.New().DiscoverTools(context.Background(), url, "")
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestInvokeTool(t *testing.T) {
	t.Parallel()
	ts := newToolServer(t, toolserver.WithAPIKey("key"))
	ctx := context.Background()
	c := mcpclient.New()

	server := &chatmodel.ToolServer{BaseURL: ts.URL, APIKey: "key"}
	tool := &chatmodel.Tool{Name: builtin.EchoToolName}

	res := c.InvokeTool(ctx, server, tool, mcpclient.ToolCall{
		ToolName:  builtin.EchoToolName,
		Arguments: map[string]any{"text": "hello"},
	})
	require.True(t, res.Success, res.Error)
	assert.JSONEq(t, `{"text":"hello"}`, string(res.Result))

	res = c.InvokeTool(ctx, server, tool, mcpclient.ToolCall{ToolName: builtin.EchoToolName})
	assert.False(t, res.Success)
	assert.Equal(t, "Tool execution failed: 500 Internal Server Error", res.Error)

	res = c.InvokeTool(ctx, server, &chatmodel.Tool{Name: "missing"}, mcpclient.ToolCall{ToolName: "missing"})
	assert.False(t, res.Success)
	assert.Equal(t, "Tool execution failed: 404 Not Found", res.Error)

	noKey := &chatmodel.ToolServer{BaseURL: ts.URL}
	res = c.InvokeTool(ctx, noKey, tool, mcpclient.ToolCall{ToolName: builtin.EchoToolName})
	assert.False(t, res.Success)
	assert.Equal(t, "Tool execution failed: 401 Unauthorized", res.Error)
}

func TestInvokeTool_Request(t *testing.T) {
	t.Parallel()

	var (
		gotPath string
		gotAuth string
		gotBody mcpclient.InvokeRequest
		respond = `{"ok":true}`
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = io.WriteString(w, respond)
	}))
	defer ts.Close()

	ctx := context.Background()
	c := mcpclient.New()
	server := &chatmodel.ToolServer{BaseURL: ts.URL + "/", APIKey: "k1"}

	res := c.InvokeTool(ctx, server, &chatmodel.Tool{Name: "lookup"}, mcpclient.ToolCall{ToolName: "lookup"})
	require.True(t, res.Success)
	assert.JSONEq(t, `{"ok":true}`, string(res.Result))
	assert.Equal(t, "/tools/lookup", gotPath)
	assert.Equal(t, "Bearer k1", gotAuth)
	assert.NotNil(t, gotBody.Arguments)
	assert.Empty(t, gotBody.Arguments)

	respond = `{"broken":`
	res = c.InvokeTool(ctx, server, &chatmodel.Tool{Name: "lookup"}, mcpclient.ToolCall{
		ToolName:  "lookup",
		Arguments: map[string]any{"id": 7.0},
	})
	assert.False(t, res.Success)
	assert.Equal(t, "Tool returned malformed response", res.Error)
	assert.Equal(t, map[string]any{"id": 7.0}, gotBody.Arguments)
}

func TestInvokeTool_Timeout(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-done:
		}
	}))
	defer ts.Close()
	defer close(done)

	c := mcpclient.New(mcpclient.WithTimeout(50 * time.Millisecond))
	res := c.InvokeTool(context.Background(),
		&chatmodel.ToolServer{BaseURL: ts.URL},
		&chatmodel.Tool{Name: "slow"},
		mcpclient.ToolCall{ToolName: "slow"})
	assert.False(t, res.Success)
	assert.Equal(t, mcpclient.ReasonTimeout, res.Error)

	dr := c.DiscoverTools(context.Background(), ts.URL, "")
	assert.False(t, dr.Success)
	assert.Equal(t, mcpclient.ReasonTimeout, dr.Error)
}
