package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/chatmodel"
	"github.com/effective-security/toolchat/conversation"
	"github.com/effective-security/toolchat/mcp/mcpclient"
	"github.com/effective-security/toolchat/mcp/toolserver"
	"github.com/effective-security/toolchat/mocks/mockllms"
	"github.com/effective-security/toolchat/pkg/llms"
	"github.com/effective-security/toolchat/registry"
	"github.com/effective-security/toolchat/server"
	"github.com/effective-security/toolchat/store"
	"github.com/effective-security/toolchat/tools/builtin"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	aliceToken = "token-alice"
	bobToken   = "token-bob"
	toolAPIKey = "tool-secret"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	api   *httptest.Server
	tools *httptest.Server
	model *mockllms.MockModel
	store store.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	ts := toolserver.New(toolserver.WithAPIKey(toolAPIKey))
	list, err := builtin.Tools()
	require.NoError(t, err)
	require.NoError(t, ts.Register(list...))
	toolSrv := httptest.NewServer(ts)
	t.Cleanup(toolSrv.Close)

	st := store.NewMemoryStore()
	client := mcpclient.New()
	model := mockllms.NewMockModel(ctrl)
	model.EXPECT().GetName().Return("gemini-test").AnyTimes()

	reg := registry.New(st, client)
	conv := conversation.New(st, reg, model, client)

	api := httptest.NewServer(server.New(conv, reg, map[string]string{
		aliceToken: "alice",
		bobToken:   "bob",
	}))
	t.Cleanup(api.Close)

	return &fixture{
		api:   api,
		tools: toolSrv,
		model: model,
		store: st,
	}
}

type envelope struct {
	Success bool                `json:"success"`
	Result  json.RawMessage     `json:"result"`
	Errors  []server.ErrorEntry `json:"errors"`
}

func (f *fixture) call(t *testing.T, method, path, token, body string) (int, *envelope) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, f.api.URL+path, r)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, &env
}

func (f *fixture) connect(t *testing.T, token, name string) *registry.ConnectResult {
	t.Helper()
	status, env := f.call(t, http.MethodPost, "/mcp/servers", token,
		`{"server_name":"`+name+`","server_url":"`+f.tools.URL+`","api_key":"`+toolAPIKey+`"}`)
	require.Equal(t, http.StatusOK, status, "%+v", env.Errors)
	require.True(t, env.Success)

	var res registry.ConnectResult
	require.NoError(t, json.Unmarshal(env.Result, &res))
	return &res
}

func assertError(t *testing.T, env *envelope, code int) {
	t.Helper()
	assert.False(t, env.Success)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, code, env.Errors[0].Code)
	assert.NotEmpty(t, env.Errors[0].Message)
}

func TestHealthAndRequestID(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.api.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Header.Get(server.HeaderRequestID), 36)

	req, err := http.NewRequest(http.MethodGet, f.api.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(server.HeaderRequestID, "req-123")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, "req-123", resp2.Header.Get(server.HeaderRequestID))
}

func TestAuthentication(t *testing.T) {
	f := newFixture(t)

	status, env := f.call(t, http.MethodGet, "/messages", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assertError(t, env, server.CodeMissingToken)

	status, env = f.call(t, http.MethodGet, "/messages", "wrong", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assertError(t, env, server.CodeInvalidToken)

	status, env = f.call(t, http.MethodGet, "/messages", aliceToken, "")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}

func TestConversation(t *testing.T) {
	f := newFixture(t)
	res := f.connect(t, aliceToken, "demo")
	require.Len(t, res.Tools, 2)
	assert.Empty(t, res.Server.APIKey)

	gomock.InOrder(
		f.model.EXPECT().Complete(gomock.Any(), "echo hello", gomock.Any(), gomock.Len(2)).
			Return(&llms.Reply{Parts: []llms.Part{
				llms.FunctionCallPart(builtin.EchoToolName, map[string]any{"text": "hello"}),
			}}, nil),
		f.model.EXPECT().Complete(gomock.Any(), conversation.FollowUpInstruction, gomock.Len(2), gomock.Nil()).
			DoAndReturn(func(_ context.Context, _ string, history []chatmodel.Turn, _ []llms.ToolSchema) (*llms.Reply, error) {
				assert.Equal(t, chatmodel.RoleUser, history[0].Role)
				assert.Equal(t, `Used tools: Tool echo returned: {"text":"hello"}`, history[1].Text)
				return &llms.Reply{Parts: []llms.Part{llms.TextPart("hello")}}, nil
			}),
	)

	status, env := f.call(t, http.MethodPost, "/messages", aliceToken, `{"text":"echo hello"}`)
	require.Equal(t, http.StatusOK, status, "%+v", env.Errors)

	var run conversation.Result
	require.NoError(t, json.Unmarshal(env.Result, &run))
	assert.Equal(t, "echo hello", run.UserMessage.Text)
	assert.True(t, run.UserMessage.Own)
	assert.Equal(t, "hello", run.BotMessage.Text)
	assert.False(t, run.BotMessage.Own)
	assert.Equal(t, []string{builtin.EchoToolName}, run.ToolsUsed)
	assert.True(t, run.BotMessage.Timestamp.After(run.UserMessage.Timestamp))

	status, env = f.call(t, http.MethodGet, "/messages?limit=1", aliceToken, "")
	require.Equal(t, http.StatusOK, status)
	var page conversation.MessagesPage
	require.NoError(t, json.Unmarshal(env.Result, &page))
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.Limit)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, run.BotMessage.ID, page.Messages[0].ID)

	// other owners see nothing
	status, env = f.call(t, http.MethodGet, "/messages", bobToken, "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Result, &page))
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Messages)

	status, env = f.call(t, http.MethodDelete, "/messages", aliceToken, "")
	require.Equal(t, http.StatusOK, status)
	var cleared server.ClearMessagesResponse
	require.NoError(t, json.Unmarshal(env.Result, &cleared))
	assert.Equal(t, 2, cleared.DeletedCount)
	assert.NotEmpty(t, cleared.Message)
}

func TestSendMessage_Errors(t *testing.T) {
	f := newFixture(t)

	status, env := f.call(t, http.MethodPost, "/messages", aliceToken, `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assertError(t, env, server.CodeBadRequest)

	status, env = f.call(t, http.MethodPost, "/messages", aliceToken, `{"text":"`+strings.Repeat("x", 5001)+`"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assertError(t, env, server.CodeBadRequest)

	status, env = f.call(t, http.MethodPost, "/messages", aliceToken, `not json`)
	assert.Equal(t, http.StatusBadRequest, status)
	assertError(t, env, server.CodeBadRequest)

	status, env = f.call(t, http.MethodPost, "/messages", aliceToken, `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assertError(t, env, conversation.CodeValidation)

	f.model.EXPECT().Complete(gomock.Any(), "hi", gomock.Any(), gomock.Nil()).
		Return(nil, errors.Mark(errors.New("provider down"), llms.ErrNoResponse))

	status, env = f.call(t, http.MethodPost, "/messages", aliceToken, `{"text":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assertError(t, env, conversation.CodeFirstModelCall)
	assert.NotContains(t, env.Errors[0].Message, "provider down")

	// the user message is durable
	count, err := f.store.CountMessages(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestServers(t *testing.T) {
	f := newFixture(t)
	res := f.connect(t, aliceToken, "demo")
	serverID := chatmodel.FormatID(res.Server.ID)

	t.Run("duplicate", func(t *testing.T) {
		status, env := f.call(t, http.MethodPost, "/mcp/servers", aliceToken,
			`{"server_name":"demo","server_url":"`+f.tools.URL+`"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assertError(t, env, registry.CodeDuplicateServer)
	})

	t.Run("discovery_failed", func(t *testing.T) {
		status, env := f.call(t, http.MethodPost, "/mcp/servers", aliceToken,
			`{"server_name":"nokey","server_url":"`+f.tools.URL+`"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assertError(t, env, registry.CodeDiscoveryFailed)
	})

	t.Run("invalid_url", func(t *testing.T) {
		status, env := f.call(t, http.MethodPost, "/mcp/servers", aliceToken,
			`{"server_name":"bad","server_url":"not a url"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assertError(t, env, server.CodeBadRequest)
	})

	t.Run("list", func(t *testing.T) {
		status, env := f.call(t, http.MethodGet, "/mcp/servers", aliceToken, "")
		require.Equal(t, http.StatusOK, status)
		assert.NotContains(t, string(env.Result), toolAPIKey)

		var list []*registry.ServerInfo
		require.NoError(t, json.Unmarshal(env.Result, &list))
		require.Len(t, list, 1)
		assert.Equal(t, "demo", list[0].Name)
		assert.Equal(t, 2, list[0].ToolCount)
		assert.True(t, list[0].IsActive)

		status, env = f.call(t, http.MethodGet, "/mcp/servers", bobToken, "")
		require.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `[]`, string(env.Result))
	})

	t.Run("tools", func(t *testing.T) {
		status, env := f.call(t, http.MethodGet, "/mcp/servers/"+serverID+"/tools", aliceToken, "")
		require.Equal(t, http.StatusOK, status)

		var list []*chatmodel.Tool
		require.NoError(t, json.Unmarshal(env.Result, &list))
		require.Len(t, list, 2)
		assert.Equal(t, builtin.CurrentTimeToolName, list[0].Name)
		assert.Equal(t, builtin.EchoToolName, list[1].Name)

		status, env = f.call(t, http.MethodGet, "/mcp/servers/"+serverID+"/tools", bobToken, "")
		assert.Equal(t, http.StatusNotFound, status)
		assertError(t, env, registry.CodeServerNotFound)

		status, env = f.call(t, http.MethodGet, "/mcp/servers/abc/tools", aliceToken, "")
		assert.Equal(t, http.StatusBadRequest, status)
		assertError(t, env, server.CodeBadRequest)

		toolID := chatmodel.FormatID(list[1].ID)
		status, env = f.call(t, http.MethodPatch, "/mcp/servers/"+serverID+"/tools/"+toolID, aliceToken, `{"is_enabled":false}`)
		require.Equal(t, http.StatusOK, status, "%+v", env.Errors)

		tools, err := f.store.ListTools(context.Background(), res.Server.ID)
		require.NoError(t, err)
		for _, tool := range tools {
			assert.Equal(t, tool.Name != builtin.EchoToolName, tool.IsEnabled)
		}

		status, env = f.call(t, http.MethodPatch, "/mcp/servers/"+serverID+"/tools/"+toolID, aliceToken, `{}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assertError(t, env, server.CodeBadRequest)
	})

	t.Run("deactivate", func(t *testing.T) {
		status, env := f.call(t, http.MethodPatch, "/mcp/servers/"+serverID, aliceToken, `{"is_active":false}`)
		require.Equal(t, http.StatusOK, status, "%+v", env.Errors)

		srv, err := f.store.GetServer(context.Background(), "alice", res.Server.ID)
		require.NoError(t, err)
		assert.False(t, srv.IsActive)

		status, env = f.call(t, http.MethodPatch, "/mcp/servers/"+serverID, bobToken, `{"is_active":true}`)
		assert.Equal(t, http.StatusNotFound, status)
		assertError(t, env, registry.CodeServerNotFound)
	})
}
