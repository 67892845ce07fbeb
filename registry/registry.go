// Package registry resolves the tools available to a user and manages
// the tool servers the user connects.
package registry

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/chatmodel"
	"github.com/effective-security/toolchat/mcp/mcpclient"
	"github.com/effective-security/toolchat/pkg/llms"
	"github.com/effective-security/toolchat/store"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolchat", "registry")

// Binding is an enabled tool with its owning server
type Binding struct {
	Tool   *chatmodel.Tool
	Server *chatmodel.ToolServer
}

// ConnectRequest describes a tool server to connect
type ConnectRequest struct {
	Name        string `json:"server_name" validate:"required,max=255"`
	URL         string `json:"server_url" validate:"required,url"`
	APIKey      string `json:"api_key,omitempty"`
	Description string `json:"description,omitempty"`
}

// ConnectResult is the connected server with the discovered tools
type ConnectResult struct {
	Server *chatmodel.ToolServer `json:"server"`
	Tools  []*chatmodel.Tool     `json:"tools"`
}

// ServerInfo is a server with the number of its tools
type ServerInfo struct {
	*chatmodel.ToolServer
	ToolCount int `json:"tool_count"`
}

// Registry provides access to the tool servers of users
type Registry struct {
	store  store.ToolStore
	client mcpclient.Client
}

// New returns Registry
func New(st store.ToolStore, client mcpclient.Client) *Registry {
	return &Registry{
		store:  st,
		client: client,
	}
}

// ListActiveToolsForUser returns the enabled tools of the active servers of the owner,
// in server creation order then tool creation order.
func (r *Registry) ListActiveToolsForUser(ctx context.Context, owner string) ([]Binding, error) {
	servers, err := r.store.ListServers(ctx, owner)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to list servers")
	}

	var list []Binding
	for _, srv := range servers {
		if !srv.IsActive {
			continue
		}
		tools, err := r.store.ListTools(ctx, srv.ID)
		if err != nil {
			return nil, errors.WithMessagef(err, "failed to list tools of server %d", srv.ID)
		}
		for _, t := range tools {
			if t.IsEnabled {
				list = append(list, Binding{Tool: t, Server: srv})
			}
		}
	}
	return list, nil
}

// ToolSchemas returns the schemas advertised to the model
func ToolSchemas(list []Binding) []llms.ToolSchema {
	if len(list) == 0 {
		return nil
	}
	schemas := make([]llms.ToolSchema, 0, len(list))
	for _, b := range list {
		schemas = append(schemas, llms.ToolSchema{
			Name:        b.Tool.Name,
			Description: b.Tool.Description,
			InputSchema: b.Tool.InputSchema,
		})
	}
	return schemas
}

// ConnectServer discovers the tools of the server and registers both
func (r *Registry) ConnectServer(ctx context.Context, owner string, req *ConnectRequest) (*ConnectResult, error) {
	name := strings.TrimSpace(req.Name)

	_, err := r.store.FindServerByName(ctx, owner, name)
	if err == nil {
		return nil, newError(CodeDuplicateServer, nil, "server with this name already exists")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, newError(CodeStorage, err, "failed to check server")
	}

	discovered := r.client.DiscoverTools(ctx, req.URL, req.APIKey)
	if !discovered.Success {
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "discovery_failed",
			"owner", owner,
			"server", name,
			"reason", discovered.Error,
		)
		return nil, newError(CodeDiscoveryFailed, nil, "failed to connect to server: "+discovered.Error)
	}

	srv, err := r.store.CreateServer(ctx, &chatmodel.ToolServer{
		Owner:       owner,
		Name:        name,
		BaseURL:     strings.TrimRight(req.URL, "/"),
		APIKey:      req.APIKey,
		Description: req.Description,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, newError(CodeDuplicateServer, nil, "server with this name already exists")
		}
		return nil, newError(CodeStorage, err, "failed to save server")
	}

	res := &ConnectResult{
		Server: srv,
		Tools:  make([]*chatmodel.Tool, 0, len(discovered.Tools)),
	}
	for _, d := range discovered.Tools {
		t, err := r.store.CreateTool(ctx, &chatmodel.Tool{
			ServerID:    srv.ID,
			Name:        d.Name,
			Description: d.Description,
			InputSchema: normalizeSchema(d.InputSchema),
			IsEnabled:   true,
			CreatedAt:   time.Now().UTC(),
		})
		if err != nil {
			logger.ContextKV(ctx, xlog.WARNING,
				"status", "tool_save_failed",
				"server", srv.ID,
				"tool", d.Name,
				"err", err.Error(),
			)
			continue
		}
		res.Tools = append(res.Tools, t)
	}

	logger.ContextKV(ctx, xlog.INFO,
		"status", "server_connected",
		"owner", owner,
		"server", srv.ID,
		"name", srv.Name,
		"tools", len(res.Tools),
	)
	return res, nil
}

// ListServers returns the servers of the owner, newest first
func (r *Registry) ListServers(ctx context.Context, owner string) ([]*ServerInfo, error) {
	servers, err := r.store.ListServers(ctx, owner)
	if err != nil {
		return nil, newError(CodeStorage, err, "failed to list servers")
	}

	list := make([]*ServerInfo, 0, len(servers))
	for i := len(servers) - 1; i >= 0; i-- {
		srv := servers[i]
		count, err := r.store.CountTools(ctx, srv.ID)
		if err != nil {
			return nil, newError(CodeStorage, err, "failed to count tools")
		}
		list = append(list, &ServerInfo{ToolServer: srv, ToolCount: count})
	}
	return list, nil
}

// ListServerTools returns the tools of the owner's server, ordered by name
func (r *Registry) ListServerTools(ctx context.Context, owner string, serverID uint64) ([]*chatmodel.Tool, error) {
	if _, err := r.getServer(ctx, owner, serverID); err != nil {
		return nil, err
	}

	tools, err := r.store.ListTools(ctx, serverID)
	if err != nil {
		return nil, newError(CodeStorage, err, "failed to list tools")
	}
	sort.SliceStable(tools, func(i, j int) bool {
		return tools[i].Name < tools[j].Name
	})
	return tools, nil
}

// SetServerActive activates or deactivates the owner's server
func (r *Registry) SetServerActive(ctx context.Context, owner string, serverID uint64, active bool) error {
	err := r.store.UpdateServerActive(ctx, owner, serverID, active)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return newError(CodeServerNotFound, nil, "server not found")
		}
		return newError(CodeStorage, err, "failed to update server")
	}
	return nil
}

// SetToolEnabled enables or disables a tool of the owner's server
func (r *Registry) SetToolEnabled(ctx context.Context, owner string, serverID, toolID uint64, enabled bool) error {
	if _, err := r.getServer(ctx, owner, serverID); err != nil {
		return err
	}

	err := r.store.UpdateToolEnabled(ctx, serverID, toolID, enabled)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return newError(CodeServerNotFound, nil, "tool not found")
		}
		return newError(CodeStorage, err, "failed to update tool")
	}
	return nil
}

func (r *Registry) getServer(ctx context.Context, owner string, serverID uint64) (*chatmodel.ToolServer, error) {
	srv, err := r.store.GetServer(ctx, owner, serverID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(CodeServerNotFound, nil, "server not found")
		}
		return nil, newError(CodeStorage, err, "failed to get server")
	}
	return srv, nil
}

// normalizeSchema returns nil for an empty or null schema
func normalizeSchema(js json.RawMessage) json.RawMessage {
	s := strings.TrimSpace(string(js))
	if s == "" || s == "null" {
		return nil
	}
	return json.RawMessage(s)
}
