package store

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/chatmodel"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolchat", "store")

//go:generate mockgen -source=store.go -destination=../mocks/mockstore/store_mock.gen.go -package mockstore

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a uniqueness constraint is violated
	ErrAlreadyExists = errors.New("already exists")
)

// MessageStore persists chat messages.
type MessageStore interface {
	// AddMessage inserts a new message and returns it with the assigned ID
	AddMessage(ctx context.Context, msg *chatmodel.Message) (*chatmodel.Message, error)
	// RecentMessages returns up to limit most recent messages of the owner,
	// ordered by timestamp ascending.
	RecentMessages(ctx context.Context, owner string, limit int) ([]*chatmodel.Message, error)
	// ListMessages returns messages of the owner ordered by timestamp descending.
	// limit <= 0 returns all messages after offset.
	ListMessages(ctx context.Context, owner string, limit, offset int) ([]*chatmodel.Message, error)
	// CountMessages returns the number of messages of the owner
	CountMessages(ctx context.Context, owner string) (int, error)
	// DeleteMessages deletes all messages of the owner and returns the deleted count
	DeleteMessages(ctx context.Context, owner string) (int, error)
}

// ToolStore persists tool servers and their tools.
type ToolStore interface {
	// CreateServer inserts a new server,
	// ErrAlreadyExists is returned if the owner already has a server with the same name.
	CreateServer(ctx context.Context, srv *chatmodel.ToolServer) (*chatmodel.ToolServer, error)
	// GetServer returns the server of the owner, or ErrNotFound
	GetServer(ctx context.Context, owner string, id uint64) (*chatmodel.ToolServer, error)
	// FindServerByName returns the server of the owner by name, or ErrNotFound
	FindServerByName(ctx context.Context, owner, name string) (*chatmodel.ToolServer, error)
	// ListServers returns the servers of the owner in creation order
	ListServers(ctx context.Context, owner string) ([]*chatmodel.ToolServer, error)
	// UpdateServerActive sets is_active flag of the server
	UpdateServerActive(ctx context.Context, owner string, id uint64, active bool) error

	// CreateTool inserts a new tool for a server
	CreateTool(ctx context.Context, tool *chatmodel.Tool) (*chatmodel.Tool, error)
	// ListTools returns the tools of the server in creation order
	ListTools(ctx context.Context, serverID uint64) ([]*chatmodel.Tool, error)
	// CountTools returns the number of tools of the server
	CountTools(ctx context.Context, serverID uint64) (int, error)
	// UpdateToolEnabled sets is_enabled flag of the tool
	UpdateToolEnabled(ctx context.Context, serverID, toolID uint64, enabled bool) error
}

// InvocationStore persists tool invocation audit records.
type InvocationStore interface {
	// AddInvocation inserts a new audit record
	AddInvocation(ctx context.Context, rec *chatmodel.ToolInvocationRecord) (*chatmodel.ToolInvocationRecord, error)
	// ListInvocations returns the records for the message in insertion order
	ListInvocations(ctx context.Context, messageID uint64) ([]*chatmodel.ToolInvocationRecord, error)
}

// Store is the record store used by the registry and the conversation controller.
type Store interface {
	MessageStore
	ToolStore
	InvocationStore
	Close() error
}

func cloneMessage(m *chatmodel.Message) *chatmodel.Message {
	c := *m
	return &c
}

func cloneServer(s *chatmodel.ToolServer) *chatmodel.ToolServer {
	c := *s
	return &c
}

func cloneTool(t *chatmodel.Tool) *chatmodel.Tool {
	c := *t
	if t.InputSchema != nil {
		c.InputSchema = append([]byte(nil), t.InputSchema...)
	}
	return &c
}

func cloneInvocation(r *chatmodel.ToolInvocationRecord) *chatmodel.ToolInvocationRecord {
	c := *r
	if r.Input != nil {
		c.Input = append([]byte(nil), r.Input...)
	}
	if r.Output != nil {
		c.Output = append([]byte(nil), r.Output...)
	}
	return &c
}

// page returns the [offset, offset+limit) window of n items
func page(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}
