package store

import (
	"context"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/chatmodel"
)

type inMemory struct {
	mu          sync.RWMutex
	messages    map[string][]*chatmodel.Message
	servers     []*chatmodel.ToolServer
	tools       []*chatmodel.Tool
	invocations []*chatmodel.ToolInvocationRecord
}

// NewMemoryStore returns Store that keeps records in memory
func NewMemoryStore() Store {
	return &inMemory{
		messages: make(map[string][]*chatmodel.Message),
	}
}

func (m *inMemory) Close() error {
	return nil
}

func (m *inMemory) AddMessage(_ context.Context, msg *chatmodel.Message) (*chatmodel.Message, error) {
	if msg == nil || msg.Owner == "" {
		return nil, errors.New("invalid message")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c := cloneMessage(msg)
	c.ID = chatmodel.NewID()
	m.messages[c.Owner] = append(m.messages[c.Owner], c)
	return cloneMessage(c), nil
}

// sortedMessages returns messages ordered by timestamp ascending,
// the caller must hold the lock.
func (m *inMemory) sortedMessages(owner string) []*chatmodel.Message {
	list := make([]*chatmodel.Message, len(m.messages[owner]))
	copy(list, m.messages[owner])
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Timestamp.Before(list[j].Timestamp)
	})
	return list
}

func (m *inMemory) RecentMessages(_ context.Context, owner string, limit int) ([]*chatmodel.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := m.sortedMessages(owner)
	if limit > 0 && len(list) > limit {
		list = list[len(list)-limit:]
	}
	res := make([]*chatmodel.Message, 0, len(list))
	for _, msg := range list {
		res = append(res, cloneMessage(msg))
	}
	return res, nil
}

func (m *inMemory) ListMessages(_ context.Context, owner string, limit, offset int) ([]*chatmodel.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := m.sortedMessages(owner)
	n := len(list)
	start, end := page(n, limit, offset)
	res := make([]*chatmodel.Message, 0, end-start)
	for i := start; i < end; i++ {
		res = append(res, cloneMessage(list[n-1-i]))
	}
	return res, nil
}

func (m *inMemory) CountMessages(_ context.Context, owner string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages[owner]), nil
}

func (m *inMemory) DeleteMessages(_ context.Context, owner string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := len(m.messages[owner])
	delete(m.messages, owner)
	return count, nil
}

func (m *inMemory) CreateServer(_ context.Context, srv *chatmodel.ToolServer) (*chatmodel.ToolServer, error) {
	if srv == nil || srv.Owner == "" || srv.Name == "" {
		return nil, errors.New("invalid server")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.servers {
		if s.Owner == srv.Owner && s.Name == srv.Name {
			return nil, errors.Wrapf(ErrAlreadyExists, "server %q", srv.Name)
		}
	}
	c := cloneServer(srv)
	c.ID = chatmodel.NewID()
	m.servers = append(m.servers, c)
	return cloneServer(c), nil
}

func (m *inMemory) GetServer(_ context.Context, owner string, id uint64) (*chatmodel.ToolServer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.servers {
		if s.Owner == owner && s.ID == id {
			return cloneServer(s), nil
		}
	}
	return nil, errors.WithStack(ErrNotFound)
}

func (m *inMemory) FindServerByName(_ context.Context, owner, name string) (*chatmodel.ToolServer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.servers {
		if s.Owner == owner && s.Name == name {
			return cloneServer(s), nil
		}
	}
	return nil, errors.WithStack(ErrNotFound)
}

func (m *inMemory) ListServers(_ context.Context, owner string) ([]*chatmodel.ToolServer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []*chatmodel.ToolServer
	for _, s := range m.servers {
		if s.Owner == owner {
			res = append(res, cloneServer(s))
		}
	}
	return res, nil
}

func (m *inMemory) UpdateServerActive(_ context.Context, owner string, id uint64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.servers {
		if s.Owner == owner && s.ID == id {
			s.IsActive = active
			return nil
		}
	}
	return errors.WithStack(ErrNotFound)
}

func (m *inMemory) CreateTool(_ context.Context, tool *chatmodel.Tool) (*chatmodel.Tool, error) {
	if tool == nil || tool.Name == "" {
		return nil, errors.New("invalid tool")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	for _, s := range m.servers {
		if s.ID == tool.ServerID {
			found = true
			break
		}
	}
	if !found {
		return nil, errors.Wrapf(ErrNotFound, "server %d", tool.ServerID)
	}

	c := cloneTool(tool)
	c.ID = chatmodel.NewID()
	m.tools = append(m.tools, c)
	return cloneTool(c), nil
}

func (m *inMemory) ListTools(_ context.Context, serverID uint64) ([]*chatmodel.Tool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []*chatmodel.Tool
	for _, t := range m.tools {
		if t.ServerID == serverID {
			res = append(res, cloneTool(t))
		}
	}
	return res, nil
}

func (m *inMemory) CountTools(_ context.Context, serverID uint64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, t := range m.tools {
		if t.ServerID == serverID {
			count++
		}
	}
	return count, nil
}

func (m *inMemory) UpdateToolEnabled(_ context.Context, serverID, toolID uint64, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tools {
		if t.ServerID == serverID && t.ID == toolID {
			t.IsEnabled = enabled
			return nil
		}
	}
	return errors.WithStack(ErrNotFound)
}

func (m *inMemory) AddInvocation(_ context.Context, rec *chatmodel.ToolInvocationRecord) (*chatmodel.ToolInvocationRecord, error) {
	if rec == nil {
		return nil, errors.New("invalid invocation")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := cloneInvocation(rec)
	c.ID = chatmodel.NewID()
	m.invocations = append(m.invocations, c)
	return cloneInvocation(c), nil
}

func (m *inMemory) ListInvocations(_ context.Context, messageID uint64) ([]*chatmodel.ToolInvocationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []*chatmodel.ToolInvocationRecord
	for _, r := range m.invocations {
		if r.MessageID == messageID {
			res = append(res, cloneInvocation(r))
		}
	}
	return res, nil
}
