package store

import (
	"context"
	"encoding/json"
	"path"
	"sort"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/chatmodel"
	"github.com/effective-security/xlog"
	"github.com/redis/go-redis/v9"
)

// The redis store implements the Store interface using Redis as the backend.
// Records are stored as JSON values, IDs are generated with the flake generator
// so that ordering by ID follows creation order.
// The keys namespace is organized as follows:
// - `/<prefix>/toolchat/<owner>/messages` sorted set of messages scored by timestamp,
//   ties are ordered by the JSON value which starts with the message ID
// - `/<prefix>/toolchat/<owner>/servers` hash of server ID to server
// - `/<prefix>/toolchat/<owner>/server_names` hash of server name to server ID, the uniqueness constraint
// - `/<prefix>/toolchat/servers/<serverID>/tools` hash of tool ID to tool
// - `/<prefix>/toolchat/invocations/<messageID>` list of invocation records

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore returns Store backed by Redis
func NewRedisStore(client *redis.Client, prefix string) Store {
	return &redisStore{
		client: client,
		prefix: prefix,
	}
}

func (m *redisStore) Close() error {
	return m.client.Close()
}

func (m *redisStore) messagesKey(owner string) string {
	return path.Join("/", m.prefix, "toolchat", owner, "messages")
}

func (m *redisStore) serversKey(owner string) string {
	return path.Join("/", m.prefix, "toolchat", owner, "servers")
}

func (m *redisStore) serverNamesKey(owner string) string {
	return path.Join("/", m.prefix, "toolchat", owner, "server_names")
}

func (m *redisStore) toolsKey(serverID uint64) string {
	return path.Join("/", m.prefix, "toolchat", "servers", chatmodel.FormatID(serverID), "tools")
}

func (m *redisStore) invocationsKey(messageID uint64) string {
	return path.Join("/", m.prefix, "toolchat", "invocations", chatmodel.FormatID(messageID))
}

func (m *redisStore) AddMessage(ctx context.Context, msg *chatmodel.Message) (*chatmodel.Message, error) {
	if msg == nil || msg.Owner == "" {
		return nil, errors.New("invalid message")
	}
	c := cloneMessage(msg)
	c.ID = chatmodel.NewID()

	data, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal message")
	}
	err = m.client.ZAdd(ctx, m.messagesKey(c.Owner), redis.Z{
		Score:  messageScore(c),
		Member: data,
	}).Err()
	if err != nil {
		return nil, errors.Wrap(err, "failed to store message in Redis")
	}
	return c, nil
}

// messageScore orders messages by timestamp, microseconds fit the float64 mantissa
func messageScore(msg *chatmodel.Message) float64 {
	return float64(msg.Timestamp.UnixMicro())
}

func decodeMessages(ctx context.Context, data []string) []*chatmodel.Message {
	list := make([]*chatmodel.Message, 0, len(data))
	for _, item := range data {
		var msg chatmodel.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			logger.ContextKV(ctx, xlog.ERROR, "reason", "unmarshal message", "err", err.Error())
			continue
		}
		list = append(list, &msg)
	}
	return list
}

func (m *redisStore) RecentMessages(ctx context.Context, owner string, limit int) ([]*chatmodel.Message, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}
	data, err := m.client.ZRange(ctx, m.messagesKey(owner), start, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get messages from Redis")
	}
	return decodeMessages(ctx, data), nil
}

func (m *redisStore) ListMessages(ctx context.Context, owner string, limit, offset int) ([]*chatmodel.Message, error) {
	n, err := m.CountMessages(ctx, owner)
	if err != nil {
		return nil, err
	}
	start, end := page(n, limit, offset)
	if start == end {
		return nil, nil
	}
	data, err := m.client.ZRevRange(ctx, m.messagesKey(owner), int64(start), int64(end-1)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get messages from Redis")
	}
	return decodeMessages(ctx, data), nil
}

func (m *redisStore) CountMessages(ctx context.Context, owner string) (int, error) {
	n, err := m.client.ZCard(ctx, m.messagesKey(owner)).Result()
	if err != nil {
		return 0, errors.Wrap(err, "failed to count messages in Redis")
	}
	return int(n), nil
}

func (m *redisStore) DeleteMessages(ctx context.Context, owner string) (int, error) {
	key := m.messagesKey(owner)
	pipe := m.client.TxPipeline()
	count := pipe.ZCard(ctx, key)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, errors.Wrap(err, "failed to delete messages in Redis")
	}
	return int(count.Val()), nil
}

func (m *redisStore) CreateServer(ctx context.Context, srv *chatmodel.ToolServer) (*chatmodel.ToolServer, error) {
	if srv == nil || srv.Owner == "" || srv.Name == "" {
		return nil, errors.New("invalid server")
	}
	c := cloneServer(srv)
	c.ID = chatmodel.NewID()

	// HSETNX on the names hash is the uniqueness constraint
	ok, err := m.client.HSetNX(ctx, m.serverNamesKey(c.Owner), c.Name, chatmodel.FormatID(c.ID)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to reserve server name in Redis")
	}
	if !ok {
		return nil, errors.Wrapf(ErrAlreadyExists, "server %q", c.Name)
	}

	if err = m.putServer(ctx, c); err != nil {
		_ = m.client.HDel(ctx, m.serverNamesKey(c.Owner), c.Name).Err()
		return nil, err
	}
	return c, nil
}

func (m *redisStore) putServer(ctx context.Context, srv *chatmodel.ToolServer) error {
	data, err := json.Marshal(srv)
	if err != nil {
		return errors.Wrap(err, "failed to marshal server")
	}
	if err = m.client.HSet(ctx, m.serversKey(srv.Owner), chatmodel.FormatID(srv.ID), data).Err(); err != nil {
		return errors.Wrap(err, "failed to store server in Redis")
	}
	return nil
}

func (m *redisStore) GetServer(ctx context.Context, owner string, id uint64) (*chatmodel.ToolServer, error) {
	data, err := m.client.HGet(ctx, m.serversKey(owner), chatmodel.FormatID(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.WithStack(ErrNotFound)
		}
		return nil, errors.Wrap(err, "failed to get server from Redis")
	}
	var srv chatmodel.ToolServer
	if err = json.Unmarshal([]byte(data), &srv); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal server")
	}
	return &srv, nil
}

func (m *redisStore) FindServerByName(ctx context.Context, owner, name string) (*chatmodel.ToolServer, error) {
	idStr, err := m.client.HGet(ctx, m.serverNamesKey(owner), name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.WithStack(ErrNotFound)
		}
		return nil, errors.Wrap(err, "failed to find server in Redis")
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "invalid server ID")
	}
	return m.GetServer(ctx, owner, id)
}

func (m *redisStore) ListServers(ctx context.Context, owner string) ([]*chatmodel.ToolServer, error) {
	data, err := m.client.HGetAll(ctx, m.serversKey(owner)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list servers from Redis")
	}
	list := make([]*chatmodel.ToolServer, 0, len(data))
	for _, item := range data {
		var srv chatmodel.ToolServer
		if err := json.Unmarshal([]byte(item), &srv); err != nil {
			logger.ContextKV(ctx, xlog.ERROR, "reason", "unmarshal server", "err", err.Error())
			continue
		}
		list = append(list, &srv)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (m *redisStore) UpdateServerActive(ctx context.Context, owner string, id uint64, active bool) error {
	srv, err := m.GetServer(ctx, owner, id)
	if err != nil {
		return err
	}
	srv.IsActive = active
	return m.putServer(ctx, srv)
}

func (m *redisStore) putTool(ctx context.Context, tool *chatmodel.Tool) error {
	data, err := json.Marshal(tool)
	if err != nil {
		return errors.Wrap(err, "failed to marshal tool")
	}
	if err = m.client.HSet(ctx, m.toolsKey(tool.ServerID), chatmodel.FormatID(tool.ID), data).Err(); err != nil {
		return errors.Wrap(err, "failed to store tool in Redis")
	}
	return nil
}

func (m *redisStore) CreateTool(ctx context.Context, tool *chatmodel.Tool) (*chatmodel.Tool, error) {
	if tool == nil || tool.Name == "" {
		return nil, errors.New("invalid tool")
	}
	c := cloneTool(tool)
	c.ID = chatmodel.NewID()
	if err := m.putTool(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (m *redisStore) ListTools(ctx context.Context, serverID uint64) ([]*chatmodel.Tool, error) {
	data, err := m.client.HGetAll(ctx, m.toolsKey(serverID)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tools from Redis")
	}
	list := make([]*chatmodel.Tool, 0, len(data))
	for _, item := range data {
		var t chatmodel.Tool
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			logger.ContextKV(ctx, xlog.ERROR, "reason", "unmarshal tool", "err", err.Error())
			continue
		}
		list = append(list, &t)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (m *redisStore) CountTools(ctx context.Context, serverID uint64) (int, error) {
	n, err := m.client.HLen(ctx, m.toolsKey(serverID)).Result()
	if err != nil {
		return 0, errors.Wrap(err, "failed to count tools in Redis")
	}
	return int(n), nil
}

func (m *redisStore) UpdateToolEnabled(ctx context.Context, serverID, toolID uint64, enabled bool) error {
	data, err := m.client.HGet(ctx, m.toolsKey(serverID), chatmodel.FormatID(toolID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return errors.WithStack(ErrNotFound)
		}
		return errors.Wrap(err, "failed to get tool from Redis")
	}
	var t chatmodel.Tool
	if err = json.Unmarshal([]byte(data), &t); err != nil {
		return errors.Wrap(err, "failed to unmarshal tool")
	}
	t.IsEnabled = enabled
	return m.putTool(ctx, &t)
}

func (m *redisStore) AddInvocation(ctx context.Context, rec *chatmodel.ToolInvocationRecord) (*chatmodel.ToolInvocationRecord, error) {
	if rec == nil {
		return nil, errors.New("invalid invocation")
	}
	c := cloneInvocation(rec)
	c.ID = chatmodel.NewID()
	data, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal invocation")
	}
	if err = m.client.RPush(ctx, m.invocationsKey(c.MessageID), data).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to store invocation in Redis")
	}
	return c, nil
}

func (m *redisStore) ListInvocations(ctx context.Context, messageID uint64) ([]*chatmodel.ToolInvocationRecord, error) {
	data, err := m.client.LRange(ctx, m.invocationsKey(messageID), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list invocations from Redis")
	}
	list := make([]*chatmodel.ToolInvocationRecord, 0, len(data))
	for _, item := range data {
		var r chatmodel.ToolInvocationRecord
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			logger.ContextKV(ctx, xlog.ERROR, "reason", "unmarshal invocation", "err", err.Error())
			continue
		}
		list = append(list, &r)
	}
	return list, nil
}
