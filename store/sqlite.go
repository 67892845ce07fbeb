package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/chatmodel"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS messages (
	message_id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	datetime INTEGER NOT NULL,
	own INTEGER NOT NULL,
	text TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_user_datetime ON messages (user_id, datetime);

CREATE TABLE IF NOT EXISTS mcp_servers (
	server_id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	server_name TEXT NOT NULL,
	server_url TEXT NOT NULL,
	api_key TEXT,
	description TEXT,
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at INTEGER NOT NULL,
	UNIQUE (user_id, server_name)
);

CREATE TABLE IF NOT EXISTS mcp_tools (
	tool_id INTEGER PRIMARY KEY AUTOINCREMENT,
	server_id INTEGER NOT NULL REFERENCES mcp_servers (server_id) ON DELETE CASCADE,
	tool_name TEXT NOT NULL,
	tool_description TEXT,
	input_schema BLOB,
	is_enabled INTEGER NOT NULL DEFAULT 1,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_mcp_tools_server ON mcp_tools (server_id);

CREATE TABLE IF NOT EXISTS mcp_tool_invocations (
	invocation_id INTEGER PRIMARY KEY AUTOINCREMENT,
	message_id INTEGER NOT NULL,
	tool_id INTEGER NOT NULL,
	input_data BLOB,
	output_data BLOB,
	status TEXT NOT NULL,
	error_message TEXT,
	invoked_at INTEGER NOT NULL,
	completed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_mcp_tool_invocations_message ON mcp_tool_invocations (message_id);
`

// SQLiteStore persists records in SQLite.
// Timestamps are stored as Unix nanoseconds to keep ordering exact.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dsn
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("sqlite store dsn is required")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite store")
	}
	// a single writer avoids SQLITE_BUSY under concurrent runs
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "failed to execute %q", pragma)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to create sqlite schema")
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// sqliteCode returns the extended result code of the driver error, or 0
func sqliteCode(err error) int {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		return serr.Code()
	}
	return 0
}

func isUniqueViolation(err error) bool {
	code := sqliteCode(err)
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func isForeignKeyViolation(err error) bool {
	return sqliteCode(err) == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}

func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullBytes(b json.RawMessage) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}

func (s *SQLiteStore) AddMessage(ctx context.Context, msg *chatmodel.Message) (*chatmodel.Message, error) {
	if msg == nil || msg.Owner == "" {
		return nil, errors.New("invalid message")
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (user_id, datetime, own, text) VALUES (?, ?, ?, ?)`,
		msg.Owner, toNanos(msg.Timestamp), msg.Own, msg.Text)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert message")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get message id")
	}
	c := cloneMessage(msg)
	c.ID = uint64(id)
	c.Timestamp = fromNanos(toNanos(msg.Timestamp))
	return c, nil
}

func (s *SQLiteStore) queryMessages(ctx context.Context, query string, args ...any) ([]*chatmodel.Message, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query messages")
	}
	defer rows.Close()

	var list []*chatmodel.Message
	for rows.Next() {
		var (
			m  chatmodel.Message
			id int64
			ts int64
		)
		if err := rows.Scan(&id, &m.Owner, &ts, &m.Own, &m.Text); err != nil {
			return nil, errors.Wrap(err, "failed to scan message")
		}
		m.ID = uint64(id)
		m.Timestamp = fromNanos(ts)
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read messages")
	}
	return list, nil
}

func (s *SQLiteStore) RecentMessages(ctx context.Context, owner string, limit int) ([]*chatmodel.Message, error) {
	if limit <= 0 {
		limit = -1
	}
	list, err := s.queryMessages(ctx, `
SELECT message_id, user_id, datetime, own, text
FROM messages
WHERE user_id = ?
ORDER BY datetime DESC, message_id DESC
LIMIT ?`, owner, limit)
	if err != nil {
		return nil, err
	}
	// reverse to oldest first
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return list, nil
}

func (s *SQLiteStore) ListMessages(ctx context.Context, owner string, limit, offset int) ([]*chatmodel.Message, error) {
	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}
	return s.queryMessages(ctx, `
SELECT message_id, user_id, datetime, own, text
FROM messages
WHERE user_id = ?
ORDER BY datetime DESC, message_id DESC
LIMIT ? OFFSET ?`, owner, limit, offset)
}

func (s *SQLiteStore) CountMessages(ctx context.Context, owner string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE user_id = ?`, owner).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count messages")
	}
	return count, nil
}

func (s *SQLiteStore) DeleteMessages(ctx context.Context, owner string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE user_id = ?`, owner)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete messages")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get deleted count")
	}
	return int(n), nil
}

const serverColumns = `server_id, user_id, server_name, server_url, api_key, description, is_active, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanServer(row rowScanner) (*chatmodel.ToolServer, error) {
	var (
		srv         chatmodel.ToolServer
		id          int64
		apiKey      sql.NullString
		description sql.NullString
		createdAt   int64
	)
	if err := row.Scan(&id, &srv.Owner, &srv.Name, &srv.BaseURL, &apiKey, &description, &srv.IsActive, &createdAt); err != nil {
		return nil, err
	}
	srv.ID = uint64(id)
	srv.APIKey = apiKey.String
	srv.Description = description.String
	srv.CreatedAt = fromNanos(createdAt)
	return &srv, nil
}

func (s *SQLiteStore) CreateServer(ctx context.Context, srv *chatmodel.ToolServer) (*chatmodel.ToolServer, error) {
	if srv == nil || srv.Owner == "" || srv.Name == "" {
		return nil, errors.New("invalid server")
	}
	res, err := s.db.ExecContext(ctx, `
INSERT INTO mcp_servers (user_id, server_name, server_url, api_key, description, is_active, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		srv.Owner, srv.Name, srv.BaseURL, nullString(srv.APIKey), nullString(srv.Description), srv.IsActive, toNanos(srv.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.Wrapf(ErrAlreadyExists, "server %q", srv.Name)
		}
		return nil, errors.Wrap(err, "failed to insert server")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get server id")
	}
	c := cloneServer(srv)
	c.ID = uint64(id)
	c.CreatedAt = fromNanos(toNanos(srv.CreatedAt))
	return c, nil
}

func (s *SQLiteStore) getServer(ctx context.Context, query string, args ...any) (*chatmodel.ToolServer, error) {
	srv, err := scanServer(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.WithStack(ErrNotFound)
		}
		return nil, errors.Wrap(err, "failed to get server")
	}
	return srv, nil
}

func (s *SQLiteStore) GetServer(ctx context.Context, owner string, id uint64) (*chatmodel.ToolServer, error) {
	return s.getServer(ctx, `SELECT `+serverColumns+` FROM mcp_servers WHERE user_id = ? AND server_id = ?`, owner, int64(id))
}

func (s *SQLiteStore) FindServerByName(ctx context.Context, owner, name string) (*chatmodel.ToolServer, error) {
	return s.getServer(ctx, `SELECT `+serverColumns+` FROM mcp_servers WHERE user_id = ? AND server_name = ?`, owner, name)
}

func (s *SQLiteStore) ListServers(ctx context.Context, owner string) ([]*chatmodel.ToolServer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+serverColumns+` FROM mcp_servers WHERE user_id = ? ORDER BY server_id ASC`, owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query servers")
	}
	defer rows.Close()

	var list []*chatmodel.ToolServer
	for rows.Next() {
		srv, err := scanServer(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan server")
		}
		list = append(list, srv)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read servers")
	}
	return list, nil
}

func (s *SQLiteStore) UpdateServerActive(ctx context.Context, owner string, id uint64, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE mcp_servers SET is_active = ? WHERE user_id = ? AND server_id = ?`, active, owner, int64(id))
	if err != nil {
		return errors.Wrap(err, "failed to update server")
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to get affected rows")
	}
	if n == 0 {
		return errors.WithStack(ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) CreateTool(ctx context.Context, tool *chatmodel.Tool) (*chatmodel.Tool, error) {
	if tool == nil || tool.Name == "" {
		return nil, errors.New("invalid tool")
	}
	res, err := s.db.ExecContext(ctx, `
INSERT INTO mcp_tools (server_id, tool_name, tool_description, input_schema, is_enabled, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		int64(tool.ServerID), tool.Name, nullString(tool.Description), nullBytes(tool.InputSchema), tool.IsEnabled, toNanos(tool.CreatedAt))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, errors.Wrapf(ErrNotFound, "server %d", tool.ServerID)
		}
		return nil, errors.Wrap(err, "failed to insert tool")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tool id")
	}
	c := cloneTool(tool)
	c.ID = uint64(id)
	c.CreatedAt = fromNanos(toNanos(tool.CreatedAt))
	return c, nil
}

func (s *SQLiteStore) ListTools(ctx context.Context, serverID uint64) ([]*chatmodel.Tool, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT tool_id, server_id, tool_name, tool_description, input_schema, is_enabled, created_at
FROM mcp_tools
WHERE server_id = ?
ORDER BY tool_id ASC`, int64(serverID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to query tools")
	}
	defer rows.Close()

	var list []*chatmodel.Tool
	for rows.Next() {
		var (
			t           chatmodel.Tool
			id, srvID   int64
			description sql.NullString
			schema      []byte
			createdAt   int64
		)
		if err := rows.Scan(&id, &srvID, &t.Name, &description, &schema, &t.IsEnabled, &createdAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan tool")
		}
		t.ID = uint64(id)
		t.ServerID = uint64(srvID)
		t.Description = description.String
		if len(schema) > 0 {
			t.InputSchema = json.RawMessage(schema)
		}
		t.CreatedAt = fromNanos(createdAt)
		list = append(list, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read tools")
	}
	return list, nil
}

func (s *SQLiteStore) CountTools(ctx context.Context, serverID uint64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mcp_tools WHERE server_id = ?`, int64(serverID)).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count tools")
	}
	return count, nil
}

func (s *SQLiteStore) UpdateToolEnabled(ctx context.Context, serverID, toolID uint64, enabled bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE mcp_tools SET is_enabled = ? WHERE server_id = ? AND tool_id = ?`, enabled, int64(serverID), int64(toolID))
	if err != nil {
		return errors.Wrap(err, "failed to update tool")
	}
	return checkAffected(res)
}

func (s *SQLiteStore) AddInvocation(ctx context.Context, rec *chatmodel.ToolInvocationRecord) (*chatmodel.ToolInvocationRecord, error) {
	if rec == nil {
		return nil, errors.New("invalid invocation")
	}
	res, err := s.db.ExecContext(ctx, `
INSERT INTO mcp_tool_invocations (message_id, tool_id, input_data, output_data, status, error_message, invoked_at, completed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(rec.MessageID), int64(rec.ToolID), nullBytes(rec.Input), nullBytes(rec.Output), string(rec.Status),
		nullString(rec.ErrorMessage), toNanos(rec.InvokedAt), toNanos(rec.CompletedAt))
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert invocation")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get invocation id")
	}
	c := cloneInvocation(rec)
	c.ID = uint64(id)
	return c, nil
}

func (s *SQLiteStore) ListInvocations(ctx context.Context, messageID uint64) ([]*chatmodel.ToolInvocationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT invocation_id, message_id, tool_id, input_data, output_data, status, error_message, invoked_at, completed_at
FROM mcp_tool_invocations
WHERE message_id = ?
ORDER BY invocation_id ASC`, int64(messageID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to query invocations")
	}
	defer rows.Close()

	var list []*chatmodel.ToolInvocationRecord
	for rows.Next() {
		var (
			r                    chatmodel.ToolInvocationRecord
			id, msgID, toolID    int64
			input, output        []byte
			status               string
			errMsg               sql.NullString
			invokedAt, completed int64
		)
		if err := rows.Scan(&id, &msgID, &toolID, &input, &output, &status, &errMsg, &invokedAt, &completed); err != nil {
			return nil, errors.Wrap(err, "failed to scan invocation")
		}
		r.ID = uint64(id)
		r.MessageID = uint64(msgID)
		r.ToolID = uint64(toolID)
		if len(input) > 0 {
			r.Input = json.RawMessage(input)
		}
		if len(output) > 0 {
			r.Output = json.RawMessage(output)
		}
		r.Status = chatmodel.InvocationStatus(status)
		r.ErrorMessage = errMsg.String
		r.InvokedAt = fromNanos(invokedAt)
		r.CompletedAt = fromNanos(completed)
		list = append(list, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read invocations")
	}
	return list, nil
}
