package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteConstraintCodes(t *testing.T) {
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "codes.db"))
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	insertServer := `INSERT INTO mcp_servers (user_id, server_name, server_url, is_active, created_at) VALUES ('bob', 'search', 'http://localhost', 1, 0)`

	_, err = st.db.ExecContext(ctx, insertServer)
	require.NoError(t, err)

	_, err = st.db.ExecContext(ctx, insertServer)
	require.Error(t, err)
	assert.True(t, isUniqueViolation(errors.Wrap(err, "insert")))
	assert.False(t, isForeignKeyViolation(err))

	_, err = st.db.ExecContext(ctx, `INSERT INTO mcp_tools (server_id, tool_name, is_enabled, created_at) VALUES (999, 'orphan', 1, 0)`)
	require.Error(t, err)
	assert.True(t, isForeignKeyViolation(err))
	assert.False(t, isUniqueViolation(err))

	// the message text alone does not classify an error
	assert.False(t, isUniqueViolation(errors.New("UNIQUE constraint failed: mcp_servers.server_name")))
	assert.False(t, isForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, isUniqueViolation(nil))
}
