package builtin_test

import (
	"context"
	"testing"
	"time"

	"github.com/effective-security/toolchat/tools/builtin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTools(t *testing.T) {
	list, err := builtin.Tools()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, builtin.EchoToolName, list[0].Name())
	assert.Equal(t, builtin.CurrentTimeToolName, list[1].Name())

	ctx := context.Background()

	out, err := list[0].Call(ctx, `{"text":"hello"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hello"}`, out)

	_, err = list[0].Call(ctx, `{}`)
	assert.EqualError(t, err, "invalid request: empty text")

	saved := builtin.Now
	builtin.Now = func() time.Time {
		return time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)
	}
	defer func() { builtin.Now = saved }()

	out, err = list[1].Call(ctx, `{}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"timezone":"UTC","time":"2025-01-02T15:04:05Z"}`, out)

	out, err = list[1].Call(ctx, `{"timezone":"America/New_York"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"timezone":"America/New_York","time":"2025-01-02T10:04:05-05:00"}`, out)

	_, err = list[1].Call(ctx, `{"timezone":"Mars/Olympus"}`)
	assert.Error(t, err)
}
