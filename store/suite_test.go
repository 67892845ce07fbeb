package store_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/chatmodel"
	"github.com/effective-security/toolchat/store"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore runs the same set of checks against any Store implementation
func testStore(t *testing.T, st store.Store) {
	t.Run("messages", func(t *testing.T) { testMessages(t, st) })
	t.Run("message_order", func(t *testing.T) { testMessageOrder(t, st) })
	t.Run("servers", func(t *testing.T) { testServers(t, st) })
	t.Run("tools", func(t *testing.T) { testTools(t, st) })
	t.Run("invocations", func(t *testing.T) { testInvocations(t, st) })
}

func testMessages(t *testing.T, st store.Store) {
	ctx := context.Background()
	owner := gofakeit.Username() + "-msg"
	other := owner + "-other"

	n, err := st.CountMessages(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	list, err := st.RecentMessages(ctx, owner, 20)
	require.NoError(t, err)
	assert.Empty(t, list)

	base := time.Now().UTC().Truncate(time.Millisecond)
	var added []*chatmodel.Message
	for i := 0; i < 5; i++ {
		m, err := st.AddMessage(ctx, &chatmodel.Message{
			Owner:     owner,
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Own:       i%2 == 0,
			Text:      gofakeit.Sentence(5),
		})
		require.NoError(t, err)
		assert.NotZero(t, m.ID)
		added = append(added, m)
	}
	_, err = st.AddMessage(ctx, &chatmodel.Message{Owner: other, Timestamp: base, Own: true, Text: "other"})
	require.NoError(t, err)

	_, err = st.AddMessage(ctx, &chatmodel.Message{Text: "no owner"})
	assert.Error(t, err)

	n, err = st.CountMessages(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	// most recent 3, oldest first
	list, err = st.RecentMessages(ctx, owner, 3)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, added[2].Text, list[0].Text)
	assert.Equal(t, added[3].Text, list[1].Text)
	assert.Equal(t, added[4].Text, list[2].Text)
	assert.True(t, list[0].Own)
	assert.False(t, list[1].Own)
	assert.True(t, list[2].Timestamp.Equal(added[4].Timestamp))
	if diff := cmp.Diff(added[2:], list); diff != "" {
		t.Errorf("RecentMessages mismatch (-want +got):\n%s", diff)
	}

	// newest first with paging
	list, err = st.ListMessages(ctx, owner, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, added[4].Text, list[0].Text)
	assert.Equal(t, added[3].Text, list[1].Text)

	list, err = st.ListMessages(ctx, owner, 2, 4)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, added[0].Text, list[0].Text)

	list, err = st.ListMessages(ctx, owner, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 5)

	list, err = st.ListMessages(ctx, owner, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	deleted, err := st.DeleteMessages(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 5, deleted)

	n, err = st.CountMessages(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = st.CountMessages(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// testMessageOrder stores messages out of timestamp order,
// as interleaved requests of the same owner do.
func testMessageOrder(t *testing.T, st store.Store) {
	ctx := context.Background()
	owner := gofakeit.Username() + "-order"

	base := time.Now().UTC().Truncate(time.Millisecond)
	texts := map[int]string{}
	for _, sec := range []int{2, 0, 3, 1} {
		text := fmt.Sprintf("at %d", sec)
		texts[sec] = text
		_, err := st.AddMessage(ctx, &chatmodel.Message{
			Owner:     owner,
			Timestamp: base.Add(time.Duration(sec) * time.Second),
			Own:       true,
			Text:      text,
		})
		require.NoError(t, err)
	}

	textsOf := func(list []*chatmodel.Message) []string {
		res := make([]string, 0, len(list))
		for _, m := range list {
			res = append(res, m.Text)
		}
		return res
	}

	list, err := st.RecentMessages(ctx, owner, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{texts[2], texts[3]}, textsOf(list))

	list, err = st.RecentMessages(ctx, owner, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{texts[0], texts[1], texts[2], texts[3]}, textsOf(list))

	list, err = st.ListMessages(ctx, owner, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{texts[2], texts[1]}, textsOf(list))

	list, err = st.ListMessages(ctx, owner, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{texts[3], texts[2], texts[1], texts[0]}, textsOf(list))

	deleted, err := st.DeleteMessages(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 4, deleted)
}

func testServers(t *testing.T, st store.Store) {
	ctx := context.Background()
	owner := gofakeit.Username() + "-srv"

	srv, err := st.CreateServer(ctx, &chatmodel.ToolServer{
		Owner:       owner,
		Name:        "orders",
		BaseURL:     "http://localhost:9000",
		APIKey:      "secret",
		Description: "order tools",
		IsActive:    true,
		CreatedAt:   time.Now(),
	})
	require.NoError(t, err)
	assert.NotZero(t, srv.ID)

	// the same name for the same owner violates the constraint
	_, err = st.CreateServer(ctx, &chatmodel.ToolServer{Owner: owner, Name: "orders", BaseURL: "http://other", CreatedAt: time.Now()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrAlreadyExists))

	// but another owner can use the name
	_, err = st.CreateServer(ctx, &chatmodel.ToolServer{Owner: owner + "-2", Name: "orders", BaseURL: "http://other", CreatedAt: time.Now()})
	require.NoError(t, err)

	srv2, err := st.CreateServer(ctx, &chatmodel.ToolServer{Owner: owner, Name: "weather", BaseURL: "http://weather", IsActive: true, CreatedAt: time.Now()})
	require.NoError(t, err)

	got, err := st.GetServer(ctx, owner, srv.ID)
	require.NoError(t, err)
	assert.Equal(t, "orders", got.Name)
	assert.Equal(t, "secret", got.APIKey)
	assert.Equal(t, "order tools", got.Description)
	assert.True(t, got.IsActive)

	_, err = st.GetServer(ctx, owner+"-2", srv.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	got, err = st.FindServerByName(ctx, owner, "weather")
	require.NoError(t, err)
	assert.Equal(t, srv2.ID, got.ID)

	_, err = st.FindServerByName(ctx, owner, "missing")
	assert.True(t, errors.Is(err, store.ErrNotFound))

	list, err := st.ListServers(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, srv.ID, list[0].ID)
	assert.Equal(t, srv2.ID, list[1].ID)

	require.NoError(t, st.UpdateServerActive(ctx, owner, srv.ID, false))
	got, err = st.GetServer(ctx, owner, srv.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	err = st.UpdateServerActive(ctx, owner, srv.ID+1000, false)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func testTools(t *testing.T, st store.Store) {
	ctx := context.Background()
	owner := gofakeit.Username() + "-tools"

	srv, err := st.CreateServer(ctx, &chatmodel.ToolServer{Owner: owner, Name: "orders", BaseURL: "http://orders", IsActive: true, CreatedAt: time.Now()})
	require.NoError(t, err)

	schema := json.RawMessage(`{"type":"object","properties":{"id":{"type":"integer"}}}`)
	t1, err := st.CreateTool(ctx, &chatmodel.Tool{ServerID: srv.ID, Name: "lookup_order", Description: "Look up order", InputSchema: schema, IsEnabled: true, CreatedAt: time.Now()})
	require.NoError(t, err)
	t2, err := st.CreateTool(ctx, &chatmodel.Tool{ServerID: srv.ID, Name: "cancel_order", IsEnabled: true, CreatedAt: time.Now()})
	require.NoError(t, err)

	n, err := st.CountTools(ctx, srv.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := st.ListTools(ctx, srv.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, t1.ID, list[0].ID)
	assert.Equal(t, "lookup_order", list[0].Name)
	assert.JSONEq(t, string(schema), string(list[0].InputSchema))
	assert.Equal(t, t2.ID, list[1].ID)
	assert.Empty(t, list[1].InputSchema)
	assert.Empty(t, list[1].Description)

	require.NoError(t, st.UpdateToolEnabled(ctx, srv.ID, t2.ID, false))
	list, err = st.ListTools(ctx, srv.ID)
	require.NoError(t, err)
	assert.True(t, list[0].IsEnabled)
	assert.False(t, list[1].IsEnabled)

	err = st.UpdateToolEnabled(ctx, srv.ID, t2.ID+1000, false)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func testInvocations(t *testing.T, st store.Store) {
	ctx := context.Background()
	now := time.Now().UTC()

	msgID := chatmodel.NewID()
	rec, err := st.AddInvocation(ctx, &chatmodel.ToolInvocationRecord{
		MessageID:   msgID,
		ToolID:      1,
		Input:       json.RawMessage(`{"id":42}`),
		Output:      json.RawMessage(`{"status":"shipped"}`),
		Status:      chatmodel.InvocationSuccess,
		InvokedAt:   now,
		CompletedAt: now,
	})
	require.NoError(t, err)
	assert.NotZero(t, rec.ID)

	_, err = st.AddInvocation(ctx, &chatmodel.ToolInvocationRecord{
		MessageID:    msgID,
		ToolID:       2,
		Input:        json.RawMessage(`{}`),
		Status:       chatmodel.InvocationError,
		ErrorMessage: "Tool execution failed: 500 Internal Server Error",
		InvokedAt:    now,
		CompletedAt:  now,
	})
	require.NoError(t, err)

	list, err := st.ListInvocations(ctx, msgID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, chatmodel.InvocationSuccess, list[0].Status)
	assert.JSONEq(t, `{"status":"shipped"}`, string(list[0].Output))
	assert.JSONEq(t, `{"id":42}`, string(list[0].Input))
	assert.Equal(t, chatmodel.InvocationError, list[1].Status)
	assert.Equal(t, "Tool execution failed: 500 Internal Server Error", list[1].ErrorMessage)
	assert.Empty(t, list[1].Output)
	assert.True(t, list[1].CompletedAt.Equal(now))

	list, err = st.ListInvocations(ctx, msgID+1)
	require.NoError(t, err)
	assert.Empty(t, list)
}
