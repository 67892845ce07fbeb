package tools_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/tools"
	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addRequest struct {
	A int `json:"a" jsonschema:"title=A,description=First operand"`
	B int `json:"b" jsonschema:"title=B,description=Second operand"`
}

type addResult struct {
	Sum int `json:"sum"`
}

func add(_ context.Context, req *addRequest) (*addResult, error) {
	if req.A < 0 {
		return nil, errors.New("negative")
	}
	return &addResult{Sum: req.A + req.B}, nil
}

func TestNewFunc(t *testing.T) {
	t.Parallel()

	_, err := tools.NewFunc[addRequest, addResult]("", "desc", add)
	assert.EqualError(t, err, "tool name is required")
	_, err = tools.NewFunc[addRequest, addResult]("add", "desc", nil)
	assert.EqualError(t, err, "tool add: function is required")

	tool, err := tools.NewFunc("add", "Adds two numbers", add)
	require.NoError(t, err)
	assert.Equal(t, "add", tool.Name())
	assert.Equal(t, "Adds two numbers", tool.Description())

	params, ok := tool.Parameters().(*jsonschema.Schema)
	require.True(t, ok)
	assert.Equal(t, "object", params.Type)
	assert.Equal(t, []string{"a", "b"}, params.Required)

	ctx := context.Background()
	out, err := tool.Call(ctx, `{"a":1,"b":2}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sum":3}`, out)

	out, err = tool.Call(ctx, "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"sum":0}`, out)

	_, err = tool.Call(ctx, `{"a":`)
	assert.True(t, errors.Is(err, tools.ErrFailedUnmarshalInput))

	_, err = tool.Call(ctx, `{"a":-1}`)
	assert.EqualError(t, err, "negative")

	res, err := tool.Run(ctx, &addRequest{A: 2, B: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Sum)
}

func TestGetDescriptors(t *testing.T) {
	t.Parallel()

	a, err := tools.NewFunc("add", "Adds two numbers", add)
	require.NoError(t, err)
	b, err := tools.NewFunc("sum", "Sums two numbers", add)
	require.NoError(t, err)

	d := tools.GetDescriptors(a, b)
	js, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"add","description":"Adds two numbers"},{"name":"sum","description":"Sums two numbers"}]`, string(js))
	assert.Empty(t, tools.GetDescriptors())
}
