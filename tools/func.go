package tools

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/pkg/schema"
)

// Func is a typed tool backed by a Go function
type Func[I any, O any] struct {
	name        string
	description string
	params      *schema.Schema
	fn          func(context.Context, *I) (*O, error)
}

// ensure Func implements the Tool interface
var _ Tool[struct{}, struct{}] = (*Func[struct{}, struct{}])(nil)

// NewFunc returns a tool that calls fn,
// the input schema is reflected from the I type.
func NewFunc[I any, O any](name, description string, fn func(context.Context, *I) (*O, error)) (*Func[I, O], error) {
	if name == "" {
		return nil, errors.New("tool name is required")
	}
	if fn == nil {
		return nil, errors.Newf("tool %s: function is required", name)
	}

	sc, err := schema.New(reflect.TypeFor[I]())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create schema for %s", name)
	}

	return &Func[I, O]{
		name:        name,
		description: description,
		params:      sc,
		fn:          fn,
	}, nil
}

func (t *Func[I, O]) Name() string {
	return t.name
}

func (t *Func[I, O]) Description() string {
	return t.description
}

func (t *Func[I, O]) Parameters() any {
	return t.params.Parameters
}

func (t *Func[I, O]) Run(ctx context.Context, req *I) (*O, error) {
	return t.fn(ctx, req)
}

func (t *Func[I, O]) Call(ctx context.Context, input string) (string, error) {
	var req I
	input = strings.TrimSpace(input)
	if input != "" {
		if err := json.Unmarshal([]byte(input), &req); err != nil {
			return "", errors.WithStack(ErrFailedUnmarshalInput)
		}
	}

	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}

	js, err := json.Marshal(res)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal result")
	}
	return string(js), nil
}
