package chatmodel

import (
	"context"

	"github.com/cockroachdb/errors"
)

var (
	ErrInvalidOwner = errors.New("invalid owner context")
)

type contextKey int

const (
	keyOwner contextKey = iota
)

// WithOwner returns a new context with the owner of the conversation
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, keyOwner, owner)
}

// GetOwner retrieves the owner from the context,
// or returns ErrInvalidOwner if the context does not have one.
func GetOwner(ctx context.Context) (string, error) {
	if v, ok := ctx.Value(keyOwner).(string); ok && v != "" {
		return v, nil
	}
	return "", errors.WithStack(ErrInvalidOwner)
}
