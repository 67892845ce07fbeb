package schema_test

import (
	"reflect"
	"testing"

	"github.com/effective-security/toolchat/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// LookupOrder is a tool input
type LookupOrder struct {
	ID    int       `json:"id" jsonschema:"title=Order ID,description=The order number"`
	Notes *KVPair   `json:"notes,omitempty" jsonschema:"title=Notes,description=Optional notes"`
	Tags  []*KVPair `json:"tags,omitempty"`
}

// KVPair represents a key-value pair.
type KVPair struct {
	Key   string `json:"key" jsonschema:"title=Key,description=Key of the pair"`
	Value string `json:"value" jsonschema:"title=Value,description=Value of the pair"`
}

type Simple struct {
	Query string `json:"query" jsonschema:"title=Query,description=Query to search for"`
}

func TestSchema(t *testing.T) {
	t.Parallel()

	s, err := schema.New(reflect.TypeOf(Simple{}))
	require.NoError(t, err)
	exp := `{
	"properties": {
		"query": {
			"type": "string",
			"title": "Query",
			"description": "Query to search for"
		}
	},
	"type": "object",
	"required": [
		"query"
	]
}`
	assert.Equal(t, exp, s.String())
	assert.JSONEq(t, exp, string(s.JSON()))

	// cached
	s2, err := schema.New(reflect.TypeOf(Simple{}))
	require.NoError(t, err)
	assert.Same(t, s, s2)
}

func TestSchema_Nested(t *testing.T) {
	t.Parallel()

	s, err := schema.New(reflect.TypeOf(LookupOrder{}))
	require.NoError(t, err)
	require.NotNil(t, s.Parameters.Properties)

	id, ok := s.Parameters.Properties.Get("id")
	require.True(t, ok)
	assert.Equal(t, "integer", id.Type)
	assert.Equal(t, "Order ID", id.Title)

	notes, ok := s.Parameters.Properties.Get("notes")
	require.True(t, ok)
	assert.Equal(t, "object", notes.Type)
	assert.NotNil(t, notes.Properties)

	tags, ok := s.Parameters.Properties.Get("tags")
	require.True(t, ok)
	assert.Equal(t, "array", tags.Type)
	require.NotNil(t, tags.Items)

	assert.Equal(t, []string{"id"}, s.Parameters.Required)
}
