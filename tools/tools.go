package tools

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrFailedUnmarshalInput is returned when a tool can not parse its input
var ErrFailedUnmarshalInput = errors.New("failed to unmarshal input")

// ITool is a tool served to remote callers.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	// Should not exceed LLM model limit.
	Description() string
	// Parameters returns the JSON schema of the tool input.
	Parameters() any

	// Call executes the tool with the given JSON input and returns the JSON result.
	// If the tool fails to parse the input, it should return ErrFailedUnmarshalInput error.
	Call(context.Context, string) (string, error)
}

type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

// Descriptor is the name and description of a tool
type Descriptor struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// GetDescriptors returns the descriptors of the tools, in the provided order
func GetDescriptors(list ...ITool) []Descriptor {
	d := make([]Descriptor, 0, len(list))
	for _, tool := range list {
		d = append(d, Descriptor{
			Name:        tool.Name(),
			Description: tool.Description(),
		})
	}
	return d
}
