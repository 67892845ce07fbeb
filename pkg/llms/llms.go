package llms

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/chatmodel"
)

//go:generate mockgen -source=llms.go -destination=../../mocks/mockllms/llms_mock.gen.go -package mockllms

// ErrNoResponse is returned when the provider responds with no candidates
// or with a non-success status
var ErrNoResponse = errors.New("no response from model")

// ProviderType is the type of provider.
type ProviderType string

const (
	// ProviderGoogleAI is the type of provider.
	ProviderGoogleAI ProviderType = "GOOGLEAI"
)

// DefaultInputSchema is advertised for tools without an input schema
var DefaultInputSchema = json.RawMessage(`{"type":"object","properties":{}}`)

// Model is the completion model.
type Model interface {
	// GetName returns the model name.
	GetName() string
	// GetProviderType returns the type of provider.
	GetProviderType() ProviderType
	// Complete sends the history followed by the user utterance,
	// with the tool schemas if any are provided.
	Complete(ctx context.Context, utterance string, history []chatmodel.Turn, tools []ToolSchema) (*Reply, error)
}

// ToolSchema describes a tool offered to the model
type ToolSchema struct {
	Name        string
	Description string
	// InputSchema is the JSON schema of the tool arguments, opaque to the caller
	InputSchema json.RawMessage
}

// GetDescription returns the description, or a generic one if it's empty
func (s ToolSchema) GetDescription() string {
	if s.Description != "" {
		return s.Description
	}
	return "Tool: " + s.Name
}

// GetInputSchema returns the input schema, or an empty object schema if it's not set
func (s ToolSchema) GetInputSchema() json.RawMessage {
	js := json.RawMessage(strings.TrimSpace(string(s.InputSchema)))
	if len(js) == 0 || string(js) == "null" {
		return DefaultInputSchema
	}
	return js
}

// PartKind is the variant of a reply part
type PartKind int

const (
	// PartText is a text fragment
	PartText PartKind = iota + 1
	// PartFunctionCall is a function call request
	PartFunctionCall
)

// Part is one element of the model reply,
// exactly one of Text or FunctionCall is set according to Kind.
type Part struct {
	Kind         PartKind
	Text         string
	FunctionCall *FunctionCall
}

// FunctionCall is a request from the model to execute a tool
type FunctionCall struct {
	Name      string
	Arguments map[string]any
}

// TextPart returns a text part
func TextPart(text string) Part {
	return Part{Kind: PartText, Text: text}
}

// FunctionCallPart returns a function call part
func FunctionCallPart(name string, args map[string]any) Part {
	return Part{
		Kind:         PartFunctionCall,
		FunctionCall: &FunctionCall{Name: name, Arguments: args},
	}
}

// Reply is the model reply
type Reply struct {
	Parts        []Part
	FinishReason string
}

// FirstText returns the first text part of the reply
func FirstText(r *Reply) (string, bool) {
	if r == nil {
		return "", false
	}
	for _, p := range r.Parts {
		if p.Kind == PartText {
			return p.Text, true
		}
	}
	return "", false
}

// FunctionCalls returns all function call parts of the reply, in response order
func FunctionCalls(r *Reply) []*FunctionCall {
	if r == nil {
		return nil
	}
	var calls []*FunctionCall
	for _, p := range r.Parts {
		if p.Kind == PartFunctionCall && p.FunctionCall != nil {
			calls = append(calls, p.FunctionCall)
		}
	}
	return calls
}
