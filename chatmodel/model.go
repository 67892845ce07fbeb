package chatmodel

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/effective-security/xdb/pkg/flake"
)

// Role of a conversation turn
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// InvocationStatus is the outcome of a tool invocation
type InvocationStatus string

const (
	InvocationSuccess InvocationStatus = "success"
	InvocationError   InvocationStatus = "error"
	InvocationPending InvocationStatus = "pending"
)

// Message is a persisted chat message.
// Messages are append-only, the user message is always stored before
// the model reply of the same exchange.
type Message struct {
	ID        uint64    `json:"message_id"`
	Owner     string    `json:"user_id"`
	Timestamp time.Time `json:"datetime"`
	// Own is true for messages authored by the user
	Own  bool   `json:"own"`
	Text string `json:"text"`
}

// Turn returns the conversation turn for the message
func (m *Message) Turn() Turn {
	if m.Own {
		return Turn{Role: RoleUser, Text: m.Text}
	}
	return Turn{Role: RoleModel, Text: m.Text}
}

// ToolServer is an external tool protocol server registered by the owner.
// (Owner, Name) is unique.
type ToolServer struct {
	ID          uint64    `json:"server_id"`
	Owner       string    `json:"user_id"`
	Name        string    `json:"server_name"`
	BaseURL     string    `json:"server_url"`
	APIKey      string    `json:"api_key,omitempty"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Tool is a tool exposed by a ToolServer
type Tool struct {
	ID          uint64 `json:"tool_id"`
	ServerID    uint64 `json:"server_id"`
	Name        string `json:"tool_name"`
	Description string `json:"tool_description,omitempty"`
	// InputSchema is an opaque JSON schema document, forwarded to the model as is
	InputSchema json.RawMessage `json:"input_schema,omitempty"`
	IsEnabled   bool            `json:"is_enabled"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToolInvocationRecord is the write-once audit record of a tool call
type ToolInvocationRecord struct {
	ID           uint64           `json:"invocation_id"`
	MessageID    uint64           `json:"message_id"`
	ToolID       uint64           `json:"tool_id"`
	Input        json.RawMessage  `json:"input_data"`
	Output       json.RawMessage  `json:"output_data,omitempty"`
	Status       InvocationStatus `json:"status"`
	ErrorMessage string           `json:"error_message,omitempty"`
	InvokedAt    time.Time        `json:"invoked_at"`
	CompletedAt  time.Time        `json:"completed_at"`
}

// Turn is one role-tagged utterance in the history sent to the model
type Turn struct {
	Role Role
	Text string
}

// NewID returns a new unique ID
func NewID() uint64 {
	return flake.DefaultIDGenerator.NextID()
}

// FormatID returns ID as string
func FormatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// ParseID parses ID from string
func ParseID(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
