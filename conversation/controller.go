// Package conversation turns a user utterance into a persisted exchange:
// it gathers the history and the user's tools, calls the model, dispatches
// the function calls to the tool servers, folds the results back into a
// second model call and stores the reply.
package conversation

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/effective-security/toolchat/chatmodel"
	"github.com/effective-security/toolchat/mcp/mcpclient"
	"github.com/effective-security/toolchat/pkg/llms"
	"github.com/effective-security/toolchat/pkg/metricskey"
	"github.com/effective-security/toolchat/registry"
	"github.com/effective-security/toolchat/store"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolchat", "conversation")

const (
	// MaxTextLength is the maximum length of the user utterance, in characters
	MaxTextLength = 5000
	// DefaultHistoryLimit is the number of recent messages sent to the model
	DefaultHistoryLimit = 20
	// DefaultToolConcurrency dispatches tool calls one at a time
	DefaultToolConcurrency = 1

	// ApologyText is stored when the model reply has no text
	ApologyText = "I'm sorry, I couldn't generate a response."
	// FollowUpInstruction is the utterance of the second model call
	FollowUpInstruction = "Based on the tool results above, provide a final response to the user."
)

// Store is the persistence used by the controller
type Store interface {
	store.MessageStore
	store.InvocationStore
}

// ToolRegistry resolves the tools available to a user
type ToolRegistry interface {
	ListActiveToolsForUser(ctx context.Context, owner string) ([]registry.Binding, error)
}

// Result is the outcome of a successful run
type Result struct {
	UserMessage *chatmodel.Message `json:"userMessage"`
	BotMessage  *chatmodel.Message `json:"botMessage"`
	// ToolsUsed is nil when no tool was invoked
	ToolsUsed []string `json:"toolsUsed,omitempty"`
}

// Option configures the controller
type Option func(*Controller)

// WithHistoryLimit sets the number of recent messages sent to the model
func WithHistoryLimit(limit int) Option {
	return func(c *Controller) {
		if limit > 0 {
			c.historyLimit = limit
		}
	}
}

// WithToolConcurrency sets the number of tool calls dispatched in parallel
func WithToolConcurrency(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// Controller drives the orchestration runs
type Controller struct {
	store    Store
	registry ToolRegistry
	model    llms.Model
	client   mcpclient.Client

	historyLimit int
	concurrency  int
}

// New returns Controller
func New(st Store, reg ToolRegistry, model llms.Model, client mcpclient.Client, opts ...Option) *Controller {
	c := &Controller{
		store:        st,
		registry:     reg,
		model:        model,
		client:       client,
		historyLimit: DefaultHistoryLimit,
		concurrency:  DefaultToolConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendMessage processes one user utterance and returns both persisted messages
func (c *Controller) SendMessage(ctx context.Context, owner, text string) (*Result, error) {
	if err := validate(owner, text); err != nil {
		return nil, err
	}

	modelName := c.model.GetName()
	started := time.Now()
	defer metricskey.PerfChatRun.MeasureSince(started, modelName)

	history := c.loadHistory(ctx, owner)
	tools := c.loadTools(ctx, owner)

	userMsg, err := c.store.AddMessage(ctx, &chatmodel.Message{
		Owner:     owner,
		Timestamp: time.Now().UTC(),
		Own:       true,
		Text:      text,
	})
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR,
			"status", "save_user_message_failed",
			"owner", owner,
			"err", err.Error(),
		)
		return nil, newError(StepSaveUserMessage, err, "Failed to save user message")
	}
	metricskey.StatsMessagesPersisted.IncrCounter(1, string(chatmodel.RoleUser))

	reply, err := c.complete(ctx, StepFirstModelCall, text, history, registry.ToolSchemas(tools))
	if err != nil {
		return nil, newError(StepFirstModelCall, err, "Failed to get AI response")
	}

	var toolsUsed []string
	calls := llms.FunctionCalls(reply)
	if len(calls) > 0 {
		var results []string
		results, toolsUsed = c.dispatch(ctx, userMsg, calls, tools)

		history = append(history,
			chatmodel.Turn{Role: chatmodel.RoleUser, Text: text},
			chatmodel.Turn{Role: chatmodel.RoleModel, Text: "Used tools: " + strings.Join(results, ", ")},
		)

		reply, err = c.complete(ctx, StepSecondModelCall, FollowUpInstruction, history, nil)
		if err != nil {
			return nil, newError(StepSecondModelCall, err, "Failed to get final AI response")
		}
	}

	botText, ok := llms.FirstText(reply)
	if !ok {
		botText = ApologyText
	}

	ts := time.Now().UTC()
	if !ts.After(userMsg.Timestamp) {
		ts = userMsg.Timestamp.Add(time.Microsecond)
	}
	botMsg, err := c.store.AddMessage(ctx, &chatmodel.Message{
		Owner:     owner,
		Timestamp: ts,
		Own:       false,
		Text:      botText,
	})
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR,
			"status", "save_bot_message_failed",
			"owner", owner,
			"user_message", userMsg.ID,
			"err", err.Error(),
		)
		return nil, newError(StepSaveBotMessage, err, "Failed to save bot response")
	}
	metricskey.StatsMessagesPersisted.IncrCounter(1, string(chatmodel.RoleModel))

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "completed",
		"owner", owner,
		"function_calls", len(calls),
		"tools_used", len(toolsUsed),
		"elapsed", time.Since(started).String(),
	)

	return &Result{
		UserMessage: userMsg,
		BotMessage:  botMsg,
		ToolsUsed:   toolsUsed,
	}, nil
}

func validate(owner, text string) error {
	if owner == "" {
		return newError(StepValidate, chatmodel.ErrInvalidOwner, "Invalid owner")
	}
	n := utf8.RuneCountInString(text)
	if n == 0 || strings.TrimSpace(text) == "" {
		return newError(StepValidate, nil, "Message text is required")
	}
	if n > MaxTextLength {
		return newError(StepValidate, nil, "Message text is too long")
	}
	return nil
}

// loadHistory returns the recent turns, oldest first.
// A storage failure degrades to an empty history.
func (c *Controller) loadHistory(ctx context.Context, owner string) []chatmodel.Turn {
	msgs, err := c.store.RecentMessages(ctx, owner, c.historyLimit)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "history_failed",
			"owner", owner,
			"err", err.Error(),
		)
		return nil
	}

	history := make([]chatmodel.Turn, 0, len(msgs)+2)
	for _, m := range msgs {
		history = append(history, m.Turn())
	}
	return history
}

// loadTools returns the enabled tools of the owner.
// A registry failure degrades to an empty tool set.
func (c *Controller) loadTools(ctx context.Context, owner string) []registry.Binding {
	if c.registry == nil {
		return nil
	}
	tools, err := c.registry.ListActiveToolsForUser(ctx, owner)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "tools_failed",
			"owner", owner,
			"err", err.Error(),
		)
		return nil
	}
	return tools
}

func (c *Controller) complete(ctx context.Context, step Step, utterance string, history []chatmodel.Turn, tools []llms.ToolSchema) (*llms.Reply, error) {
	modelName := c.model.GetName()
	started := time.Now()
	reply, err := c.model.Complete(ctx, utterance, history, tools)
	metricskey.PerfModelCall.MeasureSince(started, modelName, string(step))
	if err != nil {
		metricskey.StatsModelCallsFailed.IncrCounter(1, modelName, string(step))
		logger.ContextKV(ctx, xlog.ERROR,
			"status", "model_call_failed",
			"step", step,
			"model", modelName,
			"utterance", slices.StringUpto(utterance, 64),
			"err", err.Error(),
		)
		return nil, err
	}
	return reply, nil
}
