package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/effective-security/toolchat/chatmodel"
	"github.com/effective-security/toolchat/mcp/mcpclient"
	"github.com/effective-security/toolchat/pkg/llms"
	"github.com/effective-security/toolchat/pkg/metricskey"
	"github.com/effective-security/toolchat/registry"
	"github.com/effective-security/xlog"
	"golang.org/x/sync/errgroup"
)

type toolCall struct {
	call    *llms.FunctionCall
	binding registry.Binding
}

type toolCallResult struct {
	res         *mcpclient.InvokeResult
	completedAt time.Time
}

// dispatch invokes the function calls matched to the enabled tools,
// and returns the result strings and the names of invoked tools, in response order.
// Unmatched calls are skipped.
func (c *Controller) dispatch(ctx context.Context, userMsg *chatmodel.Message, calls []*llms.FunctionCall, tools []registry.Binding) ([]string, []string) {
	byName := make(map[string]registry.Binding, len(tools))
	for _, b := range tools {
		if _, ok := byName[b.Tool.Name]; !ok {
			byName[b.Tool.Name] = b
		}
	}

	var matched []toolCall
	for _, fc := range calls {
		b, ok := byName[fc.Name]
		if !ok {
			metricskey.StatsToolCallsNotFound.IncrCounter(1, fc.Name)
			logger.ContextKV(ctx, xlog.WARNING,
				"status", "tool_not_found",
				"owner", userMsg.Owner,
				"tool", fc.Name,
			)
			continue
		}
		matched = append(matched, toolCall{call: fc, binding: b})
	}

	if len(matched) == 0 {
		return nil, nil
	}

	results := make([]toolCallResult, len(matched))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, tc := range matched {
		g.Go(func() error {
			results[i] = c.invoke(ctx, tc)
			return nil
		})
	}
	_ = g.Wait()

	summaries := make([]string, 0, len(matched))
	used := make([]string, 0, len(matched))
	for i, tc := range matched {
		r := results[i]
		name := tc.call.Name
		used = append(used, name)

		c.saveInvocation(ctx, userMsg, tc, r)

		if r.res.Success {
			summaries = append(summaries, fmt.Sprintf("Tool %s returned: %s", name, compactJSON(r.res.Result)))
		} else {
			summaries = append(summaries, fmt.Sprintf("Tool %s failed: %s", name, r.res.Error))
		}
	}
	return summaries, used
}

func (c *Controller) invoke(ctx context.Context, tc toolCall) toolCallResult {
	name := tc.call.Name
	started := time.Now()

	res := c.client.InvokeTool(ctx, tc.binding.Server, tc.binding.Tool, mcpclient.ToolCall{
		ToolName:  name,
		Arguments: tc.call.Arguments,
	})
	if res == nil {
		res = &mcpclient.InvokeResult{Error: "no result"}
	}
	metricskey.PerfToolCall.MeasureSince(started, name)

	if res.Success {
		metricskey.StatsToolCallsSucceeded.IncrCounter(1, name)
	} else {
		metricskey.StatsToolCallsFailed.IncrCounter(1, name)
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "tool_failed",
			"tool", name,
			"server", tc.binding.Server.ID,
			"reason", res.Error,
		)
	}

	return toolCallResult{
		res:         res,
		completedAt: time.Now().UTC(),
	}
}

// saveInvocation writes the audit record, a failure is logged only
func (c *Controller) saveInvocation(ctx context.Context, userMsg *chatmodel.Message, tc toolCall, r toolCallResult) {
	args := tc.call.Arguments
	if args == nil {
		args = map[string]any{}
	}
	input, _ := json.Marshal(args)

	rec := &chatmodel.ToolInvocationRecord{
		MessageID:   userMsg.ID,
		ToolID:      tc.binding.Tool.ID,
		Input:       input,
		InvokedAt:   r.completedAt,
		CompletedAt: r.completedAt,
	}
	if r.res.Success {
		rec.Status = chatmodel.InvocationSuccess
		rec.Output = r.res.Result
	} else {
		rec.Status = chatmodel.InvocationError
		rec.ErrorMessage = r.res.Error
	}

	if _, err := c.store.AddInvocation(ctx, rec); err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "save_invocation_failed",
			"message", userMsg.ID,
			"tool", tc.call.Name,
			"err", err.Error(),
		)
	}
}

func compactJSON(js json.RawMessage) string {
	if len(js) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, js); err != nil {
		return string(js)
	}
	return buf.String()
}
