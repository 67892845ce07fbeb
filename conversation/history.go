package conversation

import (
	"context"

	"github.com/effective-security/toolchat/chatmodel"
	"github.com/effective-security/xlog"
)

// DefaultListLimit is the page size of ListMessages
const DefaultListLimit = 50

// MessagesPage is a page of messages, newest first
type MessagesPage struct {
	Messages []*chatmodel.Message `json:"messages"`
	Total    int                  `json:"total"`
	Limit    int                  `json:"limit"`
	Offset   int                  `json:"offset"`
}

// ListMessages returns the messages of the owner, newest first
func (c *Controller) ListMessages(ctx context.Context, owner string, limit, offset int) (*MessagesPage, error) {
	if owner == "" {
		return nil, newError(StepValidate, chatmodel.ErrInvalidOwner, "Invalid owner")
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	total, err := c.store.CountMessages(ctx, owner)
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR,
			"status", "count_messages_failed",
			"owner", owner,
			"err", err.Error(),
		)
		return nil, newError(StepCountMessages, err, "Failed to count messages")
	}

	msgs, err := c.store.ListMessages(ctx, owner, limit, offset)
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR,
			"status", "list_messages_failed",
			"owner", owner,
			"err", err.Error(),
		)
		return nil, newError(StepFetchMessages, err, "Failed to fetch messages")
	}
	if msgs == nil {
		msgs = []*chatmodel.Message{}
	}

	return &MessagesPage{
		Messages: msgs,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

// ClearMessages deletes all messages of the owner and returns the deleted count
func (c *Controller) ClearMessages(ctx context.Context, owner string) (int, error) {
	if owner == "" {
		return 0, newError(StepValidate, chatmodel.ErrInvalidOwner, "Invalid owner")
	}

	count, err := c.store.CountMessages(ctx, owner)
	if err != nil {
		return 0, newError(StepCountMessages, err, "Failed to count messages")
	}

	deleted, err := c.store.DeleteMessages(ctx, owner)
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR,
			"status", "clear_messages_failed",
			"owner", owner,
			"err", err.Error(),
		)
		return 0, newError(StepClearMessages, err, "Failed to clear messages")
	}
	logger.ContextKV(ctx, xlog.INFO,
		"status", "messages_cleared",
		"owner", owner,
		"count", count,
		"deleted", deleted,
	)
	return count, nil
}
