package tour

import (
	"context"

	"golang.org/x/exp/slog"

	"tourdesk/internal/domain/fetch"
	"tourdesk/internal/domain/record"
)

const (
	Path = "/tours"

	MsgRequired     = "Title and Description are required"
	MsgCreated      = "Tour added successfully"
	MsgCreateFailed = "Failed to add item. Please try again."
)

// Notifier - часть канала уведомлений, нужная форме создания.
type Notifier interface {
	Success(content string)
	Error(content string)
}

type Creator struct {
	requester fetch.Requester
	notices   Notifier
	log       *slog.Logger
}

func NewCreator(requester fetch.Requester, notices Notifier, log *slog.Logger) *Creator {
	return &Creator{
		requester: requester,
		notices:   notices,
		log:       log.With(slog.String("component", "tour")),
	}
}

// Create отправляет форму одним POST запросом. После успеха форма
// сбрасывается к значениям по умолчанию и вызывается refetch.
func (c *Creator) Create(ctx context.Context, d *Draft, refetch func()) error {
	if err := d.Validate(); err != nil {
		c.notices.Error(MsgRequired)
		return err
	}

	resp := fetch.Create[*record.Record](ctx, c.requester, Path, d.Payload())

	switch {
	case resp.Err == nil:
		c.log.Info("tour created", slog.String("title", d.Title))
		c.notices.Success(MsgCreated)
		*d = NewDraft()
		if refetch != nil {
			refetch()
		}
	case resp.Handled():
	default:
		c.log.Warn("tour create failed", slog.String("error", resp.Err.Error()))
		c.notices.Error(MsgCreateFailed)
	}

	return resp.Err
}
