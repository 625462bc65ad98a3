// Package deletion реализует отложенное удаление записей с возможностью отмены.
//
// Каждый запрос на удаление независим: свой таймер, свое состояние.
// Уведомление об отложенном удалении занимает общий слот канала и может
// быть вытеснено следующим запросом, при этом таймер вытесненного
// запроса продолжает работать.
package deletion

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"tourdesk/internal/domain/fetch"
	"tourdesk/internal/domain/notice"
	"tourdesk/internal/utils/timer"
)

const (
	GracePeriod  = 5 * time.Second
	ClearAfter   = 1 * time.Second
	HandledClear = 3 * time.Second

	MsgPending = "Item will be deleted. Click Undo to cancel."
	MsgFailed  = "Failed to delete item. Please try again."
)

// Notifier - часть канала уведомлений, нужная процессу удаления.
type Notifier interface {
	Show(n notice.Notice)
	Error(content string)
	Clear()
}

type Workflow struct {
	requester fetch.Requester
	notices   Notifier
	sched     timer.Scheduler
	log       *slog.Logger
}

func NewWorkflow(requester fetch.Requester, notices Notifier, sched timer.Scheduler, log *slog.Logger) *Workflow {
	return &Workflow{
		requester: requester,
		notices:   notices,
		sched:     sched,
		log:       log.With(slog.String("component", "deletion")),
	}
}

// Request откладывает удаление записи id ресурса path на GracePeriod.
// refetch вызывается после успешного удаления.
func (w *Workflow) Request(ctx context.Context, path string, id int, refetch func()) *Pending {
	p := &Pending{
		ID:    id,
		Path:  path,
		state: StateRequested,
		done:  make(chan struct{}),
	}

	p.mu.Lock()
	p.handle = w.sched.AfterFunc(GracePeriod, func() {
		w.commit(ctx, p, refetch)
	})
	p.mu.Unlock()

	w.notices.Show(notice.Notice{
		Content:  MsgPending,
		Severity: notice.SeverityInfo,
		Undoable: true,
		ItemID:   id,
		Cancel:   p,
	})

	w.log.Debug("delete requested", slog.String("path", path), slog.Int("id", id))
	return p
}

func (w *Workflow) commit(ctx context.Context, p *Pending, refetch func()) {
	resp := fetch.Delete(ctx, w.requester, p.Path, p.ID)

	switch {
	case resp.Err == nil:
		w.log.Info("record deleted", slog.String("path", p.Path), slog.Int("id", p.ID))
		if refetch != nil {
			refetch()
		}
		w.sched.AfterFunc(ClearAfter, w.notices.Clear)
		p.finish(StateCommittedOk, nil)
	case resp.Handled():
		w.sched.AfterFunc(HandledClear, w.notices.Clear)
		p.finish(StateCommittedFail, resp.Err)
	default:
		w.log.Warn("delete failed",
			slog.String("path", p.Path),
			slog.Int("id", p.ID),
			slog.String("error", resp.Err.Error()),
		)
		w.notices.Error(MsgFailed)
		w.sched.AfterFunc(ClearAfter, w.notices.Clear)
		p.finish(StateCommittedFail, resp.Err)
	}
}

// Pending - одно отложенное удаление.
type Pending struct {
	ID   int
	Path string

	mu     sync.Mutex
	state  State
	err    error
	handle *timer.Handle
	done   chan struct{}
}

// Cancel отменяет удаление, если таймер еще не сработал.
// Возвращает true, если сетевой вызов предотвращен.
func (p *Pending) Cancel() bool {
	p.mu.Lock()
	handle := p.handle
	p.mu.Unlock()

	if !handle.Cancel() {
		return false
	}
	p.finish(StateCancelled, nil)
	return true
}

func (p *Pending) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Err возвращает ошибку неудачного удаления.
func (p *Pending) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Done закрывается при переходе в конечное состояние.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

func (p *Pending) finish(s State, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateRequested {
		return
	}
	p.state = s
	p.err = err
	close(p.done)
}
