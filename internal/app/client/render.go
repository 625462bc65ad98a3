package client

import (
	"io"
	"sync"

	"github.com/fatih/color"

	"tourdesk/internal/domain/notice"
)

// NoticePrinter выводит уведомления канала в терминал.
type NoticePrinter struct {
	mu  sync.Mutex
	out io.Writer

	success *color.Color
	failure *color.Color
	info    *color.Color
	hint    *color.Color
}

func NewNoticePrinter(out io.Writer) *NoticePrinter {
	return &NoticePrinter{
		out:     out,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		info:    color.New(color.FgBlue),
		hint:    color.New(color.Faint),
	}
}

// Handle подходит для notice.Channel.Subscribe. Очистка слота не печатается.
func (p *NoticePrinter) Handle(ev notice.Event) {
	if ev.Cleared {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	c := p.info
	switch ev.Notice.Severity {
	case notice.SeveritySuccess:
		c = p.success
	case notice.SeverityError:
		c = p.failure
	}

	_, _ = c.Fprint(p.out, ev.Notice.Content)
	if ev.Notice.Undoable {
		_, _ = p.hint.Fprint(p.out, "  [Enter - Undo]")
	}
	_, _ = io.WriteString(p.out, "\n")
}
