package table

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slog"

	"tourdesk/internal/utils/timer"
)

const (
	HighlightParam = "highlight"
	// SettleDelay - пауза перед прокруткой к подсвеченной строке.
	SettleDelay = 600 * time.Millisecond
)

// Scroller прокручивает вид к строке. false - строка не найдена.
type Scroller interface {
	ScrollTo(id string) bool
}

// ParseHighlight достает список id из параметра highlight строки запроса.
func ParseHighlight(rawQuery string) []string {
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil
	}
	param := values.Get(HighlightParam)
	if param == "" {
		return nil
	}

	var ids []string
	for _, id := range strings.Split(param, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// SetHighlight запоминает подсвечиваемые строки из строки запроса.
// Для ресурсов без подсветки вызов ничего не делает.
func (t *Table) SetHighlight(rawQuery string) []string {
	if !t.cfg.Highlight {
		return nil
	}
	ids := ParseHighlight(rawQuery)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.highlight = ids
	return append([]string(nil), ids...)
}

// Highlighted сообщает, подсвечена ли строка.
func (t *Table) Highlighted(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := strconv.Itoa(id)
	for _, h := range t.highlight {
		if h == s {
			return true
		}
	}
	return false
}

// ScrollToHighlight после SettleDelay прокручивает вид к первой
// найденной подсвеченной строке. Если строк нет, ничего не делает.
func (t *Table) ScrollToHighlight(s Scroller) *timer.Handle {
	t.mu.Lock()
	ids := append([]string(nil), t.highlight...)
	t.mu.Unlock()

	if len(ids) == 0 || s == nil {
		return nil
	}

	return t.sched.AfterFunc(SettleDelay, func() {
		for _, id := range ids {
			if s.ScrollTo(id) {
				t.log.Debug("scrolled to highlighted row", slog.String("id", id))
				return
			}
		}
	})
}
