// Package table - универсальная таблица записей с формой редактирования.
//
// Таблица никогда не правит строки локально: после любого успешного
// изменения она перечитывает данные с сервера.
package table

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"

	"tourdesk/internal/domain/deletion"
	"tourdesk/internal/domain/fetch"
	"tourdesk/internal/domain/notice"
	"tourdesk/internal/domain/record"
	"tourdesk/internal/utils/timer"
)

const (
	MsgUpdated          = "Item updated successfully"
	MsgUpdateFailed     = "Failed to update item. Please try again."
	MsgCreated          = "Item added successfully"
	MsgCreateFailed     = "Failed to add item. Please try again."
	MsgBulkDeleteFailed = "Failed to delete selected items. Please try again."
)

// Notifier - часть канала уведомлений, нужная таблице.
type Notifier interface {
	Show(n notice.Notice)
	Success(content string)
	Error(content string)
	Clear()
}

type Table struct {
	cfg       Config
	requester fetch.Requester
	notices   Notifier
	deletion  *deletion.Workflow
	sched     timer.Scheduler
	log       *slog.Logger

	mu         sync.Mutex
	rows       []*record.Record
	loading    bool
	options    []record.Option
	form       *record.Form
	selectMode bool
	selected   []int
	highlight  []string
	refetch    func()
}

func New(
	cfg Config,
	requester fetch.Requester,
	notices Notifier,
	deletions *deletion.Workflow,
	sched timer.Scheduler,
	log *slog.Logger,
) *Table {
	return &Table{
		cfg:       cfg,
		requester: requester,
		notices:   notices,
		deletion:  deletions,
		sched:     sched,
		log:       log.With(slog.String("component", "table"), slog.String("resource", cfg.Name)),
		loading:   true,
	}
}

func (t *Table) Config() Config {
	return t.cfg
}

// SetRefetch задает обратный вызов для перечитывания данных.
// По умолчанию таблица перечитывает себя сама через Load.
func (t *Table) SetRefetch(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refetch = fn
}

// SetData заменяет строки таблицы.
func (t *Table) SetData(rows []*record.Record, loading bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = t.filter(rows)
	t.loading = loading
}

// SetOptions задает варианты выбора для полей внешних ключей.
func (t *Table) SetOptions(opts []record.Option) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.options = opts
}

// Load читает строки ресурса и, если нужно, варианты выбора параллельно.
// Ошибка загрузки вариантов только логируется.
func (t *Table) Load(ctx context.Context) error {
	t.mu.Lock()
	t.loading = true
	t.mu.Unlock()

	var (
		rows []*record.Record
		opts []record.Option
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		rows, err = t.fetchRows(gctx)
		return err
	})

	if src := t.cfg.Options; src != nil {
		g.Go(func() error {
			resp := fetch.Fetch[[]*record.Record](gctx, t.requester, "/"+src.Resource)
			if resp.Err != nil {
				t.log.Warn("failed to load options", slog.String("source", src.Resource), slog.String("error", resp.Err.Error()))
				return nil
			}
			opts = OptionsOf(resp.Data.OrEmpty(), src.Label)
			return nil
		})
	}

	err := g.Wait()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.loading = false
	if err != nil {
		return err
	}
	t.rows = t.filter(rows)
	if t.cfg.Options != nil {
		t.options = opts
	}
	return nil
}

func (t *Table) fetchRows(ctx context.Context) ([]*record.Record, error) {
	if t.cfg.Single {
		resp := fetch.Fetch[*record.Record](ctx, t.requester, t.cfg.Path())
		if resp.Err != nil {
			return nil, resp.Err
		}
		if r := resp.Data.OrEmpty(); r != nil {
			return []*record.Record{r}, nil
		}
		return nil, nil
	}

	resp := fetch.Fetch[[]*record.Record](ctx, t.requester, t.cfg.Path())
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Data.OrEmpty(), nil
}

// OptionsOf строит варианты выбора: значение - id, подпись - поле label.
func OptionsOf(rows []*record.Record, label string) []record.Option {
	opts := make([]record.Option, 0, len(rows))
	for _, r := range rows {
		id, err := r.ID()
		if err != nil {
			continue
		}
		v, _ := r.Get(label)
		opts = append(opts, record.Option{Value: fmt.Sprint(id), Label: record.Text(v)})
	}
	return opts
}

func (t *Table) filter(rows []*record.Record) []*record.Record {
	if t.cfg.Filter == nil {
		return rows
	}
	out := make([]*record.Record, 0, len(rows))
	for _, r := range rows {
		if t.cfg.Filter(r) {
			out = append(out, r)
		}
	}
	return out
}

func (t *Table) Rows() []*record.Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*record.Record(nil), t.rows...)
}

func (t *Table) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

func (t *Table) Options() []record.Option {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]record.Option(nil), t.options...)
}

// Find возвращает загруженную запись по id.
func (t *Table) Find(id int) (*record.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.find(id)
}

func (t *Table) find(id int) (*record.Record, error) {
	for _, r := range t.rows {
		if rid, err := r.ID(); err == nil && rid == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrNotLoaded, id)
}

// Open открывает форму редактирования записи.
func (t *Table) Open(id int) (*record.Form, error) {
	if !t.cfg.Edit {
		return nil, ErrReadOnly
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	r, err := t.find(id)
	if err != nil {
		return nil, err
	}
	t.form = record.NewForm(r, t.cfg.Exclude...)
	return t.form, nil
}

// Form возвращает открытую форму.
func (t *Table) Form() (*record.Form, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.form, t.form != nil
}

// Close закрывает форму и сбрасывает состояние редактирования.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.form != nil {
		t.form.Reset()
	}
	t.form = nil
}

// Submit отправляет открытую форму одним PUT запросом.
// Форма закрывается при любом исходе.
func (t *Table) Submit(ctx context.Context) error {
	if !t.cfg.Save {
		return ErrReadOnly
	}

	form, ok := t.Form()
	if !ok {
		return ErrNoForm
	}

	id, err := form.ID()
	if err != nil {
		t.Close()
		return err
	}

	resp := fetch.Update[*record.Record](ctx, t.requester, t.cfg.Path(), id, form.Payload())
	t.Close()

	switch {
	case resp.Err == nil:
		t.notices.Success(MsgUpdated)
		t.runRefetch(ctx)
	case resp.Handled():
	default:
		t.log.Warn("update failed", slog.Int("id", id), slog.String("error", resp.Err.Error()))
		t.notices.Error(MsgUpdateFailed)
	}

	return resp.Err
}

// Create создает запись ресурса.
func (t *Table) Create(ctx context.Context, r *record.Record) error {
	cs := t.cfg.Create
	if cs == nil {
		return ErrReadOnly
	}

	for _, name := range cs.Required {
		v, _ := r.Get(name)
		if strings.TrimSpace(record.Text(v)) == "" {
			t.notices.Error(cs.RequiredMsg)
			return fmt.Errorf("%w: %s", ErrRequired, name)
		}
	}

	var body any = r
	if cs.Multipart {
		body = record.PayloadOf(r)
	}

	resp := fetch.Create[*record.Record](ctx, t.requester, t.cfg.Path(), body)
	switch {
	case resp.Err == nil:
		t.notices.Success(MsgCreated)
		t.runRefetch(ctx)
	case resp.Handled():
	default:
		t.log.Warn("create failed", slog.String("error", resp.Err.Error()))
		t.notices.Error(MsgCreateFailed)
	}

	return resp.Err
}

// Delete запрашивает отложенное удаление записи.
func (t *Table) Delete(ctx context.Context, id int) (*deletion.Pending, error) {
	if !t.cfg.Deletable {
		return nil, ErrReadOnly
	}
	return t.deletion.Request(ctx, t.cfg.Path(), id, func() { t.runRefetch(ctx) }), nil
}

// ToggleSelect включает или выключает режим выбора строк.
func (t *Table) ToggleSelect() (bool, error) {
	if !t.cfg.Deletable || !t.cfg.BulkSelect {
		return false, ErrReadOnly
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.selectMode = !t.selectMode
	return t.selectMode, nil
}

func (t *Table) SelectMode() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selectMode
}

// Select отмечает или снимает отметку строки.
func (t *Table) Select(id int, checked bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.selectMode {
		return ErrSelectMode
	}

	idx := -1
	for i, sid := range t.selected {
		if sid == id {
			idx = i
			break
		}
	}

	switch {
	case checked && idx < 0:
		t.selected = append(t.selected, id)
	case !checked && idx >= 0:
		t.selected = append(t.selected[:idx], t.selected[idx+1:]...)
	}
	return nil
}

func (t *Table) Selected() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]int(nil), t.selected...)
}

// BulkDelete удаляет выбранные строки одним запросом.
// Частичный отказ не отличается от полного.
func (t *Table) BulkDelete(ctx context.Context) error {
	ids := t.Selected()
	if len(ids) == 0 {
		return ErrNoSelection
	}

	resp := fetch.DeleteMany(ctx, t.requester, t.cfg.Path(), ids)

	switch {
	case resp.Err == nil:
		t.notices.Success(resp.Data.OrEmpty().Message)
		t.resetSelection()
		t.runRefetch(ctx)
	case resp.Handled():
		t.resetSelection()
	default:
		t.log.Warn("bulk delete failed", slog.Any("ids", ids), slog.String("error", resp.Err.Error()))
		t.notices.Error(MsgBulkDeleteFailed)
	}

	return resp.Err
}

func (t *Table) resetSelection() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selected = nil
	t.selectMode = false
}

func (t *Table) runRefetch(ctx context.Context) {
	t.mu.Lock()
	fn := t.refetch
	t.mu.Unlock()

	if fn != nil {
		fn()
		return
	}
	if err := t.Load(ctx); err != nil {
		t.log.Warn("refetch failed", slog.String("error", err.Error()))
	}
}
