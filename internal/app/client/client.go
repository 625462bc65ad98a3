package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"

	"tourdesk/internal/app/client/config"
	"tourdesk/internal/domain/calendar"
	"tourdesk/internal/domain/deletion"
	"tourdesk/internal/domain/notice"
	"tourdesk/internal/domain/session"
	"tourdesk/internal/domain/table"
	"tourdesk/internal/domain/tour"
	"tourdesk/internal/infrastructure/push"
	"tourdesk/internal/infrastructure/transport"
	"tourdesk/internal/utils/timer"
)

type App struct {
	config  *config.Config
	log     *slog.Logger
	storage session.Repository
	closer  io.Closer
	sched   timer.Scheduler

	notices     *notice.Channel
	session     *session.Store
	auth        *session.Service
	transport   *transport.Client
	deletions   *deletion.Workflow
	push        *push.Conn
	calendar    *calendar.Sync
	editor      *calendar.Editor
	tours       *tour.Creator
	revalidator *Revalidator

	mu     sync.Mutex
	tables map[string]*table.Table
	cancel context.CancelFunc
}

// New собирает клиент. Состояние сессии читается из SQLite, при ошибке
// открытия базы клиент работает с памятью.
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	var (
		storage session.Repository
		closer  io.Closer
	)
	sqliteStorage, err := NewSQLiteStorage(cfg.StatePath)
	if err != nil {
		log.Warn("Не удалось инициализировать SQLite, используем память", slog.String("error", err.Error()))
		storage = session.NewMemoryRepository()
	} else {
		storage, closer = sqliteStorage, sqliteStorage
	}

	app, err := newApp(cfg, log, storage, timer.Real{})
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}
	app.closer = closer
	return app, nil
}

func newApp(cfg *config.Config, log *slog.Logger, storage session.Repository, sched timer.Scheduler) (*App, error) {
	store := session.NewStore(storage, log)
	if err := store.Load(context.Background()); err != nil {
		return nil, fmt.Errorf("ошибка загрузки сессии: %w", err)
	}

	notices := notice.NewChannel(sched, log)
	classifier := transport.NewClassifier(store, notices, log)
	client := transport.NewClient(cfg.APIURL, cfg.Timeout(), store, classifier, log)

	conn, err := push.New(cfg.PushURL, log)
	if err != nil {
		return nil, err
	}

	events := calendar.NewSync(client, conn, notices, log)
	auth := session.NewService(store, client, notices, log)

	return &App{
		config:      cfg,
		log:         log,
		storage:     storage,
		sched:       sched,
		notices:     notices,
		session:     store,
		auth:        auth,
		transport:   client,
		deletions:   deletion.NewWorkflow(client, notices, sched, log),
		push:        conn,
		calendar:    events,
		editor:      calendar.NewEditor(events, client, notices, cfg.Offset(), log),
		tours:       tour.NewCreator(client, notices, log),
		revalidator: NewRevalidator(auth, cfg.Revalidate(), log),
		tables:      make(map[string]*table.Table),
	}, nil
}

// Run держит фоновые циклы: проверку сессии и push-канал.
// Завершается по отмене ctx, сигналу или Shutdown.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.revalidator.Run(ctx)
	})
	g.Go(func() error {
		return a.push.Run(ctx)
	})

	a.log.Info("Клиент запущен",
		slog.String("api", a.config.APIURL),
		slog.String("push", a.config.PushURL),
		slog.String("env", a.config.Env),
	)

	err := g.Wait()
	a.log.Info("Клиент завершил работу")
	return err
}

// Shutdown останавливает Run и закрывает хранилище.
func (a *App) Shutdown() {
	a.log.Info("Завершение работы клиента...")

	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	a.calendar.Unmount()
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			a.log.Error("Ошибка закрытия хранилища", slog.String("error", err.Error()))
		}
	}
}

// Table возвращает движок таблицы ресурса. Один экземпляр на ресурс.
func (a *App) Table(name string) (*table.Table, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if t, ok := a.tables[name]; ok {
		return t, nil
	}

	cfg, err := table.Lookup(name)
	if err != nil {
		return nil, err
	}
	t := table.New(cfg, a.transport, a.notices, a.deletions, a.sched, a.log)
	a.tables[name] = t
	return t, nil
}

// RequireAuth возвращает ошибку, если сессии нет.
func (a *App) RequireAuth() error {
	if !a.session.Authorized() {
		return fmt.Errorf("%w: выполните tourdesk auth login", session.ErrNoSession)
	}
	return nil
}

func (a *App) Config() *config.Config        { return a.config }
func (a *App) Log() *slog.Logger             { return a.log }
func (a *App) Notices() *notice.Channel      { return a.notices }
func (a *App) Session() *session.Store       { return a.session }
func (a *App) Auth() *session.Service        { return a.auth }
func (a *App) Transport() *transport.Client  { return a.transport }
func (a *App) Push() *push.Conn              { return a.push }
func (a *App) Calendar() *calendar.Sync      { return a.calendar }
func (a *App) Editor() *calendar.Editor      { return a.editor }
func (a *App) Tours() *tour.Creator          { return a.tours }
func (a *App) Revalidator() *Revalidator     { return a.revalidator }
func (a *App) Deletions() *deletion.Workflow { return a.deletions }
