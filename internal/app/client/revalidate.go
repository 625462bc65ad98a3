package client

import (
	"context"
	"errors"
	"time"

	"golang.org/x/exp/slog"

	"tourdesk/internal/domain/session"
)

// Verifier - проверка текущей сессии на сервере.
type Verifier interface {
	Verify(ctx context.Context) (session.Admin, bool, error)
}

// Revalidator периодически сверяет сессию с сервером. Сбои только
// логируются: отказы авторизации уже обработал транспорт.
type Revalidator struct {
	verifier Verifier
	interval time.Duration
	log      *slog.Logger
}

func NewRevalidator(v Verifier, interval time.Duration, log *slog.Logger) *Revalidator {
	return &Revalidator{
		verifier: v,
		interval: interval,
		log:      log.With(slog.String("component", "revalidate")),
	}
}

// Run проверяет сессию сразу и затем каждые interval до отмены ctx.
func (r *Revalidator) Run(ctx context.Context) error {
	r.check(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("Проверка сессии остановлена")
			return nil
		case <-ticker.C:
			r.check(ctx)
		}
	}
}

func (r *Revalidator) check(ctx context.Context) {
	admin, changed, err := r.verifier.Verify(ctx)
	switch {
	case errors.Is(err, session.ErrNoSession):
		r.log.Debug("no session to verify")
	case err != nil:
		if ctx.Err() == nil {
			r.log.Error("Ошибка проверки сессии", slog.String("error", err.Error()))
		}
	case changed:
		r.log.Info("admin record changed on server", slog.Int("admin_id", admin.ID))
	default:
		r.log.Debug("session is valid", slog.Int("admin_id", admin.ID))
	}
}
