package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/exp/slog"

	"tourdesk/internal/domain/fetch"
	"tourdesk/internal/infrastructure/transport"
)

const (
	MsgSignInFailed   = "Sign-in failed"
	MsgSignOutFailed  = "Sign-out failed"
	MsgProfileUpdated = "Profile updated successfully"
	MsgProfileFailed  = "Failed to update profile"
)

// Notifier - часть канала уведомлений, нужная сервису.
type Notifier interface {
	Success(content string)
	Error(content string)
}

// Service - операции входа, выхода и проверки сессии на сервере.
type Service struct {
	store     *Store
	requester fetch.Requester
	notices   Notifier
	log       *slog.Logger
}

func NewService(store *Store, requester fetch.Requester, notices Notifier, log *slog.Logger) *Service {
	return &Service{
		store:     store,
		requester: requester,
		notices:   notices,
		log:       log.With(slog.String("component", "auth")),
	}
}

// SignIn входит по email и паролю и сохраняет сессию.
func (s *Service) SignIn(ctx context.Context, email, password string) (Admin, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") || password == "" {
		return Admin{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	resp := fetch.Create[signInData](ctx, s.requester, "/auth/sign-in", signInRequest{Email: email, Password: password})
	if resp.Err != nil {
		s.fail(resp.Err, MsgSignInFailed)
		return Admin{}, resp.Err
	}

	data := resp.Data.OrEmpty()
	if err := s.store.SignIn(ctx, data.Token, data.Admin); err != nil {
		s.notices.Error(MsgSignInFailed)
		return Admin{}, err
	}
	return data.Admin, nil
}

// SignOut завершает сессию на сервере. Локальная сессия закрывается
// при любом исходе запроса.
func (s *Service) SignOut(ctx context.Context) error {
	if !s.store.Authorized() {
		return ErrNoSession
	}
	defer s.store.Logout()

	var res fetch.Result
	if err := s.requester.Do(ctx, http.MethodPost, "/auth/sign-out", nil, &res); err != nil {
		s.fail(err, MsgSignOutFailed)
		return err
	}

	if res.Message != "" {
		s.notices.Success(res.Message)
	}
	return nil
}

// Verify перечитывает текущего пользователя и заменяет сохраненного
// при расхождении. Ошибки только возвращаются: об отказах авторизации
// уже уведомил транспорт.
func (s *Service) Verify(ctx context.Context) (Admin, bool, error) {
	admin, ok := s.store.CurrentUser()
	if !s.store.Authorized() || !ok {
		return Admin{}, false, ErrNoSession
	}

	resp := fetch.Fetch[Admin](ctx, s.requester, fmt.Sprintf("/admins/%d", admin.ID))
	if resp.Err != nil {
		s.log.Warn("failed to verify session", slog.String("error", resp.Err.Error()))
		return Admin{}, false, resp.Err
	}

	fresh := resp.Data.OrEmpty()
	changed, err := s.store.UpdateUser(ctx, fresh)
	if err != nil {
		return Admin{}, false, err
	}
	if changed {
		s.log.Info("admin record refreshed", slog.Int("admin_id", fresh.ID))
	}
	return fresh, changed, nil
}

// UpdateProfile меняет имя, email и, при паре паролей, пароль.
func (s *Service) UpdateProfile(ctx context.Context, upd ProfileUpdate) (Admin, error) {
	admin, ok := s.store.CurrentUser()
	if !s.store.Authorized() || !ok {
		return Admin{}, ErrNoSession
	}

	resp := fetch.Update[Admin](ctx, s.requester, "/admins", admin.ID, upd.body())
	if resp.Err != nil {
		msg := MsgProfileFailed
		var apiErr *transport.APIError
		if errors.As(resp.Err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return Admin{}, fmt.Errorf("%s: %w", msg, resp.Err)
	}

	updated := resp.Data.OrEmpty()
	if _, err := s.store.UpdateUser(ctx, updated); err != nil {
		return Admin{}, err
	}
	s.notices.Success(MsgProfileUpdated)
	return updated, nil
}

func (s *Service) fail(err error, fallback string) {
	if transport.IsHandled(err) {
		return
	}
	msg := fallback
	var apiErr *transport.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	s.log.Warn("auth request failed", slog.String("error", err.Error()))
	s.notices.Error(msg)
}
