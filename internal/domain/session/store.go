package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/exp/slog"
)

// Store - состояние сессии процесса: токен и текущий пользователь.
// Каждый вход и выход увеличивает поколение, по нему классификатор
// транспорта отличает устаревшие отказы от актуальных.
type Store struct {
	repo Repository
	log  *slog.Logger

	// persist держится на время изменения состояния и записи в хранилище.
	persist sync.Mutex

	mu       sync.Mutex
	token    string
	admin    *Admin
	gen      uint64
	onLogout map[int]func()
	nextID   int
}

func NewStore(repo Repository, log *slog.Logger) *Store {
	return &Store{
		repo:     repo,
		log:      log.With(slog.String("component", "session")),
		onLogout: make(map[int]func()),
	}
}

// Load восстанавливает сессию из хранилища.
// Испорченная запись пользователя отбрасывается, токен остается.
func (s *Store) Load(ctx context.Context) error {
	token, _, err := s.repo.Get(ctx, KeyToken)
	if err != nil {
		return fmt.Errorf("ошибка чтения токена: %w", err)
	}
	raw, ok, err := s.repo.Get(ctx, KeyAdmin)
	if err != nil {
		return fmt.Errorf("ошибка чтения пользователя: %w", err)
	}

	var admin *Admin
	if ok && raw != "" && raw != "null" {
		var a Admin
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			s.log.Warn("stored admin is corrupted", slog.String("error", err.Error()))
		} else {
			admin = &a
		}
	}

	s.mu.Lock()
	s.token = token
	s.admin = admin
	s.gen++
	s.mu.Unlock()
	return nil
}

// SignIn сохраняет новую сессию.
func (s *Store) SignIn(ctx context.Context, token string, admin Admin) error {
	if token == "" {
		return ErrNoToken
	}
	raw, err := json.Marshal(admin)
	if err != nil {
		return fmt.Errorf("ошибка сериализации пользователя: %w", err)
	}

	s.persist.Lock()
	defer s.persist.Unlock()

	if err := s.repo.Set(ctx, KeyToken, token); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}
	if err := s.repo.Set(ctx, KeyAdmin, string(raw)); err != nil {
		return fmt.Errorf("ошибка сохранения пользователя: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.admin = &admin
	s.gen++
	s.mu.Unlock()

	s.log.Info("signed in", slog.Int("admin_id", admin.ID))
	return nil
}

// Logout уничтожает сессию. false, если сессии не было.
func (s *Store) Logout() bool {
	return s.logout(func() bool { return true })
}

// Token возвращает текущий токен и поколение сессии.
func (s *Store) Token() (string, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.gen
}

// Generation возвращает поколение сессии.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// InvalidateIf завершает сессию, только если она не сменилась с поколения gen.
func (s *Store) InvalidateIf(gen uint64) bool {
	return s.logout(func() bool { return s.gen == gen && s.token != "" })
}

// logout проверяет allowed под блокировкой.
func (s *Store) logout(allowed func() bool) bool {
	s.persist.Lock()
	s.mu.Lock()
	if (s.token == "" && s.admin == nil) || !allowed() {
		s.mu.Unlock()
		s.persist.Unlock()
		return false
	}
	s.token = ""
	s.admin = nil
	s.gen++
	callbacks := make([]func(), 0, len(s.onLogout))
	for _, fn := range s.onLogout {
		callbacks = append(callbacks, fn)
	}
	s.mu.Unlock()

	if err := s.repo.Delete(context.Background(), KeyToken, KeyAdmin); err != nil {
		s.log.Error("failed to clear stored session", slog.String("error", err.Error()))
	}
	s.persist.Unlock()
	s.log.Info("session closed")

	for _, fn := range callbacks {
		fn()
	}
	return true
}

// Authorized сообщает, есть ли активная сессия.
func (s *Store) Authorized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

func (s *Store) CurrentUser() (Admin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.admin == nil {
		return Admin{}, false
	}
	return *s.admin, true
}

// UpdateUser заменяет сохраненного пользователя, если он изменился.
func (s *Store) UpdateUser(ctx context.Context, admin Admin) (bool, error) {
	s.persist.Lock()
	defer s.persist.Unlock()

	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return false, ErrNoSession
	}
	if s.admin != nil && s.admin.Equal(admin) {
		s.mu.Unlock()
		return false, nil
	}
	s.admin = &admin
	s.mu.Unlock()

	raw, err := json.Marshal(admin)
	if err != nil {
		return true, fmt.Errorf("ошибка сериализации пользователя: %w", err)
	}
	if err := s.repo.Set(ctx, KeyAdmin, string(raw)); err != nil {
		return true, fmt.Errorf("ошибка сохранения пользователя: %w", err)
	}
	return true, nil
}

// Expiry возвращает срок действия токена из его claims без проверки подписи.
func (s *Store) Expiry() (time.Time, bool) {
	token, _ := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// OnLogout подписывает fn на завершение сессии.
func (s *Store) OnLogout(fn func()) (off func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.onLogout[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.onLogout, id)
		s.mu.Unlock()
	}
}
