package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourdesk/internal/infrastructure/transport"
	"tourdesk/internal/utils/logger"
)

type recordingNotices struct {
	mu      sync.Mutex
	success []string
	errors  []string
}

func (n *recordingNotices) Success(content string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.success = append(n.success, content)
}

func (n *recordingNotices) Error(content string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, content)
}

func (n *recordingNotices) errs() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errors...)
}

var alice = Admin{
	ID:        3,
	Name:      "Alice",
	Email:     "alice@example.com",
	JobTitle:  "Manager",
	Role:      "2",
	CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
}

type harness struct {
	repo    *MemoryRepository
	store   *Store
	notices *recordingNotices
	service *Service
}

func newHarness(t *testing.T, r chi.Router) *harness {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	log := logger.Discard()
	repo := NewMemoryRepository()
	store := NewStore(repo, log)
	notices := &recordingNotices{}
	client := transport.NewClient(srv.URL+"/api", 5*time.Second, store,
		transport.NewClassifier(store, notices, log), log)

	return &harness{
		repo:    repo,
		store:   store,
		notices: notices,
		service: NewService(store, client, notices, log),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestStore_SignInLoadLogout(t *testing.T) {
	repo := NewMemoryRepository()
	store := NewStore(repo, logger.Discard())
	ctx := context.Background()

	require.NoError(t, store.SignIn(ctx, "tok", alice))
	assert.Equal(t, "tok", repo.values[KeyToken])
	assert.Contains(t, repo.values[KeyAdmin], `"job_title":"Manager"`)

	restored := NewStore(repo, logger.Discard())
	require.NoError(t, restored.Load(ctx))
	assert.True(t, restored.Authorized())
	got, ok := restored.CurrentUser()
	require.True(t, ok)
	assert.True(t, got.Equal(alice))

	var called int
	off := restored.OnLogout(func() { called++ })
	assert.True(t, restored.Logout())
	assert.False(t, restored.Logout())
	off()

	assert.Equal(t, 1, called)
	assert.False(t, restored.Authorized())
	assert.Empty(t, repo.values)
}

func TestStore_LoadCorruptedAdmin(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, KeyToken, "tok"))
	require.NoError(t, repo.Set(ctx, KeyAdmin, "{broken"))

	store := NewStore(repo, logger.Discard())
	require.NoError(t, store.Load(ctx))

	assert.True(t, store.Authorized())
	_, ok := store.CurrentUser()
	assert.False(t, ok)
}

// slowDeleteRepository задерживает Delete до закрытия release.
type slowDeleteRepository struct {
	*MemoryRepository
	entered chan struct{}
	release chan struct{}
}

func (r *slowDeleteRepository) Delete(ctx context.Context, keys ...string) error {
	close(r.entered)
	<-r.release
	return r.MemoryRepository.Delete(ctx, keys...)
}

func TestStore_SignInDuringLogoutKeepsStoredToken(t *testing.T) {
	// Arrange
	repo := &slowDeleteRepository{
		MemoryRepository: NewMemoryRepository(),
		entered:          make(chan struct{}),
		release:          make(chan struct{}),
	}
	store := NewStore(repo, logger.Discard())
	ctx := context.Background()
	require.NoError(t, repo.MemoryRepository.Set(ctx, KeyToken, "old"))
	require.NoError(t, store.Load(ctx))

	// Act
	logoutDone := make(chan bool, 1)
	go func() { logoutDone <- store.Logout() }()
	<-repo.entered

	signInDone := make(chan error, 1)
	go func() { signInDone <- store.SignIn(ctx, "new", alice) }()

	select {
	case <-signInDone:
		t.Fatal("sign-in finished while the previous session was still being cleared")
	case <-time.After(50 * time.Millisecond):
	}
	close(repo.release)

	// Assert
	assert.True(t, <-logoutDone)
	require.NoError(t, <-signInDone)

	token, _ := store.Token()
	assert.Equal(t, "new", token)
	stored, ok, err := repo.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new", stored)

	restored := NewStore(repo.MemoryRepository, logger.Discard())
	require.NoError(t, restored.Load(ctx))
	assert.True(t, restored.Authorized())
}

func TestStore_InvalidateIf(t *testing.T) {
	store := NewStore(NewMemoryRepository(), logger.Discard())
	ctx := context.Background()

	require.NoError(t, store.SignIn(ctx, "old", alice))
	_, staleGen := store.Token()
	require.NoError(t, store.SignIn(ctx, "new", alice))

	assert.False(t, store.InvalidateIf(staleGen))
	assert.True(t, store.Authorized())

	_, gen := store.Token()
	assert.True(t, store.InvalidateIf(gen))
	assert.False(t, store.InvalidateIf(gen))
	assert.NotEqual(t, gen, store.Generation())
}

func TestStore_UpdateUser(t *testing.T) {
	store := NewStore(NewMemoryRepository(), logger.Discard())
	ctx := context.Background()

	_, err := store.UpdateUser(ctx, alice)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.SignIn(ctx, "tok", alice))

	changed, err := store.UpdateUser(ctx, alice)
	require.NoError(t, err)
	assert.False(t, changed)

	renamed := alice
	renamed.Name = "Alice B."
	changed, err = store.UpdateUser(ctx, renamed)
	require.NoError(t, err)
	assert.True(t, changed)

	got, _ := store.CurrentUser()
	assert.Equal(t, "Alice B.", got.Name)
}

func TestStore_Expiry(t *testing.T) {
	store := NewStore(NewMemoryRepository(), logger.Discard())
	ctx := context.Background()

	exp := time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "3",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	require.NoError(t, store.SignIn(ctx, signed, alice))
	got, ok := store.Expiry()
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	require.NoError(t, store.SignIn(ctx, "opaque-token", alice))
	_, ok = store.Expiry()
	assert.False(t, ok)
}

func TestAdmin_Permission(t *testing.T) {
	tests := map[string]string{
		"1": "only read",
		"2": "read and add",
		"3": "read, add and update",
		"4": "all permission",
		"":  "all permission",
	}
	for role, want := range tests {
		assert.Equal(t, want, Admin{Role: role}.Permission(), role)
	}
}

func TestService_SignIn(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/auth/sign-in", func(w http.ResponseWriter, req *http.Request) {
		var body signInRequest
		_ = json.NewDecoder(req.Body).Decode(&body)
		if body.Password != "secret" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"success": false, "message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"token": "tok", "admin": alice},
		})
	})
	h := newHarness(t, r)
	ctx := context.Background()

	_, err := h.service.SignIn(ctx, "alice", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = h.service.SignIn(ctx, "alice@example.com", "wrong")
	assert.Error(t, err)
	assert.False(t, h.store.Authorized())
	assert.Equal(t, []string{"Invalid credentials"}, h.notices.errs())

	admin, err := h.service.SignIn(ctx, "alice@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Alice", admin.Name)

	token, _ := h.store.Token()
	assert.Equal(t, "tok", token)
}

func TestService_SignIn_FallbackAndHandled(t *testing.T) {
	status := http.StatusInternalServerError
	r := chi.NewRouter()
	r.Post("/api/auth/sign-in", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	})
	h := newHarness(t, r)
	ctx := context.Background()

	_, err := h.service.SignIn(ctx, "alice@example.com", "x")
	assert.Error(t, err)

	status = http.StatusForbidden
	_, err = h.service.SignIn(ctx, "alice@example.com", "x")
	assert.True(t, transport.IsHandled(err))

	assert.Equal(t, []string{MsgSignInFailed, transport.MsgAccessDenied}, h.notices.errs())
}

func TestService_SignOut(t *testing.T) {
	fail := false
	r := chi.NewRouter()
	r.Post("/api/auth/sign-out", func(w http.ResponseWriter, _ *http.Request) {
		if fail {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Signed out"})
	})
	h := newHarness(t, r)
	ctx := context.Background()

	assert.ErrorIs(t, h.service.SignOut(ctx), ErrNoSession)

	require.NoError(t, h.store.SignIn(ctx, "tok", alice))
	require.NoError(t, h.service.SignOut(ctx))
	assert.False(t, h.store.Authorized())
	assert.Equal(t, []string{"Signed out"}, h.notices.success)

	fail = true
	require.NoError(t, h.store.SignIn(ctx, "tok", alice))
	assert.Error(t, h.service.SignOut(ctx))
	assert.False(t, h.store.Authorized())
	assert.Equal(t, []string{MsgSignOutFailed}, h.notices.errs())
}

func TestService_Verify(t *testing.T) {
	current := alice
	r := chi.NewRouter()
	r.Get("/api/admins/{id}", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "3", chi.URLParam(req, "id"))
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": current})
	})
	h := newHarness(t, r)
	ctx := context.Background()

	_, _, err := h.service.Verify(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, h.store.SignIn(ctx, "tok", alice))
	_, changed, err := h.service.Verify(ctx)
	require.NoError(t, err)
	assert.False(t, changed)

	current.Role = "4"
	fresh, changed, err := h.service.Verify(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "all permission", fresh.Permission())

	stored, _ := h.store.CurrentUser()
	assert.Equal(t, "4", stored.Role)
	assert.Contains(t, h.repo.values[KeyAdmin], `"role":"4"`)
}

func TestService_UpdateProfile(t *testing.T) {
	var bodies []map[string]any
	r := chi.NewRouter()
	r.Put("/api/admins/{id}", func(w http.ResponseWriter, req *http.Request) {
		data, _ := io.ReadAll(req.Body)
		var body map[string]any
		_ = json.Unmarshal(data, &body)
		bodies = append(bodies, body)

		if body["password"] == "wrong" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Old password is incorrect"})
			return
		}
		updated := alice
		updated.Name = body["name"].(string)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": updated})
	})
	h := newHarness(t, r)
	ctx := context.Background()
	require.NoError(t, h.store.SignIn(ctx, "tok", alice))

	got, err := h.service.UpdateProfile(ctx, ProfileUpdate{Name: "Alicia", Email: alice.Email, OldPassword: "only-old"})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.Name)
	assert.NotContains(t, bodies[0], "password")
	assert.NotContains(t, bodies[0], "new_password")
	assert.Equal(t, []string{MsgProfileUpdated}, h.notices.success)

	_, err = h.service.UpdateProfile(ctx, ProfileUpdate{Name: "A", Email: alice.Email, OldPassword: "wrong", NewPassword: "n"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Old password is incorrect")
	assert.Equal(t, "n", bodies[1]["new_password"])
}

func TestConcurrentUnauthorized_SingleNotice(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/admins/{id}", func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(20 * time.Millisecond)
		w.WriteHeader(http.StatusUnauthorized)
	})
	h := newHarness(t, r)
	ctx := context.Background()
	require.NoError(t, h.store.SignIn(ctx, "tok", alice))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// поздние вызовы видят уже закрытую сессию
			_, _, err := h.service.Verify(ctx)
			assert.True(t, transport.IsHandled(err) || errors.Is(err, ErrNoSession), err)
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{transport.MsgSessionExpired}, h.notices.errs())
	assert.False(t, h.store.Authorized())
	assert.Empty(t, h.repo.values)
}
