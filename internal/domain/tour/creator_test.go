package tour

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourdesk/internal/domain/record"
	"tourdesk/internal/infrastructure/transport"
	"tourdesk/internal/utils/logger"
)

type anonSession struct{}

func (anonSession) Token() (string, uint64)  { return "token", 1 }
func (anonSession) InvalidateIf(uint64) bool { return false }

type recorder struct {
	mu      sync.Mutex
	success []string
	errors  []string
}

func (r *recorder) Success(content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success = append(r.success, content)
}

func (r *recorder) Error(content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, content)
}

type part struct {
	name, value, filename string
}

func newCreator(t *testing.T, handler http.HandlerFunc) (*Creator, *recorder) {
	t.Helper()

	r := chi.NewRouter()
	r.Post("/api/tours", handler)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	notices := &recorder{}
	log := logger.Discard()
	client := transport.NewClient(srv.URL+"/api", 5*time.Second, anonSession{},
		transport.NewClassifier(anonSession{}, notices, log), log)

	return NewCreator(client, notices, log), notices
}

func readParts(req *http.Request) ([]part, error) {
	reader, err := req.MultipartReader()
	if err != nil {
		return nil, err
	}
	var parts []part
	for {
		p, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return parts, nil
		}
		if err != nil {
			return nil, err
		}
		data, _ := io.ReadAll(p)
		parts = append(parts, part{name: p.FormName(), value: string(data), filename: p.FileName()})
	}
}

func TestCreate_AlpsTrek(t *testing.T) {
	var (
		mu    sync.Mutex
		posts int
		got   []part
	)

	creator, notices := newCreator(t, func(w http.ResponseWriter, req *http.Request) {
		parts, err := readParts(req)
		mu.Lock()
		posts++
		got = parts
		mu.Unlock()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"data":{"id":10,"title":"Alps Trek"}}`)
	})

	d := NewDraft()
	d.Title = "Alps Trek"
	d.Description = "desc"

	refetched := 0
	require.NoError(t, creator.Create(context.Background(), &d, func() { refetched++ }))

	assert.Equal(t, 1, posts)

	var names []string
	values := map[string]string{}
	for _, p := range got {
		names = append(names, p.name)
		values[p.name] = p.value
	}

	assert.Equal(t, []string{
		"title", "description", "location", "price", "duration", "startDate",
		"endDate", "typeId", "bestOffer", "adventures", "experience",
	}, names)
	assert.NotContains(t, names, record.PartGallery)
	assert.Equal(t, "Alps Trek", values["title"])
	assert.Equal(t, "desc", values["description"])
	assert.Equal(t, "0", values["price"])
	assert.Equal(t, "1", values["typeId"])
	assert.Equal(t, "false", values["bestOffer"])
	assert.Equal(t, "false", values["adventures"])
	assert.Equal(t, "false", values["experience"])

	assert.Equal(t, []string{MsgCreated}, notices.success)
	assert.Equal(t, 1, refetched)
	assert.Equal(t, NewDraft(), d)
}

func TestCreate_WithFiles(t *testing.T) {
	var got []part
	creator, _ := newCreator(t, func(w http.ResponseWriter, req *http.Request) {
		got, _ = readParts(req)
		w.WriteHeader(http.StatusCreated)
	})

	img, _ := record.NewFile("cover.jpg", []byte("cover"))
	g1, _ := record.NewFile("g1.jpg", []byte("one"))
	g2, _ := record.NewFile("g2.jpg", []byte("two"))

	d := NewDraft()
	d.Title, d.Description = "Sea", "Sun"
	d.Image = img
	d.AddGallery(g1, g2, g1)

	require.NoError(t, creator.Create(context.Background(), &d, nil))

	var files []string
	for _, p := range got {
		if p.filename != "" {
			files = append(files, p.name+":"+p.filename)
		}
	}
	assert.Equal(t, []string{"image:cover.jpg", "gallery[]:g1.jpg", "gallery[]:g2.jpg"}, files)
}

func TestCreate_Validation(t *testing.T) {
	called := false
	creator, notices := newCreator(t, func(w http.ResponseWriter, _ *http.Request) {
		called = true
	})

	d := NewDraft()
	d.Title = "Only title"

	err := creator.Create(context.Background(), &d, nil)

	assert.ErrorIs(t, err, ErrRequired)
	assert.False(t, called)
	assert.Equal(t, []string{MsgRequired}, notices.errors)
	assert.Equal(t, "Only title", d.Title)
}

func TestCreate_ServerError(t *testing.T) {
	creator, notices := newCreator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"message":"upload failed"}`)
	})

	d := NewDraft()
	d.Title, d.Description = "Alps Trek", "desc"

	assert.Error(t, creator.Create(context.Background(), &d, nil))
	assert.Equal(t, []string{MsgCreateFailed}, notices.errors)
	assert.Equal(t, "Alps Trek", d.Title)
}

func TestCreate_HandledError(t *testing.T) {
	creator, notices := newCreator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"message":"Not allowed"}`)
	})

	d := NewDraft()
	d.Title, d.Description = "Alps Trek", "desc"

	err := creator.Create(context.Background(), &d, nil)
	assert.True(t, transport.IsHandled(err))
	assert.Equal(t, []string{"Not allowed"}, notices.errors)
	assert.Empty(t, notices.success)
}
