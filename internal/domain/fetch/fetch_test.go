package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tourdesk/internal/infrastructure/transport"
)

type MockRequester struct {
	mock.Mock
}

func (m *MockRequester) Do(ctx context.Context, method, path string, body, out any) error {
	args := m.Called(ctx, method, path, body, out)
	return args.Error(0)
}

// respond декодирует JSON в out, имитируя транспорт.
func respond(payload string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		_ = json.Unmarshal([]byte(payload), args.Get(4))
	}
}

type tour struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func TestFetch_List(t *testing.T) {
	ctx := context.Background()
	r := new(MockRequester)
	r.On("Do", ctx, http.MethodGet, "/tours", nil, mock.Anything).
		Run(respond(`{"success":true,"data":[{"id":1,"title":"Alps"},{"id":2,"title":"Sea"}]}`)).
		Return(nil)

	resp := Fetch[[]tour](ctx, r, "/tours")

	require.True(t, resp.OK())
	tours, present := resp.Data.Get()
	require.True(t, present)
	assert.Equal(t, []tour{{1, "Alps"}, {2, "Sea"}}, tours)
	r.AssertExpectations(t)
}

func TestFetch_ErrorKeepsDataEmpty(t *testing.T) {
	ctx := context.Background()
	r := new(MockRequester)
	r.On("Do", ctx, http.MethodGet, "/faqs", nil, mock.Anything).
		Return(&transport.APIError{Status: 401, Handled: true})

	resp := Fetch[[]tour](ctx, r, "/faqs")

	assert.False(t, resp.OK())
	assert.True(t, resp.Data.IsAbsent())
	assert.True(t, resp.Handled())
}

func TestUpdate_Path(t *testing.T) {
	ctx := context.Background()
	r := new(MockRequester)
	body := map[string]string{"title": "x"}
	r.On("Do", ctx, http.MethodPut, "/tours/7", body, mock.Anything).
		Run(respond(`{"success":true,"data":{"id":7,"title":"x"}}`)).
		Return(nil)

	resp := Update[tour](ctx, r, "/tours", 7, body)

	require.NoError(t, resp.Err)
	assert.Equal(t, tour{7, "x"}, resp.Data.MustGet())
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	r := new(MockRequester)
	r.On("Do", ctx, http.MethodDelete, "/faqs/3", nil, mock.Anything).
		Run(respond(`{"success":true,"message":"FAQ deleted"}`)).
		Return(nil)

	resp := Delete(ctx, r, "/faqs", 3)

	require.True(t, resp.OK())
	assert.Equal(t, "FAQ deleted", resp.Data.MustGet().Message)
}

func TestDeleteMany_SendsAllIDs(t *testing.T) {
	ctx := context.Background()
	r := new(MockRequester)
	r.On("Do", ctx, http.MethodDelete, "/tours/delete-many", mock.MatchedBy(func(body any) bool {
		data, err := json.Marshal(body)
		return err == nil && string(data) == `{"ids":[1,4,9]}`
	}), mock.Anything).
		Run(respond(`{"success":true,"message":"3 tours deleted"}`)).
		Return(nil)

	resp := DeleteMany(context.Background(), r, "/tours", []int{1, 4, 9})

	require.True(t, resp.OK())
	assert.Equal(t, "3 tours deleted", resp.Data.MustGet().Message)
	r.AssertNumberOfCalls(t, "Do", 1)
}

func TestResponse_Message(t *testing.T) {
	assert.Empty(t, Response[int]{}.Message())
	assert.Equal(t, "title is required",
		failed[int](&transport.APIError{Status: 422, Message: "title is required"}).Message())
	assert.Equal(t, "boom", failed[int](errors.New("boom")).Message())

	p := Pending[int]()
	assert.True(t, p.Loading)
	assert.False(t, p.OK())
}
