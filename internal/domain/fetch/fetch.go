package fetch

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samber/mo"

	"tourdesk/internal/infrastructure/transport"
)

// Requester - то, что умеет выполнить запрос к API.
type Requester interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// Envelope - общий конверт ответов API.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// Result - ответ операций удаления.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Response - единая форма результата {data, loading, error}.
type Response[T any] struct {
	Data    mo.Option[T]
	Loading bool
	Err     error
}

// Pending возвращает результат в состоянии загрузки.
func Pending[T any]() Response[T] {
	return Response[T]{Data: mo.None[T](), Loading: true}
}

func ok[T any](v T) Response[T] {
	return Response[T]{Data: mo.Some(v)}
}

func failed[T any](err error) Response[T] {
	return Response[T]{Data: mo.None[T](), Err: err}
}

// OK - запрос завершился без ошибки.
func (r Response[T]) OK() bool {
	return !r.Loading && r.Err == nil
}

// Handled - об ошибке уже уведомили централизованно.
func (r Response[T]) Handled() bool {
	return transport.IsHandled(r.Err)
}

// Message возвращает текст ошибки для показа пользователю.
func (r Response[T]) Message() string {
	if r.Err == nil {
		return ""
	}
	return transport.MessageOf(r.Err)
}

// Fetch читает ресурс: GET <path> -> {success, data}.
func Fetch[T any](ctx context.Context, r Requester, path string) Response[T] {
	var env Envelope[T]
	if err := r.Do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return failed[T](err)
	}
	return ok(env.Data)
}

// Create выполняет POST <path>.
func Create[T any](ctx context.Context, r Requester, path string, body any) Response[T] {
	return Submit[T](ctx, r, http.MethodPost, path, body)
}

// Update выполняет PUT <path>/<id>.
func Update[T any](ctx context.Context, r Requester, path string, id int, body any) Response[T] {
	return Submit[T](ctx, r, http.MethodPut, fmt.Sprintf("%s/%d", path, id), body)
}

// Submit отправляет тело запроса и разбирает конверт ответа.
func Submit[T any](ctx context.Context, r Requester, method, path string, body any) Response[T] {
	var env Envelope[T]
	if err := r.Do(ctx, method, path, body, &env); err != nil {
		return failed[T](err)
	}
	return ok(env.Data)
}

// Delete удаляет одну запись: DELETE <path>/<id>.
func Delete(ctx context.Context, r Requester, path string, id int) Response[Result] {
	var res Result
	if err := r.Do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", path, id), nil, &res); err != nil {
		return failed[Result](err)
	}
	return ok(res)
}

// DeleteMany удаляет набор записей одним запросом.
// Частичный отказ сервера не отличается от полного.
func DeleteMany(ctx context.Context, r Requester, path string, ids []int) Response[Result] {
	body := struct {
		IDs []int `json:"ids"`
	}{IDs: ids}

	var res Result
	if err := r.Do(ctx, http.MethodDelete, path+"/delete-many", body, &res); err != nil {
		return failed[Result](err)
	}
	return ok(res)
}
