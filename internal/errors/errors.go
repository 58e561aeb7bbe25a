// errors стандартизирует ответы об ошибках view-сервера.
// На вход принимается ошибка доменного слоя (feed, session, graph) или
// нормализованная ошибка REST-клиента, на выход:
//   - HTTP-статус;
//   - короткий стабильный code;
//   - безопасное message для пользователя.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/go-burrow/internal/api"
	"github.com/pribylovaa/go-burrow/internal/feed"
	"github.com/pribylovaa/go-burrow/internal/graph"
	"github.com/pribylovaa/go-burrow/internal/session"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат ошибки в ответе.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ErrBadRequest — тело или параметры запроса не разбираются.
var ErrBadRequest = errors.New("bad request")

// invalid — ошибки валидации, текст которых безопасно показывать как есть.
var invalid = []error{
	ErrBadRequest,
	feed.ErrEmptyText,
	feed.ErrInvalidDirection,
	feed.ErrEmptyQuery,
	feed.ErrInvalidArgument,
	session.ErrInvalidArgument,
	session.ErrInvalidEmail,
	session.ErrPasswordMismatch,
	graph.ErrUnknownSource,
}

// ToHTTP конвертирует ошибку в HTTP-статус и тело ответа.
//
// Порядок:
//   - nil — программная ошибка вызова, 500/internal;
//   - доменные sentinel-ошибки (feed, session, graph);
//   - api.Error: 4xx бэкенда пробрасывается со статусом и сообщением сервера,
//     5xx и нечитаемый ответ дают 502, недоступность бэкенда 502 или 504 по таймауту;
//   - отмена/дедлайн контекста — 499/504;
//   - прочее — 500/internal без деталей.
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return resp(http.StatusInternalServerError, "internal", "internal error")
	}

	for _, target := range invalid {
		if errors.Is(err, target) {
			return resp(http.StatusBadRequest, "invalid_argument", target.Error())
		}
	}

	switch {
	case errors.Is(err, feed.ErrNotFound):
		return resp(http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, feed.ErrNotLoaded):
		return resp(http.StatusPreconditionFailed, "failed_precondition", feed.ErrNotLoaded.Error())
	case errors.Is(err, feed.ErrClosed):
		return resp(http.StatusServiceUnavailable, "unavailable", "service unavailable")
	case errors.Is(err, session.ErrNoSession):
		return resp(http.StatusUnauthorized, "unauthenticated", session.ErrNoSession.Error())
	case errors.Is(err, session.ErrNoToken):
		return resp(http.StatusBadGateway, "bad_gateway", session.ErrNoToken.Error())
	}

	var ae *api.Error
	if errors.As(err, &ae) {
		return fromAPI(ae)
	}

	switch {
	case errors.Is(err, context.Canceled):
		return resp(StatusClientClosedRequest, "canceled", "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return resp(http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded")
	}

	return resp(http.StatusInternalServerError, "internal", "internal error")
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := ToHTTP(err)
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		body.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func fromAPI(e *api.Error) (int, ErrorResponse) {
	switch e.Kind {
	case api.KindStatus:
		if e.Status >= 400 && e.Status < 500 {
			return resp(e.Status, codeFor(e.Status), e.Error())
		}

		return resp(http.StatusBadGateway, "bad_gateway", e.Error())
	case api.KindDecode:
		return resp(http.StatusBadGateway, "bad_gateway", e.Error())
	case api.KindTransport:
		if errors.Is(e, context.DeadlineExceeded) {
			return resp(http.StatusGatewayTimeout, "deadline_exceeded", e.Error())
		}

		return resp(http.StatusBadGateway, "unavailable", e.Error())
	default:
		return resp(http.StatusInternalServerError, "internal", "internal error")
	}
}

// codeFor — FE-код для 4xx бэкенда.
func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_argument"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "permission_denied"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "already_exists"
	case http.StatusTooManyRequests:
		return "resource_exhausted"
	default:
		return "upstream_rejected"
	}
}

func resp(status int, code, msg string) (int, ErrorResponse) {
	return status, ErrorResponse{Error: APIError{Code: code, Message: msg}}
}
