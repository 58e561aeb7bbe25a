package api

import (
	"errors"
	"fmt"
	"net/http"
)

// GenericMessage — сообщение для ошибок, у которых нет собственного текста.
const GenericMessage = "something went wrong"

var (
	// ErrTransport — запрос не дошёл до сервера или не дождался ответа.
	ErrTransport = errors.New("transport failure")
	// ErrDecode — 2xx с нечитаемым телом.
	ErrDecode = errors.New("malformed response")
	// ErrInvalidBaseURL — базовый URL бэкенда не абсолютный http(s).
	ErrInvalidBaseURL = errors.New("invalid base url")
)

// Kind — класс ошибки обращения к бэкенду.
type Kind uint8

const (
	KindTransport Kind = iota + 1
	KindStatus
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error — нормализованная ошибка обращения к бэкенду.
// Все три класса ошибок сводятся к одной строке Message, которую видит пользователь;
// Kind/Status нужны только вызывающему коду (маппинг в HTTP, решение о refetch).
type Error struct {
	Kind    Kind
	Status  int    // HTTP-статус для KindStatus, иначе 0
	Message string // текст для пользователя
	Op      string // операция клиента, например "api.VoteComment"
	Err     error  // первопричина (ошибка транспорта/декодера)
}

func (e *Error) Error() string {
	if e.Message == "" {
		return GenericMessage
	}

	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is сопоставляет ошибку с ErrTransport/ErrDecode по классу.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrDecode:
		return e.Kind == KindDecode
	default:
		return false
	}
}

// Message возвращает строку для пользователя для любой ошибки.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}

	return GenericMessage
}

// StatusCode — HTTP-статус ответа бэкенда или 0, если ответа не было.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindStatus {
		return e.Status
	}

	return 0
}

// IsNotFound — бэкенд ответил 404.
func IsNotFound(err error) bool { return StatusCode(err) == http.StatusNotFound }

func statusMessage(code int) string {
	return fmt.Sprintf("request failed with status %d", code)
}
