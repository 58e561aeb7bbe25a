// Package middleware — net/http мидлвары view-сервера.
package middleware

import "net/http"

// Middleware — стандартный net/http мидлвар.
type Middleware func(http.Handler) http.Handler

// Chain оборачивает h так, что первый мидлвар в списке выполняется первым.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	return h
}

// trackingWriter запоминает код ответа и число отданных байт. Logging, Metrics
// и Timeout разделяют один экземпляр на запрос.
type trackingWriter struct {
	http.ResponseWriter
	code  int
	bytes int
}

// track возвращает w, если он уже отслеживается, иначе оборачивает его.
func track(w http.ResponseWriter) *trackingWriter {
	if tw, ok := w.(*trackingWriter); ok {
		return tw
	}

	return &trackingWriter{ResponseWriter: w}
}

// started — заголовки уже ушли клиенту.
func (w *trackingWriter) started() bool { return w.code != 0 }

// Code — код ответа; 200, если хендлер ничего не записал.
func (w *trackingWriter) Code() int {
	if !w.started() {
		return http.StatusOK
	}

	return w.code
}

func (w *trackingWriter) WriteHeader(code int) {
	if !w.started() {
		w.code = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *trackingWriter) Write(p []byte) (int, error) {
	if !w.started() {
		w.code = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(p)
	w.bytes += n

	return n, err
}

// Unwrap нужен http.ResponseController.
func (w *trackingWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
