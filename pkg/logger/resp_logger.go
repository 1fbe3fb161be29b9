// Package logger captures what a handler wrote so request logs can report it.
package logger

import "net/http"

// ResponseLogger wraps an http.ResponseWriter and records the status code
// and the number of body bytes written.
type ResponseLogger struct {
	w       http.ResponseWriter
	status  int
	written int
	wrote   bool
}

func New(w http.ResponseWriter) *ResponseLogger {
	return &ResponseLogger{w: w, status: http.StatusOK}
}

// WriteHeader records the first status code only, as net/http ignores
// superfluous calls.
func (l *ResponseLogger) WriteHeader(code int) {
	if !l.wrote {
		l.status = code
		l.wrote = true
	}
	l.w.WriteHeader(code)
}

func (l *ResponseLogger) Write(b []byte) (int, error) {
	l.wrote = true
	n, err := l.w.Write(b)
	l.written += n
	return n, err
}

func (l *ResponseLogger) Header() http.Header {
	return l.w.Header()
}

func (l *ResponseLogger) Status() int {
	return l.status
}

func (l *ResponseLogger) Written() int {
	return l.written
}
