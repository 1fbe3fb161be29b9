package logger

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseLogger(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantStatus  int
		wantWritten int
	}{
		{
			name:       "Default status",
			handler:    func(w http.ResponseWriter, r *http.Request) {},
			wantStatus: http.StatusOK,
		},
		{
			name: "Explicit status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				io.WriteString(w, "flagged")
			},
			wantStatus:  http.StatusUnprocessableEntity,
			wantWritten: len("flagged"),
		},
		{
			name: "Status after write is ignored",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, "ok")
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantStatus:  http.StatusOK,
			wantWritten: len("ok"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			lw := New(rr)
			tt.handler(lw, httptest.NewRequest(http.MethodGet, "/", nil))

			if lw.Status() != tt.wantStatus {
				t.Errorf("want status %d, got %d", tt.wantStatus, lw.Status())
			}
			if lw.Written() != tt.wantWritten {
				t.Errorf("want %d bytes written, got %d", tt.wantWritten, lw.Written())
			}
		})
	}
}
