package request

import (
	"errors"
	"net/http"
)

// ErrInternalServer is the error returned to clients when a handler panics.
var ErrInternalServer = errors.New("internal server error")

// ClientWriter wraps a http.ResponseWriter and records the status code that
// was written to it.
type ClientWriter struct {
	http.ResponseWriter

	// statusCode is the status code that was written.
	statusCode int
}

// NewClientWriter creates a new ClientWriter.
func NewClientWriter(w http.ResponseWriter) *ClientWriter {
	return &ClientWriter{
		ResponseWriter: w,
	}
}

// WriteHeader records the status code and writes it to the wrapped writer.
func (w *ClientWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// StatusCode returns the status code that was written. If no status code has
// been written, http.StatusOK is returned as that is what the net/http server
// defaults to.
func (w *ClientWriter) StatusCode() int {
	if w.statusCode == 0 {
		return http.StatusOK
	}
	return w.statusCode
}
