package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"roomclimate/internal/logger"
)

const requestIDHeader = "X-Request-ID"

// requestID echoes an incoming request ID or assigns a new one
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// accessLog adapts the component logger to the io.Writer handlers.LoggingHandler expects
type accessLog struct {
	log *logger.Logger
}

func (a accessLog) Write(p []byte) (int, error) {
	a.log.Debug(strings.TrimSpace(string(p)))
	return len(p), nil
}

type recoveryLogger struct {
	log *logger.Logger
}

func (r recoveryLogger) Println(v ...interface{}) {
	r.log.Error("Recovered from panic", fmt.Errorf("%s", strings.TrimSpace(fmt.Sprintln(v...))))
}
