package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	log "github.com/freundallein/blogs/backend/chassis/logging"

	"github.com/freundallein/blogs/backend/chassis/metrics"
	"github.com/freundallein/blogs/backend/chassis/protocol"
)

// Route label for requests no route matched.
const unmatchedRoute = "unmatched"

// RequestIDHeader ...
const RequestIDHeader = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = iota

// RequestIDFrom ...
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// RequestID propagates X-Request-ID or generates one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// Chain wraps h in the middleware every response goes through.
func Chain(h http.Handler, collector *metrics.Collector) http.Handler {
	return RequestID(AccessLog(collector)(Recovery(h)))
}

// AccessLog logs every request and records it in collector when one is given.
func AccessLog(collector *metrics.Collector) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start)

			route := unmatchedRoute
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			if collector != nil {
				collector.ObserveRequest(r.Method, route, rec.status, elapsed)
			}
			log.WithFields(log.Fields{
				"event":      "http_request",
				"method":     r.Method,
				"path":       r.URL.RequestURI(),
				"route":      route,
				"status":     rec.status,
				"bytes":      rec.bytes,
				"duration":   elapsed.String(),
				"request_id": RequestIDFrom(r.Context()),
			}).Info("request served")
		})
	}
}

// Recovery turns a handler panic into a 500 response.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rcv := recover(); rcv != nil {
				log.WithFields(log.Fields{
					"event":      "handler_panic",
					"path":       r.URL.Path,
					"request_id": RequestIDFrom(r.Context()),
				}).Error(rcv)
				// Too late for an error response once the handler has written.
				if rec, ok := w.(*statusRecorder); ok && rec.wroteHeader {
					return
				}
				writeJSON(w, r, http.StatusInternalServerError,
					errorBody(r, protocol.CodeInternal, http.StatusText(http.StatusInternalServerError)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}
