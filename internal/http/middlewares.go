package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/csrf"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/timetable-viewer/internal/keys"
	"github.com/timetable-viewer/internal/metrics"
)

type Middleware func(http.HandlerFunc) http.HandlerFunc

func WithMiddlewares(middlewares ...Middleware) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		for i := len(middlewares) - 1; i > -1; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

const requestIDHeader = "X-Request-Id"

func WithAccessLogs(logger *slog.Logger) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = gonanoid.Must()
			}
			w.Header().Set(requestIDHeader, requestID)

			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w}
			next(recorder, r)
			if recorder.status == 0 {
				recorder.status = http.StatusOK
			}

			metrics.TrackHTTPRequest(r.Method, recorder.status)
			logger.Info("http request",
				"id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.status,
				"duration", time.Since(start))
		}
	}
}

const (
	CSRFHeader    = "X-CSRFToken"
	CSRFFieldName = "csrfmiddlewaretoken"
)

// WithCSRF rejects unsafe requests without a valid token in the
// X-CSRFToken header or the csrfmiddlewaretoken form field.
func WithCSRF(logger *slog.Logger, key *keys.Key, secure bool) Middleware {
	protect := csrf.Protect(
		*key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.RequestHeader(CSRFHeader),
		csrf.FieldName(CSRFFieldName),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Error("csrf", "path", r.URL.Path, "error", csrf.FailureReason(r))
			w.WriteHeader(http.StatusForbidden)
		})),
	)
	return func(next http.HandlerFunc) http.HandlerFunc {
		return protect(next).ServeHTTP
	}
}
