package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/redact"
)

// ErrorWriter writes an error response for err.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Recoverer turns a panic in a downstream handler into an error passed to
// writeError. http.ErrAbortHandler is re-raised so net/http can abort the
// connection. A panic after the response has started is only logged.
func Recoverer(writeError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				err = fmt.Errorf("panic recovered: %w", err)

				if ww.Status() != 0 {
					logger.FromContextOrDefault(r.Context()).ErrorContext(r.Context(),
						"panic after response started",
						slog.Int("status_code", ww.Status()),
						slog.String("error", redact.Error(err)))
					return
				}
				writeError(ww, r, err)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
