package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Reporter receives server errors. *logger.Logger forwards them to Rollbar.
type Reporter interface {
	Error(msg string, args ...interface{})
}

// Recoverer turns panics into a JSON 500 and reports panics and 5xx
// responses.
func Recoverer(rep Reporter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					rep.Error(fmt.Sprintf("panic %s %s", r.Method, r.URL.Path), fmt.Errorf("%v", rec), map[string]interface{}{
						"stack":     string(debug.Stack()),
						"requestId": chimw.GetReqID(r.Context()),
					})
					if ww.Status() == 0 {
						ww.Header().Set("Content-Type", "application/json; charset=utf-8")
						ww.WriteHeader(http.StatusInternalServerError)
						_, _ = ww.Write([]byte(`{"message":"internal error"}` + "\n"))
					}
					return
				}
				if ww.Status() >= http.StatusInternalServerError {
					rep.Error(fmt.Sprintf("%s %s -> %d", r.Method, r.URL.Path, ww.Status()), map[string]interface{}{
						"requestId": chimw.GetReqID(r.Context()),
					})
				}
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
