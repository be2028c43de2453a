package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/sterrysx/gymai/internal/telemetry/metrics"
	"github.com/sterrysx/gymai/pkg"
)

type panicResponse struct {
	Error string `json:"error"`
}

// PanicRecovery turns a handler panic into a 500 JSON error. The panic is
// logged at error level with the route name, which also reports it to Sentry
// when the hook is installed.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				// the server must see this one to abort the connection
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				route := "unknown"
				if current := mux.CurrentRoute(req); current != nil && current.GetName() != "" {
					route = current.GetName()
				}
				log.WithFields(log.Fields{
					"route":      route,
					"method":     req.Method,
					log.ErrorKey: panicError(recovered),
				}).Errorf("panic serving %s: %v\n%s", req.URL.Path, recovered, debug.Stack())

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				pkg.WriteJSON(w, panicResponse{Error: "internal error"}, http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, req)
		})
	}
}

func panicError(recovered any) error {
	if err, ok := recovered.(error); ok {
		return err
	}
	return errors.New(fmt.Sprint(recovered))
}
