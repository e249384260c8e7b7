package observability

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
)

const (
	healthStatusOK          = "ok"
	healthStatusUnavailable = "unavailable"

	// PathMetrics is where the Prometheus handler is mounted.
	PathMetrics = "/metrics"
	// PathHealth is the liveness endpoint.
	PathHealth = "/healthz"
	// PathReady is the readiness endpoint.
	PathReady = "/readyz"
)

// ReadyCheck is a function that checks if a subsystem is ready.
// It returns nil if the check passes, or an error describing the failure.
type ReadyCheck func(ctx context.Context) error

// HealthHandler returns an [http.Handler] for liveness checks at /healthz.
// It always returns HTTP 200 with {"status":"ok"}.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		writeHealth(rw, http.StatusOK, healthStatusOK)
	})
}

// ReadyHandler returns an [http.Handler] for readiness checks at /readyz.
// Any failing check yields HTTP 503 with {"status":"unavailable","error":...}.
func ReadyHandler(checks ...ReadyCheck) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		for _, check := range checks {
			err := check(hr.Context())
			if err != nil {
				writeHealth(rw, http.StatusServiceUnavailable, healthStatusUnavailable, err.Error())

				return
			}
		}

		writeHealth(rw, http.StatusOK, healthStatusOK)
	})
}

// NewDiagnosticsMux mounts the health endpoints and, when non-nil, the
// metrics handler on a fresh mux.
func NewDiagnosticsMux(metrics http.Handler, checks ...ReadyCheck) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(PathHealth, HealthHandler())
	mux.Handle(PathReady, ReadyHandler(checks...))

	if metrics != nil {
		mux.Handle(PathMetrics, metrics)
	}

	return mux
}

func writeHealth(rw http.ResponseWriter, code int, status string, reason ...string) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)

	body := map[string]string{"status": status}
	if len(reason) > 0 {
		body["error"] = reason[0]
	}

	writeJSON(rw, body)
}

func writeJSON(w io.Writer, body map[string]string) {
	data, err := json.Marshal(body)
	if err != nil {
		return
	}

	_, err = w.Write(data)
	if err != nil {
		return
	}
}
