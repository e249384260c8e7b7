package observability_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/binomci/internal/observability"
)

var errNotReady = errors.New("not ready")

func serve(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	return rec
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	rec := serve(t, observability.HealthHandler(), observability.PathHealth)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyHandler_AllPass(t *testing.T) {
	t.Parallel()

	pass := func(context.Context) error { return nil }

	rec := serve(t, observability.ReadyHandler(pass, pass), observability.PathReady)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyHandler_Failure(t *testing.T) {
	t.Parallel()

	fail := func(context.Context) error { return errNotReady }

	rec := serve(t, observability.ReadyHandler(fail), observability.PathReady)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable","error":"not ready"}`, rec.Body.String())
}

func TestDiagnosticsMux(t *testing.T) {
	t.Parallel()

	metrics := http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusTeapot)
	})

	mux := observability.NewDiagnosticsMux(metrics)

	assert.Equal(t, http.StatusOK, serve(t, mux, observability.PathHealth).Code)
	assert.Equal(t, http.StatusOK, serve(t, mux, observability.PathReady).Code)
	assert.Equal(t, http.StatusTeapot, serve(t, mux, observability.PathMetrics).Code)

	bare := observability.NewDiagnosticsMux(nil)
	assert.Equal(t, http.StatusNotFound, serve(t, bare, observability.PathMetrics).Code)
}
