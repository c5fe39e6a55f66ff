package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error {
	return s.err
}

func TestHealthzAlwaysOK(t *testing.T) {
	router := NewRouter(RouterParams{Logger: slog.Default()})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestReadyzReflectsRendererHealth(t *testing.T) {
	router := NewRouter(RouterParams{Logger: slog.Default(), PDFRenderer: stubPinger{}})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected ready got %d", rec.Code)
	}

	router = NewRouter(RouterParams{Logger: slog.Default(), PDFRenderer: stubPinger{err: errors.New("renderer down")}})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unreachable renderer must fail readiness, got %d", rec.Code)
	}
}
