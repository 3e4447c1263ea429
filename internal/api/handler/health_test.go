package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Liveness(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/health", "", nil)
	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthDependenciesHandler_Readiness(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	c, rec := newContext(http.MethodGet, "/health/ready", "", nil)
	if err := NewHealthDependenciesHandler(map[string]Pinger{"store": ok, "redis": ok}).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, rec = newContext(http.MethodGet, "/health/ready", "", nil)
	if err := NewHealthDependenciesHandler(map[string]Pinger{"store": ok, "redis": down}).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	resp := decode(t, rec)
	deps := resp["dependencies"].(map[string]any)
	if deps["redis"].(map[string]any)["status"] != "unhealthy" || deps["store"].(map[string]any)["status"] != "ok" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
