package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/veranievas/floralia-backend/pkg/config"
	"github.com/veranievas/floralia-backend/pkg/logger"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

func healthConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "test"}}
}

func TestHealthLive(t *testing.T) {
	t.Parallel()

	handler := HealthLive(healthConfig())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-Floralia-Env") != "test" {
		t.Fatalf("expected env header, got %q", resp.Header().Get("X-Floralia-Env"))
	}
}

func TestHealthReadyAllUp(t *testing.T) {
	t.Parallel()

	handler := HealthReady(healthConfig(), logger.New(logger.Options{ServiceName: "test"}), map[string]Pinger{
		"database": stubPinger{},
		"redis":    stubPinger{},
		"gcs":      nil,
	})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Checks["database"] != "up" || envelope.Data.Checks["gcs"] != "skipped" {
		t.Fatalf("unexpected checks: %+v", envelope.Data.Checks)
	}
}

func TestHealthReadyDegraded(t *testing.T) {
	t.Parallel()

	handler := HealthReady(healthConfig(), logger.New(logger.Options{ServiceName: "test"}), map[string]Pinger{
		"database": stubPinger{err: errors.New("connection refused")},
	})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
