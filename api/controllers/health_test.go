package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/denimhub/denimhub-backend/pkg/config"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthLive(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	resp := httptest.NewRecorder()
	HealthLive(cfg).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "dev", resp.Header().Get("X-DenimHub-Env"))
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "prod"}}
	healthy := pingFunc(func(context.Context) error { return nil })

	resp := httptest.NewRecorder()
	HealthReady(cfg, map[string]Pinger{"db": healthy, "redis": nil}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, resp.Code)

	down := pingFunc(func(context.Context) error { return errors.New("dial tcp: connection refused") })
	resp = httptest.NewRecorder()
	HealthReady(cfg, map[string]Pinger{"db": healthy, "redis": down}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "DEPENDENCY_ERROR")
	assert.NotContains(t, resp.Body.String(), "connection refused")
}
