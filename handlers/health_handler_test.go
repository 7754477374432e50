package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NomadCrew/todo-api/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) CheckHealth(ctx context.Context) types.HealthReport {
	args := m.Called(ctx)
	return args.Get(0).(types.HealthReport)
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name              string
		status            types.HealthStatus
		readinessExpected int
	}{
		{"up", types.HealthStatusUp, http.StatusOK},
		{"degraded is still ready", types.HealthStatusDegraded, http.StatusOK},
		{"down", types.HealthStatusDown, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockHealthService)
			svc.On("CheckHealth", mock.Anything).Return(types.HealthReport{Status: tt.status, Version: "test"})

			h := NewHealthHandler(svc)
			r := gin.New()
			r.GET("/health", h.DetailedHealth)
			r.GET("/health/liveness", h.LivenessCheck)
			r.GET("/health/readiness", h.ReadinessCheck)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/liveness", nil))
			assert.Equal(t, http.StatusOK, w.Code)

			w = httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/readiness", nil))
			assert.Equal(t, tt.readinessExpected, w.Code)
			assert.Contains(t, w.Body.String(), string(tt.status))

			w = httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}
