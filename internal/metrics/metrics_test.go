package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveStage(t *testing.T) {
	r := NewRecorder()
	ctx := context.Background()

	r.ObserveStage(ctx, "employees", 200, 15*time.Millisecond, nil)
	r.ObserveStage(ctx, "employees", 50, 5*time.Millisecond, nil)
	r.ObserveStage(ctx, "employee_projects", 400, time.Millisecond, errors.New("deadlock"))
	r.ObserveStage(ctx, "", 10, time.Millisecond, nil)

	assert.Equal(t, 250.0, testutil.ToFloat64(r.records.WithLabelValues("employees")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.records.WithLabelValues("employee_projects")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failures.WithLabelValues("employee_projects")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.duration))
}

func TestMarkSuccess(t *testing.T) {
	r := NewRecorder()
	r.MarkSuccess(time.Unix(1700000000, 0))
	assert.Equal(t, 1.7e9, testutil.ToFloat64(r.lastRun))
}

func TestPushGroupsByRunID(t *testing.T) {
	paths := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		paths <- req.Method + " " + req.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewRecorder()
	r.ObserveStage(context.Background(), "departments", 10, time.Millisecond, nil)
	require.NoError(t, r.Push(context.Background(), srv.URL, "companygen", "abc"))

	got := <-paths
	assert.True(t, strings.HasPrefix(got, "PUT /metrics/job/companygen/run_id/abc"), got)
}

func TestPushReportsGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewRecorder().Push(context.Background(), srv.URL, "companygen", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to push metrics")
}
