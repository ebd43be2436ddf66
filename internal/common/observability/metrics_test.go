package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func familyNames(t *testing.T, reg *prometheus.Registry) []string {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	return names
}

func hasPrefix(names []string, prefix string) bool {
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			return true
		}
	}
	return false
}

func TestObservability_RecordsInstruments(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewWithOptions("oracle-test", Options{Registerer: reg})
	defer obs.Shutdown()

	ctx := context.Background()
	obs.RecordDraw(ctx, "http", "The Solar Wind", "high")
	obs.RecordRequestDuration(ctx, "/api/oracle", 200, 3*time.Millisecond)
	obs.RecordJobProcessed(ctx, "success")
	obs.RecordJobDuration(ctx, 10*time.Millisecond, "success")

	names := familyNames(t, reg)
	assert.True(t, hasPrefix(names, "oracle_draws"), "got %v", names)
	assert.True(t, hasPrefix(names, "http_request_duration"), "got %v", names)
	assert.True(t, hasPrefix(names, "jobs_processed"), "got %v", names)

	assert.Contains(t, names, "oracle_draws_total")
	assert.Contains(t, names, "http_request_duration_milliseconds")
	for _, n := range names {
		assert.NotContains(t, n, ".", "metric %q is not underscore-escaped", n)
	}
}

func TestObservability_StartSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	obs := NewWithOptions("oracle-test", Options{
		Registerer:    prometheus.NewRegistry(),
		SpanProcessor: recorder,
	})
	defer obs.Shutdown()

	_, span := obs.StartSpan(context.Background(), "oracle.draw", attribute.String("card", "The Comet Tail"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "oracle.draw", ended[0].Name())
	assert.Contains(t, ended[0].Attributes(), attribute.String("card", "The Comet Tail"))
}

func TestObservability_ZeroValueIsSafe(t *testing.T) {
	var obs Observability
	assert.NotPanics(t, func() {
		obs.RecordDraw(context.Background(), "cli", "x", "mid")
		obs.RecordRequestDuration(context.Background(), "/", 200, time.Millisecond)
		obs.Shutdown()
	})
}
