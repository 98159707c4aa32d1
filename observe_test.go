// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package assets

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestServingMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	b, err := NewBuilder(DefaultConfig(), WithFS(siteFS), WithMeterProvider(mp))
	require.NoError(t, err)
	registry := NewRegistry()
	b.Apply(registry)
	h := registry.Handler()

	serve(t, h, http.MethodGet, "/css/app.css", nil)
	serve(t, h, http.MethodGet, "/css/app.css", nil)
	serve(t, h, http.MethodGet, "/nope.css", nil)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))

	scope := findScope(t, rm, meterName)
	requests := findMetric(t, scope, "assets.requests")

	sum, ok := requests.Data.(metricdata.Sum[int64])
	require.True(t, ok, "assets.requests must be an int64 sum")

	counts := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
		pattern, _ := dp.Attributes.Value(attribute.Key("pattern"))
		assert.Equal(t, DefaultStaticPathPattern, pattern.AsString())
		counts[outcome.AsString()] += dp.Value
	}
	assert.Equal(t, int64(2), counts[outcomeOK])
	assert.Equal(t, int64(1), counts[outcomeNotFound])

	duration := findMetric(t, scope, "assets.request.duration")
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "assets.request.duration must be a float64 histogram")
	var observations uint64
	for _, dp := range hist.DataPoints {
		observations += dp.Count
	}
	assert.Equal(t, uint64(3), observations)
}

func TestMetricsNilSafe(t *testing.T) {
	t.Parallel()

	// Registrations created directly on a registry carry no metrics.
	registry := NewRegistry()
	registry.AddResourceHandler("/plain")
	h := registry.Handler()

	rec := serve(t, h, http.MethodGet, "/plain/anything", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func findScope(t *testing.T, rm metricdata.ResourceMetrics, name string) metricdata.ScopeMetrics {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name == name {
			return sm
		}
	}
	t.Fatalf("no scope metrics for %q", name)
	return metricdata.ScopeMetrics{}
}

func findMetric(t *testing.T, sm metricdata.ScopeMetrics, name string) metricdata.Metrics {
	t.Helper()
	for _, m := range sm.Metrics {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("no metric named %q", name)
	return metricdata.Metrics{}
}
