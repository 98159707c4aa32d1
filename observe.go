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
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName identifies this library's instruments.
const meterName = "rivaas.dev/assets"

// Request outcomes recorded on the metrics.
const (
	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

// chainMetrics holds the OpenTelemetry instruments for asset serving.
// A nil *chainMetrics is valid and records nothing, so registrations
// created outside a Builder serve without instrumentation.
type chainMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// newChainMetrics creates the instruments on the given provider, or the
// global provider when mp is nil.
func newChainMetrics(mp metric.MeterProvider) (*chainMetrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)

	requests, err := meter.Int64Counter(
		"assets.requests",
		metric.WithDescription("Asset requests served, by pattern and outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(
		"assets.request.duration",
		metric.WithDescription("Asset resolution and serving duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	return &chainMetrics{requests: requests, duration: duration}, nil
}

// record adds one observation for a served request.
func (m *chainMetrics) record(ctx context.Context, pattern, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("pattern", pattern),
		attribute.String("outcome", outcome),
	)
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}
