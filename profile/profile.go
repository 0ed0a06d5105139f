// Copyright 2018 The CUE Authors
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

// Package profile implements the scoped profiling record the core opens
// on init_apply and closes on end_apply (spec.md §4.2, §6 "Profiling").
// It reports elapsed apply time per visitor name as both an
// OpenTelemetry span and a Prometheus histogram observation. Neither
// backend is configured by this package: without a registered
// TracerProvider the span is the OpenTelemetry no-op implementation, and
// the histogram is only registered with the default Prometheus registry
// once a caller opts in via Enable (every End observes it either way;
// before Enable the observations stay in the unregistered collector).
// No persisted state survives process exit.
package profile

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/blackdragoon26/p4c-ir/visit")

var applyDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "ir_traversal",
	Name:      "apply_duration_seconds",
	Help:      "Duration of a single visitor apply, by visitor name.",
	Buckets:   prometheus.DefBuckets,
}, []string{"visitor"})

var registerOnce sync.Once

// Enable registers the apply-duration histogram with the default
// Prometheus registry. It is safe to call more than once; it is a no-op
// until called at all, per spec.md's "no persisted state" requirement —
// a library importing this package incurs no metrics registration by
// default.
func Enable() {
	registerOnce.Do(func() {
		prometheus.MustRegister(applyDuration)
	})
}

// Record is the scoped profiling handle returned by Start. Exactly one
// call to Record.End is expected, mirroring the original's profile_t
// constructor/destructor pair; callers typically `defer record.End()`
// immediately after Start returns.
type Record struct {
	name  string
	start time.Time
	span  trace.Span
}

// Start opens a profiling record for an apply of the named visitor. ctx
// carries the span's parent for nested applies (a visitor spawned from
// within another visit's preorder/postorder); pass context.Background()
// at the top of a pipeline.
func Start(ctx context.Context, visitorName string) (context.Context, *Record) {
	ctx, span := tracer.Start(ctx, "ir.apply", trace.WithAttributes())
	span.SetName(visitorName)
	return ctx, &Record{name: visitorName, start: time.Now(), span: span}
}

// End closes the record, recording elapsed time under the visitor's
// name. Safe to call on a nil Record (a no-op), so callers can defer it
// unconditionally even along error paths that never called Start.
func (r *Record) End() {
	if r == nil {
		return
	}
	elapsed := time.Since(r.start)
	r.span.End()
	applyDuration.WithLabelValues(r.name).Observe(elapsed.Seconds())
}

// Elapsed reports the time since Start, for passes that want to report
// their own progress mid-apply without ending the record.
func (r *Record) Elapsed() time.Duration {
	if r == nil {
		return 0
	}
	return time.Since(r.start)
}
