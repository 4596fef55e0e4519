package job_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"csgview/viewer/job"
	"csgview/viewer/kernel"
)

func TestJobSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	k := kernel.New()
	r := job.NewRunner(k, &recordingSink{}, nil, 1)
	r.SetTracerProvider(tp)

	ok := job.New("mesh", func(ctx context.Context, report func(int, string)) (int, error) {
		report(10, "Validating")
		report(150, "Done")
		return 1, nil
	})
	if err := r.Start(ok); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	settle(t, k, r)

	bad := job.New("broken", func(ctx context.Context, report func(int, string)) (int, error) {
		return 0, errors.New("no triangles")
	})
	if err := r.Start(bad); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	settle(t, k, r)

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("ended spans = %d, want 2", len(spans))
	}

	first := spans[0]
	if first.Name() != "job mesh" {
		t.Fatalf("span name = %q, want %q", first.Name(), "job mesh")
	}
	if first.Status().Code == codes.Error {
		t.Fatalf("successful job span has error status")
	}
	events := first.Events()
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	var pct int64 = -1
	for _, kv := range events[1].Attributes {
		if kv.Key == "job.percent" {
			pct = kv.Value.AsInt64()
		}
	}
	if pct != 100 {
		t.Fatalf("second progress event percent = %d, want 100", pct)
	}

	second := spans[1]
	if second.Status().Code != codes.Error || second.Status().Description != "no triangles" {
		t.Fatalf("failed job span status = %+v", second.Status())
	}
	var gen int64
	for _, kv := range second.Attributes() {
		if kv.Key == "job.generation" {
			gen = kv.Value.AsInt64()
		}
	}
	if gen != 2 {
		t.Fatalf("job.generation = %d, want 2", gen)
	}
}
