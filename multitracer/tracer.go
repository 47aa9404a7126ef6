// Package multitracer provides a Tracer that combines several tracers into one.
package multitracer

import (
	"context"

	"github.com/citusdata/placementconn"
)

// Tracer combines several tracers into one. Use New to automatically split
// tracers by interface, the way one value can implement AcquireTracer,
// CommitTracer, or both.
type Tracer struct {
	AcquireTracers []placementconn.AcquireTracer
	CommitTracers  []placementconn.CommitTracer
}

// New returns a new Tracer built from tracers, automatically split by
// interface.
func New(tracers ...any) *Tracer {
	var t Tracer

	for _, tracer := range tracers {
		if acquireTracer, ok := tracer.(placementconn.AcquireTracer); ok {
			t.AcquireTracers = append(t.AcquireTracers, acquireTracer)
		}

		if commitTracer, ok := tracer.(placementconn.CommitTracer); ok {
			t.CommitTracers = append(t.CommitTracers, commitTracer)
		}
	}

	return &t
}

func (t *Tracer) TraceAcquireStart(ctx context.Context, data placementconn.TraceAcquireStartData) context.Context {
	for _, tracer := range t.AcquireTracers {
		ctx = tracer.TraceAcquireStart(ctx, data)
	}

	return ctx
}

func (t *Tracer) TraceAcquireEnd(ctx context.Context, data placementconn.TraceAcquireEndData) {
	for _, tracer := range t.AcquireTracers {
		tracer.TraceAcquireEnd(ctx, data)
	}
}

func (t *Tracer) TraceCheckShardsStart(ctx context.Context, data placementconn.TraceCheckShardsStartData) context.Context {
	for _, tracer := range t.CommitTracers {
		ctx = tracer.TraceCheckShardsStart(ctx, data)
	}

	return ctx
}

func (t *Tracer) TraceCheckShardsEnd(ctx context.Context, data placementconn.TraceCheckShardsEndData) {
	for _, tracer := range t.CommitTracers {
		tracer.TraceCheckShardsEnd(ctx, data)
	}
}
