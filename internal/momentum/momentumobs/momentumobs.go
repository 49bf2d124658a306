package momentumobs

import (
	"context"
	"time"

	"insider-momentum/internal/interfaces"
	"insider-momentum/internal/logger"
	"insider-momentum/internal/trace"
	"insider-momentum/internal/types"
)

// observableAnalyzer wraps MomentumAnalyzer with logging and tracing
type observableAnalyzer struct {
	inner interfaces.MomentumAnalyzer
}

// Wrap wraps a MomentumAnalyzer with observability middleware
func Wrap(analyzer interfaces.MomentumAnalyzer) interfaces.MomentumAnalyzer {
	return &observableAnalyzer{inner: analyzer}
}

func (o *observableAnalyzer) Analyze(ctx context.Context, records []types.TransactionRecord) []types.MomentumResult {
	ctx, span := trace.StartSpan(ctx, "momentum.Analyze")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Starting momentum analysis", "record_count", len(records))
	start := time.Now()

	results := o.inner.Analyze(ctx, records)

	available := 0
	for _, r := range results {
		if r.Available() {
			available++
		}
	}
	fields := []any{
		"duration_ms", time.Since(start).Milliseconds(),
		"record_count", len(records),
		"available", available,
		"unavailable", len(results) - available,
	}
	if trace.Enabled() {
		span.SetAttributes(trace.Attributes(fields...)...)
	}

	if len(results) != len(records) {
		logger.WarnSkip(ctx, 1, "Momentum result count mismatch", append(fields, "result_count", len(results))...)
	}
	logger.InfoSkip(ctx, 1, "Momentum analysis completed", fields...)

	return results
}
