package recorder

import "DCABench/internal/model"

// NoopRecorder is used when no SQLite path is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *model.BacktestResult) (int64, error) { return 0, nil }
func (n *NoopRecorder) LatestRuns(_ int) ([]RunSummary, error)           { return nil, nil }
func (n *NoopRecorder) Close() error                                     { return nil }
