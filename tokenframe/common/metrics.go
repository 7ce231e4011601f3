package common

import (
	"sync"
	"sync/atomic"
	"time"
)

// PerformanceMetrics defines the interface for performance tracking
type PerformanceMetrics interface {
	GetMetrics() map[string]interface{}
}

// BaseMetrics provides common fields used across different metrics types
type BaseMetrics struct {
	TotalOperations int64
	SuccessfulOps   int64
	FailedOps       int64
	LastOperation   time.Time
	LastDuration    time.Duration
	Mu              sync.RWMutex
}

// UpdateBaseMetrics updates common metrics fields
func (bm *BaseMetrics) UpdateBaseMetrics(start time.Time, success bool) {
	bm.Mu.Lock()
	defer bm.Mu.Unlock()

	bm.TotalOperations++
	if success {
		bm.SuccessfulOps++
	} else {
		bm.FailedOps++
	}
	bm.LastOperation = time.Now()
	bm.LastDuration = time.Since(start)
}

// GetBaseMetrics returns the common metrics as a map
func (bm *BaseMetrics) GetBaseMetrics() map[string]interface{} {
	bm.Mu.RLock()
	defer bm.Mu.RUnlock()

	return map[string]interface{}{
		"total_operations": bm.TotalOperations,
		"successful_ops":   bm.SuccessfulOps,
		"failed_ops":       bm.FailedOps,
		"last_operation":   bm.LastOperation,
		"last_duration":    bm.LastDuration,
	}
}

// TransformMetrics tracks row tokenization runs. The counters are updated
// from concurrent chunk workers.
type TransformMetrics struct {
	BaseMetrics
	RowsProcessed   atomic.Int64
	ChunksProcessed atomic.Int64
	TokensEmitted   atomic.Int64
	CellsTokenized  atomic.Int64
	ChunkFailures   atomic.Int64
}

var _ PerformanceMetrics = (*TransformMetrics)(nil)

// NewTransformMetrics creates an empty TransformMetrics
func NewTransformMetrics() *TransformMetrics {
	return &TransformMetrics{}
}

// AddChunk records one finished chunk.
func (tm *TransformMetrics) AddChunk(rows, cells, tokens int) {
	tm.ChunksProcessed.Add(1)
	tm.RowsProcessed.Add(int64(rows))
	tm.CellsTokenized.Add(int64(cells))
	tm.TokensEmitted.Add(int64(tokens))
}

// GetMetrics returns transform metrics as a map
func (tm *TransformMetrics) GetMetrics() map[string]interface{} {
	metrics := tm.GetBaseMetrics()
	metrics["rows_processed"] = tm.RowsProcessed.Load()
	metrics["chunks_processed"] = tm.ChunksProcessed.Load()
	metrics["tokens_emitted"] = tm.TokensEmitted.Load()
	metrics["cells_tokenized"] = tm.CellsTokenized.Load()
	metrics["chunk_failures"] = tm.ChunkFailures.Load()
	return metrics
}
