package engine

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/ZanzyTHEbar/tokenframe/tokenframe/common"
	"github.com/ZanzyTHEbar/tokenframe/tokenframe/frame"
	"github.com/ZanzyTHEbar/tokenframe/tokenframe/tokenizer"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
)

// OutputColumn is the name of the single column produced by Transform.
const OutputColumn = "C1"

// Task tokenizes every row of a frame into one marker-delimited string
// column. Chunks are processed concurrently; each row contributes its tokens
// (columns in declared order, cells split by the tokenizer) followed by one
// missing value marking the end of the row.
type Task struct {
	tok        tokenizer.Tokenizer
	workers    int
	outputName string
	logger     zerolog.Logger
	metrics    *common.TransformMetrics
}

// TaskOption configures a Task.
type TaskOption func(*Task)

// WithWorkers bounds the number of chunks processed at once. Values below 1
// select the default.
func WithWorkers(n int) TaskOption {
	return func(t *Task) {
		if n > 0 {
			t.workers = n
		}
	}
}

// WithLogger sets a custom logger
func WithLogger(logger zerolog.Logger) TaskOption {
	return func(t *Task) { t.logger = logger }
}

// WithMetrics records run counters into m.
func WithMetrics(m *common.TransformMetrics) TaskOption {
	return func(t *Task) {
		if m != nil {
			t.metrics = m
		}
	}
}

// WithOutputName renames the output column.
func WithOutputName(name string) TaskOption {
	return func(t *Task) { t.outputName = name }
}

// DefaultWorkers is CPU cores * 2 for I/O bound remote tokenization, kept
// within [4, 32].
func DefaultWorkers() int {
	return min(max(runtime.NumCPU()*2, 4), 32)
}

// NewTask creates a Task around tok.
func NewTask(tok tokenizer.Tokenizer, opts ...TaskOption) *Task {
	t := &Task{
		tok:        tok,
		workers:    DefaultWorkers(),
		outputName: OutputColumn,
		logger:     zerolog.Nop(),
		metrics:    common.NewTransformMetrics(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Metrics returns the counters the task records into.
func (t *Task) Metrics() *common.TransformMetrics { return t.metrics }

// CheckStringColumns returns an *common.InvalidInputTypeError for the first
// column that is not string typed.
func CheckStringColumns(f *frame.Frame) error {
	for _, c := range f.Columns() {
		if !c.IsString() {
			return &common.InvalidInputTypeError{Column: c.Name(), Type: c.Type().String()}
		}
	}
	return nil
}

// MapChunk tokenizes the rows of one chunk into a fresh builder. The first
// tokenizer failure aborts the chunk and its partial output is dropped.
func (t *Task) MapChunk(ctx context.Context, c frame.Chunk) (*frame.StringBuilder, error) {
	b := frame.NewStringBuilder(c.Len() * (c.NumCols() + 1))
	cells, tokens := 0, 0

	for row := 0; row < c.Len(); row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for col := 0; col < c.NumCols(); col++ {
			if c.IsNA(col, row) {
				continue
			}
			toks, err := t.tok.Tokenize(ctx, c.String(col, row))
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", c.Start()+row, col, err)
			}
			cells++
			tokens += len(toks)
			for _, tok := range toks {
				b.Append(tok)
			}
		}
		b.AppendNA()
	}

	t.metrics.AddChunk(c.Len(), cells, tokens)
	return b, nil
}

// Transform validates f, maps every chunk concurrently and assembles the
// results in chunk order. The first chunk failure cancels the others and is
// returned; no partial output is produced.
func (t *Task) Transform(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	if err := CheckStringColumns(f); err != nil {
		return nil, err
	}

	start := time.Now()
	log := t.logger.With().
		Str("run_id", uuid.NewString()).
		Int("rows", f.NumRows()).
		Int("cols", f.NumCols()).
		Int("chunks", f.NumChunks()).
		Logger()
	log.Debug().Int("workers", t.workers).Msg("tokenize started")

	outs := make([]*frame.StringBuilder, f.NumChunks())
	p := pool.New().WithMaxGoroutines(t.workers).WithContext(ctx).WithCancelOnError().WithFirstError()
	for _, chunk := range f.Chunks() {
		chunk := chunk
		p.Go(func(ctx context.Context) error {
			b, err := t.MapChunk(ctx, chunk)
			if err != nil {
				t.metrics.ChunkFailures.Add(1)
				log.Error().Err(err).Int("chunk", chunk.Index()).Msg("chunk failed")
				return fmt.Errorf("chunk %d: %w", chunk.Index(), err)
			}
			outs[chunk.Index()] = b
			log.Debug().Int("chunk", chunk.Index()).Int("entries", b.Len()).Msg("chunk done")
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		t.metrics.UpdateBaseMetrics(start, false)
		return nil, err
	}

	out, err := Assemble(t.outputName, outs)
	if err != nil {
		t.metrics.UpdateBaseMetrics(start, false)
		return nil, err
	}

	t.metrics.UpdateBaseMetrics(start, true)
	log.Info().
		Int("entries", out.NumRows()).
		Dur("took", time.Since(start)).
		Msg("tokenize finished")
	return out, nil
}
