package frame

import (
	"fmt"

	internal "github.com/ZanzyTHEbar/tokenframe/tokenframe"
	"github.com/ZanzyTHEbar/tokenframe/tokenframe/common"
)

// Frame is an ordered collection of equal-length named columns, split into
// contiguous row chunks for parallel processing.
type Frame struct {
	columns []*Column
	// layout holds chunk start offsets followed by the row count, so chunk i
	// covers rows [layout[i], layout[i+1]).
	layout []int
	rows   int
}

// FrameOption configures New.
type FrameOption func(*frameOptions)

type frameOptions struct {
	chunkRows int
	layout    []int
}

// WithChunkRows splits the frame into chunks of at most n rows.
func WithChunkRows(n int) FrameOption {
	return func(o *frameOptions) {
		o.chunkRows = n
		o.layout = nil
	}
}

// WithLayout sets explicit chunk start offsets. The first offset must be 0
// and offsets must be non-decreasing and at most the row count; repeated
// offsets make empty chunks.
func WithLayout(starts []int) FrameOption {
	return func(o *frameOptions) {
		o.layout = append([]int(nil), starts...)
	}
}

// New builds a frame. All columns must have the same length.
func New(columns []*Column, opts ...FrameOption) (*Frame, error) {
	o := frameOptions{chunkRows: internal.DefaultChunkRows}
	for _, opt := range opts {
		opt(&o)
	}

	rows := 0
	if len(columns) > 0 {
		rows = columns[0].Len()
	}
	for _, c := range columns {
		if c == nil {
			return nil, fmt.Errorf("%w: nil column", common.ErrInvalidConfig)
		}
		if c.Len() != rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d", common.ErrColumnLength, c.Name(), c.Len(), rows)
		}
	}

	f := &Frame{columns: append([]*Column(nil), columns...), rows: rows}
	if o.layout != nil {
		layout, err := checkLayout(o.layout, rows)
		if err != nil {
			return nil, err
		}
		f.layout = layout
	} else {
		f.layout = evenLayout(rows, o.chunkRows)
	}
	return f, nil
}

func evenLayout(rows, chunkRows int) []int {
	if chunkRows <= 0 {
		chunkRows = internal.DefaultChunkRows
	}
	layout := make([]int, 0, rows/chunkRows+2)
	for start := 0; start < rows; start += chunkRows {
		layout = append(layout, start)
	}
	return append(layout, rows)
}

func checkLayout(starts []int, rows int) ([]int, error) {
	if len(starts) == 0 {
		return evenLayout(rows, internal.DefaultChunkRows), nil
	}
	if starts[0] != 0 {
		return nil, fmt.Errorf("%w: chunk layout must start at 0, got %d", common.ErrInvalidConfig, starts[0])
	}
	for i := 1; i < len(starts); i++ {
		if starts[i] < starts[i-1] {
			return nil, fmt.Errorf("%w: chunk layout is not sorted at %d", common.ErrInvalidConfig, i)
		}
	}
	if last := starts[len(starts)-1]; last > rows {
		return nil, fmt.Errorf("%w: chunk start %d beyond %d rows", common.ErrInvalidConfig, last, rows)
	}
	return append(append([]int(nil), starts...), rows), nil
}

// NumRows returns the row count.
func (f *Frame) NumRows() int { return f.rows }

// NumCols returns the column count.
func (f *Frame) NumCols() int { return len(f.columns) }

// Columns returns the columns in declared order.
func (f *Frame) Columns() []*Column { return append([]*Column(nil), f.columns...) }

// Column returns the i-th column.
func (f *Frame) Column(i int) *Column { return f.columns[i] }

// ColumnByName looks a column up by name.
func (f *Frame) ColumnByName(name string) (*Column, bool) {
	for _, c := range f.columns {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Names returns the column names in declared order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name()
	}
	return names
}

// NumChunks returns the number of chunks.
func (f *Frame) NumChunks() int { return len(f.layout) - 1 }

// Layout returns a copy of the chunk start offsets followed by the row count.
func (f *Frame) Layout() []int { return append([]int(nil), f.layout...) }

// Chunk returns the i-th chunk.
func (f *Frame) Chunk(i int) Chunk {
	return Chunk{
		index:   i,
		start:   f.layout[i],
		rows:    f.layout[i+1] - f.layout[i],
		columns: f.columns,
	}
}

// Chunks returns all chunks in order.
func (f *Frame) Chunks() []Chunk {
	chunks := make([]Chunk, f.NumChunks())
	for i := range chunks {
		chunks[i] = f.Chunk(i)
	}
	return chunks
}

// Rechunk returns a frame over the same columns split into chunks of at
// most rows rows.
func (f *Frame) Rechunk(rows int) *Frame {
	return &Frame{columns: f.columns, rows: f.rows, layout: evenLayout(f.rows, rows)}
}

// Chunk is a read-only window over a contiguous row range of every column.
// Row indices passed to its accessors are local to the chunk.
type Chunk struct {
	index   int
	start   int
	rows    int
	columns []*Column
}

// Index returns the position of the chunk in its frame.
func (c Chunk) Index() int { return c.index }

// Start returns the global row index of the first row.
func (c Chunk) Start() int { return c.start }

// Len returns the number of rows in the chunk.
func (c Chunk) Len() int { return c.rows }

// NumCols returns the number of columns.
func (c Chunk) NumCols() int { return len(c.columns) }

// IsNA reports whether the cell is missing.
func (c Chunk) IsNA(col, row int) bool { return c.columns[col].IsNA(c.start + row) }

// String returns the cell as a string.
func (c Chunk) String(col, row int) string { return c.columns[col].String(c.start + row) }
