package frame

import (
	"fmt"
	"math"
	"strconv"
	"time"

	roaring "github.com/RoaringBitmap/roaring"
)

// Column holds one value per row. Missing cells are tracked in a roaring
// bitmap of row indices; the value slot of a missing cell is the zero value.
// A Column is immutable once built and safe for concurrent readers.
type Column struct {
	name   string
	typ    Type
	strs   []string
	nums   []float64
	codes  []int
	levels []string
	na     *roaring.Bitmap
	n      int
}

// NewStringColumn builds a string column. Rows listed in missing are NA.
func NewStringColumn(name string, values []string, missing ...int) *Column {
	strs := make([]string, len(values))
	copy(strs, values)
	c := &Column{name: name, typ: TypeString, strs: strs, n: len(values), na: roaring.New()}
	c.markMissing(missing)
	for _, row := range missing {
		if row >= 0 && row < c.n {
			c.strs[row] = ""
		}
	}
	return c
}

// NewNumericColumn builds a numeric column. NaN values are stored as NA.
func NewNumericColumn(name string, values []float64) *Column {
	nums := make([]float64, len(values))
	copy(nums, values)
	c := &Column{name: name, typ: TypeNumeric, nums: nums, n: len(values), na: roaring.New()}
	for i, v := range nums {
		if math.IsNaN(v) {
			c.na.Add(uint32(i))
		}
	}
	return c
}

// NewTimeColumn builds a time column stored as epoch milliseconds. Zero
// times are stored as NA.
func NewTimeColumn(name string, values []time.Time) *Column {
	nums := make([]float64, len(values))
	c := &Column{name: name, typ: TypeTime, nums: nums, n: len(values), na: roaring.New()}
	for i, v := range values {
		if v.IsZero() {
			c.na.Add(uint32(i))
			continue
		}
		nums[i] = float64(v.UnixMilli())
	}
	return c
}

// NewEnumColumn builds a categorical column from level codes. A negative
// code is NA.
func NewEnumColumn(name string, levels []string, codes []int) (*Column, error) {
	c := &Column{
		name:   name,
		typ:    TypeEnum,
		levels: append([]string(nil), levels...),
		codes:  make([]int, len(codes)),
		n:      len(codes),
		na:     roaring.New(),
	}
	for i, code := range codes {
		if code >= len(levels) {
			return nil, fmt.Errorf("column %q row %d: level code %d out of range [0,%d)", name, i, code, len(levels))
		}
		if code < 0 {
			c.na.Add(uint32(i))
			code = -1
		}
		c.codes[i] = code
	}
	return c, nil
}

func (c *Column) markMissing(rows []int) {
	for _, row := range rows {
		if row >= 0 && row < c.n {
			c.na.Add(uint32(row))
		}
	}
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Type returns the element type.
func (c *Column) Type() Type { return c.typ }

// IsString reports whether the column holds strings.
func (c *Column) IsString() bool { return c.typ == TypeString }

// Len returns the number of rows.
func (c *Column) Len() int { return c.n }

// NACount returns the number of missing cells.
func (c *Column) NACount() int { return int(c.na.GetCardinality()) }

// IsNA reports whether the cell at row is missing.
func (c *Column) IsNA(row int) bool { return c.na.Contains(uint32(row)) }

// String returns the cell at row rendered as a string. Missing cells render
// as the empty string; callers check IsNA first.
func (c *Column) String(row int) string {
	if c.IsNA(row) {
		return ""
	}
	switch c.typ {
	case TypeString:
		return c.strs[row]
	case TypeEnum:
		return c.levels[c.codes[row]]
	case TypeNumeric:
		return strconv.FormatFloat(c.nums[row], 'g', -1, 64)
	case TypeTime:
		return time.UnixMilli(int64(c.nums[row])).UTC().Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// Float returns the numeric value at row, NaN when missing or non-numeric.
func (c *Column) Float(row int) float64 {
	if c.IsNA(row) || c.nums == nil {
		return math.NaN()
	}
	return c.nums[row]
}

// Missing returns the sorted row indices of missing cells.
func (c *Column) Missing() []int {
	rows := make([]int, 0, c.na.GetCardinality())
	it := c.na.Iterator()
	for it.HasNext() {
		rows = append(rows, int(it.Next()))
	}
	return rows
}

// WithName returns a shallow copy of the column under a new name.
func (c *Column) WithName(name string) *Column {
	cp := *c
	cp.name = name
	return &cp
}
