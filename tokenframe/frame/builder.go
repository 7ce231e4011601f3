package frame

import (
	roaring "github.com/RoaringBitmap/roaring"
)

// StringBuilder accumulates a string column. It is not safe for concurrent
// use; each chunk worker owns its own builder.
type StringBuilder struct {
	values []string
	na     *roaring.Bitmap
}

// NewStringBuilder returns a builder with room for capacity entries.
func NewStringBuilder(capacity int) *StringBuilder {
	if capacity < 0 {
		capacity = 0
	}
	return &StringBuilder{values: make([]string, 0, capacity), na: roaring.New()}
}

// Append adds a string value.
func (b *StringBuilder) Append(s string) {
	b.values = append(b.values, s)
}

// AppendNA adds a missing value.
func (b *StringBuilder) AppendNA() {
	b.na.Add(uint32(len(b.values)))
	b.values = append(b.values, "")
}

// Len returns the number of entries appended so far.
func (b *StringBuilder) Len() int { return len(b.values) }

// NACount returns the number of missing entries appended so far.
func (b *StringBuilder) NACount() int { return int(b.na.GetCardinality()) }

// Build freezes the builder into a column. The builder must not be used
// afterwards.
func (b *StringBuilder) Build(name string) *Column {
	c := &Column{name: name, typ: TypeString, strs: b.values, n: len(b.values), na: b.na}
	b.values = nil
	b.na = roaring.New()
	return c
}

// Concat joins builders in the given order into a single column and returns
// the chunk layout (start offsets plus the total length) that mirrors them.
// Nil builders count as empty.
func Concat(name string, builders []*StringBuilder) (*Column, []int) {
	total := 0
	for _, b := range builders {
		if b != nil {
			total += b.Len()
		}
	}

	values := make([]string, 0, total)
	na := roaring.New()
	layout := make([]int, 0, len(builders)+1)
	for _, b := range builders {
		offset := len(values)
		layout = append(layout, offset)
		if b == nil {
			continue
		}
		values = append(values, b.values...)
		it := b.na.Iterator()
		for it.HasNext() {
			na.Add(it.Next() + uint32(offset))
		}
	}
	layout = append(layout, len(values))

	return &Column{name: name, typ: TypeString, strs: values, n: len(values), na: na}, layout
}
