package engine

import (
	"github.com/ZanzyTHEbar/tokenframe/tokenframe/frame"
)

// Assemble concatenates per-chunk builders, in the order given, into a
// single-column frame whose chunk layout mirrors the builders.
func Assemble(name string, outs []*frame.StringBuilder) (*frame.Frame, error) {
	col, layout := frame.Concat(name, outs)
	return frame.New([]*frame.Column{col}, frame.WithLayout(layout[:len(layout)-1]))
}
