package frame

// Entry is one element of a marker-delimited token stream: either a token
// or a row boundary.
type Entry struct {
	Token    string
	Boundary bool
}

func (e Entry) String() string {
	if e.Boundary {
		return "<NA>"
	}
	return e.Token
}

// Entries views a string column as a token stream where missing cells are
// row boundaries.
func Entries(c *Column) []Entry {
	out := make([]Entry, c.Len())
	for i := range out {
		if c.IsNA(i) {
			out[i] = Entry{Boundary: true}
			continue
		}
		out[i] = Entry{Token: c.String(i)}
	}
	return out
}

// Sequences recovers the per-row token lists from a marker-delimited column:
// one slice per boundary. Tokens after the last boundary, if any, form a
// final unterminated sequence.
func Sequences(c *Column) [][]string {
	var (
		seqs    [][]string
		current []string
	)
	for i := 0; i < c.Len(); i++ {
		if c.IsNA(i) {
			seqs = append(seqs, current)
			current = nil
			continue
		}
		current = append(current, c.String(i))
	}
	if len(current) > 0 {
		seqs = append(seqs, current)
	}
	return seqs
}
