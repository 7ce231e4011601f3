package command

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/ZanzyTHEbar/tokenframe/tokenframe/frame"
)

// readOptions controls how CSV records become string columns.
type readOptions struct {
	header       bool
	emptyMissing bool
	chunkRows    int
}

// ReadCSV loads every CSV field as a string column. Without a header the
// columns are named C1..Cn. With emptyMissing set, empty fields become
// missing cells; otherwise they are empty strings.
func ReadCSV(r io.Reader, opts readOptions) (*frame.Frame, error) {
	reader := csv.NewReader(bufio.NewReader(r))

	var names []string
	if opts.header {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: empty input")
		}
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		names = append(names, rec...)
	}

	var (
		values  [][]string
		missing [][]int
	)
	row := 0
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", row+1, err)
		}
		if values == nil {
			values = make([][]string, len(rec))
			missing = make([][]int, len(rec))
		}
		for i, field := range rec {
			values[i] = append(values[i], field)
			if opts.emptyMissing && field == "" {
				missing[i] = append(missing[i], row)
			}
		}
		row++
	}

	if names == nil {
		for i := range values {
			names = append(names, fmt.Sprintf("C%d", i+1))
		}
	}
	if values == nil {
		values = make([][]string, len(names))
		missing = make([][]int, len(names))
	}

	columns := make([]*frame.Column, len(names))
	for i, name := range names {
		columns[i] = frame.NewStringColumn(name, values[i], missing[i]...)
	}
	return frame.New(columns, frame.WithChunkRows(opts.chunkRows))
}

// WriteEntries writes one token per line. Row boundaries are written as
// the marker string.
func WriteEntries(w io.Writer, c *frame.Column, marker string) error {
	bw := bufio.NewWriter(w)
	for _, e := range frame.Entries(c) {
		line := e.Token
		if e.Boundary {
			line = marker
		}
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
