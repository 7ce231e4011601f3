package tokenizer

import (
	"testing"
	"unicode/utf8"
)

func FuzzPatternSplit(f *testing.F) {
	f.Add("a,b,,c", 1)
	f.Add("", 0)
	f.Add(",,,", 0)
	f.Add("Foo Bar, baz;qux", 2)
	f.Add("café,résumé", 3)

	p, err := NewPattern(`[,; ]`, 0, true)
	if err != nil {
		f.Fatal(err)
	}

	f.Fuzz(func(t *testing.T, input string, minLength int) {
		if minLength < 0 || minLength > 16 {
			return
		}
		filtered := &Pattern{re: p.re, minLength: minLength, lowercase: true}
		for _, tok := range filtered.Split(input) {
			if utf8.RuneCountInString(tok) < minLength {
				t.Errorf("token %q shorter than %d", tok, minLength)
			}
		}

		pieces := p.Split(input)
		if n := len(pieces); n > 1 && pieces[n-1] == "" {
			t.Errorf("trailing empty piece in %q", pieces)
		}
	})
}
