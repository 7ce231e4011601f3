package tokenizer

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// Tokenizer turns one cell value into an ordered list of tokens.
// Implementations are immutable after construction and safe for concurrent use.
type Tokenizer interface {
	Tokenize(ctx context.Context, text string) ([]string, error)
}

// Kind identifies a tokenization strategy.
type Kind int

const (
	KindPattern Kind = iota
	KindRemote
	KindWordPiece
)

func (k Kind) String() string {
	switch k {
	case KindPattern:
		return "pattern"
	case KindRemote:
		return "remote"
	case KindWordPiece:
		return "wordpiece"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Config is the parsed form of a tokenize spec string. Only the fields
// relevant to Kind are set.
type Config struct {
	Kind Kind

	// Pattern is the delimiter regular expression (KindPattern).
	Pattern string

	// Endpoint and Analyzer address the analyzer service (KindRemote).
	// An empty Analyzer lets the service pick its default.
	Endpoint string
	Analyzer string

	// VocabPath is a vocab.txt file or a directory holding one (KindWordPiece).
	VocabPath string

	// Params holds every query parameter of the payload, recognized or not.
	Params map[string]string

	MinLength int
	Lowercase bool
}

func (c Config) String() string {
	switch c.Kind {
	case KindRemote:
		if c.Analyzer != "" {
			return fmt.Sprintf("remote(%s, analyzer=%s, min=%d)", c.Endpoint, c.Analyzer, c.MinLength)
		}
		return fmt.Sprintf("remote(%s, min=%d)", c.Endpoint, c.MinLength)
	case KindWordPiece:
		return fmt.Sprintf("wordpiece(%s, lower=%t, min=%d)", c.VocabPath, c.Lowercase, c.MinLength)
	default:
		return fmt.Sprintf("pattern(%q, lower=%t, min=%d)", c.Pattern, c.Lowercase, c.MinLength)
	}
}

// filterTokens keeps tokens of at least minLength code points. It filters
// in place.
func filterTokens(tokens []string, minLength int) []string {
	if minLength <= 0 {
		return tokens
	}
	out := tokens[:0]
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) >= minLength {
			out = append(out, tok)
		}
	}
	return out
}
