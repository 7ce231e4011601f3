package tokenizer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/tokenframe/tokenframe/common"
)

// Pattern splits text on a delimiter regular expression.
//
// Pieces are lowercased after splitting, so letters in the delimiter always
// match case-sensitively against the original text, and the length filter
// sees the lowercased piece.
type Pattern struct {
	re        *regexp.Regexp
	minLength int
	lowercase bool
}

// NewPattern compiles regex into a Pattern tokenizer.
func NewPattern(regex string, minLength int, lowercase bool) (*Pattern, error) {
	re, err := regexp.Compile(regex)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", common.ErrInvalidPattern, regex, err)
	}
	return &Pattern{re: re, minLength: minLength, lowercase: lowercase}, nil
}

// Regex returns the delimiter pattern.
func (p *Pattern) Regex() string { return p.re.String() }

// MinLength returns the minimum token length.
func (p *Pattern) MinLength() int { return p.minLength }

// Lowercase reports whether tokens are lowercased.
func (p *Pattern) Lowercase() bool { return p.lowercase }

// Split tokenizes text. It never fails.
func (p *Pattern) Split(text string) []string {
	pieces := regexSplit(p.re, text)
	if p.lowercase {
		for i, piece := range pieces {
			pieces[i] = strings.ToLower(piece)
		}
	}
	return filterTokens(pieces, p.minLength)
}

// Tokenize implements Tokenizer.
func (p *Pattern) Tokenize(_ context.Context, text string) ([]string, error) {
	return p.Split(text), nil
}

// PatternBuilder assembles a Pattern step by step.
//
//	p, err := tokenizer.NewPatternBuilder().
//		Regex("[,;]").
//		MinLength(2).
//		ToLowercase(true).
//		Build()
type PatternBuilder struct {
	regex     string
	minLength int
	lowercase bool
}

// NewPatternBuilder returns a builder with minLength 0 and no lowercasing.
func NewPatternBuilder() *PatternBuilder {
	return &PatternBuilder{}
}

func (b *PatternBuilder) Regex(regex string) *PatternBuilder {
	b.regex = regex
	return b
}

func (b *PatternBuilder) MinLength(n int) *PatternBuilder {
	b.minLength = n
	return b
}

func (b *PatternBuilder) ToLowercase(v bool) *PatternBuilder {
	b.lowercase = v
	return b
}

func (b *PatternBuilder) Build() (*Pattern, error) {
	return NewPattern(b.regex, b.minLength, b.lowercase)
}
