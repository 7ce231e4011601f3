package tokenizer

import (
	"context"
	"regexp"
	"testing"

	"github.com/ZanzyTHEbar/tokenframe/tokenframe/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPattern_Tokenize(t *testing.T) {
	tests := []struct {
		name      string
		regex     string
		minLength int
		lowercase bool
		input     string
		want      []string
	}{
		{"empty segment filtered", ",", 1, false, "a,b,,c", []string{"a", "b", "c"}},
		{"empty segment kept without min length", ",", 0, false, "a,b,,c", []string{"a", "b", "", "c"}},
		{"lowercase", " ", 1, true, "Foo Bar", []string{"foo", "bar"}},
		{"case preserved", " ", 1, false, "Foo Bar", []string{"Foo", "Bar"}},
		{"character class", "[,;]", 0, false, "x;y,z", []string{"x", "y", "z"}},
		{"min length drops short", `\s+`, 3, false, "a bb ccc dddd", []string{"ccc", "dddd"}},
		{"trailing delimiters dropped", ",", 0, false, "a,b,,", []string{"a", "b"}},
		{"leading delimiter keeps empty", ",", 0, false, ",a", []string{"", "a"}},
		{"no match returns input", ",", 0, false, "abc", []string{"abc"}},
		{"empty input", ",", 0, false, "", []string{""}},
		{"empty input filtered", ",", 1, false, "", []string{}},
		{"only delimiters", ",", 0, false, ",,,", []string{}},
		{"zero width split", "", 0, false, "abc", []string{"a", "b", "c"}},
		{"length counts code points", " ", 2, false, "é ée", []string{"ée"}},
		{"astral character is one code point", " ", 2, false, "😀 😀😀 ab", []string{"😀😀", "ab"}},
		{"delimiter matched before lowercasing", "X", 0, true, "aXbxc", []string{"a", "bxc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPattern(tt.regex, tt.minLength, tt.lowercase)
			require.NoError(t, err)

			got, err := p.Tokenize(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPattern_InvalidRegex(t *testing.T) {
	_, err := NewPattern("(?<=a)b", 0, false)
	assert.ErrorIs(t, err, common.ErrInvalidPattern)

	_, err = NewPattern("[", 0, false)
	assert.ErrorIs(t, err, common.ErrInvalidPattern)
}

func TestPatternBuilder(t *testing.T) {
	p, err := NewPatternBuilder().
		Regex("[,;]").
		MinLength(2).
		ToLowercase(true).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "[,;]", p.Regex())
	assert.Equal(t, 2, p.MinLength())
	assert.True(t, p.Lowercase())
	assert.Equal(t, []string{"ab", "cd"}, p.Split("AB;c,CD"))
}

func TestRegexSplit_MatchesStdlibOnInteriorFields(t *testing.T) {
	re := regexp.MustCompile(`\s*,\s*`)
	input := "one , two,three ,  four"
	assert.Equal(t, re.Split(input, -1), regexSplit(re, input))
}

func TestSplitMax(t *testing.T) {
	tests := []struct {
		input string
		seps  string
		max   int
		want  []string
	}{
		{"tokenize:elasticsearch:http://host/a", ":", 3, []string{"tokenize", "elasticsearch", "http://host/a"}},
		{"tokenize::elasticsearch::http://h", ":", 3, []string{"tokenize", "elasticsearch", "http://h"}},
		{"tokenize:elasticsearch", ":", 3, []string{"tokenize", "elasticsearch"}},
		{"tokenize:elasticsearch:", ":", 3, []string{"tokenize", "elasticsearch"}},
		{":a:b", ":", 0, []string{"a", "b"}},
		{"a=b=c", "=", 2, []string{"a", "b=c"}},
		{"", ":", 3, nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, splitMax(tt.input, tt.seps, tt.max), "splitMax(%q)", tt.input)
	}
}

func TestParsePayload(t *testing.T) {
	target, params := parsePayload("http://host/analyze?analyzer=standard&flag&k=v=w&")
	assert.Equal(t, "http://host/analyze", target)
	assert.Equal(t, map[string]string{"analyzer": "standard", "flag": "", "k": "v=w"}, params)

	target, params = parsePayload("http://host/analyze")
	assert.Equal(t, "http://host/analyze", target)
	assert.Empty(t, params)

	target, params = parsePayload("http://host/analyze?")
	assert.Equal(t, "http://host/analyze?", target, "a bare trailing '?' is kept")
	assert.Empty(t, params)
}
