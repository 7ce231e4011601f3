package tokenizer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/tokenframe/tokenframe/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want Config
	}{
		{
			name: "remote with analyzer",
			spec: "tokenize:elasticsearch:http://host/analyze?analyzer=standard",
			want: Config{
				Kind:     KindRemote,
				Endpoint: "http://host/analyze",
				Analyzer: "standard",
				Params:   map[string]string{"analyzer": "standard"},
			},
		},
		{
			name: "remote keeps unknown params",
			spec: "tokenize:elasticsearch:http://host:9200/_analyze?pretty&analyzer=english",
			want: Config{
				Kind:     KindRemote,
				Endpoint: "http://host:9200/_analyze",
				Analyzer: "english",
				Params:   map[string]string{"pretty": "", "analyzer": "english"},
			},
		},
		{
			name: "remote without params",
			spec: "tokenize:elasticsearch:http://host/analyze",
			want: Config{Kind: KindRemote, Endpoint: "http://host/analyze", Params: map[string]string{}},
		},
		{
			name: "wordpiece",
			spec: "tokenize:wordpiece:/models/bert?lowercase=true",
			want: Config{
				Kind:      KindWordPiece,
				VocabPath: "/models/bert",
				Lowercase: true,
				Params:    map[string]string{"lowercase": "true"},
			},
		},
		{"plain regex", "[,;]", Config{Kind: KindPattern, Pattern: "[,;]"}},
		{"unknown tag falls back", "tokenize:unknown:foo", Config{Kind: KindPattern, Pattern: "tokenize:unknown:foo"}},
		{"two segments fall back", "tokenize:elasticsearch", Config{Kind: KindPattern, Pattern: "tokenize:elasticsearch"}},
		{"prefix without colon", "tokenizeX", Config{Kind: KindPattern, Pattern: "tokenizeX"}},
		{"tag is case sensitive", "tokenize:Elasticsearch:http://h", Config{Kind: KindPattern, Pattern: "tokenize:Elasticsearch:http://h"}},
		{"empty", "", Config{Kind: KindPattern, Pattern: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.spec))
		})
	}
}

func TestSelect_Remote(t *testing.T) {
	tok, err := Select("tokenize:elasticsearch:http://host/analyze?analyzer=standard")
	require.NoError(t, err)

	r, ok := tok.(*Remote)
	require.True(t, ok, "got %T", tok)
	assert.Equal(t, "http://host/analyze", r.Endpoint())
	assert.Equal(t, "standard", r.Analyzer())
	assert.Equal(t, 0, r.MinLength())
}

func TestSelect_Pattern(t *testing.T) {
	tok, err := Select("[,;]")
	require.NoError(t, err)

	p, ok := tok.(*Pattern)
	require.True(t, ok, "got %T", tok)
	assert.Equal(t, "[,;]", p.Regex())
	assert.Equal(t, 0, p.MinLength())
	assert.False(t, p.Lowercase())
}

func TestSelect_UnknownTagUsesWholeSpecAsRegex(t *testing.T) {
	tok, err := Select("tokenize:unknown:foo")
	require.NoError(t, err)

	p, ok := tok.(*Pattern)
	require.True(t, ok, "got %T", tok)
	assert.Equal(t, "tokenize:unknown:foo", p.Regex())

	got, err := p.Tokenize(context.Background(), "atokenize:unknown:foob")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestSelect_Overrides(t *testing.T) {
	tok, err := Select(`\s+`, WithMinLength(2), WithLowercase(true))
	require.NoError(t, err)

	got, err := tok.Tokenize(context.Background(), "A Bc DEF")
	require.NoError(t, err)
	assert.Equal(t, []string{"bc", "def"}, got)

	tok, err = Select("tokenize:elasticsearch:http://h", WithMinLength(4))
	require.NoError(t, err)
	assert.Equal(t, 4, tok.(*Remote).MinLength())
}

func TestSelect_InvalidRegex(t *testing.T) {
	_, err := Select("(")
	assert.ErrorIs(t, err, common.ErrInvalidPattern)
}

func TestSelect_WordPieceMissingVocab(t *testing.T) {
	_, err := Select("tokenize:wordpiece:" + filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestConfigString(t *testing.T) {
	assert.Equal(t, `pattern("[,;]", lower=false, min=0)`, Parse("[,;]").String())
	assert.Equal(t, "remote(http://h/a, analyzer=x, min=0)", Parse("tokenize:elasticsearch:http://h/a?analyzer=x").String())
	assert.Equal(t, "remote(http://h/a, min=0)", Parse("tokenize:elasticsearch:http://h/a").String())
	assert.Equal(t, "remote", KindRemote.String())
}

func writeVocab(t *testing.T, dir string) string {
	t.Helper()
	vocab := []string{"[PAD]", "[UNK]", "[CLS]", "[SEP]", "hello", "world", "play", "##ing", ","}
	path := filepath.Join(dir, "vocab.txt")
	content := ""
	for _, v := range vocab {
		content += v + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestWordPiece(t *testing.T) {
	dir := t.TempDir()
	writeVocab(t, dir)

	tok, err := Select("tokenize:wordpiece:" + dir + "?lowercase=true")
	require.NoError(t, err)

	wp, ok := tok.(*WordPiece)
	require.True(t, ok, "got %T", tok)
	assert.Equal(t, filepath.Join(dir, "vocab.txt"), wp.VocabPath())

	got, err := wp.Tokenize(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "world"}, got)

	got, err = wp.Tokenize(context.Background(), "playing")
	require.NoError(t, err)
	assert.Equal(t, []string{"play", "##ing"}, got)

	got, err = wp.Tokenize(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, got)
}
