package tokenizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ZanzyTHEbar/tokenframe/tokenframe/common"

	tk "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/model/wordpiece"
	"github.com/sugarme/tokenizer/normalizer"
	"github.com/sugarme/tokenizer/pretokenizer"
)

// WordPiece wraps sugarme/tokenizer WordPiece (BERT-style) and emits sub-word
// token strings without special tokens.
type WordPiece struct {
	mu        sync.Mutex
	t         *tk.Tokenizer
	vocabPath string
	minLength int
	lowercase bool
}

// NewWordPiece loads vocab.txt (or <dir>/vocab.txt) and builds a BERT
// WordPiece tokenizer.
func NewWordPiece(vocabPath string, lowercase bool, minLength int) (*WordPiece, error) {
	vocabFile := vocabPath
	if fi, err := os.Stat(vocabPath); err == nil && fi.IsDir() {
		vocabFile = filepath.Join(vocabPath, "vocab.txt")
	}
	if fi, err := os.Stat(vocabFile); err != nil || fi.IsDir() {
		return nil, fmt.Errorf("%w: wordpiece vocab %q not found", common.ErrInvalidConfig, vocabFile)
	}

	wp, err := wordpiece.NewWordPieceFromFile(vocabFile, "[UNK]")
	if err != nil {
		return nil, fmt.Errorf("load wordpiece vocab %q: %w", vocabFile, err)
	}

	t := tk.NewTokenizer(wp)
	t.WithNormalizer(normalizer.NewBertNormalizer(true, lowercase, true, lowercase))
	t.WithPreTokenizer(pretokenizer.NewBertPreTokenizer())

	return &WordPiece{t: t, vocabPath: vocabFile, minLength: minLength, lowercase: lowercase}, nil
}

// VocabPath returns the resolved vocab file.
func (w *WordPiece) VocabPath() string { return w.vocabPath }

// Tokenize implements Tokenizer.
func (w *WordPiece) Tokenize(_ context.Context, text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}

	w.mu.Lock()
	enc, err := w.t.Encode(tk.NewSingleEncodeInput(tk.NewInputSequence(text)), false)
	w.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("wordpiece encode: %w", err)
	}

	tokens := append([]string(nil), enc.GetTokens()...)
	return filterTokens(tokens, w.minLength), nil
}
