package tokenize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ZanzyTHEbar/tokenframe/tokenframe/common"
	"github.com/ZanzyTHEbar/tokenframe/tokenframe/engine"
	"github.com/ZanzyTHEbar/tokenframe/tokenframe/frame"
	"github.com/ZanzyTHEbar/tokenframe/tokenframe/tokenizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.New([]*frame.Column{
		frame.NewStringColumn("a", []string{"a,b,,c", "Foo Bar", ""}, 2),
		frame.NewStringColumn("b", []string{"x", "", "y;z"}, 1),
	}, frame.WithChunkRows(1))
	require.NoError(t, err)
	return f
}

func TestTransform_Pattern(t *testing.T) {
	out, err := Transform(context.Background(), stringFrame(t), "[ ,;]",
		WithTokenizerOptions(tokenizer.WithMinLength(1), tokenizer.WithLowercase(true)),
		WithTaskOptions(engine.WithWorkers(2)),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{engine.OutputColumn}, out.Names())
	assert.Equal(t, [][]string{
		{"a", "b", "c", "x"},
		{"foo", "bar"},
		{"y", "z"},
	}, frame.Sequences(out.Column(0)))
}

func TestTransform_UnknownTagFallsBackToPattern(t *testing.T) {
	f, err := frame.New([]*frame.Column{
		frame.NewStringColumn("a", []string{"1tokenize:unknown:foo2"}),
	})
	require.NoError(t, err)

	out, err := Transform(context.Background(), f, "tokenize:unknown:foo")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2"}}, frame.Sequences(out.Column(0)))
}

func TestTransform_RejectsNonStringBeforeSelecting(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"tokens":[]}`))
	}))
	defer srv.Close()

	f, err := frame.New([]*frame.Column{
		frame.NewStringColumn("a", []string{"x"}),
		frame.NewStringColumn("b", []string{"y"}),
		frame.NewNumericColumn("n", []float64{1}),
	})
	require.NoError(t, err)

	_, err = Transform(context.Background(), f, "tokenize:elasticsearch:"+srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInputType)
	assert.Contains(t, err.Error(), "Received Numeric")
	assert.Equal(t, int64(0), calls.Load())

	// An invalid pattern is never compiled for a frame that fails the type check.
	_, err = Transform(context.Background(), f, "([")
	assert.ErrorIs(t, err, common.ErrInvalidInputType)
}

func TestTransform_InvalidPattern(t *testing.T) {
	_, err := Transform(context.Background(), stringFrame(t), "(?<=a)b")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidPattern)
	assert.Contains(t, err.Error(), `select tokenizer for "(?<=a)b": `)
}

func TestTransform_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		type token struct {
			Token string `json:"token"`
		}
		var resp struct {
			Tokens []token `json:"tokens"`
		}
		for _, f := range strings.FieldsFunc(req.Text, func(r rune) bool { return r == ' ' || r == ',' }) {
			resp.Tokens = append(resp.Tokens, token{Token: f})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	out, err := Transform(context.Background(), stringFrame(t), "tokenize:elasticsearch:"+srv.URL,
		WithTokenizerOptions(tokenizer.WithMinLength(2)),
	)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		nil,
		{"Foo", "Bar"},
		{"y;z"},
	}, frame.Sequences(out.Column(0)))
}
