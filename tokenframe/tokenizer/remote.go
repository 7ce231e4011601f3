package tokenizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ZanzyTHEbar/tokenframe/tokenframe/common"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// maxErrorBody caps how much of a failed response ends up in the error.
const maxErrorBody = 512

// Remote delegates tokenization to an HTTP analyzer endpoint, one request
// per cell:
//
//	POST <endpoint>  {"text": "...", "analyzer": "..."}
//	200              {"tokens": [{"token": "...", ...}, ...]}
type Remote struct {
	endpoint  string
	analyzer  string
	minLength int

	client        *http.Client
	timeout       time.Duration
	maxRetries    int
	retryInterval time.Duration
	logger        zerolog.Logger
}

type analyzeRequest struct {
	Text     string `json:"text"`
	Analyzer string `json:"analyzer,omitempty"`
}

// Tokens stays raw so an explicit null is told apart from a missing key.
type analyzeResponse struct {
	Tokens json.RawMessage `json:"tokens"`
}

type analyzeToken struct {
	Token       *string `json:"token"`
	StartOffset int     `json:"start_offset"`
	EndOffset   int     `json:"end_offset"`
	Type        string  `json:"type"`
	Position    int     `json:"position"`
}

// NewRemote builds a Remote tokenizer for endpoint. An empty analyzer is
// omitted from requests.
func NewRemote(endpoint, analyzer string, minLength int, opts ...Option) *Remote {
	o := buildOptions(opts)
	if o.minLength != nil {
		minLength = *o.minLength
	}
	return &Remote{
		endpoint:      endpoint,
		analyzer:      analyzer,
		minLength:     minLength,
		client:        o.client,
		timeout:       o.timeout,
		maxRetries:    o.maxRetries,
		retryInterval: o.retryInterval,
		logger:        o.logger.With().Str("component", "remote_tokenizer").Str("endpoint", endpoint).Logger(),
	}
}

// Endpoint returns the analyzer URL.
func (r *Remote) Endpoint() string { return r.endpoint }

// Analyzer returns the requested analyzer name, empty when unset.
func (r *Remote) Analyzer() string { return r.analyzer }

// MinLength returns the minimum token length.
func (r *Remote) MinLength() int { return r.minLength }

// Tokenize implements Tokenizer. Failures are *common.RemoteError values.
func (r *Remote) Tokenize(ctx context.Context, text string) ([]string, error) {
	body, err := json.Marshal(analyzeRequest{Text: text, Analyzer: r.analyzer})
	if err != nil {
		return nil, &common.RemoteError{URL: r.endpoint, Err: err}
	}

	var tokens []string
	op := func() error {
		toks, err := r.analyze(ctx, body)
		if err != nil {
			if common.IsRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		tokens = toks
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(r.retryInterval), uint64(r.maxRetries)),
		ctx,
	)
	notify := func(err error, wait time.Duration) {
		r.logger.Warn().Err(err).Dur("wait", wait).Msg("analyzer request failed, retrying")
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		var re *common.RemoteError
		if !errors.As(err, &re) {
			err = &common.RemoteError{URL: r.endpoint, Err: err}
		}
		return nil, err
	}

	return filterTokens(tokens, r.minLength), nil
}

func (r *Remote) analyze(ctx context.Context, body []byte) ([]string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &common.RemoteError{URL: r.endpoint, Err: fmt.Errorf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &common.RemoteError{URL: r.endpoint, Err: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &common.RemoteError{URL: r.endpoint, Status: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
	}

	items, err := decodeResponse(resp.Body)
	if err != nil {
		return nil, &common.RemoteError{URL: r.endpoint, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	tokens := make([]string, 0, len(items))
	for i, t := range items {
		if t.Token == nil {
			return nil, &common.RemoteError{URL: r.endpoint, Status: resp.StatusCode, Err: fmt.Errorf("decode response: tokens[%d] has no token field", i)}
		}
		tokens = append(tokens, *t.Token)
	}
	return tokens, nil
}

// decodeResponse reads exactly one JSON object and returns its token
// entries. A missing "tokens" key means no tokens; a null body, a null
// "tokens" or trailing data is an error.
func decodeResponse(body io.Reader) ([]analyzeToken, error) {
	dec := json.NewDecoder(body)
	var out *analyzeResponse
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.New("response body is null")
	}
	if err := dec.Decode(new(json.RawMessage)); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after response object")
	}

	if out.Tokens == nil {
		return nil, nil
	}
	if bytes.Equal(out.Tokens, []byte("null")) {
		return nil, errors.New(`"tokens" is null`)
	}
	var items []analyzeToken
	if err := json.Unmarshal(out.Tokens, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// RemoteBuilder assembles a Remote tokenizer from a payload of the form
// "<url>[?analyzer=<name>]".
type RemoteBuilder struct {
	url       string
	minLength int
	opts      []Option
}

// NewRemoteBuilder returns a builder with minLength 0.
func NewRemoteBuilder() *RemoteBuilder {
	return &RemoteBuilder{}
}

func (b *RemoteBuilder) URL(url string) *RemoteBuilder {
	b.url = url
	return b
}

func (b *RemoteBuilder) MinLength(n int) *RemoteBuilder {
	b.minLength = n
	return b
}

func (b *RemoteBuilder) Options(opts ...Option) *RemoteBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

func (b *RemoteBuilder) Build() *Remote {
	endpoint, params := parsePayload(b.url)
	return NewRemote(endpoint, params["analyzer"], b.minLength, b.opts...)
}
