package tokenizer

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout bounds one analyzer round trip.
	DefaultTimeout       = 30 * time.Second
	DefaultRetryInterval = 200 * time.Millisecond
)

// Option configures tokenizers built by New, Select and NewRemote.
type Option func(*options)

type options struct {
	client        *http.Client
	timeout       time.Duration
	maxRetries    int
	retryInterval time.Duration
	logger        zerolog.Logger

	minLength *int
	lowercase *bool
}

func defaultOptions() options {
	return options{
		timeout:       DefaultTimeout,
		retryInterval: DefaultRetryInterval,
		logger:        zerolog.Nop(),
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = &http.Client{}
	}
	return o
}

// WithHTTPClient sets the client used for analyzer requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithTimeout bounds each analyzer request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithMaxRetries sets how many times a retryable analyzer failure is
// retried. Zero keeps fail-fast behavior.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.maxRetries = n
	}
}

// WithRetryInterval sets the constant wait between retries.
func WithRetryInterval(d time.Duration) Option {
	return func(o *options) { o.retryInterval = d }
}

// WithLogger sets a custom logger
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMinLength overrides the minimum token length parsed from the spec string.
func WithMinLength(n int) Option {
	return func(o *options) { o.minLength = &n }
}

// WithLowercase overrides lowercasing parsed from the spec string.
func WithLowercase(v bool) Option {
	return func(o *options) { o.lowercase = &v }
}
