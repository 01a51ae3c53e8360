package testrail

import (
	"net/http"
	"time"
)

// DefaultTimeout is used when neither Config nor an Option sets one.
const DefaultTimeout = 30 * time.Second

// Config holds the connection settings for a Client. It is copied on
// construction and never changed afterwards.
type Config struct {
	BaseURL  string
	Username string
	Password string // password or API key
	Timeout  time.Duration
	Headers  map[string]string
}

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	httpClient *http.Client
	timeout    time.Duration
	headers    map[string]string
	userAgent  string
}

// WithHTTPClient replaces the underlying http.Client.
// Its Timeout is overwritten by the configured timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithHeader adds a default header sent with every request.
func WithHeader(name, value string) Option {
	return func(o *clientOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[name] = value
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}
