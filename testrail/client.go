package testrail

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const apiPrefix = "/api/v2/"

// BaseClient is the single construction point for auth and error policy.
// Every resource client issues its calls through it.
type BaseClient struct {
	transport *Transport
	logger    zerolog.Logger
}

// NewBaseClient validates cfg and creates a BaseClient.
func NewBaseClient(cfg Config, logger zerolog.Logger, opts ...Option) (*BaseClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: TestRail URL is required", ErrInvalidConfig)
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("%w: TestRail username is required", ErrInvalidConfig)
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("%w: TestRail API key or password is required", ErrInvalidConfig)
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid TestRail URL: %v", ErrInvalidConfig, err)
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	options := clientOptions{timeout: cfg.Timeout}
	if options.timeout <= 0 {
		options.timeout = DefaultTimeout
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &BaseClient{
		transport: newTransport(cfg, options, logger),
		logger:    logger,
	}, nil
}

// Transport exposes the bare-verb transport for direct use.
func (c *BaseClient) Transport() *Transport {
	return c.transport
}

// Get issues a GET through the transport.
func (c *BaseClient) Get(ctx context.Context, path string, params url.Values, out any) error {
	return c.transport.Get(ctx, path, params, out)
}

// Post issues a POST through the transport.
func (c *BaseClient) Post(ctx context.Context, path string, body, out any) error {
	return c.transport.Post(ctx, path, body, out)
}

// Put issues a PUT through the transport.
func (c *BaseClient) Put(ctx context.Context, path string, body, out any) error {
	return c.transport.Put(ctx, path, body, out)
}

// Delete issues a DELETE through the transport.
func (c *BaseClient) Delete(ctx context.Context, path string, out any) error {
	return c.transport.Delete(ctx, path, out)
}

// Request dispatches method to the matching transport verb. Errors that are
// already classified are returned unchanged; anything else is classified here.
func (c *BaseClient) Request(ctx context.Context, method, path string, body, out any) error {
	var err error
	switch method {
	case http.MethodGet:
		err = c.transport.Get(ctx, path, nil, out)
	case http.MethodPost:
		err = c.transport.Post(ctx, path, body, out)
	case http.MethodPut:
		err = c.transport.Put(ctx, path, body, out)
	case http.MethodPatch:
		err = c.transport.Patch(ctx, path, body, out)
	case http.MethodDelete:
		err = c.transport.Delete(ctx, path, out)
	default:
		err = fmt.Errorf("unsupported HTTP method %q", method)
	}
	if err == nil {
		return nil
	}

	return c.classify(err)
}

// classify turns err into an *Error, logging it the first time it is
// classified.
func (c *BaseClient) classify(err error) *Error {
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}
	classified = Classify(err)
	logClassified(c.logger, classified)
	return classified
}

// request is the typed form of BaseClient.Request.
func request[T any](ctx context.Context, c *BaseClient, method, path string, body any) (T, error) {
	var out T
	if err := c.Request(ctx, method, path, body, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// endpoint builds /api/v2/{action}[/{id}...]. IDs may be ints or strings.
func endpoint(action string, ids ...any) string {
	var sb strings.Builder
	sb.WriteString(apiPrefix)
	sb.WriteString(action)
	for _, id := range ids {
		sb.WriteByte('/')
		switch v := id.(type) {
		case int:
			sb.WriteString(strconv.Itoa(v))
		case int64:
			sb.WriteString(strconv.FormatInt(v, 10))
		case string:
			sb.WriteString(url.PathEscape(v))
		default:
			fmt.Fprint(&sb, v)
		}
	}
	return sb.String()
}

// softDelete appends the soft-delete flag when requested.
func softDelete(path string, soft bool) string {
	if !soft {
		return path
	}
	return withQuery(path, url.Values{"soft": {"1"}})
}

// emptyBody is sent by POST calls that take no payload.
var emptyBody = struct{}{}
