package testrail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Transport performs raw authenticated HTTP calls against one TestRail instance.
//
// SetHeader mutates state shared by every later call on the same Transport.
// Calls racing with SetHeader see either the old or the new value.
type Transport struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	logger     zerolog.Logger

	mu      sync.RWMutex
	headers http.Header
}

func newTransport(cfg Config, options clientOptions, logger zerolog.Logger) *Transport {
	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = options.timeout

	// http.Header canonicalizes names, so "content-type" from a config file
	// replaces the default instead of sitting next to it.
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	if options.userAgent != "" {
		headers.Set("User-Agent", options.userAgent)
	}
	for name, value := range cfg.Headers {
		headers.Set(name, value)
	}
	for name, value := range options.headers {
		headers.Set(name, value)
	}

	return &Transport{
		baseURL:    cfg.BaseURL,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: httpClient,
		logger:     logger,
		headers:    headers,
	}
}

// BaseURL returns the service root every path is resolved against.
func (t *Transport) BaseURL() string {
	return t.baseURL
}

// Timeout returns the per-request timeout.
func (t *Transport) Timeout() time.Duration {
	return t.httpClient.Timeout
}

// SetHeader sets a default header for all subsequent requests.
func (t *Transport) SetHeader(name, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.headers.Set(name, value)
}

// Header returns the current value of a default header.
func (t *Transport) Header(name string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.headers.Get(name)
}

// Get issues a GET request. params may be nil.
func (t *Transport) Get(ctx context.Context, path string, params url.Values, out any) error {
	return t.intercept(t.do(ctx, http.MethodGet, withQuery(path, params), nil, "", out))
}

// Post issues a POST request with a JSON body.
func (t *Transport) Post(ctx context.Context, path string, body, out any) error {
	return t.sendJSON(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body.
func (t *Transport) Put(ctx context.Context, path string, body, out any) error {
	return t.sendJSON(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH request with a JSON body.
func (t *Transport) Patch(ctx context.Context, path string, body, out any) error {
	return t.sendJSON(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE request.
func (t *Transport) Delete(ctx context.Context, path string, out any) error {
	return t.intercept(t.do(ctx, http.MethodDelete, path, nil, "", out))
}

// Upload posts the file at filePath as multipart form data under the
// "attachment" field. The multipart content type only applies to this call.
func (t *Transport) Upload(ctx context.Context, path, filePath string, out any) error {
	body, contentType, err := multipartBody(filePath)
	if err != nil {
		return t.intercept(err)
	}
	return t.intercept(t.do(ctx, http.MethodPost, path, body, contentType, out))
}

func (t *Transport) sendJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return t.intercept(fmt.Errorf("failed to encode request body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}
	return t.intercept(t.do(ctx, method, path, reader, "", out))
}

// intercept runs every failure through the classifier and logs it once.
func (t *Transport) intercept(err error) error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}
	classified = Classify(err)
	logClassified(t.logger, classified)
	return classified
}

func logClassified(logger zerolog.Logger, err *Error) {
	event := logger.Error().
		Str("kind", err.Kind.String()).
		Int("status", err.Status)
	var failure *TransportFailure
	if err.Kind == KindAPI && errors.As(err.Err, &failure) {
		event = event.Str("body", string(failure.Body))
	}
	event.Msg(err.Message)
}

// do performs one HTTP round trip and decodes a successful body into out.
func (t *Transport) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	requestURL := t.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	t.mu.RLock()
	req.Header = t.headers.Clone()
	t.mu.RUnlock()
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.SetBasicAuth(t.username, t.password)

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return failureFromDoError(err)
	}
	defer resp.Body.Close()

	// A response arrived, so a broken body is not a network failure.
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return &TransportFailure{Kind: FailureAborted, Err: err}
		}
		return fmt.Errorf("failed to read response body (status %d): %w", resp.StatusCode, err)
	}

	t.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("TestRail API request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportFailure{
			Kind:   FailureHTTP,
			Status: resp.StatusCode,
			Body:   respBody,
			Data:   decodeErrorBody(respBody),
		}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// decodeErrorBody returns the JSON value of an error body, or the body as a
// string when it is not JSON.
func decodeErrorBody(body []byte) any {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return string(body)
	}
	return data
}

// withQuery appends params to path, which may already carry a query string.
func withQuery(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + params.Encode()
}

func multipartBody(filePath string) (io.Reader, string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open attachment: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("attachment", filepath.Base(filePath))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("failed to read attachment: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}
