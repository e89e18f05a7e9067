package mantela

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds a single descriptor fetch.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent identifies the crawler to descriptor hosts.
	DefaultUserAgent = "mantela-crawler/1.0"

	// MaxBodyBytes caps how much of a response body is read. Descriptors
	// are small; anything past this is a misconfigured host.
	MaxBodyBytes = 4 << 20
)

// FetchError is the uniform failure value for a descriptor fetch. Transport
// errors, HTTP error statuses, and JSON decode failures all surface as a
// *FetchError so the traversal engine never has to distinguish them.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher retrieves one descriptor document per call. Implementations must
// return either a decoded document or an error — never panic past the
// boundary.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Mantela, error)
}

// HTTPFetcher fetches descriptors over HTTP GET.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// HTTPFetcherOption configures an HTTPFetcher.
type HTTPFetcherOption func(*HTTPFetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.client.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely.
func WithHTTPClient(c *http.Client) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.client = c
	}
}

// NewHTTPFetcher creates a fetcher with sane defaults.
func NewHTTPFetcher(opts ...HTTPFetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves and decodes the descriptor at url. Every failure mode
// comes back as a *FetchError wrapping the cause.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Mantela, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		io.CopyN(io.Discard, resp.Body, 1024)
		return nil, &FetchError{URL: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var doc Mantela
	if err := json.NewDecoder(io.LimitReader(resp.Body, MaxBodyBytes)).Decode(&doc); err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("decode descriptor: %w", err)}
	}
	return &doc, nil
}
