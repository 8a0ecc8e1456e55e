package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const redactedValue = "REDACTED"

// proxyTransports holds one *http.Transport per proxy URL so connection pools
// are shared across the per-call HTTPTransport values.
var proxyTransports sync.Map

// TransportOptions configures the HTTP transport. The zero value means no
// timeout, no proxy and the default user agent.
type TransportOptions struct {
	Timeout   time.Duration
	Proxy     string
	UserAgent string
}

// Transport performs a GET with query parameters and returns the body.
type Transport interface {
	Get(ctx context.Context, endpoint string, query url.Values) ([]byte, error)
}

// TransportFactory builds a Transport from the current options.
type TransportFactory func(opts TransportOptions) Transport

type HTTPTransport struct {
	client    *http.Client
	userAgent string
}

func NewHTTPTransport(opts TransportOptions) *HTTPTransport {
	client := &http.Client{
		Timeout: opts.Timeout,
	}

	if opts.Proxy != "" {
		// ConfigureTransport has already validated the proxy URL
		if transport, err := proxyTransport(opts.Proxy); err == nil {
			client.Transport = transport
		}
	}

	return &HTTPTransport{
		client:    client,
		userAgent: opts.UserAgent,
	}
}

func (t *HTTPTransport) Get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.URL.RawQuery = query.Encode()
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, redactURLError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// Client exposes the underlying http.Client, mainly so tests can swap its RoundTripper.
func (t *HTTPTransport) Client() *http.Client {
	return t.client
}

func proxyTransport(proxy string) (*http.Transport, error) {
	if cached, ok := proxyTransports.Load(proxy); ok {
		return cached.(*http.Transport), nil
	}

	proxyURL, err := url.Parse(proxy)
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyURL(proxyURL)

	actual, _ := proxyTransports.LoadOrStore(proxy, transport)
	return actual.(*http.Transport), nil
}

// redactURLError rebuilds the *url.Error returned by http.Client.Do so its
// text no longer carries the API key. The cause is kept for errors.Is.
func redactURLError(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}

	return &url.Error{
		Op:  urlErr.Op,
		URL: redactKey(urlErr.URL),
		Err: urlErr.Err,
	}
}

func redactKey(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "[unparsable url]"
	}

	query := parsed.Query()
	if query.Get("key") == "" {
		return rawURL
	}

	query.Set("key", redactedValue)
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

func validateTransportOptions(opts TransportOptions) error {
	if opts.Timeout < 0 {
		return fmt.Errorf("transport timeout cannot be negative: %s", opts.Timeout)
	}

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return fmt.Errorf("invalid proxy url: %w", err)
		}
		if proxyURL.Scheme == "" || proxyURL.Host == "" {
			return fmt.Errorf("invalid proxy url: %s", opts.Proxy)
		}
	}

	return nil
}
