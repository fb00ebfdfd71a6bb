package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/net/proxy"
)

const (
	// DefaultTimeout bounds the whole fetch including redirects and body read.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent is a desktop Chrome User-Agent. Many sites answer
	// scanner-looking agents with 403, which would skip content analysis.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultMaxBodySize limits how much of the page is read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// browserHeaders are sent with every request, in this order.
// Accept-Encoding is left to the transport so compressed bodies are decoded.
var browserHeaders = [][2]string{
	{"Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"},
	{"Accept-Language", "en-US,en;q=0.5"},
	{"DNT", "1"},
	{"Upgrade-Insecure-Requests", "1"},
	{"Sec-Fetch-Dest", "document"},
	{"Sec-Fetch-Mode", "navigate"},
	{"Sec-Fetch-Site", "none"},
	{"Cache-Control", "max-age=0"},
}

// Fetcher retrieves the body of a page.
// Implementations return a *FetchError on failure.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Func adapts an ordinary function to the Fetcher interface.
type Func func(ctx context.Context, rawURL string) (string, error)

// Fetch calls f.
func (f Func) Fetch(ctx context.Context, rawURL string) (string, error) {
	return f(ctx, rawURL)
}

// HTTPFetcher fetches pages over HTTP(S).
type HTTPFetcher struct {
	client       *http.Client
	timeout      time.Duration
	userAgent    string
	headers      map[string]string
	hostHeaders  map[string]map[string]string
	maxBodySize  int64
	proxyAddress string
	logger       *slog.Logger
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout sets the overall fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithHeaders adds headers sent after the browser defaults, overriding them on conflict.
func WithHeaders(headers map[string]string) Option {
	return func(f *HTTPFetcher) {
		f.headers = headers
	}
}

// WithHostHeaders adds headers sent only to the given hosts. Keys are
// lowercased host names without port; these headers are applied last.
func WithHostHeaders(headers map[string]map[string]string) Option {
	return func(f *HTTPFetcher) {
		f.hostHeaders = headers
	}
}

// WithMaxBodySize sets the maximum number of body bytes read.
func WithMaxBodySize(size int64) Option {
	return func(f *HTTPFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithSOCKS5Proxy routes requests through a SOCKS5 proxy such as a local Tor daemon.
func WithSOCKS5Proxy(address string) Option {
	return func(f *HTTPFetcher) {
		f.proxyAddress = address
	}
}

// WithHTTPClient replaces the HTTP client. The client's own timeout and
// transport are used as-is and WithSOCKS5Proxy is ignored.
func WithHTTPClient(client *http.Client) Option {
	return func(f *HTTPFetcher) {
		f.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *HTTPFetcher) {
		f.logger = logger
	}
}

// New creates an HTTPFetcher. It fails only when the proxy address is invalid.
func New(opts ...Option) (*HTTPFetcher, error) {
	f := &HTTPFetcher{
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}

	if f.client == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if f.proxyAddress != "" {
			dialContext, err := socks5DialContext(f.proxyAddress)
			if err != nil {
				return nil, err
			}
			transport.Proxy = nil
			transport.DialContext = dialContext
		}
		f.client = &http.Client{
			Transport: transport,
			Timeout:   f.timeout,
		}
	}

	return f, nil
}

// socks5DialContext builds a context-aware SOCKS5 dial function.
func socks5DialContext(address string) (func(ctx context.Context, network, addr string) (net.Conn, error), error) {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return nil, ErrInvalidProxyAddress
	}
	if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
		return nil, ErrInvalidProxyAddress
	}

	dialer, err := proxy.SOCKS5("tcp", address, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}
	contextDialer, ok := dialer.(proxy.ContextDialer)
	if !ok {
		return nil, errors.New("SOCKS5 dialer does not support contexts")
	}
	return contextDialer.DialContext, nil
}

// Fetch performs one GET request and returns the decoded body.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &FetchError{Kind: FailureConnection, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	for _, h := range browserHeaders {
		req.Header.Set(h[0], h[1])
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
	for k, v := range f.hostHeaders[strings.ToLower(req.URL.Hostname())] {
		req.Header.Set(k, v)
	}

	f.logger.Debug("fetching page", "url", rawURL)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{Kind: FailureConnection, Err: err}
	}
	defer resp.Body.Close()

	f.logger.Info("page response", "url", rawURL, "status", resp.StatusCode)

	if resp.StatusCode >= http.StatusBadRequest {
		return "", newStatusError(resp.StatusCode)
	}

	limited := io.LimitReader(resp.Body, f.maxBodySize)
	body, err := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if errors.Is(err, io.EOF) {
		return "", nil
	}
	if err != nil {
		return "", &FetchError{Kind: FailureConnection, Err: err}
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", &FetchError{Kind: FailureConnection, Err: err}
	}

	return string(data), nil
}
