package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nao1215/vistoria/internal/model"
)

// Remote fetch defaults.
const (
	defaultRetries    = 3
	defaultRetryDelay = time.Second
	defaultTimeout    = 30 * time.Second

	// maxBodySize bounds the CSV download.
	maxBodySize = 64 << 20

	// maxPageSize bounds the HTML read when looking for a page title.
	maxPageSize = 1 << 20
)

// RemoteSource fetches the CSV export of a remote spreadsheet.
// Every cell is loaded as text. A failed attempt is retried after a delay
// that grows linearly: one delay after the first failure, two after the
// second, and so on.
type RemoteSource struct {
	url        string
	client     *http.Client
	timeout    time.Duration
	headers    map[string]string
	retries    int
	retryDelay time.Duration
	logger     *slog.Logger

	// sleep waits for d or until ctx is done. Tests replace it.
	sleep func(ctx context.Context, d time.Duration) error
}

// RemoteOption configures a RemoteSource.
type RemoteOption func(*RemoteSource)

// WithHTTPClient sets the HTTP client. The client is copied, and its
// Transport is wrapped so that configured headers are sent on every request.
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(s *RemoteSource) {
		s.client = client
	}
}

// WithTimeout bounds a single attempt.
func WithTimeout(timeout time.Duration) RemoteOption {
	return func(s *RemoteSource) {
		s.timeout = timeout
	}
}

// WithRetries sets the number of attempts. Values below 1 mean 1.
func WithRetries(retries int) RemoteOption {
	return func(s *RemoteSource) {
		s.retries = max(retries, 1)
	}
}

// WithRetryDelay sets the base delay between attempts.
func WithRetryDelay(d time.Duration) RemoteOption {
	return func(s *RemoteSource) {
		s.retryDelay = d
	}
}

// WithHeader adds a header sent with every request, e.g. User-Agent.
func WithHeader(key, value string) RemoteOption {
	return func(s *RemoteSource) {
		s.headers[key] = value
	}
}

// WithRemoteLogger sets the logger used to report failed attempts.
func WithRemoteLogger(logger *slog.Logger) RemoteOption {
	return func(s *RemoteSource) {
		s.logger = logger
	}
}

// NewRemoteSource creates a source fetching url.
func NewRemoteSource(url string, opts ...RemoteOption) *RemoteSource {
	s := &RemoteSource{
		url:        url,
		client:     &http.Client{},
		timeout:    defaultTimeout,
		headers:    make(map[string]string),
		retries:    defaultRetries,
		retryDelay: defaultRetryDelay,
		logger:     slog.Default(),
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}

	client := *s.client
	if s.timeout > 0 {
		client.Timeout = s.timeout
	}
	if len(s.headers) > 0 {
		base := client.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		client.Transport = &headerTransport{base: base, headers: s.headers}
	}
	s.client = &client
	return s
}

// Name implements Source.
func (s *RemoteSource) Name() string { return "google" }

// Location implements Source.
func (s *RemoteSource) Location() string { return s.url }

// Load implements Source.
func (s *RemoteSource) Load(ctx context.Context) (*model.Dataset, error) {
	var lastErr error
	for attempt := range s.retries {
		d, err := s.fetch(ctx)
		if err == nil {
			return d, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == s.retries-1 {
			break
		}

		wait := s.retryDelay * time.Duration(attempt+1)
		s.logger.Debug("remote fetch failed, retrying",
			"attempt", attempt+1,
			"wait", wait,
			"error", err,
		)
		if err := s.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("remote sheet unavailable after %d attempts: %w", s.retries, lastErr)
}

func (s *RemoteSource) fetch(ctx context.Context) (*model.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // drain for connection reuse
		return nil, fmt.Errorf("%w: %s", ErrRemoteStatus, resp.Status)
	}
	if mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil && mt == "text/html" {
		if title := pageTitle(io.LimitReader(resp.Body, maxPageSize)); title != "" {
			return nil, fmt.Errorf("%w: received page %q", ErrNotCSV, title)
		}
		return nil, ErrNotCSV
	}

	return ParseCSV(io.LimitReader(resp.Body, maxBodySize), false)
}

// pageTitle returns the title of an HTML page, or "" when it has none.
// A sheet that is not shared publicly answers with a sign-in page.
func pageTitle(r io.Reader) string {
	doc, err := html.Parse(r)
	if err != nil {
		return ""
	}

	var find func(n *html.Node) string
	find = func(n *html.Node) string {
		if n.Type == html.ElementNode && n.DataAtom == atom.Title {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				return strings.TrimSpace(n.FirstChild.Data)
			}
			return ""
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if t := find(c); t != "" {
				return t
			}
		}
		return ""
	}
	return find(doc)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// headerTransport wraps an http.RoundTripper to inject headers into every
// request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}
	return t.base.RoundTrip(clone)
}
