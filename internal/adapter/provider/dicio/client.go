package dicio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/heartmarshall/dicionario-backend/internal/config"
	"github.com/heartmarshall/dicionario-backend/internal/domain"
	"github.com/heartmarshall/dicionario-backend/internal/metrics"
	"github.com/heartmarshall/dicionario-backend/internal/provider"
)

const (
	opFetch  = "fetch"
	opSearch = "search"
)

type fetchMetrics interface {
	RecordFetch(operation, result string, d time.Duration)
	SetConsecutiveFailures(n int)
}

// Client fetches dictionary pages from the external source and turns them
// into drafts. Every failure surfaces as an error wrapping domain.ErrNotFound,
// or domain.ErrSourceUnavailable once the source keeps failing.
type Client struct {
	cfg        config.SourceConfig
	httpClient *http.Client
	extractor  *Extractor
	metrics    fetchMetrics
	log        *slog.Logger

	failures atomic.Int64
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Client. Per-request deadlines come from cfg, so the
// default HTTP client has no global timeout.
func NewClient(cfg config.SourceConfig, extractor *Extractor, m *metrics.Metrics, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		extractor:  extractor,
		metrics:    m,
		log:        logger.With("adapter", "dicio"),
	}
	c.cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchByTerm downloads the canonical page for term and extracts it.
func (c *Client) FetchByTerm(ctx context.Context, term string) (*provider.DraftRecord, error) {
	normalized := domain.NormalizeText(term)
	if normalized == "" {
		return nil, fmt.Errorf("dicio: empty term: %w", domain.ErrNotFound)
	}

	start := time.Now()
	pageURL := c.cfg.BaseURL + "/" + url.PathEscape(normalized) + "/"

	body, err := c.get(ctx, pageURL, c.cfg.FetchTimeout, true)
	if err != nil {
		c.record(opFetch, err, start)
		return nil, err
	}

	draft, err := c.extractor.Extract(bytes.NewReader(body), normalized)
	c.record(opFetch, err, start)
	if err != nil {
		c.log.DebugContext(ctx, "page rejected", slog.String("term", normalized), slog.String("error", err.Error()))
		return nil, err
	}
	return draft, nil
}

// RediscoverViaSearch asks the web search endpoint for the source's page
// about query, recovers the term slug from the first result pointing at the
// source, and fetches that slug.
func (c *Client) RediscoverViaSearch(ctx context.Context, query string) (*provider.DraftRecord, error) {
	q := domain.NormalizeText(query)
	if q == "" {
		return nil, fmt.Errorf("dicio: empty query: %w", domain.ErrNotFound)
	}

	searchURL, err := url.Parse(c.cfg.SearchURL)
	if err != nil {
		return nil, fmt.Errorf("dicio: search url: %v: %w", err, domain.ErrNotFound)
	}
	params := searchURL.Query()
	params.Set("q", fmt.Sprintf("significado de %s site:%s", q, c.cfg.SearchDomain))
	searchURL.RawQuery = params.Encode()

	start := time.Now()
	body, err := c.get(ctx, searchURL.String(), c.cfg.SearchTimeout, false)
	if err != nil {
		c.record(opSearch, err, start)
		return nil, err
	}

	slug, err := c.firstResultSlug(body)
	c.record(opSearch, err, start)
	if err != nil {
		return nil, err
	}

	c.log.DebugContext(ctx, "search relocated term", slog.String("query", q), slog.String("slug", slug))
	return c.FetchByTerm(ctx, slug)
}

// firstResultSlug returns the slug of the first link that resolves to the
// source domain, unwrapping "/url?q=" redirect links.
func (c *Client) firstResultSlug(body []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("dicio: parse search page: %v: %w", err, domain.ErrNotFound)
	}

	for _, a := range anchorSelector.MatchAll(doc) {
		if slug, ok := slugFromHref(attr(a, "href"), c.cfg.SearchDomain); ok {
			return slug, nil
		}
	}
	return "", fmt.Errorf("dicio: no search result on %s: %w", c.cfg.SearchDomain, domain.ErrNotFound)
}

func slugFromHref(href, domainName string) (string, bool) {
	if !strings.Contains(href, domainName) {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if u.Path == "/url" {
		target := u.Query().Get("q")
		if target == "" {
			target = u.Query().Get("url")
		}
		if u, err = url.Parse(target); err != nil {
			return "", false
		}
	}

	host := strings.ToLower(u.Hostname())
	if host != domainName && !strings.HasSuffix(host, "."+domainName) {
		return "", false
	}

	for _, seg := range strings.Split(u.Path, "/") {
		if seg == "" {
			continue
		}
		slug, err := url.PathUnescape(seg)
		if err != nil {
			return "", false
		}
		slug = domain.NormalizeText(slug)
		return slug, slug != ""
	}
	return "", false
}

// get performs a bounded GET. When track is set, transport failures and 5xx
// responses extend the failure streak of the source.
func (c *Client) get(parent context.Context, target string, timeout time.Duration, track bool) ([]byte, error) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("dicio: create request: %v: %w", err, domain.ErrNotFound)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// A caller that went away says nothing about the source.
		return nil, c.failure(ctx, track && parent.Err() == nil, fmt.Errorf("dicio: GET %s: %v", target, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, c.failure(ctx, track, fmt.Errorf("dicio: GET %s: status %d", target, resp.StatusCode))
	}
	if track {
		c.resetFailures()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("dicio: GET %s: status %d: %w", target, resp.StatusCode, domain.ErrNotFound)
	}

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("dicio: decode charset: %v: %w", err, domain.ErrNotFound)
	}
	body, err := io.ReadAll(io.LimitReader(reader, c.cfg.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("dicio: read body: %v: %w", err, domain.ErrNotFound)
	}
	return body, nil
}

// failure downgrades a transport error to not-found, or to source
// unavailable once the streak reaches the configured threshold.
func (c *Client) failure(ctx context.Context, track bool, err error) error {
	if !track {
		return fmt.Errorf("%v: %w", err, domain.ErrNotFound)
	}

	n := c.failures.Add(1)
	c.metrics.SetConsecutiveFailures(int(n))
	if c.cfg.FailureThreshold > 0 && n >= int64(c.cfg.FailureThreshold) {
		c.log.WarnContext(ctx, "external source looks unavailable",
			slog.Int64("consecutive_failures", n),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%v: %w", err, domain.ErrSourceUnavailable)
	}
	return fmt.Errorf("%v: %w", err, domain.ErrNotFound)
}

func (c *Client) resetFailures() {
	if c.failures.Swap(0) != 0 {
		c.metrics.SetConsecutiveFailures(0)
	}
}

// ConsecutiveFailures reports the current failure streak.
func (c *Client) ConsecutiveFailures() int {
	return int(c.failures.Load())
}

func (c *Client) record(op string, err error, start time.Time) {
	result := metrics.OutcomeFound
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrSourceUnavailable):
		result = metrics.OutcomeUnavailable
	case errors.Is(err, domain.ErrNotFound):
		result = metrics.OutcomeNotFound
	default:
		result = metrics.OutcomeError
	}
	c.metrics.RecordFetch(op, result, time.Since(start))
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
