package hltv

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/tourney-sheet-sync/internal/platform/logging"
	"github.com/riskibarqy/tourney-sheet-sync/internal/platform/resilience"
	"github.com/riskibarqy/tourney-sheet-sync/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"golang.org/x/net/html"
)

const (
	defaultBaseURL   = "https://www.hltv.org"
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) tourney-sheet-sync"
	maxPageBytes     = 8 << 20
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	UserAgent      string
	Timeout        time.Duration
	MaxRetries     int
	EventID        int64
	LookaheadDays  int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client scrapes the event pages of one tournament.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	userAgent     string
	maxRetries    int
	eventID       int64
	lookaheadDays int
	logger        *logging.Logger
	breaker       *resilience.CircuitBreaker
	backoff       func(attempt int) time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	lookahead := cfg.LookaheadDays
	if lookahead < 1 {
		lookahead = 1
	}

	return &Client{
		httpClient:    httpClient,
		baseURL:       baseURL,
		userAgent:     userAgent,
		maxRetries:    max(cfg.MaxRetries, 0),
		eventID:       cfg.EventID,
		lookaheadDays: lookahead,
		logger:        logger,
		breaker:       resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		backoff:       resilience.LinearBackoff(time.Second),
	}
}

// Scrape fetches the matches, results and team overview pages of the
// event and parses them into one snapshot.
func (c *Client) Scrape(ctx context.Context) (usecase.Snapshot, error) {
	if c.eventID <= 0 {
		return usecase.Snapshot{}, crerr.Newf("event id must be greater than zero")
	}
	event := strconv.FormatInt(c.eventID, 10)

	matchesDoc, err := c.fetch(ctx, c.baseURL+"/matches?event="+event)
	if err != nil {
		return usecase.Snapshot{}, crerr.Wrapf(err, "fetch matches page event=%s", event)
	}
	resultsDoc, err := c.fetch(ctx, c.baseURL+"/results?event="+event)
	if err != nil {
		return usecase.Snapshot{}, crerr.Wrapf(err, "fetch results page event=%s", event)
	}

	var snap usecase.Snapshot
	if snap.Live, err = parseLive(matchesDoc); err != nil {
		return usecase.Snapshot{}, crerr.Wrap(err, "parse live matches")
	}
	if snap.Upcoming, err = parseUpcoming(matchesDoc, c.lookaheadDays); err != nil {
		return usecase.Snapshot{}, crerr.Wrap(err, "parse upcoming matches")
	}
	if snap.Results, err = parseResults(resultsDoc); err != nil {
		return usecase.Snapshot{}, crerr.Wrap(err, "parse results")
	}

	teamsURL := teamsOverviewLink(matchesDoc, c.baseURL)
	if teamsURL == "" {
		c.logger.WarnContext(ctx, "hltv team overview link not found", "event_id", c.eventID)
	} else {
		teamsDoc, err := c.fetch(ctx, teamsURL)
		if err != nil {
			return usecase.Snapshot{}, crerr.Wrapf(err, "fetch team overview event=%s", event)
		}
		if snap.Teams, err = parseTeams(teamsDoc); err != nil {
			return usecase.Snapshot{}, crerr.Wrap(err, "parse teams")
		}
	}

	c.logger.DebugContext(ctx, "hltv event scraped",
		"event_id", c.eventID,
		"teams", len(snap.Teams),
		"results", len(snap.Results),
		"live", len(snap.Live),
		"upcoming", len(snap.Upcoming),
	)
	return snap, nil
}

func (c *Client) fetch(ctx context.Context, pageURL string) (*html.Node, error) {
	var doc *html.Node
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return resilience.Retry(ctx, c.maxRetries, c.backoff, func(ctx context.Context) error {
			parsed, err := c.get(ctx, pageURL)
			if err != nil {
				c.logger.DebugContext(ctx, "hltv request attempt failed", "url", pageURL, "error", err)
				return err
			}
			doc = parsed
			return nil
		})
	})
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "hltv circuit breaker rejected request", "state", c.breaker.State())
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Client) get(ctx context.Context, pageURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, resilience.MarkTransient(crerr.Wrap(err, "send request"))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxPageBytes)); err != nil {
		return nil, resilience.MarkTransient(crerr.Wrap(err, "read response body"))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := crerr.Newf("hltv status=%d url=%s", resp.StatusCode, pageURL)
		if isRetryableStatus(resp.StatusCode) {
			return nil, resilience.MarkTransient(statusErr)
		}
		return nil, statusErr
	}

	doc, err := html.Parse(bytes.NewReader(buf.B))
	if err != nil {
		return nil, crerr.Wrap(err, "parse html")
	}
	return doc, nil
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
