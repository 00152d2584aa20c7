package scroll

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/nicholas-kotlinski/cmr-granule-client/pkg/client"
	"github.com/nicholas-kotlinski/cmr-granule-client/pkg/granule"
	"github.com/nicholas-kotlinski/cmr-granule-client/pkg/logging"
	"github.com/nicholas-kotlinski/cmr-granule-client/pkg/query"
)

// CMR scroll protocol headers and paths.
const (
	// HeaderScrollID carries the scroll session id. CMR sets it on the first
	// response of a session; the fetcher sends it back on every later request.
	HeaderScrollID = "CMR-Scroll-Id"

	// HeaderHits carries the total hit count for the query.
	HeaderHits = "CMR-Hits"

	granulePath = "/granules.json"
	clearPath   = "/clear-scroll"
)

// Common errors returned by the fetcher.
var (
	// ErrNoScrollSession is returned when the first response omits the
	// scroll id or hit count header. Pagination cannot proceed without them.
	ErrNoScrollSession = errors.New("scroll session not established")

	// ErrPaginationStalled is returned when a page adds no granules while
	// the running count is still below the reported hit count.
	ErrPaginationStalled = errors.New("pagination stalled")
)

// Prometheus metrics for scroll pagination.
var (
	scrollSessionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cmr_scroll_sessions_total",
		Help: "Total scroll sessions established",
	})

	scrollPagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cmr_scroll_pages_total",
		Help: "Total scroll pages retrieved",
	})

	scrollStallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cmr_scroll_stalls_total",
		Help: "Total fetches aborted because pagination stalled",
	})

	scrollReleasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cmr_scroll_releases_total",
		Help: "Total scroll session releases by outcome",
	}, []string{"status"})
)

// Config holds fetcher configuration.
type Config struct {
	// PageSize is the number of granules requested per page. CMR caps
	// page_size at 2000.
	PageSize int
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		PageSize: 100,
	}
}

// Fetcher retrieves complete granule result sets through scroll pagination.
type Fetcher struct {
	client *client.Client
	config Config
	logger zerolog.Logger
}

// NewFetcher creates a new scroll fetcher.
func NewFetcher(c *client.Client, cfg Config) *Fetcher {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}

	return &Fetcher{
		client: c,
		config: cfg,
		logger: logging.NewLogger("scroll-fetcher"),
	}
}

// session is the state of one scroll lease: the server-issued id, the
// reported hit count, and the running count of granules retrieved. It lives
// only for the duration of one FetchAll call and is never shared.
type session struct {
	scrollID  string
	hits      int
	retrieved int
}

// newSession extracts the scroll session from the first response's headers.
func newSession(header http.Header) (*session, error) {
	scrollID := header.Get(HeaderScrollID)
	if scrollID == "" {
		return nil, fmt.Errorf("%w: %s header missing", ErrNoScrollSession, HeaderScrollID)
	}

	hitsStr := header.Get(HeaderHits)
	if hitsStr == "" {
		return nil, fmt.Errorf("%w: %s header missing", ErrNoScrollSession, HeaderHits)
	}

	hits, err := strconv.Atoi(hitsStr)
	if err != nil || hits < 0 {
		return nil, fmt.Errorf("%w: invalid %s header %q", ErrNoScrollSession, HeaderHits, hitsStr)
	}

	return &session{scrollID: scrollID, hits: hits}, nil
}

// FetchAll retrieves every granule matching params, paging through a scroll
// session until the running count reaches the hit count reported on the
// first response. The session is released on every exit path once it has
// been established; release failure never affects retrieved data.
func (f *Fetcher) FetchAll(ctx context.Context, params query.Params) ([]granule.Granule, error) {
	start := time.Now()

	values := params.Values()
	values.Set("page_size", strconv.Itoa(f.config.PageSize))
	values.Set("scroll", "true")

	resp, err := f.client.Get(ctx, granulePath, values, nil)
	if err != nil {
		return nil, fmt.Errorf("first page: %w", err)
	}

	sess, err := newSession(resp.Header)
	if err != nil {
		resp.Body.Close()
		return nil, err
	}
	scrollSessionsTotal.Inc()
	defer f.release(ctx, sess.scrollID)

	page, err := granule.DecodePage(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}

	granules := make([]granule.Granule, 0, sess.hits)
	granules = append(granules, page.Feed.Entry...)
	sess.retrieved = len(granules)
	pages := 1
	scrollPagesTotal.Inc()

	f.logger.Debug().
		Int("hits", sess.hits).
		Int("page_size", f.config.PageSize).
		Msg("Scroll session established")

	for sess.retrieved < sess.hits {
		if len(page.Feed.Entry) == 0 {
			scrollStallsTotal.Inc()
			return nil, fmt.Errorf("%w: %d of %d granules after %d pages",
				ErrPaginationStalled, sess.retrieved, sess.hits, pages)
		}

		// Headers are rebuilt for each request; only the scroll id carries
		// over between iterations.
		header := http.Header{}
		header.Set(HeaderScrollID, sess.scrollID)

		resp, err := f.client.Get(ctx, granulePath, values, header)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pages+1, err)
		}

		page, err = granule.DecodePage(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pages+1, err)
		}

		granules = append(granules, page.Feed.Entry...)
		sess.retrieved = len(granules)
		pages++
		scrollPagesTotal.Inc()
	}

	f.logger.Info().
		Int("granules", len(granules)).
		Int("hits", sess.hits).
		Int("pages", pages).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return granules, nil
}

// release frees the server-side scroll session. Best effort: failures are
// logged, never returned, and the call still goes out when the caller's
// context has already been cancelled.
func (f *Fetcher) release(ctx context.Context, scrollID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	resp, err := f.client.PostJSON(ctx, clearPath, map[string]string{"scroll_id": scrollID})
	if err != nil {
		scrollReleasesTotal.WithLabelValues("error").Inc()
		f.logger.Warn().Err(err).Msg("Failed to release scroll session")
		return
	}
	resp.Body.Close()

	scrollReleasesTotal.WithLabelValues("ok").Inc()
	f.logger.Debug().Msg("Scroll session released")
}
