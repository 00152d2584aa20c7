// Package scroll implements sequential scroll-session pagination for CMR
// granule search.
//
// CMR issues a scroll id via the CMR-Scroll-Id response header on the first
// search of a session and reports the total matching granule count via
// CMR-Hits. Subsequent requests carry the scroll id back as a request header
// and return the next page. One scroll id supports exactly one sequential
// reader; pages must never be fetched concurrently against the same id.
//
// Example usage:
//
//	fetcher := scroll.NewFetcher(cmrClient, scroll.DefaultConfig())
//	granules, err := fetcher.FetchAll(ctx, query.New("ATL06").WithVersion("006"))
//
// The fetcher:
//   - establishes the session on the first request (scroll=true)
//   - accumulates pages until the running count reaches CMR-Hits
//   - fails with ErrPaginationStalled if a page stops adding granules early
//   - releases the session via POST /clear-scroll on every exit path
package scroll
