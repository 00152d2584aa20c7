// Package collections looks up CMR collection metadata for a product
// short name, including the set of published versions.
package collections

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/nicholas-kotlinski/cmr-granule-client/pkg/client"
	"github.com/nicholas-kotlinski/cmr-granule-client/pkg/logging"
)

const collectionPath = "/collections.json"

var (
	// ErrNoCollections indicates that no collection is registered under the
	// requested short name.
	ErrNoCollections = errors.New("no collections found")

	// ErrMalformedResponse indicates a response body that is not a CMR
	// collection feed.
	ErrMalformedResponse = errors.New("malformed collection response")
)

// Collection is one collection metadata record.
type Collection struct {
	ID         string `json:"id"`
	ShortName  string `json:"short_name"`
	VersionID  string `json:"version_id"`
	Title      string `json:"title"`
	DataCenter string `json:"data_center"`
}

// Lookup queries CMR collection metadata.
type Lookup struct {
	client *client.Client
	logger zerolog.Logger
}

// NewLookup creates a new collection lookup.
func NewLookup(c *client.Client) *Lookup {
	return &Lookup{
		client: c,
		logger: logging.NewLogger("collections"),
	}
}

// Search returns every collection registered under shortName.
func (l *Lookup) Search(ctx context.Context, shortName string) ([]Collection, error) {
	values := url.Values{}
	values.Set("short_name", shortName)
	values.Set("page_size", "100")

	resp, err := l.client.Get(ctx, collectionPath, values, nil)
	if err != nil {
		return nil, fmt.Errorf("search collections: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Feed *struct {
			Entry []Collection `json:"entry"`
		} `json:"feed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if body.Feed == nil {
		return nil, fmt.Errorf("%w: missing feed element", ErrMalformedResponse)
	}

	l.logger.Debug().
		Str("short_name", shortName).
		Int("collections", len(body.Feed.Entry)).
		Msg("Collection search complete")

	return body.Feed.Entry, nil
}

// Versions returns the version ids of every collection registered under
// shortName.
func (l *Lookup) Versions(ctx context.Context, shortName string) ([]string, error) {
	entries, err := l.Search(ctx, shortName)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w for short name %q", ErrNoCollections, shortName)
	}

	versions := make([]string, 0, len(entries))
	for _, entry := range entries {
		versions = append(versions, entry.VersionID)
	}
	return versions, nil
}

// LatestVersion returns the most recent version id for shortName.
func (l *Lookup) LatestVersion(ctx context.Context, shortName string) (string, error) {
	versions, err := l.Versions(ctx, shortName)
	if err != nil {
		return "", err
	}
	return Latest(versions), nil
}

// Latest selects the numerically greatest version id. Version ids that do
// not parse as integers are compared lexically as a fallback.
func Latest(versions []string) string {
	if len(versions) == 0 {
		return ""
	}

	latest := ""
	latestNum := -1
	for _, v := range versions {
		if n, err := strconv.Atoi(v); err == nil && n > latestNum {
			latestNum = n
			latest = v
		}
	}
	if latest != "" {
		return latest
	}

	latest = versions[0]
	for _, v := range versions[1:] {
		if v > latest {
			latest = v
		}
	}
	return latest
}
