// Package query builds CMR search parameters.
//
// Params is an immutable builder: every With method returns a new value and
// never mutates its receiver, so a constructed query can be shared safely and
// a fetch always sees a stable parameter set.
package query

import (
	"net/url"
	"strconv"
	"time"
)

// Params is a set of CMR search filter parameters.
type Params struct {
	values url.Values
}

// New creates search parameters for an exact collection short name.
func New(shortName string) Params {
	values := url.Values{}
	values.Set("short_name", shortName)
	return Params{values: values}
}

// NewPattern creates search parameters matching a short-name glob pattern
// (e.g. "ATL0*"). CMR requires the pattern option flag alongside the value.
func NewPattern(shortNamePattern string) Params {
	values := url.Values{}
	values.Set("short_name", shortNamePattern)
	values.Set("options[short_name][pattern]", "true")
	return Params{values: values}
}

// WithVersion filters by collection version (e.g. "006").
func (p Params) WithVersion(version string) Params {
	q := p.clone()
	q.values.Set("version", version)
	return q
}

// WithProvider filters by data provider (e.g. "NSIDC_ECS").
func (p Params) WithProvider(provider string) Params {
	q := p.clone()
	q.values.Set("provider", provider)
	return q
}

// WithBoundingBox filters spatially by a west,south,east,north box in degrees.
func (p Params) WithBoundingBox(west, south, east, north float64) Params {
	q := p.clone()
	q.values.Set("bounding_box", formatFloat(west)+","+formatFloat(south)+","+
		formatFloat(east)+","+formatFloat(north))
	return q
}

// WithTemporal filters by granule acquisition time range.
func (p Params) WithTemporal(start, end time.Time) Params {
	q := p.clone()
	q.values.Set("temporal", formatTime(start)+","+formatTime(end))
	return q
}

// WithCreatedSince filters to granules first indexed after t (open-ended
// range, hence the trailing comma).
func (p Params) WithCreatedSince(t time.Time) Params {
	q := p.clone()
	q.values.Set("created_at[]", formatTime(t)+",")
	return q
}

// WithRevisedSince filters to granules revised after t.
func (p Params) WithRevisedSince(t time.Time) Params {
	q := p.clone()
	q.values.Set("revision_date[]", formatTime(t)+",")
	return q
}

// WithRevisionDateRange filters to granules revised within [start, end].
func (p Params) WithRevisionDateRange(start, end time.Time) Params {
	q := p.clone()
	q.values.Set("revision_date[]", formatTime(start)+","+formatTime(end))
	return q
}

// WithGranuleNamePattern filters by a readable-granule-name glob. CMR
// requires the pattern option flag alongside the value.
func (p Params) WithGranuleNamePattern(pattern string) Params {
	q := p.clone()
	q.values.Set("readable_granule_name", pattern)
	q.values.Set("options[readable_granule_name][pattern]", "true")
	return q
}

// WithPageSize sets the number of results per page.
func (p Params) WithPageSize(n int) Params {
	q := p.clone()
	q.values.Set("page_size", strconv.Itoa(n))
	return q
}

// ShortName returns the short-name filter, or "" if unset.
func (p Params) ShortName() string {
	return p.values.Get("short_name")
}

// Values returns a copy of the underlying query parameters.
func (p Params) Values() url.Values {
	return p.clone().values
}

func (p Params) clone() Params {
	values := make(url.Values, len(p.values))
	for key, vs := range p.values {
		values[key] = append([]string(nil), vs...)
	}
	return Params{values: values}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}
