// Package granule defines the CMR granule search response model.
package granule

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrMalformedPage indicates a response body that is not a CMR granule page.
var ErrMalformedPage = errors.New("malformed granule page")

// Page is one decoded granule search response body.
type Page struct {
	Feed Feed `json:"feed"`
}

// Feed is the Atom-JSON feed element wrapping the granule entries.
type Feed struct {
	Title string    `json:"title"`
	Entry []Granule `json:"entry"`
}

// Granule is one granule metadata record. Fields are consumed read-only;
// the schema is owned by CMR and not validated here.
type Granule struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	ProducerGranuleID string `json:"producer_granule_id"`
	DatasetID         string `json:"dataset_id"`
	GranuleSize       string `json:"granule_size"` // size in MB, string-typed by CMR
	TimeStart         string `json:"time_start"`
	TimeEnd           string `json:"time_end"`
	Updated           string `json:"updated"`
	Links             []Link `json:"links"`
}

// Link is one related resource reference on a granule.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// DecodePage decodes one CMR Atom-JSON granule response body.
// A body without a feed element is malformed.
func DecodePage(r io.Reader) (*Page, error) {
	var raw struct {
		Feed *Feed `json:"feed"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPage, err)
	}
	if raw.Feed == nil {
		return nil, fmt.Errorf("%w: missing feed element", ErrMalformedPage)
	}
	return &Page{Feed: *raw.Feed}, nil
}

// SizeMB parses the granule's string-typed size into megabytes.
func (g Granule) SizeMB() (float64, error) {
	size, err := strconv.ParseFloat(g.GranuleSize, 64)
	if err != nil {
		return 0, fmt.Errorf("parse granule_size %q: %w", g.GranuleSize, err)
	}
	return size, nil
}

// TotalSizeMB sums the sizes of all granules in megabytes. Granules without
// a parsable size are skipped.
func TotalSizeMB(granules []Granule) float64 {
	var total float64
	for _, g := range granules {
		if size, err := g.SizeMB(); err == nil {
			total += size
		}
	}
	return total
}

// Bounds returns the first and last granules of a result sequence.
// ok is false for an empty sequence.
func Bounds(granules []Granule) (first, last Granule, ok bool) {
	if len(granules) == 0 {
		return Granule{}, Granule{}, false
	}
	return granules[0], granules[len(granules)-1], true
}
