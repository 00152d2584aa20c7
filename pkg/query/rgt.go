package query

import (
	"fmt"
)

// MaxRGT is the number of reference ground tracks in one ICESat-2 orbit
// repeat cycle.
const MaxRGT = 1387

// GranuleNamePattern builds a readable-granule-name glob that selects one
// reference ground track, optionally narrowed to a single cycle. CMR has no
// native RGT query field; ICESat-2 encodes it positionally in the producer
// granule filename (<short>_yyyymmddhhmmss_ttttccss_vvv_rr.h5, where tttt is
// the RGT and cc the cycle). A cycle <= 0 matches any cycle.
func GranuleNamePattern(shortName string, rgt, cycle int) (string, error) {
	if shortName == "" {
		return "", fmt.Errorf("short name is required")
	}
	if rgt < 1 || rgt > MaxRGT {
		return "", fmt.Errorf("rgt must be in range 1-%d (got %d)", MaxRGT, rgt)
	}

	cyclePart := "??"
	if cycle > 0 {
		if cycle > 99 {
			return "", fmt.Errorf("cycle must be <= 99 (got %d)", cycle)
		}
		cyclePart = fmt.Sprintf("%02d", cycle)
	}

	return fmt.Sprintf("%s_??????????????_%04d%s??_*", shortName, rgt, cyclePart), nil
}

// WithReferenceGroundTrack filters to granules from one RGT (and optionally
// one cycle) using a filename glob built from the short-name filter.
func (p Params) WithReferenceGroundTrack(rgt, cycle int) (Params, error) {
	pattern, err := GranuleNamePattern(p.ShortName(), rgt, cycle)
	if err != nil {
		return Params{}, err
	}
	return p.WithGranuleNamePattern(pattern), nil
}
