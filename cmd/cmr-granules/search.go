package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nicholas-kotlinski/cmr-granule-client/pkg/granule"
	"github.com/nicholas-kotlinski/cmr-granule-client/pkg/query"
	"github.com/nicholas-kotlinski/cmr-granule-client/pkg/scroll"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search granules for a collection",
	Long: `Search retrieves the complete set of granule metadata records matching the
given filters, paging through CMR's scroll protocol until the server-reported
hit count is reached.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		shortName, _ := cmd.Flags().GetString("short-name")
		if shortName == "" {
			return fmt.Errorf("--short-name is required")
		}

		params := query.New(shortName)

		if version, _ := cmd.Flags().GetString("version"); version != "" {
			params = params.WithVersion(version)
		}
		if provider, _ := cmd.Flags().GetString("provider"); provider != "" {
			params = params.WithProvider(provider)
		}

		if bbox, _ := cmd.Flags().GetString("bbox"); bbox != "" {
			west, south, east, north, err := parseBBox(bbox)
			if err != nil {
				return err
			}
			params = params.WithBoundingBox(west, south, east, north)
		}

		startStr, _ := cmd.Flags().GetString("start")
		endStr, _ := cmd.Flags().GetString("end")
		if startStr != "" || endStr != "" {
			if startStr == "" || endStr == "" {
				return fmt.Errorf("--start and --end must be given together")
			}
			start, err := parseTime(startStr)
			if err != nil {
				return err
			}
			end, err := parseTime(endStr)
			if err != nil {
				return err
			}
			params = params.WithTemporal(start, end)
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		return runFetch(cmd, params, asJSON)
	},
}

func init() {
	searchCmd.Flags().String("short-name", "", "collection short name (e.g. ATL06)")
	searchCmd.Flags().String("version", "", "collection version (e.g. 006)")
	searchCmd.Flags().String("provider", "", "data provider (e.g. NSIDC_ECS)")
	searchCmd.Flags().String("bbox", "", "bounding box as west,south,east,north degrees")
	searchCmd.Flags().String("start", "", "temporal range start (RFC3339 or YYYY-MM-DD)")
	searchCmd.Flags().String("end", "", "temporal range end (RFC3339 or YYYY-MM-DD)")
	searchCmd.Flags().Bool("json", false, "output granule records as JSON")

	rootCmd.AddCommand(searchCmd)
}

// runFetch executes a scroll fetch for params and prints the result.
func runFetch(cmd *cobra.Command, params query.Params, asJSON bool) error {
	fetcher := scroll.NewFetcher(cmrClient, scroll.Config{
		PageSize: viper.GetInt("page-size"),
	})

	granules, err := fetcher.FetchAll(cmd.Context(), params)
	if err != nil {
		return err
	}

	return printGranules(granules, asJSON)
}

// printGranules writes a result summary (or the full record set as JSON).
func printGranules(granules []granule.Granule, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(granules)
	}

	fmt.Printf("Found %d granules (%.1f MB total)\n", len(granules), granule.TotalSizeMB(granules))
	if first, last, ok := granule.Bounds(granules); ok {
		fmt.Printf("first: %s\n", first.ProducerGranuleID)
		fmt.Printf("last:  %s\n", last.ProducerGranuleID)
	}
	return nil
}

// parseBBox parses a west,south,east,north degree quadruple.
func parseBBox(s string) (west, south, east, north float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("bbox must have 4 comma-separated values (got %d)", len(parts))
	}

	coords := make([]float64, 4)
	for i, part := range parts {
		coords[i], err = strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return 0, 0, 0, 0, fmt.Errorf("parse bbox coordinate %q: %w", part, err)
		}
	}

	return coords[0], coords[1], coords[2], coords[3], nil
}

// parseTime accepts RFC3339 timestamps or bare dates.
func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse time %q: want RFC3339 or YYYY-MM-DD", s)
}
