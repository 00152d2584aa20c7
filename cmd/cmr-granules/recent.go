package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nicholas-kotlinski/cmr-granule-client/pkg/query"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List granules created or revised within a recent window",
	Long: `Recent checks a collection for granules first indexed (--created-since) or
revised (--revised-since) within the given lookback window, for keeping a
local archive in sync with CMR.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		shortName, _ := cmd.Flags().GetString("short-name")
		if shortName == "" {
			return fmt.Errorf("--short-name is required")
		}

		createdSince, _ := cmd.Flags().GetDuration("created-since")
		revisedSince, _ := cmd.Flags().GetDuration("revised-since")
		if (createdSince > 0) == (revisedSince > 0) {
			return fmt.Errorf("exactly one of --created-since or --revised-since is required")
		}

		params := query.New(shortName)
		if version, _ := cmd.Flags().GetString("version"); version != "" {
			params = params.WithVersion(version)
		}

		if createdSince > 0 {
			params = params.WithCreatedSince(time.Now().Add(-createdSince))
		} else {
			params = params.WithRevisedSince(time.Now().Add(-revisedSince))
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		return runFetch(cmd, params, asJSON)
	},
}

func init() {
	recentCmd.Flags().String("short-name", "", "collection short name (e.g. ATL08)")
	recentCmd.Flags().String("version", "", "collection version (e.g. 006)")
	recentCmd.Flags().Duration("created-since", 0, "lookback window for newly created granules (e.g. 168h)")
	recentCmd.Flags().Duration("revised-since", 0, "lookback window for revised granules (e.g. 168h)")
	recentCmd.Flags().Bool("json", false, "output granule records as JSON")

	rootCmd.AddCommand(recentCmd)
}
