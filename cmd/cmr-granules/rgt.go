package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nicholas-kotlinski/cmr-granule-client/pkg/query"
)

var rgtCmd = &cobra.Command{
	Use:   "rgt",
	Short: "Search granules by reference ground track",
	Long: `Rgt searches a collection for granules from one ICESat-2 reference ground
track, optionally narrowed to a single cycle. CMR has no native RGT query
field, so the filter is expressed as a granule filename glob.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		shortName, _ := cmd.Flags().GetString("short-name")
		if shortName == "" {
			return fmt.Errorf("--short-name is required")
		}
		rgt, _ := cmd.Flags().GetInt("rgt")
		if rgt == 0 {
			return fmt.Errorf("--rgt is required")
		}
		cycle, _ := cmd.Flags().GetInt("cycle")

		params := query.New(shortName)
		if version, _ := cmd.Flags().GetString("version"); version != "" {
			params = params.WithVersion(version)
		}

		params, err := params.WithReferenceGroundTrack(rgt, cycle)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		return runFetch(cmd, params, asJSON)
	},
}

func init() {
	rgtCmd.Flags().String("short-name", "", "collection short name (e.g. ATL06)")
	rgtCmd.Flags().String("version", "", "collection version (e.g. 006)")
	rgtCmd.Flags().Int("rgt", 0, fmt.Sprintf("reference ground track (1-%d)", query.MaxRGT))
	rgtCmd.Flags().Int("cycle", 0, "orbit cycle (0 = any)")
	rgtCmd.Flags().Bool("json", false, "output granule records as JSON")

	rootCmd.AddCommand(rgtCmd)
}
