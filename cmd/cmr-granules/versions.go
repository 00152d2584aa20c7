package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nicholas-kotlinski/cmr-granule-client/pkg/collections"
)

var versionsCmd = &cobra.Command{
	Use:   "versions <short-name>",
	Short: "List the published versions of a collection",
	Long: `Versions lists every version id registered in CMR under a collection short
name (e.g. ATL06) and reports the latest one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		shortName := args[0]
		lookup := collections.NewLookup(cmrClient)

		versions, err := lookup.Versions(cmd.Context(), shortName)
		if err != nil {
			return err
		}

		fmt.Printf("%s versions: %s\n", shortName, strings.Join(versions, ", "))
		fmt.Printf("latest: %s\n", collections.Latest(versions))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionsCmd)
}
