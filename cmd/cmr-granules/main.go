// Package main is the entry point for the cmr-granules CLI, a small command
// surface over the CMR granule search client.
package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nicholas-kotlinski/cmr-granule-client/pkg/client"
	"github.com/nicholas-kotlinski/cmr-granule-client/pkg/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// cmrClient is built once in the persistent pre-run and shared by all
// subcommands.
var cmrClient *client.Client

// rootCmd is the base command for the cmr-granules CLI.
var rootCmd = &cobra.Command{
	Use:   "cmr-granules",
	Short: "Query NASA CMR for ICESat-2 granule metadata",
	Long: `cmr-granules queries NASA's Common Metadata Repository (CMR) for ICESat-2
granule metadata: collection version lookup, newly created or revised
granules, full paginated granule searches, and reference ground track (RGT)
filtering via granule filename patterns.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(logging.Config{
			Level:  logging.LogLevel(viper.GetString("log-level")),
			Pretty: viper.GetBool("pretty"),
			Output: os.Stderr,
		})

		cfg := client.DefaultConfig(viper.GetString("client-id"))
		if endpoint := viper.GetString("endpoint"); endpoint != "" {
			cfg.Endpoint = endpoint
		}

		c, err := client.New(cfg)
		if err != nil {
			return err
		}
		cmrClient = c
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./cmr-granules.yaml or ~/.config/cmr-granules/config.yaml)")
	rootCmd.PersistentFlags().String("endpoint", client.DefaultEndpoint, "CMR search API root")
	rootCmd.PersistentFlags().String("client-id", "cmr-granule-client/0.1.0", "Client-Id header value identifying this application to CMR")
	rootCmd.PersistentFlags().Int("page-size", 100, "granules per scroll page (CMR caps this at 2000)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("pretty", false, "human-readable console logs instead of JSON")

	for _, flag := range []string{"endpoint", "client-id", "page-size", "log-level", "pretty"} {
		viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("cmr-granules")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "cmr-granules"))
		}
	}

	viper.SetEnvPrefix("CMR_GRANULES")
	viper.AutomaticEnv()

	viper.ReadInConfig()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
