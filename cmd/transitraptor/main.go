// Command transitraptor is the CLI front end for the earliest-arrival
// routing engine: one subcommand runs a single query and prints a
// journey, the other serves the HTTP query surface. Grounded on
// tidbyt-gtfs/cmd's cobra command tree (persistent input-source flags
// on the root command, one file per subcommand) and on
// original_source/lRaptor.py's argparse flag surface, translated to
// idiomatic cobra.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/antigravity/transit-raptor/internal/obs"
)

var (
	flagInputDir     string
	flagLoaderMode   string
	flagUseCache     bool
	flagFullNetwork  bool
	flagLogLevel     string
	flagLogFormat    string
)

const defaultCachePath = "transitraptor.cache.sqlite"

var rootCmd = &cobra.Command{
	Use:          "transitraptor",
	Short:        "Earliest-arrival public transit routing",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		obs.SetupLogging(flagLogLevel, flagLogFormat)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagFullNetwork {
			return runServe(cmd, args)
		}
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagInputDir, "input", "i", "", "input directory or zip of GTFS-shaped tables")
	rootCmd.PersistentFlags().StringVarP(&flagLoaderMode, "mode", "m", "csv", "loader mode: csv or postgres")
	rootCmd.PersistentFlags().BoolVarP(&flagUseCache, "cache", "c", false, "read/write the optimized-schedule cache")
	rootCmd.PersistentFlags().BoolVarP(&flagFullNetwork, "full-network", "f", false, "alias for the serve subcommand")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "json", "log format: json or text")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor matches spec.md §6: 0 on success (even if the
// destination is unreachable), non-zero on unknown stop-area or
// malformed input.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return 0
	default:
		return 1
	}
}
