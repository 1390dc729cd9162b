// Package cli implements the cobra command surface of bindery.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/chaek-labs/bindery-cli/internal/core/ports/driven"
	"github.com/chaek-labs/bindery-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "0.3.0"

// Wired adapters, set by Execute. History may be nil.
var (
	config  driven.ConfigStore
	history driven.HistoryStore
)

var rootCmd = &cobra.Command{
	Use:   "bindery",
	Short: "Convert plain-text novels into EPUB books",
	Long: `bindery converts loosely-structured plain-text book files into styled
EPUB containers. It recovers the character encoding, detects chapter
boundaries heuristically, pairs each text with a companion cover image
and writes one EPUB per input file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")
}

// Dependencies carries the wired adapters the commands need.
type Dependencies struct {
	Config  driven.ConfigStore
	History driven.HistoryStore
}

// Execute wires the adapters and runs the root command.
func Execute(deps Dependencies) error {
	config = deps.Config
	history = deps.History
	return rootCmd.Execute()
}

// configString returns the flag value when set, then the config value,
// then the fallback.
func configString(cmd *cobra.Command, flag, key, fallback string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	if config != nil {
		if v := config.GetString(key); v != "" {
			return v
		}
	}
	return fallback
}

// configInt returns the flag value when set, then the config value, then
// the fallback.
func configInt(cmd *cobra.Command, flag, key string, fallback int) int {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetInt(flag)
		return v
	}
	if config != nil {
		if v := config.GetInt(key); v != 0 {
			return v
		}
	}
	return fallback
}

// configBool returns the flag value when set, then the config value.
func configBool(cmd *cobra.Command, flag, key string) bool {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetBool(flag)
		return v
	}
	if config != nil {
		return config.GetBool(key)
	}
	return false
}
