package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "iflow-bridge",
	Short: "HTTP gateway for the iFlow CLI backend",
	Long: `iflow-bridge exposes a local conversational CLI backend through
OpenAI- and Anthropic-compatible HTTP APIs.

It keeps a single backend session alive behind the HTTP surface and
provides:
  - OpenAI /v1/chat/completions (streaming and non-streaming)
  - Anthropic /v1/messages (streaming and non-streaming)
  - Request pacing under the backend's per-minute ceiling
  - Automatic session rotation before backend limits trip
  - Output sanitization of backend tool chatter`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
}
