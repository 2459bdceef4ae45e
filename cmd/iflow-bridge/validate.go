package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/a88883284/iflow-sdk-bridge/pkg/cli"
	"github.com/a88883284/iflow-sdk-bridge/pkg/config"
)

var validateFlags struct {
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate a configuration file without starting the server.

The validate command loads the configuration, applies environment
overrides and defaults, and reports every invalid field it finds.

Examples:
  # Validate the default config file
  iflow-bridge validate

  # Validate a specific file
  iflow-bridge validate --config /etc/iflow-bridge/config.yaml

  # Machine-readable report
  iflow-bridge validate --format json`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
}

// validationReport is the structured result of a validate run.
type validationReport struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

func validateConfig(cmd *cobra.Command, args []string) error {
	report := validationReport{File: cfgFile, Valid: true}

	_, err := config.LoadWithEnvOverrides(cfgFile)
	if err != nil {
		report.Valid = false
		var verr config.ValidationError
		if errors.As(err, &verr) {
			for _, fe := range verr.Errors {
				report.Errors = append(report.Errors, fe.Error())
			}
		} else {
			report.Errors = append(report.Errors, err.Error())
		}
	}

	format, ferr := cli.ParseFormat(validateFlags.format)
	if ferr != nil {
		return ferr
	}
	if format == cli.FormatJSON {
		if werr := cli.NewFormatter(format).FormatTo(os.Stdout, report); werr != nil {
			return cli.NewCommandError("validate", werr)
		}
	} else {
		if report.Valid {
			fmt.Printf("✓ %s is valid\n", cfgFile)
		} else {
			fmt.Printf("✗ %s has %d problem(s):\n", cfgFile, len(report.Errors))
			for _, msg := range report.Errors {
				fmt.Printf("  - %s\n", msg)
			}
		}
	}

	if !report.Valid {
		return cli.NewConfigError("", fmt.Sprintf("%d validation error(s)", len(report.Errors)))
	}
	return nil
}
