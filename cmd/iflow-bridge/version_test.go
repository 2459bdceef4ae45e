package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/a88883284/iflow-sdk-bridge/pkg/cli"
)

func TestCurrentBuildCarriesStampedFields(t *testing.T) {
	info := currentBuild()

	if info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
	if info.GitCommit != GitCommit {
		t.Errorf("GitCommit = %q, want %q", info.GitCommit, GitCommit)
	}
	if info.GoVersion == "" || info.Platform == "" {
		t.Errorf("runtime fields empty: %+v", info)
	}
}

func TestPrintBuildText(t *testing.T) {
	buf := &bytes.Buffer{}
	info := buildInfo{
		Version:   "1.2.3",
		GitCommit: "abcdef0",
		BuildDate: "2026-08-26",
		GoVersion: "go1.24.0",
		Platform:  "linux/amd64",
	}

	if err := printBuild(buf, info, cli.FormatText); err != nil {
		t.Fatalf("printBuild() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "iflow-bridge 1.2.3") {
		t.Errorf("output missing version line: %q", out)
	}
	if !strings.Contains(out, "commit abcdef0") {
		t.Errorf("output missing commit: %q", out)
	}
}

func TestPrintBuildJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := printBuild(buf, currentBuild(), cli.FormatJSON); err != nil {
		t.Fatalf("printBuild() error: %v", err)
	}

	var got buildInfo
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if got.Version != Version {
		t.Errorf("version = %q, want %q", got.Version, Version)
	}
}

func TestRootCommandWiring(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"run", "validate", "version"} {
		if !names[want] {
			t.Errorf("root command missing subcommand %q", want)
		}
	}

	if rootCmd.PersistentFlags().Lookup("config") == nil {
		t.Error("root command missing --config flag")
	}
	if versionCmd.Flags().Lookup("format") == nil {
		t.Error("version command missing --format flag")
	}
}
