package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestValidateConfigValid(t *testing.T) {
	orig := cfgFile
	defer func() { cfgFile = orig }()

	cfgFile = writeTempConfig(t, "server:\n  listen_address: \"127.0.0.1:9000\"\n")

	if err := validateConfig(validateCmd, nil); err != nil {
		t.Errorf("validateConfig() error = %v for valid file", err)
	}
}

func TestValidateConfigInvalid(t *testing.T) {
	orig := cfgFile
	defer func() { cfgFile = orig }()

	cfgFile = writeTempConfig(t, "pacing:\n  window: -5s\n")

	if err := validateConfig(validateCmd, nil); err == nil {
		t.Error("validateConfig() expected error for invalid file")
	}
}
