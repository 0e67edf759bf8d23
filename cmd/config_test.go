package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"railchat/internal/config"
)

func TestWriteDefaultConfig(t *testing.T) {
	t.Setenv("RAILCHAT_MODEL", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	var out bytes.Buffer

	if err := writeDefaultConfig(&out, path, false); err != nil {
		t.Fatalf("writeDefaultConfig: %v", err)
	}
	if !strings.Contains(out.String(), path) {
		t.Errorf("output %q does not mention %s", out.String(), path)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != config.DefaultModel {
		t.Errorf("Model = %q, want %q", cfg.Model, config.DefaultModel)
	}
}

func TestWriteDefaultConfig_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("model = \"mine\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := writeDefaultConfig(&bytes.Buffer{}, path, false); err == nil {
		t.Fatal("expected error for existing file")
	}
	data, _ := os.ReadFile(path)
	if string(data) != "model = \"mine\"\n" {
		t.Errorf("file was modified: %q", data)
	}

	if err := writeDefaultConfig(&bytes.Buffer{}, path, true); err != nil {
		t.Fatalf("forced write: %v", err)
	}
}
