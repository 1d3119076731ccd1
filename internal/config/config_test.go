package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ResolveTimeout != 10*time.Second {
		t.Errorf("resolve_timeout = %s, want 10s", cfg.ResolveTimeout)
	}
	if cfg.ProbeTimeout != 30*time.Second {
		t.Errorf("probe_timeout = %s, want 30s", cfg.ProbeTimeout)
	}
	if cfg.SampleCount != 10 {
		t.Errorf("sample_count = %d, want 10", cfg.SampleCount)
	}
	if cfg.Output != "pretty" {
		t.Errorf("output = %q, want pretty", cfg.Output)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "netcheck.yaml")
	data := "sample_count: 5\nresolver: 9.9.9.9\noutput: json\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SampleCount != 5 {
		t.Errorf("sample_count = %d, want 5", cfg.SampleCount)
	}
	if cfg.Resolver != "9.9.9.9" {
		t.Errorf("resolver = %q, want 9.9.9.9", cfg.Resolver)
	}
	if cfg.Output != "json" {
		t.Errorf("output = %q, want json", cfg.Output)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "netcheck.yaml")
	if err := os.WriteFile(path, []byte("sample_count: 0\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for sample_count: 0")
	}

	if err := os.WriteFile(path, []byte("output: xml\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for output: xml")
	}
}
