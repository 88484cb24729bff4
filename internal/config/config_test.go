package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.URLsFile != "urls.txt" {
		t.Errorf("URLsFile = %q; want urls.txt", cfg.URLsFile)
	}
	if cfg.HTTP.Timeout != 60*time.Second || cfg.HTTP.ConnectTimeout != 10*time.Second {
		t.Errorf("timeouts = %s/%s; want 1m0s/10s", cfg.HTTP.Timeout, cfg.HTTP.ConnectTimeout)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.PublishersFile != "" {
		t.Errorf("PublishersFile = %q; want empty", cfg.PublishersFile)
	}
	if cfg.PublishTimeout != 10*time.Second {
		t.Errorf("PublishTimeout = %s; want 10s", cfg.PublishTimeout)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "harvester.yaml")
	yaml := "urls_file: from-file.txt\nhttp:\n  timeout: 5s\n  user_agent: file-agent\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("HARVESTER_HTTP_TIMEOUT", "7s")
	t.Setenv("HARVESTER_PUBLISH_TIMEOUT", "3s")

	cfg, err := Load([]string{"--config", path, "--urls", "from-flag.txt"})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.URLsFile != "from-flag.txt" {
		t.Errorf("URLsFile = %q; flag should win", cfg.URLsFile)
	}
	if cfg.HTTP.Timeout != 7*time.Second {
		t.Errorf("Timeout = %s; env should win over file", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.UserAgent != "file-agent" {
		t.Errorf("UserAgent = %q; want file-agent", cfg.HTTP.UserAgent)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q; want debug", cfg.Log.Level)
	}
	if cfg.PublishTimeout != 3*time.Second {
		t.Errorf("PublishTimeout = %s; want 3s from env", cfg.PublishTimeout)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	if _, err := Load([]string{"--no-such-flag"}); err == nil {
		t.Error("expected error for unknown flag")
	}
	if _, err := Load([]string{"--timeout", "0s"}); err == nil {
		t.Error("expected error for zero timeout")
	}
	if _, err := Load([]string{"--publish-timeout", "0s"}); err == nil {
		t.Error("expected error for zero publish timeout")
	}
	if _, err := Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("expected error for missing config file")
	}
}
