package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"FICS_CONFIG_FILE", "FICS_TRANSPORT", "FICS_SERVER_ADDR", "FICS_BRIDGE_URL",
		"FICS_HANDLE", "FICS_PASSWORD", "HTTP_ADDR", "REDIS_URL", "DATABASE_URL",
		"FICS_PING_TOKEN", "FICS_PROBE_HANDLE", "FICS_PROBE_PLATFORM", "ARCHIVE_TTL",
		"FICS_PING_INTERVAL", "FICS_CLIENT_VERSION", "FICS_PROBE_INDEX",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Transport != TransportTelnet || cfg.ServerAddr != "freechess.org:5000" {
		t.Fatalf("unexpected transport defaults: %+v", cfg)
	}
	if cfg.ArchiveTTL() != 24*time.Hour {
		t.Fatalf("ArchiveTTL=%v", cfg.ArchiveTTL())
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "fics.yaml")
	body := "transport: websocket\nbridge_url: ws://bridge/fics\nhandle: filehandle\nprobe_index: 5\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FICS_CONFIG_FILE", path)
	t.Setenv("FICS_HANDLE", "envhandle")
	t.Setenv("FICS_PROBE_INDEX", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Transport != TransportWebSocket || cfg.BridgeURL != "ws://bridge/fics" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Handle != "envhandle" {
		t.Fatalf("env should win, got %q", cfg.Handle)
	}
	if cfg.ProbeIndex != 5 {
		t.Fatalf("bad int env should be ignored, got %d", cfg.ProbeIndex)
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	t.Setenv("FICS_TRANSPORT", "websocket")
	if _, err := Load(); err == nil {
		t.Fatal("websocket without bridge url should fail")
	}
	t.Setenv("FICS_TRANSPORT", "carrier-pigeon")
	if _, err := Load(); err == nil {
		t.Fatal("unknown transport should fail")
	}
	t.Setenv("FICS_TRANSPORT", "")
	t.Setenv("FICS_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("missing config file should fail")
	}
}
