package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	TransportTelnet    = "telnet"
	TransportWebSocket = "websocket"
)

type AppConfig struct {
	Transport  string `yaml:"transport"`
	ServerAddr string `yaml:"server_addr"`
	BridgeURL  string `yaml:"bridge_url"`

	Handle   string `yaml:"handle"`
	Password string `yaml:"password"`

	HTTPAddr string `yaml:"http_addr"`

	RedisURL    string `yaml:"redis_url"`
	DatabaseURL string `yaml:"database_url"`

	ArchiveTTLSec   int `yaml:"archive_ttl_sec"`
	PingIntervalSec int `yaml:"ping_interval_sec"`

	PingToken     string `yaml:"ping_token"`
	ClientVersion int    `yaml:"client_version"`
	ProbeHandle   string `yaml:"probe_handle"`
	ProbePlatform string `yaml:"probe_platform"`
	ProbeIndex    int    `yaml:"probe_index"`
}

// ArchiveTTL is the Redis retention of finished games.
func (c *AppConfig) ArchiveTTL() time.Duration {
	return time.Duration(c.ArchiveTTLSec) * time.Second
}

func (c *AppConfig) PingInterval() time.Duration {
	return time.Duration(c.PingIntervalSec) * time.Second
}

func defaults() *AppConfig {
	return &AppConfig{
		Transport:       TransportTelnet,
		ServerAddr:      "freechess.org:5000",
		Handle:          "guest",
		HTTPAddr:        ":8080",
		ArchiveTTLSec:   86400,
		PingIntervalSec: 60,
		PingToken:       "__cheese_pong",
		ProbePlatform:   "go",
		ProbeIndex:      2,
	}
}

// Load builds the configuration. FICS_CONFIG_FILE, when set, names a YAML
// file applied over the defaults; environment variables win over both.
func Load() (*AppConfig, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("FICS_CONFIG_FILE")); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	setString(&cfg.Transport, "FICS_TRANSPORT")
	setString(&cfg.ServerAddr, "FICS_SERVER_ADDR")
	setString(&cfg.BridgeURL, "FICS_BRIDGE_URL")
	setString(&cfg.Handle, "FICS_HANDLE")
	setString(&cfg.Password, "FICS_PASSWORD")
	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.PingToken, "FICS_PING_TOKEN")
	setString(&cfg.ProbeHandle, "FICS_PROBE_HANDLE")
	setString(&cfg.ProbePlatform, "FICS_PROBE_PLATFORM")
	setInt(&cfg.ArchiveTTLSec, "ARCHIVE_TTL")
	setInt(&cfg.PingIntervalSec, "FICS_PING_INTERVAL")
	setInt(&cfg.ClientVersion, "FICS_CLIENT_VERSION")
	setInt(&cfg.ProbeIndex, "FICS_PROBE_INDEX")

	cfg.Transport = strings.ToLower(cfg.Transport)
	switch cfg.Transport {
	case TransportTelnet:
		if cfg.ServerAddr == "" {
			return nil, errors.New("FICS_SERVER_ADDR is required")
		}
	case TransportWebSocket:
		if cfg.BridgeURL == "" {
			return nil, errors.New("FICS_BRIDGE_URL is required")
		}
	default:
		return nil, fmt.Errorf("unknown FICS_TRANSPORT %q", cfg.Transport)
	}
	if cfg.Handle == "" {
		return nil, errors.New("FICS_HANDLE is required")
	}

	return cfg, nil
}

func loadFile(cfg *AppConfig, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// setInt ignores values that are not positive integers.
func setInt(dst *int, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}
