package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the trove CLI.
//
// Fields:
//   - DataDir: directory holding the per-user vault databases.
//   - ServerEndpointAddr: host:port of the backend sync endpoint.
//   - OnlineCheckInterval: how often the client probes backend reachability.
//   - MirrorDir: local directory used by export/import; empty disables it.
//   - MirrorS3Bucket / MirrorS3Prefix: optional S3 destination for mirrors.
//
// Units: OnlineCheckInterval is a time.Duration (e.g., 3*time.Second).
type Config struct {
	DataDir             string
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	MirrorDir           string
	MirrorS3Bucket      string
	MirrorS3Prefix      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = defaultDataDir()
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.MirrorDir = ""
	c.MirrorS3Bucket = ""
	c.MirrorS3Prefix = "trove/"
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".trove"
	}
	return filepath.Join(base, "trove")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
