package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ainarsv/trove/internal/flagx"
	"github.com/ainarsv/trove/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	DataDir             string         `json:"data_dir"`
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	MirrorDir           string         `json:"mirror_dir"`
	MirrorS3Bucket      string         `json:"mirror_s3_bucket"`
	MirrorS3Prefix      string         `json:"mirror_s3_prefix"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JSONConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Fields left empty in the JSON keep their current (default) values, so a
// partial file only overrides what it names. Panics on read or unmarshal
// errors.
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.MirrorDir != "" {
		cfg.MirrorDir = jc.MirrorDir
	}
	if jc.MirrorS3Bucket != "" {
		cfg.MirrorS3Bucket = jc.MirrorS3Bucket
	}
	if jc.MirrorS3Prefix != "" {
		cfg.MirrorS3Prefix = jc.MirrorS3Prefix
	}
}
