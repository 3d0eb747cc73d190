// Package config loads runtime configuration for the trove CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend sync endpoint
//	-d string   data directory for the vault databases
//	-i int      online status check interval (seconds)
//	-m string   local mirror directory for export/import
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "data_dir": "/home/me/.config/trove",
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "mirror_dir": "/home/me/trove-mirror",
//	  "mirror_s3_bucket": "my-trove-backups",
//	  "mirror_s3_prefix": "trove/"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
