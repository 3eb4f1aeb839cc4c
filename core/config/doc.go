// Package config provides configuration management for netsync.
//
// Settings come from environment variables, optionally seeded from a .env file.
// Every key is registered with the default taken from the struct tags, so an
// environment variable such as SYNC_LOCATION overrides sync.location.
//
// # Configuration Structure
//
//   - Server: HTTP listen port, API key, metrics path and response timeout
//   - Database: inventory database driver and connection details
//   - Storage: S3/MinIO credentials and the bucket holding facts and reports
//   - Log: logging level and format
//   - Sync: run defaults (location, statuses, toggles, worker count, prefixes)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.Location)
package config
