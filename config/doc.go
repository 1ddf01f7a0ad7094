// Package config loads and validates pipeline configuration.
//
// It uses Viper to merge YAML config files, .env files, and environment
// variables into a Config struct. Environment variables override file
// values using underscore-separated paths (e.g., PIPELINE_BASE).
//
// # Usage
//
//	var cfg config.Config
//	err := config.LoadConfig("frontpage", &cfg)
//	cfg.ApplyDefaults()
//	err = cfg.Validate()
package config
