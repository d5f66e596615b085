// Package config loads, normalizes, and validates trakt2letterboxd configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TRAKT_CLIENT_ID and TRAKT_CLIENT_SECRET, optionally sourced from a .env file
// in the working directory.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, a canonical log format, and clear validation errors.
package config
