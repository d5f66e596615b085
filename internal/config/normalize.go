package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeTrakt()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExport()
	return c.normalizeLogging()
}

func (c *Config) normalizeTrakt() {
	c.Trakt.ClientID = strings.TrimSpace(c.Trakt.ClientID)
	if c.Trakt.ClientID == "" {
		if value, ok := os.LookupEnv("TRAKT_CLIENT_ID"); ok {
			c.Trakt.ClientID = strings.TrimSpace(value)
		}
	}
	c.Trakt.ClientSecret = strings.TrimSpace(c.Trakt.ClientSecret)
	if c.Trakt.ClientSecret == "" {
		if value, ok := os.LookupEnv("TRAKT_CLIENT_SECRET"); ok {
			c.Trakt.ClientSecret = strings.TrimSpace(value)
		}
	}
	c.Trakt.BaseURL = strings.TrimRight(strings.TrimSpace(c.Trakt.BaseURL), "/")
	if c.Trakt.BaseURL == "" {
		c.Trakt.BaseURL = defaultTraktBaseURL
	}
	c.Trakt.APIVersion = strings.TrimSpace(c.Trakt.APIVersion)
	if c.Trakt.APIVersion == "" {
		c.Trakt.APIVersion = defaultAPIVersion
	}
	c.Trakt.RedirectURI = strings.TrimSpace(c.Trakt.RedirectURI)
	if c.Trakt.RedirectURI == "" {
		c.Trakt.RedirectURI = defaultRedirectURI
	}
	if c.Trakt.PageSize == 0 {
		c.Trakt.PageSize = defaultPageSize
	}
	if c.Trakt.RequestTimeout == 0 {
		c.Trakt.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeExport() {
	lists := make([]string, 0, len(c.Export.Lists))
	seen := make(map[string]struct{}, len(c.Export.Lists))
	for _, name := range c.Export.Lists {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		lists = append(lists, normalized)
	}
	c.Export.Lists = lists
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	paths := make([]string, 0, len(c.Logging.OutputPaths))
	seen := make(map[string]struct{}, len(c.Logging.OutputPaths))
	for _, raw := range c.Logging.OutputPaths {
		value := strings.TrimSpace(raw)
		switch strings.ToLower(value) {
		case "":
			continue
		case logOutputStderr, logOutputStdout:
			value = strings.ToLower(value)
		default:
			expanded, err := expandPath(value)
			if err != nil {
				return fmt.Errorf("logging.output_paths: %w", err)
			}
			value = expanded
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		paths = append(paths, value)
	}
	if len(paths) == 0 {
		paths = []string{logOutputStderr}
	}
	c.Logging.OutputPaths = paths
	return nil
}
