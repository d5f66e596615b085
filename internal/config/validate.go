package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTrakt(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTrakt() error {
	if c.Trakt.ClientID == "" || c.Trakt.ClientSecret == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("trakt.client_id and trakt.client_secret are required. Set TRAKT_CLIENT_ID/TRAKT_CLIENT_SECRET or edit %s (create with 'trakt2letterboxd config init')", defaultPath)
	}
	parsed, err := url.Parse(c.Trakt.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("trakt.base_url %q is not an absolute URL", c.Trakt.BaseURL)
	}
	if c.Trakt.PageSize <= 0 || c.Trakt.PageSize > maxPageSize {
		return fmt.Errorf("trakt.page_size must be between 1 and %d", maxPageSize)
	}
	if c.Trakt.RequestTimeout <= 0 {
		return errors.New("trakt.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateExport() error {
	if len(c.Export.Lists) == 0 {
		return errors.New("export.lists must include at least one list")
	}
	for _, name := range c.Export.Lists {
		if !IsSupportedList(name) {
			return fmt.Errorf("export.lists: unsupported list %q (want %s or %s)", name, ListHistory, ListWatchlist)
		}
	}
	if c.Export.RecentLimit < 0 {
		return errors.New("export.recent_limit must be >= 0")
	}
	return nil
}

// IsSupportedList reports whether name is an exportable Trakt list.
func IsSupportedList(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ListHistory, ListWatchlist:
		return true
	default:
		return false
	}
}
