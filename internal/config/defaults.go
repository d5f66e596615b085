package config

const (
	defaultConfigPath     = "~/.config/trakt2letterboxd/config.toml"
	projectConfigName     = "trakt2letterboxd.toml"
	tokenFileName         = "t_token"
	defaultTraktBaseURL   = "https://api.trakt.tv"
	defaultAPIVersion     = "2"
	defaultRedirectURI    = "urn:ietf:wg:oauth:2.0:oob"
	defaultPageSize       = 100
	maxPageSize           = 1000
	defaultRequestTimeout = 30
	defaultStateDir       = "./config"
	defaultOutputDir      = "."
	defaultRecentLimit    = 50
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	logOutputStderr       = "stderr"
	logOutputStdout       = "stdout"
)

// ListHistory and ListWatchlist are the Trakt sync lists that can be exported.
const (
	ListHistory   = "history"
	ListWatchlist = "watchlist"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Trakt: Trakt{
			BaseURL:        defaultTraktBaseURL,
			APIVersion:     defaultAPIVersion,
			RedirectURI:    defaultRedirectURI,
			PageSize:       defaultPageSize,
			RequestTimeout: defaultRequestTimeout,
		},
		Paths: Paths{
			StateDir:  defaultStateDir,
			OutputDir: defaultOutputDir,
		},
		Export: Export{
			Lists:          []string{ListHistory, ListWatchlist},
			RecentLimit:    defaultRecentLimit,
			IncludeReviews: true,
		},
		Logging: Logging{
			Format:      defaultLogFormat,
			Level:       defaultLogLevel,
			OutputPaths: []string{logOutputStderr},
		},
	}
}
