package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"trakt2letterboxd/internal/config"
	"trakt2letterboxd/internal/logging"
	"trakt2letterboxd/internal/trakt"
)

// commandOption customises the command tree, mostly for tests.
type commandOption func(*commandContext)

func withDeviceFlowOptions(opts ...trakt.DeviceFlowOption) commandOption {
	return func(c *commandContext) {
		c.flowOpts = append(c.flowOpts, opts...)
	}
}

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	flowOpts []trakt.DeviceFlowOption
}

func newCommandContext(configFlag, logLevelFlag *string, opts ...commandOption) *commandContext {
	ctx := &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// newLogger builds the run logger for the configured output paths, with
// "stderr" bound to the command's stderr. The --log-level flag overrides the
// configured level.
func (c *commandContext) newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	opts := logging.Options{
		Level:  "info",
		Format: "console",
		Writer: cmd.ErrOrStderr(),
	}
	if cfg != nil {
		opts.Level = cfg.Logging.Level
		opts.Format = cfg.Logging.Format
		opts.OutputPaths = cfg.Logging.OutputPaths
	}
	if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
		opts.Level = *c.logLevelFlag
	}
	logger, err := logging.New(opts)
	if err != nil {
		return nil, err
	}
	return logging.WithContext(cmd.Context(), logger), nil
}

// traktServices wires the client, credential store and authenticator for one command.
type traktServices struct {
	cfg    *config.Config
	logger *slog.Logger
	client *trakt.Client
	store  *trakt.FileTokenStore
	auth   *trakt.Authenticator
}

func (c *commandContext) services(cmd *cobra.Command) (*traktServices, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.newLogger(cmd, cfg)
	if err != nil {
		return nil, err
	}
	client, err := trakt.NewClientFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	store := trakt.NewFileTokenStore(cfg.TokenPath(), logger)
	auth := trakt.NewAuthenticator(client, store, logger, trakt.WithDeviceFlowOptions(c.flowOpts...))
	return &traktServices{
		cfg:    cfg,
		logger: logger,
		client: client,
		store:  store,
		auth:   auth,
	}, nil
}

// withCredentialLock runs fn while holding the lock next to the credential file.
func withCredentialLock(cfg *config.Config, fn func() error) error {
	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire credential lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another trakt2letterboxd run is using %s; wait for it to finish", cfg.TokenPath())
	}
	defer func() {
		_ = lock.Unlock()
	}()
	return fn()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
