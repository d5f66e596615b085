package trakt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trakt2letterboxd/internal/logging"
)

// AuthenticatorOption customises Authenticator construction.
type AuthenticatorOption func(*Authenticator)

// WithAuthClock overrides the clock used for expiry checks and new credentials.
func WithAuthClock(now func() time.Time) AuthenticatorOption {
	return func(a *Authenticator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithDeviceFlowOptions forwards options to the device flow run on an empty cache.
func WithDeviceFlowOptions(opts ...DeviceFlowOption) AuthenticatorOption {
	return func(a *Authenticator) {
		a.flowOpts = append(a.flowOpts, opts...)
	}
}

// Authenticator turns the credential cache into a usable Session, refreshing
// or re-running the device flow as needed.
type Authenticator struct {
	client   *Client
	store    TokenStore
	logger   *slog.Logger
	now      func() time.Time
	flowOpts []DeviceFlowOption
}

// NewAuthenticator builds an Authenticator over client and store.
func NewAuthenticator(client *Client, store TokenStore, logger *slog.Logger, opts ...AuthenticatorOption) *Authenticator {
	auth := &Authenticator{
		client: client,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(auth)
	}
	return auth
}

// Authenticate returns a Session for the cached credential, refreshing it
// when expired or rejected. An empty cache runs the device flow through p.
func (a *Authenticator) Authenticate(ctx context.Context, p Presenter) (*Session, error) {
	logger := a.log(ctx)

	cred, ok := a.store.Load()
	if !ok {
		logger.Info("no cached credential; starting device authorization")
		return a.runDeviceFlow(ctx, p)
	}

	switch {
	case cred.Expired(a.now()):
		logger.Info("cached credential expired; refreshing", logging.String("expires_at", cred.ExpiresAt.UTC().Format(time.RFC3339)))
	case a.IsValid(ctx, cred.AccessToken):
		logger.Debug("cached credential accepted")
		return NewSession(cred), nil
	default:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Info("cached credential rejected; refreshing")
	}

	refreshed, err := a.Refresh(ctx, cred.RefreshToken)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn("credential refresh failed", logging.Int(logging.FieldStatus, StatusCode(err)), logging.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrReauthenticate, err)
	}
	return NewSession(refreshed), nil
}

// Login discards any cached credential and runs the device flow.
func (a *Authenticator) Login(ctx context.Context, p Presenter) (*Session, error) {
	if err := a.store.Clear(); err != nil {
		return nil, err
	}
	return a.runDeviceFlow(ctx, p)
}

// Logout removes the cached credential.
func (a *Authenticator) Logout() error {
	return a.store.Clear()
}

// IsValid reports whether Trakt accepts accessToken. Any failure counts as invalid.
func (a *Authenticator) IsValid(ctx context.Context, accessToken string) bool {
	if strings.TrimSpace(accessToken) == "" {
		return false
	}
	if err := a.client.CheckToken(ctx, accessToken); err != nil {
		a.log(ctx).Debug("access token check failed", logging.Int(logging.FieldStatus, StatusCode(err)), logging.Error(err))
		return false
	}
	return true
}

// Refresh exchanges refreshToken for a new pair and caches it. On failure the
// cache is left untouched.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (Credential, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return Credential{}, fmt.Errorf("%w: no refresh token cached", ErrRefreshFailed)
	}
	token, err := a.client.exchangeRefreshToken(ctx, refreshToken)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	if !token.complete() {
		return Credential{}, fmt.Errorf("%w: token response missing access or refresh token", ErrRefreshFailed)
	}
	cred := token.credential(a.now())
	if err := a.store.Save(cred); err != nil {
		return Credential{}, err
	}
	a.log(ctx).Info("access token refreshed")
	return cred, nil
}

// Status describes the cached credential without contacting Trakt unless check is set.
type Status struct {
	Cached    bool
	Expired   bool
	Checked   bool
	Valid     bool
	ExpiresAt time.Time
}

// Status inspects the cache and, when check is true, asks Trakt whether the token is accepted.
func (a *Authenticator) Status(ctx context.Context, check bool) Status {
	cred, ok := a.store.Load()
	if !ok {
		return Status{}
	}
	status := Status{
		Cached:    true,
		Expired:   cred.Expired(a.now()),
		ExpiresAt: cred.ExpiresAt,
	}
	if check {
		status.Checked = true
		status.Valid = a.IsValid(ctx, cred.AccessToken)
	}
	return status
}

func (a *Authenticator) runDeviceFlow(ctx context.Context, p Presenter) (*Session, error) {
	opts := append([]DeviceFlowOption{WithClock(a.now)}, a.flowOpts...)
	flow := NewDeviceFlow(a.client, a.store, logging.WithContext(ctx, a.logger), opts...)
	cred, err := flow.Run(ctx, p)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("device authorization (%s): %w", flow.State(), err)
	}
	return NewSession(cred), nil
}

func (a *Authenticator) log(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, logging.NewComponentLogger(a.logger, "auth"))
}
