package trakt

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"trakt2letterboxd/internal/logging"
)

// State is a position in the device authorization lifecycle.
type State int

const (
	StateStart State = iota
	StateCodeRequested
	StateAwaitingUser
	StateAuthenticated
	StateExpired
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateCodeRequested:
		return "code_requested"
	case StateAwaitingUser:
		return "awaiting_user"
	case StateAuthenticated:
		return "authenticated"
	case StateExpired:
		return "expired"
	case StateDenied:
		return "denied"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Presenter shows device flow progress to the operator. Implementations must
// not block.
type Presenter interface {
	ShowDeviceCode(code DeviceCode)
	AwaitingAuthorization(attempt int)
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// DeviceFlowOption customises DeviceFlow construction.
type DeviceFlowOption func(*DeviceFlow)

// WithClock overrides the wall clock used for the expiry deadline.
func WithClock(now func() time.Time) DeviceFlowOption {
	return func(f *DeviceFlow) {
		if now != nil {
			f.now = now
		}
	}
}

// WithSleeper overrides the wait between polls.
func WithSleeper(sleep Sleeper) DeviceFlowOption {
	return func(f *DeviceFlow) {
		if sleep != nil {
			f.sleep = sleep
		}
	}
}

// DeviceFlow runs the OAuth device-code grant once.
type DeviceFlow struct {
	client *Client
	store  TokenStore
	logger *slog.Logger
	now    func() time.Time
	sleep  Sleeper
	state  State
}

// NewDeviceFlow builds a DeviceFlow that persists the obtained credential to store.
func NewDeviceFlow(client *Client, store TokenStore, logger *slog.Logger, opts ...DeviceFlowOption) *DeviceFlow {
	flow := &DeviceFlow{
		client: client,
		store:  store,
		logger: logging.NewComponentLogger(logger, "device-auth"),
		now:    time.Now,
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(flow)
	}
	return flow
}

// State reports where the last Run stopped.
func (f *DeviceFlow) State() State {
	return f.state
}

// Run requests a device code, shows it through p and polls until the user
// approves it, Trakt refuses it, or the code expires. The credential is saved
// only on success. p may be nil.
func (f *DeviceFlow) Run(ctx context.Context, p Presenter) (Credential, error) {
	f.state = StateStart

	code, err := f.client.RequestDeviceCode(ctx)
	if err != nil {
		return Credential{}, fmt.Errorf("request device code: %w", err)
	}
	f.state = StateCodeRequested
	f.logger.Debug("device code issued",
		logging.Int("interval", code.Interval),
		logging.Int("expires_in", code.ExpiresIn),
	)

	if p != nil {
		p.ShowDeviceCode(code)
	}
	f.state = StateAwaitingUser

	deadline := f.now().Add(code.Lifetime())
	interval := code.PollInterval()

	for attempt := 1; ; attempt++ {
		if err := f.sleep(ctx, interval); err != nil {
			return Credential{}, err
		}

		token, err := f.client.pollDeviceToken(ctx, code.DeviceCode)
		if err == nil {
			return f.complete(token)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Credential{}, ctxErr
		}
		if StatusCode(err) != http.StatusBadRequest {
			f.state = StateDenied
			f.logger.Warn("device authorization refused",
				logging.Int(logging.FieldStatus, StatusCode(err)),
				logging.Error(err),
			)
			return Credential{}, fmt.Errorf("%w: %w", ErrAuthorizationDenied, err)
		}

		if p != nil {
			p.AwaitingAuthorization(attempt)
		}
		if f.now().After(deadline) {
			f.state = StateExpired
			f.logger.Warn("device code expired", logging.Int("attempts", attempt))
			return Credential{}, ErrDeviceCodeExpired
		}
	}
}

func (f *DeviceFlow) complete(token tokenResponse) (Credential, error) {
	if !token.complete() {
		f.state = StateDenied
		return Credential{}, fmt.Errorf("%w: token response missing access or refresh token", ErrAuthorizationDenied)
	}
	cred := token.credential(f.now())
	if err := f.store.Save(cred); err != nil {
		return Credential{}, err
	}
	f.state = StateAuthenticated
	f.logger.Info("device authorized")
	return cred, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
