package trakt

import (
	"context"
	"net/http"
	"time"
)

// DeviceCode is the grant issued at the start of the device flow.
type DeviceCode struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURL string `json:"verification_url"`
	Interval        int    `json:"interval"`
	ExpiresIn       int    `json:"expires_in"`
}

// PollInterval returns the wait between token polls, defaulting to five seconds.
func (d DeviceCode) PollInterval() time.Duration {
	if d.Interval <= 0 {
		return 5 * time.Second
	}
	return time.Duration(d.Interval) * time.Second
}

// Lifetime returns how long the device code stays redeemable.
func (d DeviceCode) Lifetime() time.Duration {
	return time.Duration(d.ExpiresIn) * time.Second
}

// RequestDeviceCode asks Trakt to issue a new device code.
func (c *Client) RequestDeviceCode(ctx context.Context) (DeviceCode, error) {
	var code DeviceCode
	_, err := c.do(ctx, apiRequest{
		method: http.MethodPost,
		path:   "/oauth/device/code",
		body:   map[string]string{"client_id": c.cfg.ClientID},
	}, &code)
	if err != nil {
		return DeviceCode{}, err
	}
	return code, nil
}

// pollDeviceToken attempts to exchange a device code for tokens. A 400 answer
// means the user has not approved the code yet.
func (c *Client) pollDeviceToken(ctx context.Context, deviceCode string) (tokenResponse, error) {
	var token tokenResponse
	_, err := c.do(ctx, apiRequest{
		method: http.MethodPost,
		path:   "/oauth/device/token",
		body: map[string]string{
			"code":          deviceCode,
			"client_id":     c.cfg.ClientID,
			"client_secret": c.cfg.ClientSecret,
		},
	}, &token)
	return token, err
}

// exchangeRefreshToken trades a refresh token for a new token pair.
func (c *Client) exchangeRefreshToken(ctx context.Context, refreshToken string) (tokenResponse, error) {
	var token tokenResponse
	_, err := c.do(ctx, apiRequest{
		method: http.MethodPost,
		path:   "/oauth/token",
		body: map[string]string{
			"refresh_token": refreshToken,
			"client_id":     c.cfg.ClientID,
			"client_secret": c.cfg.ClientSecret,
			"redirect_uri":  c.cfg.RedirectURI,
			"grant_type":    "refresh_token",
		},
	}, &token)
	return token, err
}

// CheckToken issues one lightweight authorized call.
func (c *Client) CheckToken(ctx context.Context, accessToken string) error {
	_, err := c.do(ctx, apiRequest{
		method: http.MethodGet,
		path:   "/users/settings",
		token:  accessToken,
	}, nil)
	return err
}

// getPage fetches one page of path into out and returns the reported page count.
func (c *Client) getPage(ctx context.Context, sess *Session, path string, page int, out any) (int, error) {
	header, err := c.do(ctx, apiRequest{
		method: http.MethodGet,
		path:   path,
		query:  pageQuery(page, c.cfg.PageSize),
		token:  sess.accessToken(),
	}, out)
	if err != nil {
		return 0, err
	}
	return pageCount(header), nil
}
