package trakt

import (
	"math"
	"strings"
	"time"
)

// Credential is one OAuth session: the access token in use and the refresh
// token that renews it. ExpiresAt is zero when Trakt did not report a lifetime.
type Credential struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Usable reports whether the credential carries an access token at all.
func (c Credential) Usable() bool {
	return strings.TrimSpace(c.AccessToken) != ""
}

// Expired reports whether ExpiresAt is known and not after now.
func (c Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Session carries the credential used for authenticated calls.
type Session struct {
	Credential Credential
}

// NewSession wraps cred in a Session.
func NewSession(cred Credential) *Session {
	return &Session{Credential: cred}
}

func (s *Session) accessToken() string {
	if s == nil {
		return ""
	}
	return s.Credential.AccessToken
}

// credentialFile is the on-disk shape. expires_at is Unix seconds, possibly fractional.
type credentialFile struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresAt    *float64 `json:"expires_at,omitempty"`
}

func (f credentialFile) credential() Credential {
	cred := Credential{
		AccessToken:  strings.TrimSpace(f.AccessToken),
		RefreshToken: strings.TrimSpace(f.RefreshToken),
	}
	if f.ExpiresAt != nil && *f.ExpiresAt > 0 {
		sec, frac := math.Modf(*f.ExpiresAt)
		cred.ExpiresAt = time.Unix(int64(sec), int64(frac*float64(time.Second)))
	}
	return cred
}

func newCredentialFile(cred Credential) credentialFile {
	file := credentialFile{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
	}
	if !cred.ExpiresAt.IsZero() {
		ts := float64(cred.ExpiresAt.Unix())
		file.ExpiresAt = &ts
	}
	return file
}

// tokenResponse is returned by both the device token and refresh endpoints.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	CreatedAt    int64  `json:"created_at"`
	Scope        string `json:"scope"`
}

func (t tokenResponse) credential(now time.Time) Credential {
	cred := Credential{
		AccessToken:  strings.TrimSpace(t.AccessToken),
		RefreshToken: strings.TrimSpace(t.RefreshToken),
	}
	if t.ExpiresIn > 0 {
		issued := now
		if t.CreatedAt > 0 {
			issued = time.Unix(t.CreatedAt, 0)
		}
		cred.ExpiresAt = issued.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return cred
}

func (t tokenResponse) complete() bool {
	return strings.TrimSpace(t.AccessToken) != "" && strings.TrimSpace(t.RefreshToken) != ""
}
