// Package trakt talks to the Trakt API on behalf of the exporter.
//
// It owns the OAuth device-code flow, the cached credential file and its
// refresh, and the authenticated, paginated reads of ratings, comments and
// sync lists. The Client is immutable request configuration; the Session
// carries the credential in use and is passed by pointer into every
// authenticated call so no hidden state lives on the client.
//
// Callers decide what is fatal: every component returns errors (wrapping the
// sentinels in errors.go or a *StatusError) instead of exiting.
package trakt
