// Package credstore defines the persistent credential collaborator: opaque
// access/refresh token storage that survives process restarts, plus the
// transient access-token mirror written alongside it.
//
// An absent token is represented as an empty string, never an error. The
// mirror is a secondary sink for server-side readability and is not the
// source of truth for any decision made by consumers.
package credstore

import "context"

// Store persists the access/refresh token pair.
type Store interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	SetTokens(ctx context.Context, access, refresh string) error
	ClearTokens(ctx context.Context) error
}
