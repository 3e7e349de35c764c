// Package session holds the client-side persisted session state and the
// single-shot session timer.
package session

import "context"

// Keys persisted for a logged-in user.
const (
	KeyToken = "token"
	KeyEmail = "email"
)

// Store is the persistent client storage the controller reads and writes.
// Each store instance belongs to exactly one browser session.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Clear removes every key of this session.
	Clear(ctx context.Context) error
}

// Factory builds the store for a browser-session id.
type Factory func(sessionID string) Store
