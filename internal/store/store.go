// Package store persists ledger snapshots. A snapshot is the whole ledger of
// one user, loaded at session start and saved after every mutation.
package store

import (
	"context"
	"errors"

	"bliq/internal/ledger"
)

// ErrSnapshotNotFound is returned by Load when the user has never saved a ledger.
var ErrSnapshotNotFound = errors.New("ledger snapshot not found")

// SnapshotStore loads and saves per-user ledger snapshots.
type SnapshotStore interface {
	// Load returns the stored ledger of the user and its version.
	Load(ctx context.Context, userID string) (*ledger.State, int64, error)
	// Save replaces the stored ledger of the user and returns the new version.
	Save(ctx context.Context, userID string, state *ledger.State) (int64, error)
}
