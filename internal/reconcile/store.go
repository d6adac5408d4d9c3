package reconcile

import (
	"context"
	"time"

	"github.com/farellandr/givingate/internal/models"
)

// CardSave describes the saved-method side effect of a successful
// finalization. RefreshOnly means the response carried a bare token with no
// card metadata, so only an existing method's LastUsedAt is bumped.
type CardSave struct {
	Method      models.SavedPaymentMethod
	RefreshOnly bool
}

// Finalization is everything the store must apply in one atomic unit.
type Finalization struct {
	TransactionID string
	Status        models.TransactionStatus
	Payment       models.Payment
	CardSave      *CardSave
}

// Store is the narrow persistence port the reconciler and sweeper depend on.
// Implementations must make Finalize and MarkFailed atomic and guarded on the
// current status still being pending; the guarded update is what makes
// concurrent delivery from callback, return and sweep race-safe.
type Store interface {
	// FindTransaction returns nil, nil when no such transaction exists.
	FindTransaction(ctx context.Context, id string) (*models.Transaction, error)

	// Finalize applies fin atomically. Returns false when the status guard
	// matched zero rows (already terminal, or unknown ID) and nothing was
	// written.
	Finalize(ctx context.Context, fin Finalization) (bool, error)

	// MarkFailed transitions pending -> failed with no payment record.
	// Returns false when the guard matched zero rows.
	MarkFailed(ctx context.Context, id string) (bool, error)

	// ListStuckPending returns pending transactions created before olderThan
	// but after horizon, oldest first.
	ListStuckPending(ctx context.Context, olderThan, horizon time.Time) ([]models.Transaction, error)
}
