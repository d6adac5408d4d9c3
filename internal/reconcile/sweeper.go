package reconcile

import (
	"context"
	"time"

	"github.com/farellandr/givingate/internal/eghl"
	"go.uber.org/zap"
)

// SweepConfig carries the three timing thresholds the sweep depends on. All
// are tied to the gateway's documented processing timeouts, so they are
// configuration rather than constants.
type SweepConfig struct {
	// GraceWindow keeps the sweep away from payments still likely in flight.
	GraceWindow time.Duration
	// Lookback bounds the scan; older pending transactions stay untouched.
	Lookback time.Duration
	// NotFoundCutoff is how old a transaction must be before a gateway
	// not-found answer is treated as a definitive failure.
	NotFoundCutoff time.Duration
}

func NewSweeper(store Store, querier eghl.StatusQuerier, reconciler *Reconciler, cfg SweepConfig, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		store:      store,
		querier:    querier,
		reconciler: reconciler,
		cfg:        cfg,
		log:        logger,
	}
}

// Sweeper resolves transactions stuck in pending because their callback or
// return never arrived. Safe to run repeatedly and concurrently with live
// callbacks: the status-guarded update in the store decides every race.
type Sweeper struct {
	store      Store
	querier    eghl.StatusQuerier
	reconciler *Reconciler
	cfg        SweepConfig
	log        *zap.Logger
}

type SweepStats struct {
	Scanned      int
	Finalized    int
	MarkedFailed int
	Skipped      int
	Errors       int
}

// Sweep scans stuck pending transactions and drives each through the gateway
// status lookup. A failure on one item never aborts the rest.
func (s *Sweeper) Sweep(ctx context.Context) SweepStats {
	now := time.Now()
	olderThan := now.Add(-s.cfg.GraceWindow)
	horizon := now.Add(-s.cfg.Lookback)

	var stats SweepStats

	txns, err := s.store.ListStuckPending(ctx, olderThan, horizon)
	if err != nil {
		s.log.Error("sweep could not list pending transactions", zap.Error(err))
		stats.Errors++
		return stats
	}

	for _, txn := range txns {
		stats.Scanned++

		result, err := s.querier.QueryStatus(ctx, txn.ID, txn.Amount)
		if err != nil {
			s.log.Warn("gateway status query failed, skipping item",
				zap.String("transaction_id", txn.ID),
				zap.Error(err),
			)
			stats.Errors++
			continue
		}

		if !result.Found {
			if now.Sub(txn.CreatedAt) < s.cfg.NotFoundCutoff {
				// Still inside the gateway's own processing window.
				stats.Skipped++
				continue
			}
			changed, err := s.store.MarkFailed(ctx, txn.ID)
			if err != nil {
				s.log.Error("could not mark abandoned transaction failed",
					zap.String("transaction_id", txn.ID),
					zap.Error(err),
				)
				stats.Errors++
				continue
			}
			if changed {
				s.log.Info("abandoned transaction marked failed",
					zap.String("transaction_id", txn.ID))
				stats.MarkedFailed++
			} else {
				stats.Skipped++
			}
			continue
		}

		if result.Response.IsPending() {
			stats.Skipped++
			continue
		}

		outcome, err := s.reconciler.Finalize(ctx, result.Response)
		if err != nil {
			s.log.Error("sweep finalize failed",
				zap.String("transaction_id", txn.ID),
				zap.Error(err),
			)
			stats.Errors++
			continue
		}
		if outcome.Applied {
			stats.Finalized++
		} else {
			stats.Skipped++
		}
	}

	s.log.Info("reconciliation sweep finished",
		zap.Int("scanned", stats.Scanned),
		zap.Int("finalized", stats.Finalized),
		zap.Int("marked_failed", stats.MarkedFailed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("errors", stats.Errors),
	)
	return stats
}
