package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/farellandr/givingate/internal/eghl"
	"github.com/farellandr/givingate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeQuerier struct {
	results map[string]*eghl.QueryResult
	errs    map[string]error
	calls   []string
}

func (q *fakeQuerier) QueryStatus(ctx context.Context, paymentID string, amount int64) (*eghl.QueryResult, error) {
	q.calls = append(q.calls, paymentID)
	if err, ok := q.errs[paymentID]; ok {
		return nil, err
	}
	if res, ok := q.results[paymentID]; ok {
		return res, nil
	}
	return &eghl.QueryResult{Found: false}, nil
}

func testSweeper(store *memStore, querier *fakeQuerier, signer *eghl.Signer) *Sweeper {
	reconciler := NewReconciler(store, signer, zap.NewNop())
	return NewSweeper(store, querier, reconciler, SweepConfig{
		GraceWindow:    15 * time.Minute,
		Lookback:       168 * time.Hour,
		NotFoundCutoff: 30 * time.Minute,
	}, zap.NewNop())
}

func agedTransaction(store *memStore, id string, age time.Duration) *models.Transaction {
	txn := pendingTransaction(store, id, nil)
	txn.CreatedAt = time.Now().Add(-age)
	return txn
}

func TestSweepSkipsTransactionsInGraceWindow(t *testing.T) {
	store := newMemStore()
	signer := testSigner()
	agedTransaction(store, "g-young", 10*time.Minute)
	querier := &fakeQuerier{}

	stats := testSweeper(store, querier, signer).Sweep(context.Background())

	assert.Zero(t, stats.Scanned)
	assert.Empty(t, querier.calls)
	assert.Equal(t, models.StatusPending, store.txns["g-young"].Status)
}

func TestSweepNotFoundYoungIsLeftAlone(t *testing.T) {
	store := newMemStore()
	signer := testSigner()
	// Past the grace window, but younger than the not-found cutoff.
	agedTransaction(store, "g-mid", 20*time.Minute)
	querier := &fakeQuerier{}

	stats := testSweeper(store, querier, signer).Sweep(context.Background())

	assert.Equal(t, 1, stats.Scanned)
	assert.Equal(t, 1, stats.Skipped)
	assert.Zero(t, stats.MarkedFailed)
	assert.Equal(t, models.StatusPending, store.txns["g-mid"].Status)
}

func TestSweepNotFoundOldIsMarkedFailed(t *testing.T) {
	store := newMemStore()
	signer := testSigner()
	agedTransaction(store, "g-old", 40*time.Minute)
	querier := &fakeQuerier{}

	stats := testSweeper(store, querier, signer).Sweep(context.Background())

	assert.Equal(t, 1, stats.MarkedFailed)
	assert.Equal(t, models.StatusFailed, store.txns["g-old"].Status)
	assert.Empty(t, store.payments)
}

func TestSweepGatewayPendingIsSkipped(t *testing.T) {
	store := newMemStore()
	signer := testSigner()
	agedTransaction(store, "g-gwpend", 40*time.Minute)
	querier := &fakeQuerier{results: map[string]*eghl.QueryResult{
		"g-gwpend": {Found: true, Response: signedResponse(signer, "g-gwpend", eghl.TxnStatusPending, nil)},
	}}

	stats := testSweeper(store, querier, signer).Sweep(context.Background())

	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, models.StatusPending, store.txns["g-gwpend"].Status)
}

func TestSweepTerminalStatusRunsFinalization(t *testing.T) {
	store := newMemStore()
	signer := testSigner()
	agedTransaction(store, "g-late-ok", 40*time.Minute)
	querier := &fakeQuerier{results: map[string]*eghl.QueryResult{
		"g-late-ok": {Found: true, Response: signedResponse(signer, "g-late-ok", eghl.TxnStatusSuccess, nil)},
	}}

	stats := testSweeper(store, querier, signer).Sweep(context.Background())

	assert.Equal(t, 1, stats.Finalized)
	assert.Equal(t, models.StatusSuccess, store.txns["g-late-ok"].Status)
	require.Len(t, store.payments, 1)
	assert.Equal(t, "TXN-g-late-ok", store.payments[0].GatewayTxnID)
}

func TestSweepPerItemErrorDoesNotAbort(t *testing.T) {
	store := newMemStore()
	signer := testSigner()
	agedTransaction(store, "g-broken", 40*time.Minute)
	agedTransaction(store, "g-fine", 40*time.Minute)
	querier := &fakeQuerier{
		errs: map[string]error{
			"g-broken": &eghl.GatewayQueryError{PaymentID: "g-broken", Err: assert.AnError},
		},
		results: map[string]*eghl.QueryResult{
			"g-fine": {Found: true, Response: signedResponse(signer, "g-fine", eghl.TxnStatusSuccess, nil)},
		},
	}

	stats := testSweeper(store, querier, signer).Sweep(context.Background())

	assert.Equal(t, 2, stats.Scanned)
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, 1, stats.Finalized)
	assert.Equal(t, models.StatusSuccess, store.txns["g-fine"].Status)
	assert.Equal(t, models.StatusPending, store.txns["g-broken"].Status)
}

func TestSweepIsRepeatSafe(t *testing.T) {
	store := newMemStore()
	signer := testSigner()
	agedTransaction(store, "g-repeat", 40*time.Minute)
	querier := &fakeQuerier{results: map[string]*eghl.QueryResult{
		"g-repeat": {Found: true, Response: signedResponse(signer, "g-repeat", eghl.TxnStatusSuccess, nil)},
	}}

	sweeper := testSweeper(store, querier, signer)
	first := sweeper.Sweep(context.Background())
	second := sweeper.Sweep(context.Background())

	assert.Equal(t, 1, first.Finalized)
	assert.Zero(t, second.Finalized)
	assert.Len(t, store.payments, 1)
}
