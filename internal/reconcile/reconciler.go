package reconcile

import (
	"context"

	"github.com/farellandr/givingate/internal/eghl"
	"github.com/farellandr/givingate/internal/models"
	"go.uber.org/zap"
)

func NewReconciler(store Store, signer *eghl.Signer, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		store:  store,
		signer: signer,
		log:    logger,
	}
}

// Reconciler is the single finalization path for every gateway outcome,
// whether it arrives by callback, browser return or the polling sweep.
type Reconciler struct {
	store  Store
	signer *eghl.Signer
	log    *zap.Logger
}

// Outcome reports what one finalize attempt did. Applied is false for the
// idempotent no-op case: the transaction was already terminal or unknown, and
// nothing was written.
type Outcome struct {
	TransactionID string
	Status        models.TransactionStatus
	Applied       bool
}

// Finalize verifies resp and, when it carries a terminal status, transitions
// the matching transaction out of pending exactly once. Duplicate deliveries
// degrade to no-ops; persistence failures roll the whole unit back.
func (r *Reconciler) Finalize(ctx context.Context, resp *eghl.Response) (*Outcome, error) {
	if !r.signer.VerifyResponse(resp) {
		r.log.Warn("gateway response failed signature verification",
			zap.String("payment_id", resp.PaymentID),
			zap.String("txn_id", resp.TxnID),
		)
		return nil, &eghl.VerificationError{PaymentID: resp.PaymentID}
	}

	if resp.IsPending() {
		r.log.Info("gateway response still pending, nothing to finalize",
			zap.String("payment_id", resp.PaymentID))
		return &Outcome{TransactionID: resp.PaymentID, Status: models.StatusPending}, nil
	}

	status := models.StatusFailed
	if resp.IsSuccess() {
		status = models.StatusSuccess
	}

	txn, err := r.store.FindTransaction(ctx, resp.PaymentID)
	if err != nil {
		return nil, &TransactionRollbackError{TransactionID: resp.PaymentID, Err: err}
	}
	if txn == nil {
		r.log.Info("gateway response for unknown transaction, ignoring",
			zap.String("payment_id", resp.PaymentID))
		return &Outcome{TransactionID: resp.PaymentID, Status: status}, nil
	}

	paidAt := resp.PaidAt()
	fin := Finalization{
		TransactionID: txn.ID,
		Status:        status,
		Payment: models.Payment{
			TransactionID: txn.ID,
			GatewayTxnID:  resp.TxnID,
			Method:        resp.PymtMethod,
			Message:       resp.TxnMessage,
			PaidAt:        paidAt,
			Provider:      "eghl",
		},
	}

	// Card tokens are saved only for successful payments by signed-in users.
	if status == models.StatusSuccess && txn.CreatedAs == models.CreatedAsUser && txn.UserID != nil {
		switch {
		case resp.HasToken():
			fin.CardSave = &CardSave{
				Method: models.SavedPaymentMethod{
					UserID:     *txn.UserID,
					Token:      resp.Token,
					TokenType:  resp.TokenType,
					CardNoMask: resp.CardNoMask,
					CardExp:    resp.CardExp,
					CardBrand:  resp.CardBrand,
					LastUsedAt: paidAt,
				},
			}
		case resp.HasBareToken():
			fin.CardSave = &CardSave{
				Method: models.SavedPaymentMethod{
					UserID:     *txn.UserID,
					Token:      resp.Token,
					LastUsedAt: paidAt,
				},
				RefreshOnly: true,
			}
		}
	}

	applied, err := r.store.Finalize(ctx, fin)
	if err != nil {
		return nil, &TransactionRollbackError{TransactionID: txn.ID, Err: err}
	}

	if !applied {
		r.log.Info("transaction already finalized, duplicate delivery ignored",
			zap.String("transaction_id", txn.ID),
			zap.String("status", string(txn.Status)),
		)
		return &Outcome{TransactionID: txn.ID, Status: txn.Status}, nil
	}

	r.log.Info("transaction finalized",
		zap.String("transaction_id", txn.ID),
		zap.String("status", string(status)),
		zap.String("gateway_txn_id", resp.TxnID),
		zap.Bool("card_saved", fin.CardSave != nil),
	)
	return &Outcome{TransactionID: txn.ID, Status: status, Applied: true}, nil
}
