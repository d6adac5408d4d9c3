package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/farellandr/givingate/internal/eghl"
	"github.com/farellandr/givingate/internal/reconcile"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewPaymentHandler(reconciler *reconcile.Reconciler, sweeper *reconcile.Sweeper, receiptURL, errorURL string, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		reconciler: reconciler,
		sweeper:    sweeper,
		receiptURL: receiptURL,
		errorURL:   errorURL,
		log:        logger,
	}
}

// PaymentHandler exposes the three gateway-facing entry points: the
// server-to-server callback, the browser return, and the sweep trigger. All
// three converge on the reconciler's single finalize path.
type PaymentHandler struct {
	reconciler *reconcile.Reconciler
	sweeper    *reconcile.Sweeper
	receiptURL string
	errorURL   string
	log        *zap.Logger
}

// Callback handles the gateway's asynchronous notification. Machine caller:
// plain-text statuses, no internal detail leaked.
func (h *PaymentHandler) Callback(c *gin.Context) {
	resp, err := eghl.ParseCallbackRequest(c.Request)
	if err != nil {
		h.logRejection("callback", err)
		c.String(http.StatusBadRequest, "bad request")
		return
	}

	_, err = h.reconciler.Finalize(c.Request.Context(), resp)
	if err != nil {
		var rollback *reconcile.TransactionRollbackError
		if errors.As(err, &rollback) {
			h.log.Error("callback finalize rolled back", zap.Error(err))
			c.String(http.StatusInternalServerError, "internal error")
			return
		}
		h.logRejection("callback", err)
		c.String(http.StatusBadRequest, "bad request")
		return
	}

	c.String(http.StatusOK, "ok")
}

// Return handles the donor's browser coming back from the gateway. The
// audience is a person, so every failure becomes a redirect to the generic
// error page rather than a raw status code.
func (h *PaymentHandler) Return(c *gin.Context) {
	resp, err := eghl.ParseCallbackRequest(c.Request)
	if err != nil {
		h.logRejection("return", err)
		c.Redirect(http.StatusFound, h.errorURL)
		return
	}

	outcome, err := h.reconciler.Finalize(c.Request.Context(), resp)
	if err != nil {
		h.logRejection("return", err)
		c.Redirect(http.StatusFound, h.errorURL)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("%s/%s", h.receiptURL, outcome.TransactionID))
}

// Reconcile runs the pending sweep. Always answers 200 after the sweep
// finishes; per-item failures are logged, not surfaced.
func (h *PaymentHandler) Reconcile(c *gin.Context) {
	h.sweeper.Sweep(c.Request.Context())
	c.String(http.StatusOK, "ok")
}

func (h *PaymentHandler) logRejection(entry string, err error) {
	var verification *eghl.VerificationError
	if errors.As(err, &verification) {
		// Signature mismatch means possible tampering, not donor error.
		h.log.Warn("gateway response rejected: signature verification failed",
			zap.String("entry", entry),
			zap.Error(err),
		)
		return
	}
	h.log.Info("gateway response rejected",
		zap.String("entry", entry),
		zap.Error(err),
	)
}
