package handlers

import (
	"net/http"
	"strings"

	"github.com/farellandr/givingate/internal/eghl"
	"github.com/farellandr/givingate/internal/helpers"
	"github.com/farellandr/givingate/internal/middleware"
	"github.com/farellandr/givingate/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewGiftHandler(db *gorm.DB, builder *eghl.RequestBuilder, logger *zap.Logger) *GiftHandler {
	return &GiftHandler{
		db:      db,
		builder: builder,
		log:     logger,
	}
}

type GiftHandler struct {
	db      *gorm.DB
	builder *eghl.RequestBuilder
	log     *zap.Logger
}

type GiftItem struct {
	Designation string `json:"designation" binding:"required"`
	Amount      int64  `json:"amount" binding:"required,min=1"`
}

type GiftRequest struct {
	Items         []GiftItem `json:"items" binding:"required,min=1,dive"`
	Name          string     `json:"name" binding:"required"`
	Email         string     `json:"email" binding:"required,email"`
	SavedMethodID *uuid.UUID `json:"saved_method_id"`
}

// CreateGift records a pending transaction for the submitted gift amounts and
// returns the signed gateway redirect URL. Signed-in donors may pay with a
// saved card by naming one of their stored methods.
func (h *GiftHandler) CreateGift(c *gin.Context) {
	var giftReq GiftRequest
	if err := c.ShouldBindJSON(&giftReq); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	var total int64
	var designations []string
	for _, item := range giftReq.Items {
		total += item.Amount
		designations = append(designations, item.Designation)
	}
	if total <= 0 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Gift total must be positive.")
		return
	}

	transaction := models.Transaction{
		Amount:    total,
		Status:    models.StatusPending,
		CreatedAs: models.CreatedAsGuest,
		Name:      giftReq.Name,
		Email:     giftReq.Email,
	}

	userID, authenticated := middleware.UserIDFromContext(c)
	if authenticated {
		transaction.UserID = &userID
		transaction.CreatedAs = models.CreatedAsUser
	}

	var token string
	if giftReq.SavedMethodID != nil {
		if !authenticated {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Sign in to pay with a saved card.")
			return
		}
		var method models.SavedPaymentMethod
		err := h.db.First(&method, "id = ? AND user_id = ?", *giftReq.SavedMethodID, userID).Error
		if err != nil {
			helpers.RespondWithError(c, http.StatusNotFound, "Saved payment method not found.")
			return
		}
		token = method.Token
	}

	if err := h.db.Create(&transaction).Error; err != nil {
		h.log.Error("could not create transaction", zap.Error(err))
		helpers.RespondWithError(c, http.StatusInternalServerError, "Could not create transaction.")
		return
	}

	paymentURL, err := h.builder.PaymentURL(eghl.PaymentRequest{
		TransactionID: transaction.ID,
		Amount:        transaction.Amount,
		Description:   strings.Join(designations, ", "),
		CustomerName:  giftReq.Name,
		CustomerEmail: giftReq.Email,
		Token:         token,
	})
	if err != nil {
		h.log.Error("could not build payment URL",
			zap.String("transaction_id", transaction.ID),
			zap.Error(err),
		)
		helpers.RespondWithError(c, http.StatusInternalServerError, "Could not prepare payment.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"transaction_id": transaction.ID,
		"amount":         transaction.Amount,
		"status":         transaction.Status,
		"payment_url":    paymentURL,
	})
}

// GetGift serves the receipt page's data: status, amount and, once
// finalized, the payment details.
func (h *GiftHandler) GetGift(c *gin.Context) {
	id := c.Param("id")

	var transaction models.Transaction
	if err := h.db.First(&transaction, "id = ?", id).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Transaction not found.")
		return
	}

	receipt := gin.H{
		"transaction_id": transaction.ID,
		"amount":         transaction.Amount,
		"status":         transaction.Status,
		"name":           transaction.Name,
		"created_at":     transaction.CreatedAt,
	}

	var payment models.Payment
	err := h.db.First(&payment, "transaction_id = ?", transaction.ID).Error
	if err == nil {
		receipt["paid_at"] = payment.PaidAt
		receipt["method"] = payment.Method
		receipt["gateway_txn_id"] = payment.GatewayTxnID
	}

	c.JSON(http.StatusOK, receipt)
}
