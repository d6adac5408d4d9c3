package handlers

import (
	"net/http"

	"github.com/farellandr/givingate/internal/helpers"
	"github.com/farellandr/givingate/internal/middleware"
	"github.com/farellandr/givingate/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewMethodHandler(db *gorm.DB, logger *zap.Logger) *MethodHandler {
	return &MethodHandler{db: db, log: logger}
}

type MethodHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

type savedMethodResponse struct {
	ID         uuid.UUID `json:"id"`
	CardNoMask string    `json:"card_no_mask"`
	CardExp    string    `json:"card_exp"`
	CardBrand  string    `json:"card_brand"`
	LastUsedAt string    `json:"last_used_at"`
}

// ListMethods returns the caller's saved cards, most recently used first.
// Raw token values never leave the service.
func (h *MethodHandler) ListMethods(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	var methods []models.SavedPaymentMethod
	err := h.db.Where("user_id = ?", userID).Order("last_used_at desc").Find(&methods).Error
	if err != nil {
		h.log.Error("could not list saved payment methods", zap.Error(err))
		helpers.RespondWithError(c, http.StatusInternalServerError, "Could not list payment methods.")
		return
	}

	out := make([]savedMethodResponse, 0, len(methods))
	for _, m := range methods {
		out = append(out, savedMethodResponse{
			ID:         m.ID,
			CardNoMask: m.CardNoMask,
			CardExp:    m.CardExp,
			CardBrand:  m.CardBrand,
			LastUsedAt: m.LastUsedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	c.JSON(http.StatusOK, gin.H{"payment_methods": out})
}

// DeleteMethod removes one of the caller's saved cards.
func (h *MethodHandler) DeleteMethod(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid payment method ID.")
		return
	}

	res := h.db.Where("id = ? AND user_id = ?", methodID, userID).Delete(&models.SavedPaymentMethod{})
	if res.Error != nil {
		h.log.Error("could not delete saved payment method", zap.Error(res.Error))
		helpers.RespondWithError(c, http.StatusInternalServerError, "Could not delete payment method.")
		return
	}
	if res.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Payment method not found.")
		return
	}

	c.Status(http.StatusNoContent)
}
