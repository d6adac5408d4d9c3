package handlers

import (
	"net/http"
	"time"

	"github.com/farellandr/givingate/internal/helpers"
	"github.com/farellandr/givingate/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewInsightsHandler(db *gorm.DB, logger *zap.Logger) *InsightsHandler {
	return &InsightsHandler{db: db, log: logger}
}

// InsightsHandler feeds the admin reporting dashboard.
type InsightsHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

type statusSummary struct {
	Status models.TransactionStatus `json:"status"`
	Count  int64                    `json:"count"`
	Total  int64                    `json:"total"`
}

// Summary aggregates transaction counts and summed amounts per status over a
// date window. Defaults to the last 30 days.
func (h *InsightsHandler) Summary(c *gin.Context) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid 'from' date, expected YYYY-MM-DD.")
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid 'to' date, expected YYYY-MM-DD.")
			return
		}
		to = parsed.AddDate(0, 0, 1)
	}

	var rows []statusSummary
	err := h.db.Model(&models.Transaction{}).
		Select("status, count(*) as count, coalesce(sum(amount), 0) as total").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		h.log.Error("could not aggregate transactions", zap.Error(err))
		helpers.RespondWithError(c, http.StatusInternalServerError, "Could not build summary.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from":     from,
		"to":       to,
		"statuses": rows,
	})
}
