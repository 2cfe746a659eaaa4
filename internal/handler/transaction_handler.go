package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"ledgerdesk/internal/domain"
	"ledgerdesk/internal/service"
)

type TransactionHandler struct {
	svc *service.TransactionService
}

func NewTransactionHandler(svc *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

type CreateTransactionRequest struct {
	ClientID    uint            `json:"client_id" binding:"required"`
	Type        string          `json:"type" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" binding:"max=255"`
	Date        string          `json:"date" binding:"required"` // YYYY-MM-DD or YYYY-MM-DD HH:MM:SS
}

func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format (use YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)"})
		return
	}

	err = h.svc.AddTransaction(c.Request.Context(), service.TransactionInput{
		ClientID:    req.ClientID,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		var perr *domain.PersistenceError
		switch {
		case errors.Is(err, domain.ErrClientNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrInvalidTransactionType),
			errors.Is(err, domain.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrInsufficientBalance):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.As(err, &perr):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record transaction"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record transaction"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "transaction recorded"})
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
