package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"ledgerdesk/internal/domain"
	"ledgerdesk/internal/service"
)

type ClientHandler struct {
	clients      *service.ClientService
	transactions *service.TransactionService
}

func NewClientHandler(clients *service.ClientService, transactions *service.TransactionService) *ClientHandler {
	return &ClientHandler{clients: clients, transactions: transactions}
}

type CreateClientRequest struct {
	Name    string          `json:"name" binding:"required"`
	Email   string          `json:"email" binding:"required,email"`
	Balance decimal.Decimal `json:"balance"` // opening balance, may be negative
}

type UpdateClientRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

func (h *ClientHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	result, err := h.clients.ListPaginated(c.Request.Context(), page, perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list clients"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client, err := h.clients.Create(c.Request.Context(), req.Name, req.Email, req.Balance)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrClientAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrInsufficientBalance):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create client"})
		}
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	client, err := h.clients.Get(c.Request.Context(), id)
	if err != nil {
		respondClientErr(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client, err := h.clients.Update(c.Request.Context(), id, service.ClientUpdate{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrClientNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrClientAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update client"})
		}
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.clients.Delete(c.Request.Context(), id); err != nil {
		respondClientErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "client deleted"})
}

func (h *ClientHandler) Transactions(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if _, err := h.clients.Get(c.Request.Context(), id); err != nil {
		respondClientErr(c, err)
		return
	}
	txs, err := h.transactions.ClientTransactions(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": txs})
}

func (h *ClientHandler) BalanceHistory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	history, err := h.transactions.BalanceHistory(c.Request.Context(), id)
	if err != nil {
		respondClientErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": history})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func respondClientErr(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrClientNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
