package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerdesk/internal/handler"
	"ledgerdesk/internal/models"
	"ledgerdesk/internal/service"
	"ledgerdesk/internal/storage/memory"
)

func setupTransactionRouter(t *testing.T, allowNegative bool) (*gin.Engine, *memory.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := service.NewTransactionService(store, store.Clients(), store.Transactions(), allowNegative, log)

	r := gin.New()
	r.POST("/transactions", handler.NewTransactionHandler(svc).Create)
	return r, store
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateTransaction_Created(t *testing.T) {
	r, store := setupTransactionRouter(t, true)
	client := &models.Client{Name: "John Doe", Email: "john@example.com", Balance: decimal.NewFromInt(100)}
	require.NoError(t, store.Clients().Save(context.Background(), client))

	w := postJSON(t, r, "/transactions", gin.H{
		"client_id":   client.ID,
		"type":        "earning",
		"amount":      "50",
		"description": "invoice 42",
		"date":        "2023-01-15",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	got, _ := store.Clients().Find(context.Background(), client.ID)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(150)))
}

func TestCreateTransaction_AcceptsDateTime(t *testing.T) {
	r, store := setupTransactionRouter(t, true)
	client := &models.Client{Name: "John Doe", Email: "john@example.com", Balance: decimal.Zero}
	require.NoError(t, store.Clients().Save(context.Background(), client))

	w := postJSON(t, r, "/transactions", gin.H{
		"client_id": client.ID,
		"type":      "earning",
		"amount":    "10",
		"date":      "2023-01-15 14:30:00",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateTransaction_UnknownClient(t *testing.T) {
	r, _ := setupTransactionRouter(t, true)

	w := postJSON(t, r, "/transactions", gin.H{
		"client_id": 999,
		"type":      "earning",
		"amount":    "50",
		"date":      "2023-01-15",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateTransaction_BadRequests(t *testing.T) {
	r, store := setupTransactionRouter(t, true)
	client := &models.Client{Name: "John Doe", Email: "john@example.com", Balance: decimal.NewFromInt(100)}
	require.NoError(t, store.Clients().Save(context.Background(), client))

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing type", gin.H{"client_id": client.ID, "amount": "50", "date": "2023-01-15"}},
		{"unknown type", gin.H{"client_id": client.ID, "type": "deposit", "amount": "50", "date": "2023-01-15"}},
		{"negative amount", gin.H{"client_id": client.ID, "type": "earning", "amount": "-5", "date": "2023-01-15"}},
		{"bad date", gin.H{"client_id": client.ID, "type": "earning", "amount": "50", "date": "15/01/2023"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, r, "/transactions", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCreateTransaction_InsufficientBalance(t *testing.T) {
	r, store := setupTransactionRouter(t, false)
	client := &models.Client{Name: "John Doe", Email: "john@example.com", Balance: decimal.NewFromInt(100)}
	require.NoError(t, store.Clients().Save(context.Background(), client))

	w := postJSON(t, r, "/transactions", gin.H{
		"client_id": client.ID,
		"type":      "expense",
		"amount":    "150",
		"date":      "2023-01-15",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
