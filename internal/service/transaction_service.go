package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"ledgerdesk/internal/domain"
	"ledgerdesk/internal/models"
	"ledgerdesk/internal/storage"
)

// TransactionInput is one requested ledger entry. Amount is the magnitude;
// Type carries the sign.
type TransactionInput struct {
	ClientID    uint
	Type        string
	Amount      decimal.Decimal
	Description string
	Date        time.Time
}

// BalancePoint is one step of a client's reconstructed balance history.
type BalancePoint struct {
	Date    time.Time       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// LedgerNotifier receives a best-effort signal after a transaction commits.
// The dashboard websocket hub implements it.
type LedgerNotifier interface {
	TransactionRecorded(clientID uint, txType string, amount, newBalance decimal.Decimal)
}

// TransactionService is the only writer of client balances. Every mutation
// goes through one unit of work so the ledger row and the cached balance
// cannot diverge.
type TransactionService struct {
	uow           storage.UnitOfWork
	clients       storage.ClientStore
	transactions  storage.TransactionStore
	allowNegative bool
	notifier      LedgerNotifier
	log           *logrus.Logger
}

func NewTransactionService(uow storage.UnitOfWork, clients storage.ClientStore, transactions storage.TransactionStore, allowNegative bool, log *logrus.Logger) *TransactionService {
	return &TransactionService{
		uow:           uow,
		clients:       clients,
		transactions:  transactions,
		allowNegative: allowNegative,
		log:           log,
	}
}

// SetNotifier attaches the dashboard feed. Optional.
func (s *TransactionService) SetNotifier(n LedgerNotifier) {
	s.notifier = n
}

// AddTransaction validates and applies one ledger entry. The client row is
// read FOR UPDATE inside the same database transaction that inserts the entry
// and writes the new balance, so concurrent writes against one client
// serialize instead of losing updates.
func (s *TransactionService) AddTransaction(ctx context.Context, in TransactionInput) error {
	if !domain.ValidTransactionType(in.Type) {
		return domain.ErrInvalidTransactionType
	}
	if in.Amount.IsNegative() {
		return domain.ErrInvalidAmount
	}

	var newBalance decimal.Decimal
	err := s.uow.Do(ctx, func(st storage.Stores) error {
		client, err := st.Clients.FindForUpdate(ctx, in.ClientID)
		if err != nil {
			return err
		}

		switch in.Type {
		case domain.TypeEarning:
			newBalance = client.Balance.Add(in.Amount)
		case domain.TypeExpense:
			newBalance = client.Balance.Sub(in.Amount)
		}
		if !s.allowNegative && newBalance.IsNegative() {
			return domain.ErrInsufficientBalance
		}

		tx := &models.Transaction{
			ClientID:    in.ClientID,
			Type:        in.Type,
			Amount:      in.Amount,
			Description: in.Description,
			Date:        in.Date,
		}
		if err := st.Transactions.Save(ctx, tx); err != nil {
			return &domain.PersistenceError{Op: "add transaction", Err: err}
		}
		client.Balance = newBalance
		client.UpdatedAt = time.Now()
		if err := st.Clients.Update(ctx, client); err != nil {
			return &domain.PersistenceError{Op: "update balance", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"client_id": in.ClientID,
		"type":      in.Type,
		"amount":    in.Amount.String(),
		"balance":   newBalance.String(),
	}).Info("transaction recorded")

	if s.notifier != nil {
		s.notifier.TransactionRecorded(in.ClientID, in.Type, in.Amount, newBalance)
	}
	return nil
}

// BalanceHistory reconstructs the client's balance over time by replaying the
// ledger backwards from the current cached balance: undoing an earning
// subtracts its amount, undoing an expense adds it back. The result is
// ordered oldest to newest, ending at the current balance. It is an in-memory
// replay, only correct while ledger and cached balance agree.
func (s *TransactionService) BalanceHistory(ctx context.Context, clientID uint) ([]BalancePoint, error) {
	client, err := s.clients.Find(ctx, clientID)
	if err != nil {
		return nil, err
	}
	txs, err := s.transactions.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	history := make([]BalancePoint, 0, len(txs)+1)
	history = append(history, BalancePoint{Date: time.Now(), Balance: client.Balance})

	balance := client.Balance
	for _, t := range txs { // newest first
		if t.Type == domain.TypeEarning {
			balance = balance.Sub(t.Amount)
		} else {
			balance = balance.Add(t.Amount)
		}
		history = append(history, BalancePoint{Date: t.Date, Balance: balance})
	}

	// Oldest to newest.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	return history, nil
}

// ClientTransactions returns the client's ledger newest first.
func (s *TransactionService) ClientTransactions(ctx context.Context, clientID uint) ([]models.Transaction, error) {
	return s.transactions.FindByClientID(ctx, clientID)
}
