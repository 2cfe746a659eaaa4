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

// ClientUpdate is a partial update. A nil field means "leave unchanged";
// there is no way to clear a field through this path, and balance is not
// reachable here at all.
type ClientUpdate struct {
	Name  *string
	Email *string
}

// ClientService owns the client lifecycle. Opening balances are realized as
// a first ledger transaction so the ledger stays the single source of truth.
type ClientService struct {
	clients      storage.ClientStore
	transactions *TransactionService
	log          *logrus.Logger
}

func NewClientService(clients storage.ClientStore, transactions *TransactionService, log *logrus.Logger) *ClientService {
	return &ClientService{clients: clients, transactions: transactions, log: log}
}

// Create inserts the client with balance zero and, when openingBalance is
// nonzero, seeds it through AddTransaction (positive = earning, negative =
// expense). The seed is subject to the same balance policy as any other
// transaction, so negative openings require the debt-permitting policy.
func (s *ClientService) Create(ctx context.Context, name, email string, openingBalance decimal.Decimal) (*models.Client, error) {
	existing, err := s.clients.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrClientAlreadyExists
	}

	client := &models.Client{
		Name:    name,
		Email:   email,
		Balance: decimal.Zero,
	}
	if err := s.clients.Save(ctx, client); err != nil {
		return nil, err
	}

	if !openingBalance.IsZero() {
		txType := domain.TypeEarning
		if openingBalance.IsNegative() {
			txType = domain.TypeExpense
		}
		err := s.transactions.AddTransaction(ctx, TransactionInput{
			ClientID:    client.ID,
			Type:        txType,
			Amount:      openingBalance.Abs(),
			Description: domain.InitialBalanceDescription,
			Date:        time.Now(),
		})
		if err != nil {
			return nil, err
		}
		// Pick up the seeded balance.
		return s.clients.Find(ctx, client.ID)
	}

	s.log.WithField("client_id", client.ID).Info("client created")
	return client, nil
}

func (s *ClientService) Get(ctx context.Context, id uint) (*models.Client, error) {
	return s.clients.Find(ctx, id)
}

func (s *ClientService) List(ctx context.Context) ([]models.Client, error) {
	return s.clients.FindAll(ctx)
}

func (s *ClientService) ListPaginated(ctx context.Context, page, perPage int) (*storage.ClientPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	return s.clients.FindPaginated(ctx, page, perPage)
}

// Update applies the non-nil fields. An email change is re-checked for
// uniqueness excluding the client's own row, so re-submitting the current
// email is not a conflict.
func (s *ClientService) Update(ctx context.Context, id uint, upd ClientUpdate) (*models.Client, error) {
	client, err := s.clients.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Email != nil && *upd.Email != client.Email {
		other, err := s.clients.FindByEmailExceptID(ctx, *upd.Email, id)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrClientAlreadyExists
		}
	}

	if upd.Name != nil {
		client.Name = *upd.Name
	}
	if upd.Email != nil {
		client.Email = *upd.Email
	}
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Delete removes the client; its transactions go with it (cascade).
func (s *ClientService) Delete(ctx context.Context, id uint) error {
	if _, err := s.clients.Find(ctx, id); err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("client_id", id).Info("client deleted")
	return nil
}
