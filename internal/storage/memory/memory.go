// Package memory is an in-memory implementation of the storage contracts.
// It backs the service tests and gives the unit of work real rollback
// semantics via state snapshots.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"ledgerdesk/internal/domain"
	"ledgerdesk/internal/models"
	"ledgerdesk/internal/storage"
)

// Store holds all tables behind one mutex. The typed accessors (Clients,
// Transactions, Stats, Admins) expose it as the individual storage contracts.
type Store struct {
	mu           sync.Mutex
	clients      map[uint]models.Client
	transactions map[uint]models.Transaction
	admins       map[uint]models.Admin
	nextClient   uint
	nextTx       uint
	nextAdmin    uint

	// Failure injection for atomicity tests. The next matching call fails
	// with the given error, then the hook clears itself.
	FailClientUpdate    error
	FailTransactionSave error
}

func New() *Store {
	return &Store{
		clients:      make(map[uint]models.Client),
		transactions: make(map[uint]models.Transaction),
		admins:       make(map[uint]models.Admin),
	}
}

func (s *Store) Clients() storage.ClientStore           { return clientStore{s} }
func (s *Store) Transactions() storage.TransactionStore { return txStore{s} }
func (s *Store) Stats() storage.StatStore               { return statStore{s} }
func (s *Store) Admins() storage.AdminStore             { return adminStore{s} }

var _ storage.UnitOfWork = (*Store)(nil)

// Do snapshots the ledger tables, runs fn, and restores the snapshot when fn
// fails, so partial writes never survive.
func (s *Store) Do(ctx context.Context, fn func(st storage.Stores) error) error {
	s.mu.Lock()
	clients := cloneMap(s.clients)
	transactions := cloneMap(s.transactions)
	nextClient, nextTx := s.nextClient, s.nextTx
	s.mu.Unlock()

	if err := fn(storage.Stores{Clients: s.Clients(), Transactions: s.Transactions()}); err != nil {
		s.mu.Lock()
		s.clients = clients
		s.transactions = transactions
		s.nextClient, s.nextTx = nextClient, nextTx
		s.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// --- ClientStore ---

type clientStore struct{ s *Store }

func (cs clientStore) Find(ctx context.Context, id uint) (*models.Client, error) {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()
	c, ok := cs.s.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	return &c, nil
}

func (cs clientStore) FindForUpdate(ctx context.Context, id uint) (*models.Client, error) {
	// No row locks in memory; identical to Find.
	return cs.Find(ctx, id)
}

func (cs clientStore) FindByEmail(ctx context.Context, email string) (*models.Client, error) {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()
	for _, c := range cs.s.clients {
		if c.Email == email {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (cs clientStore) FindByEmailExceptID(ctx context.Context, email string, excludeID uint) (*models.Client, error) {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()
	for _, c := range cs.s.clients {
		if c.Email == email && c.ID != excludeID {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (cs clientStore) Save(ctx context.Context, c *models.Client) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()
	cs.s.nextClient++
	c.ID = cs.s.nextClient
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	cs.s.clients[c.ID] = *c
	return nil
}

func (cs clientStore) Update(ctx context.Context, c *models.Client) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()
	if err := cs.s.FailClientUpdate; err != nil {
		cs.s.FailClientUpdate = nil
		return err
	}
	if _, ok := cs.s.clients[c.ID]; !ok {
		return domain.ErrClientNotFound
	}
	c.UpdatedAt = time.Now()
	cs.s.clients[c.ID] = *c
	return nil
}

func (cs clientStore) Delete(ctx context.Context, id uint) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()
	if _, ok := cs.s.clients[id]; !ok {
		return domain.ErrClientNotFound
	}
	delete(cs.s.clients, id)
	// FK cascade.
	for txID, tx := range cs.s.transactions {
		if tx.ClientID == id {
			delete(cs.s.transactions, txID)
		}
	}
	return nil
}

func (cs clientStore) FindAll(ctx context.Context) ([]models.Client, error) {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()
	return cs.s.allClientsLocked(), nil
}

func (s *Store) allClientsLocked() []models.Client {
	out := make([]models.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (cs clientStore) FindPaginated(ctx context.Context, page, perPage int) (*storage.ClientPage, error) {
	all, _ := cs.FindAll(ctx)
	total := int64(len(all))
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	start := (page - 1) * perPage
	if start > len(all) {
		start = len(all)
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return &storage.ClientPage{
		Items:   all[start:end],
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pages,
	}, nil
}

// --- TransactionStore ---

type txStore struct{ s *Store }

func (ts txStore) Save(ctx context.Context, t *models.Transaction) error {
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()
	if err := ts.s.FailTransactionSave; err != nil {
		ts.s.FailTransactionSave = nil
		return err
	}
	ts.s.nextTx++
	t.ID = ts.s.nextTx
	t.CreatedAt = time.Now()
	ts.s.transactions[t.ID] = *t
	return nil
}

func (ts txStore) FindByClientID(ctx context.Context, clientID uint) ([]models.Transaction, error) {
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()
	var out []models.Transaction
	for _, t := range ts.s.transactions {
		if t.ClientID == clientID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// --- StatStore ---

type statStore struct{ s *Store }

func inRange(t models.Transaction, r storage.DateRange) bool {
	if !r.Bounded() {
		return true
	}
	return !t.Date.Before(r.From) && !t.Date.After(r.To)
}

func (st statStore) TopClientsByBalance(ctx context.Context, limit int) ([]storage.ClientBalanceRow, error) {
	st.s.mu.Lock()
	all := st.s.allClientsLocked()
	st.s.mu.Unlock()
	sort.SliceStable(all, func(i, j int) bool { return all[i].Balance.GreaterThan(all[j].Balance) })
	rows := make([]storage.ClientBalanceRow, 0, limit)
	for _, c := range all {
		if len(rows) == limit {
			break
		}
		rows = append(rows, storage.ClientBalanceRow{ClientID: c.ID, Name: c.Name, Email: c.Email, Balance: c.Balance})
	}
	return rows, nil
}

func (st statStore) TopClientsByVolume(ctx context.Context, limit int, r storage.DateRange) ([]storage.ClientVolumeRow, error) {
	st.s.mu.Lock()
	volumes := make(map[uint]decimal.Decimal)
	for _, t := range st.s.transactions {
		if inRange(t, r) {
			volumes[t.ClientID] = volumes[t.ClientID].Add(t.Amount)
		}
	}
	names := make(map[uint]string)
	for id, c := range st.s.clients {
		names[id] = c.Name
	}
	st.s.mu.Unlock()

	rows := make([]storage.ClientVolumeRow, 0, len(volumes))
	for id, v := range volumes {
		rows = append(rows, storage.ClientVolumeRow{ClientID: id, Name: names[id], Volume: v})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Volume.GreaterThan(rows[j].Volume) })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (st statStore) TransactionTypeDistribution(ctx context.Context, r storage.DateRange) ([]storage.TypeDistributionRow, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	byType := make(map[string]*storage.TypeDistributionRow)
	for _, t := range st.s.transactions {
		if !inRange(t, r) {
			continue
		}
		row, ok := byType[t.Type]
		if !ok {
			row = &storage.TypeDistributionRow{Type: t.Type, Total: decimal.Zero}
			byType[t.Type] = row
		}
		row.Count++
		row.Total = row.Total.Add(t.Amount)
	}
	rows := make([]storage.TypeDistributionRow, 0, len(byType))
	for _, row := range byType {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Type < rows[j].Type })
	return rows, nil
}

func (st statStore) DailyTransactionTrend(ctx context.Context, r storage.DateRange) ([]storage.DailyTrendRow, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	byDay := make(map[string]*storage.DailyTrendRow)
	for _, t := range st.s.transactions {
		if !inRange(t, r) {
			continue
		}
		day := t.Date.Format("2006-01-02")
		row, ok := byDay[day]
		if !ok {
			row = &storage.DailyTrendRow{Day: day, Total: decimal.Zero}
			byDay[day] = row
		}
		row.Count++
		row.Total = row.Total.Add(t.Amount)
	}
	rows := make([]storage.DailyTrendRow, 0, len(byDay))
	for _, row := range byDay {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Day < rows[j].Day })
	return rows, nil
}

func (st statStore) DailyNet(ctx context.Context, r storage.DateRange) ([]storage.DailyNetRow, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	byDay := make(map[string]decimal.Decimal)
	for _, t := range st.s.transactions {
		if !inRange(t, r) {
			continue
		}
		day := t.Date.Format("2006-01-02")
		if t.Type == domain.TypeEarning {
			byDay[day] = byDay[day].Add(t.Amount)
		} else {
			byDay[day] = byDay[day].Sub(t.Amount)
		}
	}
	rows := make([]storage.DailyNetRow, 0, len(byDay))
	for day, net := range byDay {
		rows = append(rows, storage.DailyNetRow{Day: day, Net: net})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Day < rows[j].Day })
	return rows, nil
}

func (st statStore) PositiveBalances(ctx context.Context) ([]storage.ClientBalanceRow, error) {
	st.s.mu.Lock()
	total := len(st.s.clients)
	st.s.mu.Unlock()
	rows, _ := st.TopClientsByBalance(ctx, total)
	out := make([]storage.ClientBalanceRow, 0, len(rows))
	for _, row := range rows {
		if row.Balance.IsPositive() {
			out = append(out, row)
		}
	}
	return out, nil
}

// --- AdminStore ---

type adminStore struct{ s *Store }

func (as adminStore) Create(ctx context.Context, a *models.Admin) error {
	as.s.mu.Lock()
	defer as.s.mu.Unlock()
	as.s.nextAdmin++
	a.ID = as.s.nextAdmin
	a.CreatedAt = time.Now()
	as.s.admins[a.ID] = *a
	return nil
}

func (as adminStore) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	as.s.mu.Lock()
	defer as.s.mu.Unlock()
	for _, a := range as.s.admins {
		if a.Email == email {
			a := a
			return &a, nil
		}
	}
	return nil, domain.ErrAdminNotFound
}

func (as adminStore) Find(ctx context.Context, id uint) (*models.Admin, error) {
	as.s.mu.Lock()
	defer as.s.mu.Unlock()
	a, ok := as.s.admins[id]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}
	return &a, nil
}

func (as adminStore) Update(ctx context.Context, a *models.Admin) error {
	as.s.mu.Lock()
	defer as.s.mu.Unlock()
	if _, ok := as.s.admins[a.ID]; !ok {
		return domain.ErrAdminNotFound
	}
	as.s.admins[a.ID] = *a
	return nil
}
