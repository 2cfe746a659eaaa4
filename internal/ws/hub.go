package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Client is a single dashboard websocket connection.
type Client struct {
	AdminID uint
	Send    chan []byte
	hub     *DashboardHub
	mu      sync.Mutex
	closed  bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// LedgerEvent is pushed to every connected dashboard when a transaction
// commits, so open dashboards can refresh their statistics.
type LedgerEvent struct {
	Event    string          `json:"event"`
	ClientID uint            `json:"client_id"`
	Type     string          `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Balance  decimal.Decimal `json:"balance"`
	At       int64           `json:"at"`
}

// DashboardHub maintains the set of connected admin dashboards and
// broadcasts ledger activity to them.
type DashboardHub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewDashboardHub() *DashboardHub {
	return &DashboardHub{clients: make(map[*Client]struct{})}
}

func (h *DashboardHub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	h.clients[c] = struct{}{}
}

func (h *DashboardHub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

func (h *DashboardHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TransactionRecorded implements service.LedgerNotifier.
func (h *DashboardHub) TransactionRecorded(clientID uint, txType string, amount, newBalance decimal.Decimal) {
	h.broadcast(LedgerEvent{
		Event:    "transaction_recorded",
		ClientID: clientID,
		Type:     txType,
		Amount:   amount,
		Balance:  newBalance,
		At:       time.Now().Unix(),
	})
}

func (h *DashboardHub) broadcast(payload interface{}) {
	data, _ := json.Marshal(payload)
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
			// Slow consumer; drop the event rather than block the ledger.
		}
	}
}
