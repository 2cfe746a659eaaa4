package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one immutable ledger entry. Amount is the magnitude; Type
// decides the sign. Rows are never updated or deleted individually, they only
// disappear when their client is deleted (FK cascade).
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ClientID    uint            `gorm:"not null;index" json:"client_id"`
	Type        string          `gorm:"size:16;not null;index" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description string          `gorm:"size:255" json:"description"`
	// Date is the caller-supplied business date; CreatedAt is when the row
	// was inserted. They may differ.
	Date      time.Time `gorm:"not null;index" json:"date"`
	CreatedAt time.Time `json:"created_at"`

	Client Client `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}
