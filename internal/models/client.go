package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is an account holder. Balance is a cached derived value: it must
// always equal the signed sum of the client's transactions. Only the
// transaction service writes it.
type Client struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"size:128;not null" json:"name"`
	Email     string          `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Balance   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Client) TableName() string {
	return "clients"
}
