package models

import (
	"time"
)

// Transaction is a single recorded crypto transaction. Timestamp is
// assigned by the database at insert time and never updated afterwards;
// it serializes as RFC 3339.
type Transaction struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CryptoName string    `gorm:"type:varchar(50);not null;index" json:"crypto_name"`
	Amount     float64   `gorm:"not null" json:"amount"`
	PriceUSD   float64   `gorm:"not null" json:"price_usd"`
	Timestamp  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"timestamp"`
}

func (Transaction) TableName() string {
	return "transactions"
}
