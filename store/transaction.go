package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"cointracker/models"
)

// ErrNotFound is returned when no transaction exists for the requested id.
var ErrNotFound = errors.New("store: transaction not found")

// TransactionPatch carries the fields of a partial update. A nil field
// leaves the stored value unchanged; a non-nil field overwrites it.
type TransactionPatch struct {
	CryptoName *string
	Amount     *float64
	PriceUSD   *float64
}

// TransactionStore holds the CRUD operations for transaction records.
// It keeps no state of its own: every method runs against the session
// passed in, so callers decide the unit of work.
type TransactionStore struct{}

func NewTransactionStore() *TransactionStore {
	return &TransactionStore{}
}

// Create inserts a new transaction and returns it with the generated
// id and the database-assigned timestamp populated.
func (s *TransactionStore) Create(sess *gorm.DB, cryptoName string, amount, priceUSD float64) (models.Transaction, error) {
	tx := models.Transaction{
		CryptoName: cryptoName,
		Amount:     amount,
		PriceUSD:   priceUSD,
	}
	if err := sess.Create(&tx).Error; err != nil {
		return models.Transaction{}, fmt.Errorf("failed to create transaction: %w", err)
	}
	// Re-read so the database-assigned timestamp is populated.
	return s.GetByID(sess, tx.ID)
}

// List returns transactions in insertion order, skipping the first
// skip records and returning at most limit. An empty result is not an
// error.
func (s *TransactionStore) List(sess *gorm.DB, skip, limit int) ([]models.Transaction, error) {
	txs := make([]models.Transaction, 0)
	if err := sess.Order("id ASC").Offset(skip).Limit(limit).Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (s *TransactionStore) GetByID(sess *gorm.DB, id uint) (models.Transaction, error) {
	var tx models.Transaction
	if err := sess.First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Transaction{}, ErrNotFound
		}
		return models.Transaction{}, fmt.Errorf("failed to fetch transaction %d: %w", id, err)
	}
	return tx, nil
}

// Update applies the non-nil fields of patch to the record and returns
// it after mutation. The timestamp column is never touched.
func (s *TransactionStore) Update(sess *gorm.DB, id uint, patch TransactionPatch) (models.Transaction, error) {
	tx, err := s.GetByID(sess, id)
	if err != nil {
		return models.Transaction{}, err
	}

	updates := map[string]interface{}{}
	if patch.CryptoName != nil {
		updates["crypto_name"] = *patch.CryptoName
	}
	if patch.Amount != nil {
		updates["amount"] = *patch.Amount
	}
	if patch.PriceUSD != nil {
		updates["price_usd"] = *patch.PriceUSD
	}
	if len(updates) == 0 {
		return tx, nil
	}

	if err := sess.Model(&tx).Updates(updates).Error; err != nil {
		return models.Transaction{}, fmt.Errorf("failed to update transaction %d: %w", id, err)
	}
	return s.GetByID(sess, id)
}

// Delete removes the record and returns it as it was before deletion.
func (s *TransactionStore) Delete(sess *gorm.DB, id uint) (models.Transaction, error) {
	tx, err := s.GetByID(sess, id)
	if err != nil {
		return models.Transaction{}, err
	}
	if err := sess.Delete(&models.Transaction{}, id).Error; err != nil {
		return models.Transaction{}, fmt.Errorf("failed to delete transaction %d: %w", id, err)
	}
	return tx, nil
}
