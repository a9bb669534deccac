package store

import (
	"atm_system/internal/domain" // Account model
	"sort"                       // Deterministic write order

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Upsert clause
)

// GormStore keeps accounts in the SQL table "accounts"
type GormStore struct {
	DB *gorm.DB // Database connection
}

// NewGormStore returns a GormStore on db. The schema must already be migrated.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// Load reads and validates every row
func (s *GormStore) Load() ([]domain.Account, error) {
	var accounts []domain.Account
	if err := s.DB.Order("card_id").Find(&accounts).Error; err != nil {
		return nil, err
	}
	// Rows written by other tools get the same checks as file records
	for _, acc := range accounts {
		if err := acc.Validate(domain.Account{}.TableName()); err != nil {
			return nil, err
		}
	}
	return accounts, nil
}

// Save upserts every account in one transaction.
// Accounts are never deleted, so upserting the full set rewrites the state.
func (s *GormStore) Save(accounts []domain.Account) error {
	if len(accounts) == 0 {
		return nil // Nothing to write
	}
	rows := sortedByCard(accounts)
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error // Insert or overwrite by card_id
	})
}

// sortedByCard returns a copy of accounts ordered by card number
func sortedByCard(accounts []domain.Account) []domain.Account {
	out := append([]domain.Account(nil), accounts...)
	sort.Slice(out, func(i, j int) bool { return out[i].CardID < out[j].CardID })
	return out
}
