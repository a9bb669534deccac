package store

import (
	"path/filepath"
	"testing"

	"atm_system/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "atm.db")), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Account{}))
	return db
}

func TestGormStoreRoundTrip(t *testing.T) {
	s := NewGormStore(openSQLite(t))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, s.Save(nil))

	accounts := []domain.Account{
		{CardID: "1111", Balance: 100000, Credential: "0000"},
		{CardID: "2222", Balance: 0, Credential: "9999"},
	}
	require.NoError(t, s.Save(accounts))

	accounts[0].Balance = 70000
	accounts[1].Credential = "1234"
	require.NoError(t, s.Save(accounts))

	got, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, accounts, got)
}

func TestGormStoreRejectsCorruptRow(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, db.Create(&domain.Account{CardID: "1111", Balance: -1, Credential: "0000"}).Error)

	_, err := NewGormStore(db).Load()
	var corrupt *domain.CorruptRecordError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, "accounts", corrupt.Source)
	assert.Equal(t, "1111", corrupt.Text)
}

func TestGormStoreCardNumbersAreCaseSensitive(t *testing.T) {
	s := NewGormStore(openSQLite(t))
	accounts := []domain.Account{
		{CardID: "ABC", Balance: 1, Credential: "x"},
		{CardID: "abc", Balance: 2, Credential: "y"},
	}
	require.NoError(t, s.Save(accounts))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, accounts, got)
}
