package ledger

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"atm_system/internal/domain"
	"atm_system/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore keeps the last saved state in memory
type memStore struct {
	records []domain.Account
	saves   int
	loadErr error
	saveErr error
}

func (m *memStore) Load() ([]domain.Account, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]domain.Account(nil), m.records...), nil
}

func (m *memStore) Save(accounts []domain.Account) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = append([]domain.Account(nil), accounts...)
	m.saves++
	return nil
}

func newLedger(t *testing.T, seed ...domain.Account) (*Ledger, *memStore) {
	t.Helper()
	st := &memStore{records: seed}
	l, err := New(st)
	require.NoError(t, err)
	return l, st
}

func login(t *testing.T, l *Ledger, card, pin string) {
	t.Helper()
	require.True(t, l.Authenticate(card, pin))
}

func find(t *testing.T, l *Ledger, card string) domain.Account {
	t.Helper()
	for _, acc := range l.Accounts() {
		if acc.CardID == card {
			return acc
		}
	}
	t.Fatalf("account %s not found", card)
	return domain.Account{}
}

func TestRegister(t *testing.T) {
	l, st := newLedger(t)

	ok, err := l.Register("1111", "0000")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, StartingBalance, find(t, l, "1111").Balance)
	assert.Equal(t, 1, st.saves)
	assert.Equal(t, []domain.Account{{CardID: "1111", Balance: 100000, Credential: "0000"}}, st.records)
}

func TestRegisterDuplicateLeavesRecord(t *testing.T) {
	l, st := newLedger(t, domain.Account{CardID: "1111", Balance: 5, Credential: "0000"})

	ok, err := l.Register("1111", "9999")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, domain.Account{CardID: "1111", Balance: 5, Credential: "0000"}, find(t, l, "1111"))
	assert.Zero(t, st.saves)
}

func TestRegisterInvalidField(t *testing.T) {
	l, st := newLedger(t)

	_, err := l.Register("11,11", "0000")
	assert.ErrorIs(t, err, domain.ErrInvalidField)
	_, err = l.Register("1111", "")
	assert.ErrorIs(t, err, domain.ErrInvalidField)
	_, err = l.Register("1111", strings.Repeat("9", 70000))
	assert.ErrorIs(t, err, domain.ErrInvalidField)
	_, err = l.Register(strings.Repeat("1", domain.MaxFieldLen+1), "0000")
	assert.ErrorIs(t, err, domain.ErrInvalidField)
	assert.Empty(t, l.Accounts())
	assert.Zero(t, st.saves)
}

func TestAuthenticate(t *testing.T) {
	l, _ := newLedger(t,
		domain.Account{CardID: "1111", Balance: 10, Credential: "Pin"},
		domain.Account{CardID: "2222", Balance: 20, Credential: "0000"},
	)

	assert.False(t, l.Authenticate("1111", "pin"), "credential match is case-sensitive")
	assert.False(t, l.Authenticate("3333", "Pin"))
	_, active := l.ActiveCardID()
	assert.False(t, active)

	login(t, l, "1111", "Pin")
	card, _ := l.ActiveCardID()
	assert.Equal(t, "1111", card)

	// failed login keeps the previous session
	assert.False(t, l.Authenticate("2222", "bad"))
	card, _ = l.ActiveCardID()
	assert.Equal(t, "1111", card)

	// re-authentication replaces it
	login(t, l, "2222", "0000")
	bal, err := l.Balance()
	require.NoError(t, err)
	assert.EqualValues(t, 20, bal)
}

func TestNoActiveSession(t *testing.T) {
	l, _ := newLedger(t, domain.Account{CardID: "1111", Balance: 10, Credential: "0000"})

	_, err := l.Balance()
	assert.ErrorIs(t, err, ErrNoActiveSession)
	_, err = l.Withdraw(1)
	assert.ErrorIs(t, err, ErrNoActiveSession)
	_, err = l.Transfer("1111", 1)
	assert.ErrorIs(t, err, ErrNoActiveSession)
	assert.ErrorIs(t, l.ChangeCredential("1234"), ErrNoActiveSession)
}

func TestWithdraw(t *testing.T) {
	l, st := newLedger(t, domain.Account{CardID: "1111", Balance: 100, Credential: "0000"})
	login(t, l, "1111", "0000")

	ok, err := l.Withdraw(100)
	require.NoError(t, err)
	assert.True(t, ok)
	bal, _ := l.Balance()
	assert.Zero(t, bal)
	assert.Equal(t, 1, st.saves)

	ok, err = l.Withdraw(1)
	require.NoError(t, err)
	assert.False(t, ok)
	bal, _ = l.Balance()
	assert.Zero(t, bal)
	assert.Equal(t, 1, st.saves)
}

func TestWithdrawInvalidAmount(t *testing.T) {
	l, _ := newLedger(t, domain.Account{CardID: "1111", Balance: 100, Credential: "0000"})
	login(t, l, "1111", "0000")

	for _, amount := range []int64{0, -10} {
		_, err := l.Withdraw(amount)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
	bal, _ := l.Balance()
	assert.EqualValues(t, 100, bal)
}

func TestTransferConservesTotal(t *testing.T) {
	l, st := newLedger(t,
		domain.Account{CardID: "A", Balance: 500, Credential: "a"},
		domain.Account{CardID: "B", Balance: 300, Credential: "b"},
	)
	login(t, l, "A", "a")

	for _, amount := range []int64{1, 99, 400} {
		before := find(t, l, "A").Balance + find(t, l, "B").Balance
		ok, err := l.Transfer("B", amount)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, before, find(t, l, "A").Balance+find(t, l, "B").Balance)
	}
	assert.EqualValues(t, 0, find(t, l, "A").Balance)
	assert.EqualValues(t, 800, find(t, l, "B").Balance)
	assert.Equal(t, 3, st.saves)
}

func TestTransferRejections(t *testing.T) {
	l, st := newLedger(t,
		domain.Account{CardID: "A", Balance: 50, Credential: "a"},
		domain.Account{CardID: "B", Balance: 0, Credential: "b"},
	)
	login(t, l, "A", "a")

	ok, err := l.Transfer("B", 51)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Transfer("Z", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = l.Transfer("B", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	assert.EqualValues(t, 50, find(t, l, "A").Balance)
	assert.EqualValues(t, 0, find(t, l, "B").Balance)
	assert.Zero(t, st.saves)
}

func TestTransferCreditOverflow(t *testing.T) {
	l, st := newLedger(t,
		domain.Account{CardID: "A", Balance: 100, Credential: "a"},
		domain.Account{CardID: "B", Balance: math.MaxInt64, Credential: "b"},
	)
	login(t, l, "A", "a")

	ok, err := l.Transfer("B", 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.EqualValues(t, 100, find(t, l, "A").Balance)
	assert.EqualValues(t, int64(math.MaxInt64), find(t, l, "B").Balance)
	assert.Zero(t, st.saves)

	// the full balance can still move back out of B, and B can pay itself
	login(t, l, "B", "b")
	ok, err = l.Transfer("B", math.MaxInt64)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = l.Transfer("A", math.MaxInt64-100)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, int64(math.MaxInt64), find(t, l, "A").Balance)
}

func TestSelfTransfer(t *testing.T) {
	l, st := newLedger(t, domain.Account{CardID: "A", Balance: 50, Credential: "a"})
	login(t, l, "A", "a")

	ok, err := l.Transfer("A", 50)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 50, find(t, l, "A").Balance)
	assert.Equal(t, 1, st.saves)

	ok, err = l.Transfer("A", 51)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChangeCredential(t *testing.T) {
	l, st := newLedger(t, domain.Account{CardID: "1111", Balance: 10, Credential: "0000"})
	login(t, l, "1111", "0000")

	require.NoError(t, l.ChangeCredential("1234"))
	assert.Equal(t, "1234", st.records[0].Credential)
	assert.ErrorIs(t, l.ChangeCredential("12,34"), domain.ErrInvalidField)
	assert.Equal(t, "1234", find(t, l, "1111").Credential)
}

func TestPersistFailureKeepsMutation(t *testing.T) {
	l, st := newLedger(t, domain.Account{CardID: "1111", Balance: 100, Credential: "0000"})
	login(t, l, "1111", "0000")
	st.saveErr = errors.New("disk full")

	ok, err := l.Withdraw(40)
	assert.False(t, ok)
	assert.ErrorIs(t, err, st.saveErr)
	bal, _ := l.Balance()
	assert.EqualValues(t, 60, bal)
}

func TestLoadFailures(t *testing.T) {
	_, err := New(&memStore{loadErr: &domain.CorruptRecordError{Source: "users.txt", Line: 2, Reason: "bad"}})
	var corrupt *domain.CorruptRecordError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, 2, corrupt.Line)

	_, err = New(&memStore{records: []domain.Account{
		{CardID: "1", Balance: 1, Credential: "a"},
		{CardID: "1", Balance: 2, Credential: "b"},
	}})
	require.ErrorAs(t, err, &corrupt)
	assert.Contains(t, corrupt.Reason, "duplicate")
}

func TestPersistenceRoundTrip(t *testing.T) {
	l, st := newLedger(t)
	for _, card := range []string{"1", "2", "3"} {
		ok, err := l.Register(card, "pin"+card)
		require.NoError(t, err)
		require.True(t, ok)
	}
	login(t, l, "2", "pin2")
	_, err := l.Transfer("3", 25)
	require.NoError(t, err)

	reloaded, err := New(st)
	require.NoError(t, err)
	assert.Equal(t, l.Accounts(), reloaded.Accounts())
	_, active := reloaded.ActiveCardID()
	assert.False(t, active, "sessions are not persisted")
}

func TestFileStoreRestartAfterRejectedInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.txt")
	l, err := New(store.NewFileStore(path))
	require.NoError(t, err)

	_, err = l.Register("1111", strings.Repeat("9", 70000))
	assert.ErrorIs(t, err, domain.ErrInvalidField)
	ok, err := l.Register("2222", strings.Repeat("9", domain.MaxFieldLen))
	require.NoError(t, err)
	require.True(t, ok)

	reloaded, err := New(store.NewFileStore(path))
	require.NoError(t, err)
	assert.Equal(t, l.Accounts(), reloaded.Accounts())
}

func TestTellerScenario(t *testing.T) {
	l, _ := newLedger(t)

	ok, err := l.Register("1111", "0000")
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 100000, find(t, l, "1111").Balance)

	require.True(t, l.Authenticate("1111", "0000"))

	ok, err = l.Withdraw(30000)
	require.NoError(t, err)
	assert.True(t, ok)
	bal, _ := l.Balance()
	assert.EqualValues(t, 70000, bal)

	ok, err = l.Transfer("9999", 1000)
	require.NoError(t, err)
	assert.False(t, ok)
	bal, _ = l.Balance()
	assert.EqualValues(t, 70000, bal)

	require.NoError(t, l.ChangeCredential("1234"))
	assert.False(t, l.Authenticate("1111", "0000"))
	assert.True(t, l.Authenticate("1111", "1234"))
}
