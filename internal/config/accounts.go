package config

import (
	"sync/atomic"

	"github.com/seadrive-io/seadrive-tray/internal/models"
)

// LoadAccounts loads ~/.seadrive-tray/accounts.yaml, or an empty index.
func LoadAccounts() (*models.AccountsIndex, error) {
	path, err := GlobalAccountsFile()
	if err != nil {
		return nil, err
	}
	return LoadYAMLOrDefault(path, models.NewAccountsIndex)
}

// SaveAccounts writes the accounts index.
func SaveAccounts(idx *models.AccountsIndex) error {
	path, err := GlobalAccountsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, idx)
}

// AccountStore resolves accounts by domain id from the live accounts index.
type AccountStore struct {
	idx atomic.Pointer[models.AccountsIndex]
}

// NewAccountStore creates a store seeded with idx.
func NewAccountStore(idx *models.AccountsIndex) *AccountStore {
	if idx == nil {
		idx = models.NewAccountsIndex()
	}
	st := &AccountStore{}
	st.idx.Store(idx)
	return st
}

// Reload re-reads accounts.yaml. On error the previous index stays active.
func (st *AccountStore) Reload() error {
	idx, err := LoadAccounts()
	if err != nil {
		return err
	}
	st.idx.Store(idx)
	return nil
}

// AccountByDomainID returns the account for a domain id. The second result is
// false when no valid account is registered for it.
func (st *AccountStore) AccountByDomainID(domainID string) (models.Account, bool) {
	a, ok := st.idx.Load().FindByDomainID(domainID)
	if !ok || !a.IsValid() {
		return models.Account{}, false
	}
	return a, true
}
