package models

// Account is a server account the client is signed in to.
type Account struct {
	DomainID  string `yaml:"domain_id"`
	ServerURL string `yaml:"server_url"`
	Username  string `yaml:"username"`
	Token     string `yaml:"token,omitempty"`
}

// IsValid reports whether the account can be used for server actions.
func (a Account) IsValid() bool {
	return a.ServerURL != "" && a.Username != ""
}

// AccountsIndex represents ~/.seadrive-tray/accounts.yaml.
type AccountsIndex struct {
	Version  int       `yaml:"version"`
	Accounts []Account `yaml:"accounts"`
}

// NewAccountsIndex creates an empty accounts index.
func NewAccountsIndex() *AccountsIndex {
	return &AccountsIndex{Version: 1}
}

// FindByDomainID returns the account registered for the given domain id.
func (idx *AccountsIndex) FindByDomainID(domainID string) (Account, bool) {
	if idx == nil || domainID == "" {
		return Account{}, false
	}
	for _, a := range idx.Accounts {
		if a.DomainID == domainID {
			return a, true
		}
	}
	return Account{}, false
}
