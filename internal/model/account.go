package model

// AccountType classifies accounts in the source ledger.
type AccountType string

const (
	AccountTypeTransactional AccountType = "TRANSACTIONAL"
	AccountTypeSaver         AccountType = "SAVER"
	AccountTypeHomeLoan      AccountType = "HOME_LOAN"
)

// Account is an account on either side of the sync, reduced to what
// resolution needs.
type Account struct {
	ID      string
	Name    string
	Type    AccountType // empty for destination accounts
	Deleted bool
}
