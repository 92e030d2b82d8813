// Package ynab is a client for the YNAB API.
package ynab

// Account represents a YNAB account.
type Account struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Closed  bool   `json:"closed"`
	Deleted bool   `json:"deleted"`
}

// AccountsResponse is the response from fetching accounts.
type AccountsResponse struct {
	Data struct {
		Accounts []Account `json:"accounts"`
	} `json:"data"`
}

// SaveTransaction is one transaction in a bulk create request.
type SaveTransaction struct {
	AccountID string `json:"account_id"`
	Date      string `json:"date"`   // YYYY-MM-DD
	Amount    int64  `json:"amount"` // milliunits
	PayeeName string `json:"payee_name,omitempty"`
	ImportID  string `json:"import_id"`
	FlagColor string `json:"flag_color,omitempty"`
	Cleared   string `json:"cleared"` // cleared, uncleared, reconciled
}

// CreateTransactionsRequest is the request body for creating transactions.
type CreateTransactionsRequest struct {
	Transactions []SaveTransaction `json:"transactions"`
}

// CreateTransactionsResponse is the response from creating transactions.
type CreateTransactionsResponse struct {
	Data struct {
		TransactionIDs     []string `json:"transaction_ids"`
		DuplicateImportIDs []string `json:"duplicate_import_ids"`
	} `json:"data"`
}

const (
	clearedCleared   = "cleared"
	clearedUncleared = "uncleared"
)
