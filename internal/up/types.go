// Package up is a client for the Up banking API.
package up

// Money is an amount in a single currency.
type Money struct {
	CurrencyCode     string `json:"currencyCode"`
	Value            string `json:"value"`            // e.g. "-5.50"
	ValueInBaseUnits int64  `json:"valueInBaseUnits"` // e.g. -550
}

// Transaction is one ledger entry as returned by the API.
type Transaction struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id"`
	Attributes    TransactionAttributes   `json:"attributes"`
	Relationships TransactionRelationship `json:"relationships"`
}

// TransactionAttributes holds the fields of a transaction.
type TransactionAttributes struct {
	Status        string  `json:"status"` // HELD or SETTLED
	RawText       *string `json:"rawText"`
	Description   string  `json:"description"`
	Message       *string `json:"message"`
	Amount        Money   `json:"amount"`
	ForeignAmount *Money  `json:"foreignAmount"`
	CreatedAt     string  `json:"createdAt"` // RFC 3339 with offset
	SettledAt     *string `json:"settledAt"`
}

// TransactionRelationship links a transaction to its account.
type TransactionRelationship struct {
	Account struct {
		Data struct {
			Type string `json:"type"`
			ID   string `json:"id"`
		} `json:"data"`
	} `json:"account"`
}

// Account is one account as returned by the API.
type Account struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	Attributes struct {
		DisplayName string `json:"displayName"`
		AccountType string `json:"accountType"` // TRANSACTIONAL, SAVER, HOME_LOAN
	} `json:"attributes"`
}

// Links carries the pagination cursor. Next is nil on the last page.
type Links struct {
	Prev *string `json:"prev"`
	Next *string `json:"next"`
}

// TransactionsResponse is one page of /accounts/{id}/transactions.
type TransactionsResponse struct {
	Data  []Transaction `json:"data"`
	Links Links         `json:"links"`
}

// AccountsResponse is one page of /accounts.
type AccountsResponse struct {
	Data  []Account `json:"data"`
	Links Links     `json:"links"`
}
