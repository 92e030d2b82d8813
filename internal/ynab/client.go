package ynab

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/up2ynab/up2ynab/internal/accounts"
	"github.com/up2ynab/up2ynab/internal/apiclient"
	"github.com/up2ynab/up2ynab/internal/model"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.ynab.com/v1"

// budgetPath selects the budget most recently opened by the user.
const budgetPath = "/budgets/last-used"

// Config represents the configuration for the YNAB client.
type Config struct {
	BaseURL string // Default: DefaultBaseURL
	Token   string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Client is a YNAB API client.
type Client struct {
	api    *apiclient.Client
	logger zerolog.Logger
}

// NewClient creates a new YNAB API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	api, err := apiclient.New(apiclient.Config{
		API:     "YNAB",
		BaseURL: cfg.BaseURL,
		Token:   cfg.Token,
		Timeout: cfg.Timeout,
		Logger:  cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Client{api: api, logger: cfg.Logger}, nil
}

// Ping reports whether the token authenticates: true on 200, false on 401.
func (c *Client) Ping(ctx context.Context) (bool, error) {
	return c.api.Probe(ctx, "/user")
}

// Accounts lists the accounts in the last-used budget, deleted ones included.
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var resp AccountsResponse
	if err := c.api.GetJSON(ctx, c.api.URL(budgetPath+"/accounts", nil), &resp); err != nil {
		return nil, fmt.Errorf("listing YNAB accounts: %w", err)
	}
	return resp.Data.Accounts, nil
}

// AccountByName resolves the ID of the one non-deleted account called name.
// Zero or several matches is an *accounts.ResolutionError.
func (c *Client) AccountByName(ctx context.Context, name string) (string, error) {
	ynabAccounts, err := c.Accounts(ctx)
	if err != nil {
		return "", err
	}
	list := make([]model.Account, 0, len(ynabAccounts))
	for _, a := range ynabAccounts {
		list = append(list, model.Account{ID: a.ID, Name: a.Name, Deleted: a.Deleted})
	}
	acct, err := accounts.NewService(list).UniqueByName(name)
	if err != nil {
		return "", fmt.Errorf("resolving YNAB account: %w", err)
	}
	return acct.ID, nil
}

// CreateTransactions uploads txns to accountID in one request and returns the
// import IDs the budget already held. When flag is set, foreign-currency
// transactions are flagged with it.
func (c *Client) CreateTransactions(ctx context.Context, accountID string, txns []model.Transaction, flag model.FlagColor) ([]string, error) {
	req := CreateTransactionsRequest{Transactions: BuildSaveTransactions(accountID, txns, flag)}

	var resp CreateTransactionsResponse
	if err := c.api.PostJSON(ctx, budgetPath+"/transactions", req, &resp); err != nil {
		return nil, fmt.Errorf("creating YNAB transactions: %w", err)
	}
	c.logger.Debug().
		Int("sent", len(txns)).
		Int("created", len(resp.Data.TransactionIDs)).
		Int("duplicates", len(resp.Data.DuplicateImportIDs)).
		Msg("uploaded YNAB transactions")
	return resp.Data.DuplicateImportIDs, nil
}

// BuildSaveTransactions maps canonical transactions onto the request shape.
func BuildSaveTransactions(accountID string, txns []model.Transaction, flag model.FlagColor) []SaveTransaction {
	out := make([]SaveTransaction, 0, len(txns))
	for _, tx := range txns {
		st := SaveTransaction{
			AccountID: accountID,
			Date:      tx.Date,
			Amount:    int64(tx.Amount),
			PayeeName: tx.PayeeName,
			ImportID:  tx.ImportID,
			Cleared:   clearedUncleared,
		}
		if tx.IsCleared {
			st.Cleared = clearedCleared
		}
		if tx.IsForeign && flag != model.FlagNone {
			st.FlagColor = string(flag)
		}
		out = append(out, st)
	}
	return out
}
