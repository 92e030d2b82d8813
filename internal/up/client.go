package up

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/up2ynab/up2ynab/internal/accounts"
	"github.com/up2ynab/up2ynab/internal/apiclient"
	"github.com/up2ynab/up2ynab/internal/model"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://api.up.com.au/api/v1"
	// DefaultPageSize is the page[size] requested per transactions page.
	DefaultPageSize = 100
	// DefaultMaxPages bounds how many pages one listing may follow.
	DefaultMaxPages = 500

	// sinceLayout renders the filter instant with an explicit offset ("+00:00", not "Z").
	sinceLayout = "2006-01-02T15:04:05-07:00"
)

var (
	// ErrTooManyPages means a listing kept returning next links past MaxPages.
	ErrTooManyPages = errors.New("too many pages")
	// ErrForeignNextLink means a next link pointed outside the API's origin.
	ErrForeignNextLink = errors.New("next link leaves the API origin")
)

// Config represents the configuration for the Up client.
type Config struct {
	BaseURL  string // Default: DefaultBaseURL
	Token    string
	Timeout  time.Duration
	PageSize int // Default: DefaultPageSize
	MaxPages int // Default: DefaultMaxPages
	Logger   zerolog.Logger
}

// Client is an Up API client.
type Client struct {
	api      *apiclient.Client
	pageSize int
	maxPages int
	logger   zerolog.Logger
}

// NewClient creates a new Up API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	api, err := apiclient.New(apiclient.Config{
		API:     "Up",
		BaseURL: cfg.BaseURL,
		Token:   cfg.Token,
		Timeout: cfg.Timeout,
		Logger:  cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Client{
		api:      api,
		pageSize: cfg.PageSize,
		maxPages: cfg.MaxPages,
		logger:   cfg.Logger,
	}, nil
}

// Ping reports whether the token authenticates: true on 200, false on 401.
// Any other status is returned as an error.
func (c *Client) Ping(ctx context.Context) (bool, error) {
	return c.api.Probe(ctx, "/util/ping")
}

// Accounts lists every account, following pagination.
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var all []Account
	err := c.paginate(ctx, c.api.URL("/accounts", nil), func(ctx context.Context, pageURL string) (*string, error) {
		var page AccountsResponse
		if err := c.api.GetJSON(ctx, pageURL, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		return page.Links.Next, nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing Up accounts: %w", err)
	}
	return all, nil
}

// TransactionalAccount resolves the ID of the single everyday account. Saver
// and loan accounts are ignored; anything other than exactly one
// TRANSACTIONAL account is an *accounts.ResolutionError.
func (c *Client) TransactionalAccount(ctx context.Context) (string, error) {
	upAccounts, err := c.Accounts(ctx)
	if err != nil {
		return "", err
	}
	list := make([]model.Account, 0, len(upAccounts))
	for _, a := range upAccounts {
		list = append(list, model.Account{
			ID:   a.ID,
			Name: a.Attributes.DisplayName,
			Type: model.AccountType(a.Attributes.AccountType),
		})
	}
	acct, err := accounts.NewService(list).UniqueByType(model.AccountTypeTransactional)
	if err != nil {
		return "", fmt.Errorf("resolving Up transactional account: %w", err)
	}
	return acct.ID, nil
}

// Transactions returns every transaction on accountID created at or after
// since, in the order the server returns them.
func (c *Client) Transactions(ctx context.Context, accountID string, since time.Time) ([]Transaction, error) {
	query := url.Values{}
	query.Set("filter[since]", FormatSince(since))
	query.Set("page[size]", strconv.Itoa(c.pageSize))
	first := c.api.URL("/accounts/"+url.PathEscape(accountID)+"/transactions", query)

	var all []Transaction
	err := c.paginate(ctx, first, func(ctx context.Context, pageURL string) (*string, error) {
		var page TransactionsResponse
		if err := c.api.GetJSON(ctx, pageURL, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		return page.Links.Next, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching Up transactions: %w", err)
	}
	return all, nil
}

// FormatSince renders t as the filter[since] value: UTC with a "+00:00" offset.
func FormatSince(t time.Time) string {
	return t.UTC().Format(sinceLayout)
}

// fetchPage fetches one page and returns its next link, or nil on the last page.
type fetchPage func(ctx context.Context, pageURL string) (*string, error)

// paginate follows next links verbatim until one is null. Pages are strictly
// sequential; ctx is checked before each request.
func (c *Client) paginate(ctx context.Context, first string, fetch fetchPage) error {
	pageURL := first
	for page := 1; ; page++ {
		if page > c.maxPages {
			return fmt.Errorf("%w: stopped after %d", ErrTooManyPages, c.maxPages)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		next, err := fetch(ctx, pageURL)
		if err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}
		c.logger.Debug().Int("page", page).Bool("more", next != nil).Msg("fetched Up page")

		if next == nil || *next == "" {
			return nil
		}
		if !c.api.SameOrigin(*next) {
			return fmt.Errorf("page %d: %w: %q", page, ErrForeignNextLink, *next)
		}
		pageURL = *next
	}
}
