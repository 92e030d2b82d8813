package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
)

// YNABAccount is an account in the fake YNAB budget.
type YNABAccount struct {
	ID      string
	Name    string
	Deleted bool
}

// YNABTransaction is one uploaded transaction as received on the wire.
type YNABTransaction struct {
	AccountID string  `json:"account_id"`
	Date      string  `json:"date"`
	Amount    int64   `json:"amount"`
	PayeeName string  `json:"payee_name"`
	ImportID  string  `json:"import_id"`
	FlagColor *string `json:"flag_color"`
	Cleared   string  `json:"cleared"`
}

// YNAB is a fake of the YNAB API rooted at BaseURL(). Uploaded import IDs are
// remembered, so a second upload of the same IDs reports them as duplicates.
type YNAB struct {
	recorder
	Server *httptest.Server

	Token    string
	Accounts []YNABAccount
	// Existing holds import IDs already present in the budget.
	Existing map[string]bool

	uploads [][]YNABTransaction
}

// NewYNAB starts a fake YNAB server that is closed when the test ends.
func NewYNAB(t testing.TB) *YNAB {
	t.Helper()
	f := &YNAB{Token: YNABToken, Existing: make(map[string]bool)}

	r := newRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Use(f.middleware(&f.Token))
		r.Get("/user", f.forced("user", f.user))
		r.Get("/budgets/{budget}/accounts", f.forced("accounts", f.accounts))
		r.Post("/budgets/{budget}/transactions", f.forced("transactions", f.createTransactions))
	})

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// BaseURL is the API root to configure the client with.
func (f *YNAB) BaseURL() string { return f.Server.URL + "/v1" }

// Uploads returns the body of every bulk upload received, in order.
func (f *YNAB) Uploads() [][]YNABTransaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]YNABTransaction(nil), f.uploads...)
}

func (f *YNAB) user(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{"user": map[string]string{"id": "user-1"}},
	})
}

func (f *YNAB) accounts(w http.ResponseWriter, _ *http.Request) {
	accts := make([]map[string]any, 0, len(f.Accounts))
	for _, a := range f.Accounts {
		accts = append(accts, map[string]any{
			"id":      a.ID,
			"name":    a.Name,
			"type":    "checking",
			"closed":  false,
			"deleted": a.Deleted,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{"accounts": accts, "server_knowledge": 1},
	})
}

func (f *YNAB) createTransactions(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Transactions []YNABTransaction `json:"transactions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Transactions) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": map[string]string{"id": "400", "name": "bad_request", "detail": "transactions required"},
		})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, body.Transactions)

	created := []string{}
	duplicates := []string{}
	for i, tx := range body.Transactions {
		if f.Existing[tx.ImportID] {
			duplicates = append(duplicates, tx.ImportID)
			continue
		}
		f.Existing[tx.ImportID] = true
		created = append(created, "txn-"+strconv.Itoa(len(f.Existing))+"-"+strconv.Itoa(i))
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"data": map[string]any{
			"transaction_ids":      created,
			"duplicate_import_ids": duplicates,
			"server_knowledge":     len(f.Existing),
		},
	})
}
