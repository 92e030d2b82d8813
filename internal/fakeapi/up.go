package fakeapi

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// UpAccount is an account served by the fake Up API.
type UpAccount struct {
	ID   string
	Name string
	Type string // TRANSACTIONAL, SAVER, HOME_LOAN
}

// UpTransaction is a transaction served by the fake Up API.
type UpTransaction struct {
	ID          string
	AccountID   string
	CreatedAt   string // RFC 3339
	Cents       int64
	Description string
	Foreign     bool
}

// Up is a fake of the Up banking API rooted at BaseURL().
type Up struct {
	recorder
	Server *httptest.Server

	Token        string
	Accounts     []UpAccount
	Transactions []UpTransaction
	// PageSize overrides the client's page[size] when positive.
	PageSize int
	// EndlessPages makes every transaction page link to another one.
	EndlessPages bool
	// NextLink replaces every transactions next link when set.
	NextLink string

	since []string
}

// NewUp starts a fake Up server that is closed when the test ends.
func NewUp(t testing.TB) *Up {
	t.Helper()
	f := &Up{Token: UpToken}

	r := newRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(f.middleware(&f.Token))
		r.Get("/util/ping", f.forced("ping", f.ping))
		r.Get("/accounts", f.forced("accounts", f.accounts))
		r.Get("/accounts/{id}/transactions", f.forced("transactions", f.transactions))
	})

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// BaseURL is the API root to configure the client with.
func (f *Up) BaseURL() string { return f.Server.URL + "/api/v1" }

// Since returns every filter[since] value received, in order.
func (f *Up) Since() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.since...)
}

func (f *Up) ping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"meta": map[string]string{"id": "ping", "statusEmoji": "⚡️"},
	})
}

func (f *Up) accounts(w http.ResponseWriter, _ *http.Request) {
	data := make([]map[string]any, 0, len(f.Accounts))
	for _, a := range f.Accounts {
		data = append(data, map[string]any{
			"type": "accounts",
			"id":   a.ID,
			"attributes": map[string]any{
				"displayName": a.Name,
				"accountType": a.Type,
			},
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  data,
		"links": map[string]any{"prev": nil, "next": nil},
	})
}

func (f *Up) transactions(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	q := r.URL.Query()

	since := q.Get("filter[since]")
	f.mu.Lock()
	f.since = append(f.since, since)
	f.mu.Unlock()

	var sinceTime time.Time
	if since != "" {
		var err error
		sinceTime, err = time.Parse(time.RFC3339, since)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"errors": []map[string]string{{"status": "400", "title": "Invalid Filter", "detail": err.Error()}},
			})
			return
		}
	}

	var matching []UpTransaction
	for _, tx := range f.Transactions {
		if tx.AccountID != "" && tx.AccountID != accountID {
			continue
		}
		created, err := time.Parse(time.RFC3339, tx.CreatedAt)
		if err == nil && !sinceTime.IsZero() && created.Before(sinceTime) {
			continue
		}
		matching = append(matching, tx)
	}

	size := f.PageSize
	if size <= 0 {
		size, _ = strconv.Atoi(q.Get("page[size]"))
	}
	if size <= 0 {
		size = 100
	}
	offset, _ := strconv.Atoi(q.Get("page[after]"))
	if offset > len(matching) {
		offset = len(matching)
	}
	end := min(offset+size, len(matching))

	data := make([]map[string]any, 0, end-offset)
	for _, tx := range matching[offset:end] {
		data = append(data, upTransactionJSON(tx))
	}

	var next any
	switch {
	case f.NextLink != "":
		next = f.NextLink
	case f.EndlessPages || end < len(matching):
		nq := url.Values{}
		for k, v := range q {
			nq[k] = v
		}
		nq.Set("page[after]", strconv.Itoa(end))
		next = f.Server.URL + r.URL.Path + "?" + nq.Encode()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  data,
		"links": map[string]any{"prev": nil, "next": next},
	})
}

func upTransactionJSON(tx UpTransaction) map[string]any {
	var foreign any
	if tx.Foreign {
		foreign = map[string]any{"currencyCode": "USD", "value": "-3.30", "valueInBaseUnits": -330}
	}
	return map[string]any{
		"type": "transactions",
		"id":   tx.ID,
		"attributes": map[string]any{
			"status":        "SETTLED",
			"rawText":       nil,
			"description":   tx.Description,
			"message":       nil,
			"foreignAmount": foreign,
			"createdAt":     tx.CreatedAt,
			"settledAt":     tx.CreatedAt,
			"amount": map[string]any{
				"currencyCode":     "AUD",
				"value":            formatCents(tx.Cents),
				"valueInBaseUnits": tx.Cents,
			},
		},
		"relationships": map[string]any{
			"account": map[string]any{"data": map[string]string{"type": "accounts", "id": tx.AccountID}},
		},
	}
}

func formatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	cents := strconv.FormatInt(c%100, 10)
	if len(cents) == 1 {
		cents = "0" + cents
	}
	return sign + strconv.FormatInt(c/100, 10) + "." + cents
}
