// Package fakeapi serves in-process fakes of the Up and YNAB APIs for tests.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

const (
	// UpToken is the token the fake Up server accepts by default.
	UpToken = "up:yeah:test-token"
	// YNABToken is the token the fake YNAB server accepts by default.
	YNABToken = "ynab-test-token"
)

// recorder keeps a log of handled requests and per-route forced failures.
type recorder struct {
	mu       sync.Mutex
	requests []string
	fail     map[string]int
}

// FailWith makes every request to route respond with status.
func (rec *recorder) FailWith(route string, status int) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.fail == nil {
		rec.fail = make(map[string]int)
	}
	rec.fail[route] = status
}

// Requests returns "METHOD path" for every request received, in order.
func (rec *recorder) Requests() []string {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]string(nil), rec.requests...)
}

// Count returns how many recorded requests start with prefix.
func (rec *recorder) Count(prefix string) int {
	n := 0
	for _, r := range rec.Requests() {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func (rec *recorder) record(r *http.Request) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.requests = append(rec.requests, r.Method+" "+r.URL.Path)
}

// forced wraps h so that a configured failure for route short-circuits it.
func (rec *recorder) forced(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		status := rec.fail[route]
		rec.mu.Unlock()
		if status != 0 {
			writeJSON(w, status, map[string]any{
				"error": map[string]string{"id": "forced", "name": "forced_failure", "detail": route},
			})
			return
		}
		h(w, r)
	}
}

// middleware records each request and rejects any without "Bearer <*token>".
func (rec *recorder) middleware(token *string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec.record(r)
			if r.Header.Get("Authorization") != "Bearer "+*token {
				writeJSON(w, http.StatusUnauthorized, map[string]any{
					"errors": []map[string]string{{"status": "401", "title": "Not Authorized", "detail": "invalid token"}},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newRouter() *chi.Mux {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
