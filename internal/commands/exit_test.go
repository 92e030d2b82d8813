package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinary_Version(t *testing.T) {
	out, code := runBinary(t, nil, "--version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "up2ynab version dev")
}

func TestBinary_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		env  []string
		args []string
		code int
		out  string
	}{
		{"missing tokens", nil, []string{"sync"}, 2, "were not provided"},
		{"check without tokens", nil, []string{"check"}, 2, "No Up API token was provided."},
		{"bad flag colour", []string{"UP2YNAB_FOREIGN_FLAG=pink"}, []string{"sync"}, 2, `invalid flag color "pink"`},
		{"unreachable API", []string{
			"UP_API_TOKEN=t", "YNAB_API_TOKEN=t",
			"UP_API_URL=http://127.0.0.1:1/api/v1",
		}, []string{"sync"}, 3, "Could not get a response"},
		{"unknown command", nil, []string{"frobnicate"}, 1, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, code := runBinary(t, tt.env, tt.args...)
			assert.Equal(t, tt.code, code, out)
			assert.Contains(t, out, tt.out)
		})
	}
}
