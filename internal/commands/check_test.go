package commands_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_BothTokensWork(t *testing.T) {
	a := newAPIs(t)

	res := execute(t, "check")
	require.Equal(t, 0, res.code, res.stderr)

	assert.Contains(t, res.stdout, "» Checking your API tokens")
	assert.Contains(t, res.stdout, "✓ Your Up API token is working.")
	assert.Contains(t, res.stdout, "✓ Your YNAB API token is working.")
	assert.Contains(t, res.stdout, "you're good to go!")
	assert.Equal(t, 1, a.up.Count("GET /api/v1/util/ping"))
	assert.Equal(t, 1, a.ynab.Count("GET /v1/user"))
}

func TestCheck_MissingToken(t *testing.T) {
	a := newAPIs(t)
	t.Setenv("UP_API_TOKEN", "")

	res := execute(t, "check")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stdout, "✗ No Up API token was provided.")
	assert.Contains(t, res.stdout, "✓ Your YNAB API token is working.")
	assert.Contains(t, res.stderr, "View `up2ynab check --help` for setup instructions.")
	assert.Zero(t, a.up.Count(""), "no request without a token")
}

func TestCheck_RejectedToken(t *testing.T) {
	newAPIs(t)

	res := execute(t, "--ynab-api-token", "wrong", "check")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stdout, "✓ Your Up API token is working.")
	assert.Contains(t, res.stdout, "✗ Your YNAB API token returned an authentication error.")
	assert.Contains(t, res.stderr, "An authentication error occurred")
}

func TestCheck_ProbeFailure(t *testing.T) {
	a := newAPIs(t)
	a.up.FailWith("ping", http.StatusServiceUnavailable)

	res := execute(t, "check")
	assert.Equal(t, 3, res.code)
	assert.Contains(t, res.stdout, "! Your Up API token could not be checked.")
	assert.Contains(t, res.stdout, "✓ Your YNAB API token is working.")
	assert.Contains(t, res.stderr, "internal server error")
}

func TestCheck_Help(t *testing.T) {
	res := execute(t, "check", "--help")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "https://api.up.com.au/getting_started")
	assert.Contains(t, res.stdout, "UP_API_TOKEN")
}
