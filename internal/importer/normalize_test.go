package importer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/up2ynab/up2ynab/internal/model"
	"github.com/up2ynab/up2ynab/internal/up"
)

const sampleJSON = `{
  "type": "transactions",
  "id": "0b5bf2c5-9a4d-4b0e-8d5e-2b3c4d5e6f70",
  "attributes": {
    "status": "SETTLED",
    "rawText": "SQ *COFFEE CART",
    "description": "Coffee Cart",
    "message": null,
    "amount": {"currencyCode": "AUD", "value": "-5.50", "valueInBaseUnits": -550},
    "foreignAmount": null,
    "settledAt": "2021-03-05T02:00:00+10:00",
    "createdAt": "2021-03-04T23:59:00+10:00"
  },
  "relationships": {"account": {"data": {"type": "accounts", "id": "acc-t"}}}
}`

func sample(t *testing.T) up.Transaction {
	t.Helper()
	var tx up.Transaction
	require.NoError(t, json.Unmarshal([]byte(sampleJSON), &tx))
	return tx
}

func TestNormalize(t *testing.T) {
	got, err := Normalize(sample(t))
	require.NoError(t, err)

	assert.Equal(t, model.Transaction{
		SourceID:  "0b5bf2c5-9a4d-4b0e-8d5e-2b3c4d5e6f70",
		Date:      "2021-03-04",
		Amount:    -5500,
		PayeeName: "Coffee Cart",
		ImportID:  "up0:0b5bf2c59a4d4b0e8d5e2b3c4d5e6f70",
		IsForeign: false,
		IsCleared: true,
	}, got)
}

func TestNormalize_Amounts(t *testing.T) {
	tests := []struct {
		cents int64
		want  model.Milliunits
	}{
		{-550, -5500},
		{1000, 10000},
		{0, 0},
		{-1, -10},
	}
	for _, tt := range tests {
		tx := sample(t)
		tx.Attributes.Amount.ValueInBaseUnits = tt.cents
		got, err := Normalize(tx)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Amount, "cents %d", tt.cents)
	}
}

func TestNormalize_DateUsesOwnOffset(t *testing.T) {
	tests := []struct {
		createdAt string
		want      string
	}{
		{"2021-03-04T23:59:00+10:00", "2021-03-04"},
		{"2021-03-04T00:00:00+10:00", "2021-03-04"},
		{"2021-03-04T00:30:00-05:00", "2021-03-04"},
		{"2021-12-31T23:59:59Z", "2021-12-31"},
	}
	for _, tt := range tests {
		tx := sample(t)
		tx.Attributes.CreatedAt = tt.createdAt
		got, err := Normalize(tx)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Date, "createdAt %s", tt.createdAt)
	}
}

func TestNormalize_Foreign(t *testing.T) {
	tx := sample(t)
	tx.Attributes.ForeignAmount = &up.Money{CurrencyCode: "USD", Value: "-4.00", ValueInBaseUnits: -400}

	got, err := Normalize(tx)
	require.NoError(t, err)
	assert.True(t, got.IsForeign)
	assert.Equal(t, model.Milliunits(-5500), got.Amount, "amount stays in the account currency")
}

func TestNormalize_HeldIsCleared(t *testing.T) {
	tx := sample(t)
	tx.Attributes.Status = "HELD"
	tx.Attributes.SettledAt = nil

	got, err := Normalize(tx)
	require.NoError(t, err)
	assert.True(t, got.IsCleared)
}

func TestNormalize_PayeeVerbatim(t *testing.T) {
	tx := sample(t)
	tx.Attributes.Description = "  Café  \"Zoë\" & Co. — Shop #12  "

	got, err := Normalize(tx)
	require.NoError(t, err)
	assert.Equal(t, tx.Attributes.Description, got.PayeeName)
}

func TestNormalize_ImportIDIsStable(t *testing.T) {
	first, err := Normalize(sample(t))
	require.NoError(t, err)

	// Same source record fetched later, on another page, after it settled.
	later := sample(t)
	later.Attributes.Status = "HELD"
	later.Attributes.Description = "COFFEE CART BRISBANE"
	later.Attributes.CreatedAt = "2021-03-04T23:59:00+10:00"
	second, err := Normalize(later)
	require.NoError(t, err)

	assert.Equal(t, first.ImportID, second.ImportID)
}

func TestNormalize_BadCreatedAt(t *testing.T) {
	tx := sample(t)
	tx.Attributes.CreatedAt = "04/03/2021"
	_, err := Normalize(tx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing createdAt")
}

func TestNormalize_BadID(t *testing.T) {
	tx := sample(t)
	tx.ID = "tx-1"
	_, err := Normalize(tx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid source transaction ID")
}

func TestNormalizeAll(t *testing.T) {
	a := sample(t)
	b := sample(t)
	b.ID = "a1b2c3d4-0000-4000-8000-00000000000f"
	b.Attributes.Amount.ValueInBaseUnits = 1000

	got, err := NormalizeAll([]up.Transaction{a, b})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "up0:0b5bf2c59a4d4b0e8d5e2b3c4d5e6f70", got[0].ImportID)
	assert.Equal(t, "up0:a1b2c3d400004000800000000000000f", got[1].ImportID)
	assert.Equal(t, model.Milliunits(10000), got[1].Amount)
}

func TestNormalizeAll_ReportsPosition(t *testing.T) {
	a := sample(t)
	b := sample(t)
	b.ID = "broken"

	_, err := NormalizeAll([]up.Transaction{a, b})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction 2 (broken)")
}

func TestNormalizeAll_Empty(t *testing.T) {
	got, err := NormalizeAll(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
