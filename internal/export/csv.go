// Package export writes normalized transactions as CSV, one row per
// transaction in upload order.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/up2ynab/up2ynab/internal/model"
)

// Header is the CSV header row.
const Header = "date,amount,payee_name,import_id,foreign,cleared,source_id"

const (
	numFields    = 7
	colDate      = 0
	colAmount    = 1
	colPayee     = 2
	colImportID  = 3
	colForeign   = 4
	colCleared   = 5
	colSourceID  = 6
	amountPlaces = 2
)

// WriteTransactions writes txns to w, header first.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, tx := range txns {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTransactions reads rows written by WriteTransactions.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		tx, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, tx)
	}
	return txns, nil
}

// MarshalTransaction converts a transaction to a CSV row. Amounts are
// written in major units.
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colDate] = tx.Date
	row[colAmount] = tx.Amount.Decimal().StringFixed(amountPlaces)
	row[colPayee] = tx.PayeeName
	row[colImportID] = tx.ImportID
	row[colForeign] = strconv.FormatBool(tx.IsForeign)
	row[colCleared] = strconv.FormatBool(tx.IsCleared)
	row[colSourceID] = tx.SourceID
	return row
}

// UnmarshalTransaction converts a CSV row to a transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	foreign, err := strconv.ParseBool(record[colForeign])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing foreign %q: %w", record[colForeign], err)
	}
	cleared, err := strconv.ParseBool(record[colCleared])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing cleared %q: %w", record[colCleared], err)
	}

	return model.Transaction{
		SourceID:  record[colSourceID],
		Date:      record[colDate],
		Amount:    model.MilliunitsFromDecimal(amount),
		PayeeName: record[colPayee],
		ImportID:  record[colImportID],
		IsForeign: foreign,
		IsCleared: cleared,
	}, nil
}
