// Package importer maps source transactions onto the canonical form uploaded
// to the budget. Everything here is pure.
package importer

import (
	"fmt"
	"time"

	"github.com/up2ynab/up2ynab/internal/id"
	"github.com/up2ynab/up2ynab/internal/model"
	"github.com/up2ynab/up2ynab/internal/up"
)

// dateLayout is the destination's civil date format.
const dateLayout = "2006-01-02"

// Normalize converts one Up transaction to its canonical form.
//
// The date is the calendar date of createdAt in its own offset. Amounts keep
// their sign; negative is money out on both sides. Every transaction is
// imported as cleared, held ones included.
func Normalize(tx up.Transaction) (model.Transaction, error) {
	created, err := time.Parse(time.RFC3339, tx.Attributes.CreatedAt)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing createdAt %q: %w", tx.Attributes.CreatedAt, err)
	}

	importID, err := id.ImportID(tx.ID)
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		SourceID:  tx.ID,
		Date:      created.Format(dateLayout),
		Amount:    model.MilliunitsFromCents(tx.Attributes.Amount.ValueInBaseUnits),
		PayeeName: tx.Attributes.Description,
		ImportID:  importID,
		IsForeign: tx.Attributes.ForeignAmount != nil,
		IsCleared: true,
	}, nil
}

// NormalizeAll converts txns in order. The first failure aborts the batch.
func NormalizeAll(txns []up.Transaction) ([]model.Transaction, error) {
	out := make([]model.Transaction, 0, len(txns))
	for i, tx := range txns {
		canonical, err := Normalize(tx)
		if err != nil {
			return nil, fmt.Errorf("transaction %d (%s): %w", i+1, tx.ID, err)
		}
		out = append(out, canonical)
	}
	return out, nil
}
