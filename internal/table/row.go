// Package table implements the transaction table engine: an ordered row
// set with category and text filters, column sorting, fixed-size pages and
// a total over every filtered row.
package table

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidDate = errors.New("invalid transaction date")

// DateLayout is how the table shows a row's date.
const DateLayout = "02.01.2006"

// AmountFormatter renders an amount the way the table cell shows it.
type AmountFormatter interface {
	CurrencyDecimal(d decimal.Decimal) string
}

// Row is one table row. Rows are created once from the page payload and
// shared by pointer; the engine only reorders, shows and hides them.
type Row struct {
	ID          string
	Date        time.Time
	DateRaw     string
	Amount      decimal.Decimal
	AmountRaw   string
	Category    string
	Subcategory string
	Description string
	// Text is the row's display text, matched by the search box.
	Text string
}

// Negative reports whether the amount is below zero.
func (r *Row) Negative() bool {
	return r.Amount.IsNegative()
}

// Transaction is the shape of one entry of the "transactions" payload.
type Transaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Description string          `json:"description"`
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

// ParseDate accepts a calendar date or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// FromTransactions converts payload entries into rows, keeping input order.
// Each row's search text is built from its displayed cells, so amounts go
// through money; a nil money leaves them as plain two-decimal numbers.
func FromTransactions(txs []Transaction, money AmountFormatter) ([]*Row, error) {
	rows := make([]*Row, 0, len(txs))
	for i, tx := range txs {
		date, err := ParseDate(tx.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		id := tx.ID
		if id == "" {
			id = fmt.Sprintf("tx-%d", i)
		}
		row := &Row{
			ID:          id,
			Date:        date,
			DateRaw:     strings.TrimSpace(tx.Date),
			Amount:      tx.Amount,
			AmountRaw:   tx.Amount.String(),
			Category:    strings.TrimSpace(tx.Category),
			Subcategory: strings.TrimSpace(tx.Subcategory),
			Description: strings.TrimSpace(tx.Description),
		}
		amount := row.Amount.StringFixed(2)
		if money != nil {
			amount = money.CurrencyDecimal(row.Amount)
		}
		row.Text = strings.Join([]string{
			row.Date.Format(DateLayout), row.Category, row.Subcategory, row.Description, amount,
		}, " ")
		rows = append(rows, row)
	}
	return rows, nil
}
