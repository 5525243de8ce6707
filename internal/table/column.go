package table

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownColumn = errors.New("unknown sort column")

// Column is a sortable column.
type Column string

const (
	ColumnDate     Column = "date"
	ColumnAmount   Column = "amount"
	ColumnCategory Column = "category"
)

// Columns lists the sortable columns in header order.
var Columns = []Column{ColumnDate, ColumnCategory, ColumnAmount}

func ParseColumn(s string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case ColumnDate, ColumnAmount, ColumnCategory:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumn, s)
}

// SortIndicator is the header icon state of a column.
type SortIndicator string

const (
	SortNone SortIndicator = "none"
	SortAsc  SortIndicator = "asc"
	SortDesc SortIndicator = "desc"
)
