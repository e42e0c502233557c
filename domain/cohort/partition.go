// Package cohort splits an observation table into two groups by a boolean predicate.
package cohort

import (
	"fmt"

	"switchback/domain/dataset"
)

// Predicate decides cohort membership for one row
type Predicate func(row dataset.Row) (bool, error)

// FlagIs matches rows whose boolean column equals want
func FlagIs(column string, want bool) Predicate {
	return func(row dataset.Row) (bool, error) {
		v, err := row.Bool(column)
		if err != nil {
			return false, err
		}
		return v == want, nil
	}
}

// All matches rows satisfying every predicate. An empty list matches everything.
func All(preds ...Predicate) Predicate {
	return func(row dataset.Row) (bool, error) {
		for _, p := range preds {
			ok, err := p(row)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}

// Cohort is a labelled view of rows borrowed from a table
type Cohort struct {
	Label string
	Rows  []dataset.Row
}

// Len returns the cohort size
func (c Cohort) Len() int {
	return len(c.Rows)
}

// IsEmpty reports whether the cohort has no rows
func (c Cohort) IsEmpty() bool {
	return len(c.Rows) == 0
}

// Partition splits every row of t into the rows matching p and the rest.
// Both groups keep the table's row order.
func Partition(t *dataset.Table, p Predicate) (matched Cohort, rest Cohort, err error) {
	for _, row := range t.Rows() {
		ok, err := p(row)
		if err != nil {
			return Cohort{}, Cohort{}, fmt.Errorf("partition line %d: %w", row.Line(), err)
		}
		if ok {
			matched.Rows = append(matched.Rows, row)
		} else {
			rest.Rows = append(rest.Rows, row)
		}
	}
	return matched, rest, nil
}
