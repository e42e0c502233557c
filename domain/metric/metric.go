// Package metric defines named per-row derivations over switchback observations.
package metric

import (
	"fmt"

	"switchback/domain/core"
	"switchback/domain/dataset"
)

// Unit controls how a metric is presented; values are never rounded before comparison
type Unit string

const (
	UnitCount    Unit = "count"
	UnitFraction Unit = "fraction"
	UnitCurrency Unit = "currency"
)

// Direction says which way a difference counts as an improvement
type Direction int

const (
	Neutral Direction = iota
	HigherIsBetter
	LowerIsBetter
)

// Favours reports whether diff moves in the metric's favourable direction
func (d Direction) Favours(diff float64) bool {
	switch d {
	case HigherIsBetter:
		return diff > 0
	case LowerIsBetter:
		return diff < 0
	}
	return false
}

func (d Direction) String() string {
	switch d {
	case HigherIsBetter:
		return "higher_is_better"
	case LowerIsBetter:
		return "lower_is_better"
	}
	return "neutral"
}

// DeriveFunc computes a metric value from one row
type DeriveFunc func(row dataset.Row) (float64, error)

// Metric is a named, pure derivation from a row to a scalar
type Metric struct {
	Key       core.MetricKey
	Label     string
	Unit      Unit
	Precision int
	Better    Direction
	// Requires lists every column Derive reads, validated before a run starts.
	Requires []string
	Derive   DeriveFunc
}

// Validate checks that the table carries every required column
func (m Metric) Validate(t *dataset.Table) error {
	if err := t.Require(m.Requires...); err != nil {
		return fmt.Errorf("metric %s: %w", m.Key, err)
	}
	return nil
}

// Column is a metric that reads a numeric column unchanged
func Column(key core.MetricKey, label, column string, unit Unit, precision int, better Direction) Metric {
	return Metric{
		Key:       key,
		Label:     label,
		Unit:      unit,
		Precision: precision,
		Better:    better,
		Requires:  []string{column},
		Derive: func(row dataset.Row) (float64, error) {
			return row.Float(column)
		},
	}
}
