// Package analysis implements the cohort comparator: partition, derive, mean and
// Welch's t-test over named metrics.
package analysis

import (
	"fmt"
	"math"

	"switchback/domain/cohort"
	"switchback/domain/core"
	"switchback/domain/dataset"
	"switchback/domain/metric"
	domainStats "switchback/domain/stats"
	"switchback/internal"
)

// CohortSpec describes how one analysis splits a table into two cohorts
type CohortSpec struct {
	Analysis core.AnalysisKey
	Title    string
	// Scope restricts the table before the split, e.g. control windows only. Nil keeps every row.
	Scope      cohort.Predicate
	ScopeLabel string
	Split      cohort.Predicate
	LabelA     string
	LabelB     string
	// Requires lists the flag columns Scope and Split read.
	Requires []string
}

// Comparator runs cohort comparisons. It holds no state between runs.
type Comparator struct {
	logger *internal.Logger
}

// NewComparatorWithLogger creates a comparator; a nil logger uses the default
func NewComparatorWithLogger(logger *internal.Logger) *Comparator {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Comparator{logger: logger}
}

// Derive applies a metric to every row of a cohort, in cohort order.
// Missing inputs propagate as schema errors; non-finite outputs are numeric errors.
func Derive(group cohort.Cohort, m metric.Metric) ([]float64, error) {
	values := make([]float64, 0, group.Len())
	for _, row := range group.Rows {
		v, err := m.Derive(row)
		if err != nil {
			return nil, fmt.Errorf("metric %s line %d: %w", m.Key, row.Line(), err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, core.NewNonFiniteError(string(m.Key), row.Line(), v)
		}
		values = append(values, v)
	}
	return values, nil
}

// RunAll validates the schema, scopes and partitions the table, then derives,
// averages and compares every metric in the given order. Any failure aborts the
// whole run; there are no partial reports.
func (c *Comparator) RunAll(table *dataset.Table, spec CohortSpec, metrics []metric.Metric) (*domainStats.Report, error) {
	if spec.Split == nil {
		return nil, fmt.Errorf("analysis %s: no split predicate", spec.Analysis)
	}
	if err := table.Require(spec.Requires...); err != nil {
		return nil, fmt.Errorf("analysis %s: %w", spec.Analysis, err)
	}
	for _, m := range metrics {
		if err := m.Validate(table); err != nil {
			return nil, fmt.Errorf("analysis %s: %w", spec.Analysis, err)
		}
	}

	scope := spec.Scope
	if scope == nil {
		scope = cohort.All()
	}
	scoped, err := table.Filter(scope)
	if err != nil {
		return nil, fmt.Errorf("analysis %s scope: %w", spec.Analysis, err)
	}

	groupA, groupB, err := cohort.Partition(scoped, spec.Split)
	if err != nil {
		return nil, fmt.Errorf("analysis %s: %w", spec.Analysis, err)
	}
	groupA.Label = spec.LabelA
	groupB.Label = spec.LabelB

	c.logger.Info("%s: %s=%d, %s=%d (scope %d of %d rows)",
		spec.Analysis, groupA.Label, groupA.Len(), groupB.Label, groupB.Len(), scoped.Len(), table.Len())

	for _, g := range []cohort.Cohort{groupA, groupB} {
		if g.IsEmpty() {
			return nil, core.NewEmptyCohortError(string(spec.Analysis), g.Label)
		}
	}

	report := &domainStats.Report{
		Analysis: spec.Analysis,
		Title:    spec.Title,
		Scope:    spec.ScopeLabel,
		CohortA:  groupA.Label,
		CohortB:  groupB.Label,
		SizeA:    groupA.Len(),
		SizeB:    groupB.Len(),
		Results:  make([]domainStats.ComparisonResult, 0, len(metrics)),
		Samples:  make([]domainStats.MetricSamples, 0, len(metrics)),
	}

	for _, m := range metrics {
		valuesA, err := Derive(groupA, m)
		if err != nil {
			return nil, fmt.Errorf("analysis %s cohort %q: %w", spec.Analysis, groupA.Label, err)
		}
		valuesB, err := Derive(groupB, m)
		if err != nil {
			return nil, fmt.Errorf("analysis %s cohort %q: %w", spec.Analysis, groupB.Label, err)
		}

		result, err := Compare(valuesA, valuesB)
		if err != nil {
			return nil, fmt.Errorf("analysis %s metric %s: %w", spec.Analysis, m.Key, err)
		}
		result.Metric = m.Key
		result.Label = m.Label
		result.Unit = m.Unit
		result.Precision = m.Precision
		result.CohortA = groupA.Label
		result.CohortB = groupB.Label

		c.logger.Debug("%s/%s: diff=%.4f t=%.4f df=%.2f p=%.4f",
			spec.Analysis, m.Key, result.Difference, result.TStatistic, result.DegreesOfFreedom, result.PValue)

		report.Results = append(report.Results, result)
		report.Samples = append(report.Samples, domainStats.MetricSamples{Metric: m.Key, A: valuesA, B: valuesB})
	}

	return report, nil
}
