package analysis

import (
	"math"

	"switchback/domain/core"
	domainStats "switchback/domain/stats"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Mean is the arithmetic mean; an empty input is an empty-cohort error
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, core.ErrEmptyCohort
	}
	return stats.Mean(values)
}

// Compare runs Welch's unequal-variance two-sample t-test of a against b.
// The returned result carries only the numeric fields; callers label it.
func Compare(a, b []float64) (domainStats.ComparisonResult, error) {
	if len(a) == 0 || len(b) == 0 {
		return domainStats.ComparisonResult{}, core.ErrEmptyCohort
	}
	if len(a) < 2 || len(b) < 2 {
		return domainStats.ComparisonResult{}, core.ErrInsufficientSample
	}

	meanA, err := stats.Mean(a)
	if err != nil {
		return domainStats.ComparisonResult{}, err
	}
	meanB, err := stats.Mean(b)
	if err != nil {
		return domainStats.ComparisonResult{}, err
	}
	varA, err := stats.SampleVariance(a)
	if err != nil {
		return domainStats.ComparisonResult{}, err
	}
	varB, err := stats.SampleVariance(b)
	if err != nil {
		return domainStats.ComparisonResult{}, err
	}

	tStat, df, pValue, err := welchTTest(meanA, meanB, varA, varB, float64(len(a)), float64(len(b)))
	if err != nil {
		return domainStats.ComparisonResult{}, err
	}

	return domainStats.ComparisonResult{
		NA:               len(a),
		NB:               len(b),
		MeanA:            meanA,
		MeanB:            meanB,
		Difference:       meanA - meanB,
		TStatistic:       tStat,
		DegreesOfFreedom: df,
		PValue:           pValue,
		Significant:      domainStats.IsSignificant(pValue),
	}, nil
}

// welchTTest returns the t-statistic, Welch-Satterthwaite degrees of freedom
// and the two-tailed p-value
func welchTTest(mean1, mean2, var1, var2, n1, n2 float64) (float64, float64, float64, error) {
	se1 := var1 / n1
	se2 := var2 / n2
	diff := mean1 - mean2

	if se1+se2 == 0 {
		if diff == 0 {
			return 0, n1 + n2 - 2, 1, nil
		}
		return 0, 0, 0, core.ErrDegenerateSample
	}

	// t = (mean1 - mean2) / sqrt(var1/n1 + var2/n2)
	tStat := diff / math.Sqrt(se1+se2)

	df := (se1 + se2) * (se1 + se2) / (se1*se1/(n1-1) + se2*se2/(n2-1))

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pValue := 2 * tDist.Survival(math.Abs(tStat))
	if pValue > 1 {
		pValue = 1
	}

	if math.IsNaN(tStat) || math.IsNaN(pValue) {
		return 0, 0, 0, core.ErrNonFinite
	}
	return tStat, df, pValue, nil
}
