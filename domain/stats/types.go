package stats

import (
	"fmt"

	"switchback/domain/core"
	"switchback/domain/metric"
)

// SignificanceLevel is the fixed two-tailed threshold for a significant difference
const SignificanceLevel = 0.05

// ComparisonResult is the outcome of comparing one metric across two cohorts.
// Difference is MeanA - MeanB; TStatistic carries the same sign.
type ComparisonResult struct {
	Metric           core.MetricKey `json:"metric"`
	Label            string         `json:"label"`
	Unit             metric.Unit    `json:"unit"`
	Precision        int            `json:"precision"`
	CohortA          string         `json:"cohort_a"`
	CohortB          string         `json:"cohort_b"`
	NA               int            `json:"n_a"`
	NB               int            `json:"n_b"`
	MeanA            float64        `json:"mean_a"`
	MeanB            float64        `json:"mean_b"`
	Difference       float64        `json:"difference"`
	TStatistic       float64        `json:"t_statistic"`
	DegreesOfFreedom float64        `json:"degrees_of_freedom"`
	PValue           float64        `json:"p_value"`
	Significant      bool           `json:"significant"`
}

// IsSignificant applies the fixed 5% threshold
func IsSignificant(pValue float64) bool {
	return pValue < SignificanceLevel
}

// MetricSamples keeps the derived per-row values behind one result, for charts
type MetricSamples struct {
	Metric core.MetricKey `json:"metric"`
	A      []float64      `json:"a"`
	B      []float64      `json:"b"`
}

// Verdict is the overall call on a policy change
type Verdict string

const (
	VerdictSupport Verdict = "support"
	VerdictMixed   Verdict = "mixed"
	VerdictAgainst Verdict = "against"
)

// Recommendation summarises how many metrics moved significantly in the favourable direction
type Recommendation struct {
	Question          string           `json:"question"`
	Verdict           Verdict          `json:"verdict"`
	SupportingMetrics []core.MetricKey `json:"supporting_metrics"`
	Supporting        int              `json:"supporting"`
	Total             int              `json:"total"`
	Summary           string           `json:"summary"`
}

// Explanation is the one-line count behind the verdict
func (r *Recommendation) Explanation() string {
	return fmt.Sprintf("%d out of %d key metrics support extending waiting times.", r.Supporting, r.Total)
}

// Prompt words the console questions about one metric. Higher, when set, is
// a yes/no question answered by MeanA > MeanB and asked before the difference.
// Preamble is printed on the line before the difference question.
type Prompt struct {
	Metric     core.MetricKey
	Higher     string
	Preamble   string
	Difference string
	// Suffix follows the difference in the answer, e.g. "trips"
	Suffix string
	MeanA  string
	MeanB  string
}

// Narrative is the numbered question sequence of one analysis
type Narrative struct {
	FirstQuestion int
	Prompts       []Prompt
}

// PromptFor looks up the wording for a metric
func (n *Narrative) PromptFor(key core.MetricKey) (Prompt, bool) {
	for _, p := range n.Prompts {
		if p.Metric == key {
			return p, true
		}
	}
	return Prompt{}, false
}

// Report is the full, ordered result set of one analysis run
type Report struct {
	Analysis       core.AnalysisKey   `json:"analysis"`
	Title          string             `json:"title"`
	Scope          string             `json:"scope,omitempty"`
	CohortA        string             `json:"cohort_a"`
	CohortB        string             `json:"cohort_b"`
	SizeA          int                `json:"size_a"`
	SizeB          int                `json:"size_b"`
	Results        []ComparisonResult `json:"results"`
	Samples        []MetricSamples    `json:"-"`
	Recommendation *Recommendation    `json:"recommendation,omitempty"`
	Narrative      *Narrative         `json:"-"`
}

// Result looks up the comparison for a metric
func (r *Report) Result(key core.MetricKey) (ComparisonResult, bool) {
	for _, res := range r.Results {
		if res.Metric == key {
			return res, true
		}
	}
	return ComparisonResult{}, false
}

// SamplesFor looks up the derived samples for a metric
func (r *Report) SamplesFor(key core.MetricKey) (MetricSamples, bool) {
	for _, s := range r.Samples {
		if s.Metric == key {
			return s, true
		}
	}
	return MetricSamples{}, false
}
