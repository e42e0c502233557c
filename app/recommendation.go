package app

import (
	"switchback/domain/metric"
	"switchback/domain/stats"
)

// Supporting-metric thresholds for the verdict
const (
	SupportThreshold = 4
	MixedThreshold   = 2
)

// Recommend counts metrics whose difference is significant and moves in the
// metric's favourable direction, and turns the count into a verdict
func Recommend(question string, report *stats.Report, metrics []metric.Metric) *stats.Recommendation {
	rec := &stats.Recommendation{Question: question}

	for _, m := range metrics {
		if m.Better == metric.Neutral {
			continue
		}
		rec.Total++
		res, ok := report.Result(m.Key)
		if !ok {
			continue
		}
		if res.Significant && m.Better.Favours(res.Difference) {
			rec.Supporting++
			rec.SupportingMetrics = append(rec.SupportingMetrics, m.Key)
		}
	}

	switch {
	case rec.Supporting >= SupportThreshold:
		rec.Verdict = stats.VerdictSupport
		rec.Summary = "Yes, the data provides clear support for extending waiting times."
	case rec.Supporting >= MixedThreshold:
		rec.Verdict = stats.VerdictMixed
		rec.Summary = "No, the data provides mixed evidence for extending waiting times."
	default:
		rec.Verdict = stats.VerdictAgainst
		rec.Summary = "No, the data provides clear evidence against extending waiting times."
	}
	return rec
}
