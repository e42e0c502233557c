package app

import (
	"fmt"

	"switchback/domain/cohort"
	"switchback/domain/core"
	"switchback/domain/metric"
	"switchback/domain/stats"
	"switchback/internal/analysis"
)

// Analysis keys
const (
	AnalysisCommute              core.AnalysisKey = "commute"
	AnalysisWaitTimeCommuting    core.AnalysisKey = "wait_time_commuting"
	AnalysisWaitTimeNonCommuting core.AnalysisKey = "wait_time_non_commuting"
)

// AllAnalyses is the order a full run executes in
var AllAnalyses = []core.AnalysisKey{AnalysisCommute, AnalysisWaitTimeCommuting, AnalysisWaitTimeNonCommuting}

// WaitTimeAnalyses are the two policy comparisons
var WaitTimeAnalyses = []core.AnalysisKey{AnalysisWaitTimeCommuting, AnalysisWaitTimeNonCommuting}

// Plan is one analysis: how to cut the table and which metrics to compare
type Plan struct {
	Spec    analysis.CohortSpec
	Metrics []metric.Metric
	// Question is asked of the recommendation; empty means no recommendation
	Question string
	// Narrative words the console questions
	Narrative stats.Narrative
}

// Questions a full run numbers from, per analysis
const (
	firstCommuteQuestion          = 1
	firstWaitCommutingQuestion    = 1
	firstWaitNonCommutingQuestion = 12
)

// CommutePlan compares commuting and non-commuting hours in the 2-minute control windows
func CommutePlan(fares metric.Fares) Plan {
	return Plan{
		Spec: analysis.CohortSpec{
			Analysis:   AnalysisCommute,
			Title:      "Comparing Commuting vs. Non-Commuting Hours (Control Group)",
			Scope:      cohort.FlagIs(metric.ColTreat, false),
			ScopeLabel: "control group (2-minute wait times)",
			Split:      cohort.FlagIs(metric.ColCommute, true),
			LabelA:     "Commuting Hours",
			LabelB:     "Non-Commuting Hours",
			Requires:   []string{metric.ColTreat, metric.ColCommute},
		},
		Metrics: []metric.Metric{
			metric.TotalRides(),
			metric.ExpressShare(),
			metric.Revenue(fares),
			metric.ProfitPerTrip(fares),
		},
		Narrative: stats.Narrative{
			FirstQuestion: firstCommuteQuestion,
			Prompts: []stats.Prompt{
				{
					Metric:     metric.KeyTotalRides,
					Higher:     "Do commuting hours experience a higher number of ridesharing trips compared to non-commuting hours?",
					Difference: "What is the difference in the number of ridesharing trips between commuting and non-commuting hours?",
					Suffix:     "trips",
					MeanA:      "Mean trips during commuting hours",
					MeanB:      "Mean trips during non-commuting hours",
				},
				{
					Metric:     metric.KeyExpressShare,
					Higher:     "Do riders use Express at higher rates during commuting hours compared to non-commuting hours?",
					Difference: "What is the difference in the share of Express trips between commuting and non-commuting hours?",
					MeanA:      "Express share during commuting hours",
					MeanB:      "Express share during non-commuting hours",
				},
				{
					Metric:     metric.KeyRevenue,
					Preamble:   fmt.Sprintf("Assuming riders pay $%g on average for a POOL ride, and $%g for an Express ride.", fares.Pool, fares.Express),
					Difference: "What is the difference in revenues between commuting and non-commuting hours?",
					MeanA:      "Mean revenue during commuting hours",
					MeanB:      "Mean revenue during non-commuting hours",
				},
				{
					Metric:     metric.KeyProfitPerTrip,
					Difference: "What is the difference in profits per trip between commuting and non-commuting hours?",
					MeanA:      "Mean profit per trip during commuting hours",
					MeanB:      "Mean profit per trip during non-commuting hours",
				},
			},
		},
	}
}

// WaitTimePlan compares 5-minute treatment windows with 2-minute control windows,
// restricted to commuting or non-commuting hours
func WaitTimePlan(commute bool) Plan {
	key, hours, first := AnalysisWaitTimeCommuting, "commuting hours", firstWaitCommutingQuestion
	if !commute {
		key, hours, first = AnalysisWaitTimeNonCommuting, "non-commuting hours", firstWaitNonCommutingQuestion
	}

	return Plan{
		Spec: analysis.CohortSpec{
			Analysis:   key,
			Title:      fmt.Sprintf("Effect of Waiting Times during %s", titleCase(hours)),
			Scope:      cohort.FlagIs(metric.ColCommute, commute),
			ScopeLabel: hours,
			Split:      cohort.FlagIs(metric.ColTreat, true),
			LabelA:     "5-min Wait (Treatment)",
			LabelB:     "2-min Wait (Control)",
			Requires:   []string{metric.ColTreat, metric.ColCommute},
		},
		Metrics: []metric.Metric{
			metric.TotalRides(),
			metric.RiderCancellations(),
			metric.DriverPayoutPerTrip(),
			metric.MatchRate(),
			metric.DoubleMatchRate(),
		},
		Question: fmt.Sprintf("Does the analysis support extending waiting times to 5 minutes for %s?", hours),
		Narrative: stats.Narrative{
			FirstQuestion: first,
			Prompts: []stats.Prompt{
				waitTimePrompt(metric.KeyTotalRides, "the number of ridesharing trips", "trips", hours, "trips"),
				waitTimePrompt(metric.KeyRiderCancellations, "the number of rider cancellations", "cancellations", hours, "cancellations"),
				waitTimePrompt(metric.KeyDriverPayoutPerTrip, "driver payout per trip", "driver payout per trip", hours, ""),
				waitTimePrompt(metric.KeyMatchRate, "overall match rate", "match rate", hours, ""),
				waitTimePrompt(metric.KeyDoubleMatchRate, "double match rate", "double match rate", hours, ""),
			},
		},
	}
}

func waitTimePrompt(key core.MetricKey, subject, meanOf, hours, suffix string) stats.Prompt {
	return stats.Prompt{
		Metric:     key,
		Difference: fmt.Sprintf("What is the difference in %s between the treatment and control groups during %s?", subject, hours),
		Suffix:     suffix,
		MeanA:      fmt.Sprintf("Mean %s with 5-minute wait (treatment)", meanOf),
		MeanB:      fmt.Sprintf("Mean %s with 2-minute wait (control)", meanOf),
	}
}

// PlansFor resolves analysis keys to plans, keeping the given order
func PlansFor(keys []core.AnalysisKey, fares metric.Fares) ([]Plan, error) {
	if len(keys) == 0 {
		keys = AllAnalyses
	}
	plans := make([]Plan, 0, len(keys))
	for _, key := range keys {
		switch key {
		case AnalysisCommute:
			plans = append(plans, CommutePlan(fares))
		case AnalysisWaitTimeCommuting:
			plans = append(plans, WaitTimePlan(true))
		case AnalysisWaitTimeNonCommuting:
			plans = append(plans, WaitTimePlan(false))
		default:
			return nil, core.NewNotFoundError("analysis", string(key))
		}
	}
	return plans, nil
}

func titleCase(s string) string {
	out := []byte(s)
	upper := true
	for i, c := range out {
		if upper && c >= 'a' && c <= 'z' {
			out[i] = c - 'a' + 'A'
		}
		upper = c == ' ' || c == '-'
	}
	return string(out)
}
