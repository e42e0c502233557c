package app

import (
	"testing"

	"switchback/domain/core"
	"switchback/domain/metric"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricKeys(p Plan) []core.MetricKey {
	keys := make([]core.MetricKey, len(p.Metrics))
	for i, m := range p.Metrics {
		keys[i] = m.Key
	}
	return keys
}

func TestPlansFor_DefaultsToAll(t *testing.T) {
	plans, err := PlansFor(nil, metric.DefaultFares())
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, AnalysisCommute, plans[0].Spec.Analysis)
	assert.Equal(t, AnalysisWaitTimeCommuting, plans[1].Spec.Analysis)
	assert.Equal(t, AnalysisWaitTimeNonCommuting, plans[2].Spec.Analysis)
}

func TestPlansFor_UnknownKey(t *testing.T) {
	_, err := PlansFor([]core.AnalysisKey{"surge"}, metric.DefaultFares())
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))
}

func TestCommutePlan(t *testing.T) {
	p := CommutePlan(metric.DefaultFares())
	assert.Equal(t, "Commuting Hours", p.Spec.LabelA)
	assert.Equal(t, "Non-Commuting Hours", p.Spec.LabelB)
	assert.Empty(t, p.Question)
	assert.Equal(t, []core.MetricKey{
		metric.KeyTotalRides, metric.KeyExpressShare, metric.KeyRevenue, metric.KeyProfitPerTrip,
	}, metricKeys(p))
}

func TestWaitTimePlan(t *testing.T) {
	commuting := WaitTimePlan(true)
	nonCommuting := WaitTimePlan(false)

	assert.Equal(t, AnalysisWaitTimeCommuting, commuting.Spec.Analysis)
	assert.Equal(t, AnalysisWaitTimeNonCommuting, nonCommuting.Spec.Analysis)
	assert.Equal(t, "Effect of Waiting Times during Non-Commuting Hours", nonCommuting.Spec.Title)
	assert.Equal(t, "5-min Wait (Treatment)", commuting.Spec.LabelA)
	assert.Contains(t, commuting.Question, "for commuting hours?")
	assert.Contains(t, nonCommuting.Question, "for non-commuting hours?")
	assert.Equal(t, []core.MetricKey{
		metric.KeyTotalRides, metric.KeyRiderCancellations, metric.KeyDriverPayoutPerTrip,
		metric.KeyMatchRate, metric.KeyDoubleMatchRate,
	}, metricKeys(commuting))
}

func TestPlanNarratives(t *testing.T) {
	commute := CommutePlan(metric.Fares{Pool: 12.5, Express: 10})
	assert.Equal(t, 1, commute.Narrative.FirstQuestion)
	require.Len(t, commute.Narrative.Prompts, len(commute.Metrics))
	revenue, ok := commute.Narrative.PromptFor(metric.KeyRevenue)
	require.True(t, ok)
	assert.Equal(t, "Assuming riders pay $12.5 on average for a POOL ride, and $10 for an Express ride.", revenue.Preamble)
	assert.Empty(t, revenue.Higher)

	nonCommuting := WaitTimePlan(false)
	assert.Equal(t, 12, nonCommuting.Narrative.FirstQuestion)
	for i, m := range nonCommuting.Metrics {
		prompt := nonCommuting.Narrative.Prompts[i]
		assert.Equal(t, m.Key, prompt.Metric)
		assert.Empty(t, prompt.Higher, "wait-time questions start at the difference")
		assert.Contains(t, prompt.Difference, "during non-commuting hours?")
	}
	cancellations, _ := nonCommuting.Narrative.PromptFor(metric.KeyRiderCancellations)
	assert.Equal(t, "cancellations", cancellations.Suffix)
	assert.Equal(t, "Mean cancellations with 5-minute wait (treatment)", cancellations.MeanA)
}
