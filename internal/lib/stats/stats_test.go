package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGini(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"uniform", []float64{100, 100, 100, 100}, 0},
		{"all zero", []float64{0, 0, 0}, 0},
		{"single", []float64{42}, 0},
		{"one holds everything of four", []float64{0, 100, 0, 0}, 0.75},
		{"one holds everything of ten", []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 5}, 0.9},
		{"two values", []float64{1, 3}, 0.25},
		{"unsorted input", []float64{3, 1, 2}, 2.0 / 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Gini(tt.values), 1e-9)
		})
	}
}

func TestGiniDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Gini(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestGiniLabel(t *testing.T) {
	assert.Equal(t, LabelHealthy, GiniLabel(0))
	assert.Equal(t, LabelHealthy, GiniLabel(0.4999))
	assert.Equal(t, LabelConcentrated, GiniLabel(0.5))
	assert.Equal(t, LabelConcentrated, GiniLabel(0.9))
}

func TestHistogram(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 10}
	dist := Histogram("stake", values)

	assert.Equal(t, "stake", dist.Label)
	assert.Equal(t, 12, dist.Count)
	assert.Equal(t, 0.0, dist.Min)
	assert.Equal(t, 10.0, dist.Max)
	assert.InDelta(t, 65.0/12, dist.Average, 1e-9)
	// sorted[6], not the mean of the two middle values
	assert.Equal(t, 6.0, dist.Median)

	require.Len(t, dist.Buckets, 10)
	last := dist.Buckets[9]
	// 9 plus both maximums
	assert.Equal(t, 3, last.Count)
	assert.Equal(t, 25.0, last.Percentage)
	assert.InDelta(t, 9, last.Min, 1e-9)
	assert.InDelta(t, 10, last.Max, 1e-9)

	var total int
	for _, b := range dist.Buckets {
		total += b.Count
	}
	assert.Equal(t, len(values), total)
}

func TestHistogramDropsEmptyBuckets(t *testing.T) {
	dist := Histogram("apr", []float64{1, 1, 1, 100})
	require.Len(t, dist.Buckets, 2)
	assert.Equal(t, Bucket{Min: 1, Max: 25.75, Count: 3, Percentage: 75}, dist.Buckets[0])
	assert.Equal(t, 1, dist.Buckets[1].Count)
	assert.Equal(t, 25.0, dist.Buckets[1].Percentage)
}

func TestHistogramDegenerate(t *testing.T) {
	empty := Histogram("empty", nil)
	assert.Zero(t, empty.Count)
	assert.NotNil(t, empty.Buckets)
	assert.Empty(t, empty.Buckets)

	same := Histogram("flat", []float64{5, 5, 5})
	require.Len(t, same.Buckets, 1)
	assert.Equal(t, 3, same.Buckets[0].Count)
	assert.Equal(t, 100.0, same.Buckets[0].Percentage)
	assert.Equal(t, 5.0, same.Median)

	one := Histogram("one", []float64{7})
	require.Len(t, one.Buckets, 1)
	assert.Equal(t, 7.0, one.Median)
}

func TestSummarize(t *testing.T) {
	ns := Summarize([]ValidatorFigures{
		{Stake: 100, CommissionPercent: 5, APRPercent: 5, Active: true},
		{Stake: 100, CommissionPercent: 10, APRPercent: 4.5, Active: true},
		{Stake: 100, CommissionPercent: 20, APRPercent: 4},
	})
	assert.Equal(t, 3, ns.ValidatorCount)
	assert.Equal(t, 2, ns.ActiveCount)
	assert.Equal(t, 300.0, ns.TotalStake)
	assert.Zero(t, ns.StakeGini)
	assert.Equal(t, LabelHealthy, ns.Concentration)
	assert.Equal(t, 10.0, ns.Commission.Median)
	assert.Equal(t, 3, ns.APR.Count)

	empty := Summarize(nil)
	assert.Zero(t, empty.ValidatorCount)
	assert.Equal(t, LabelHealthy, empty.Concentration)
}
