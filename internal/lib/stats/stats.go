// Package stats holds the distribution math behind the network statistics: the Gini
// concentration coefficient and fixed-count histograms.
package stats

import (
	"math"
	"slices"
)

const (
	LabelHealthy      = "Healthy"
	LabelConcentrated = "Concentrated"

	maxBuckets = 10
)

// Gini is the inequality of non-negative values: 0 when all are equal, approaching 1 as one
// value holds everything. Empty input or a zero sum yields 0.
func Gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var sum, weighted float64
	for i, x := range sorted {
		sum += x
		weighted += float64(2*(i+1)-n-1) * x
	}
	if sum == 0 {
		return 0
	}
	return weighted / (float64(n) * sum)
}

func GiniLabel(g float64) string {
	if g < 0.5 {
		return LabelHealthy
	}
	return LabelConcentrated
}

type Bucket struct {
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type Distribution struct {
	Label   string   `json:"label"`
	Count   int      `json:"count"`
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	Average float64  `json:"average"`
	Median  float64  `json:"median"`
	Buckets []Bucket `json:"buckets"`
}

// Histogram splits [min,max] of values into min(10, len) equal-width buckets. The maximum
// lands in the last bucket and empty buckets are left out. Median is sorted[len/2], the upper
// middle for even counts.
func Histogram(label string, values []float64) Distribution {
	dist := Distribution{Label: label, Count: len(values), Buckets: []Bucket{}}
	if len(values) == 0 {
		return dist
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	dist.Min, dist.Max = sorted[0], sorted[len(sorted)-1]
	dist.Average = sum / float64(len(sorted))
	dist.Median = sorted[len(sorted)/2]

	count := min(maxBuckets, len(sorted))
	width := (dist.Max - dist.Min) / float64(count)
	buckets := make([]Bucket, count)
	for i := range buckets {
		buckets[i].Min = dist.Min + float64(i)*width
		buckets[i].Max = dist.Min + float64(i+1)*width
	}
	for _, v := range sorted {
		idx := 0
		if width > 0 {
			idx = min(int((v-dist.Min)/width), count-1)
		}
		buckets[idx].Count++
	}
	for _, b := range buckets {
		if b.Count == 0 {
			continue
		}
		b.Percentage = math.Round(float64(b.Count)/float64(len(sorted))*100*100) / 100
		dist.Buckets = append(dist.Buckets, b)
	}
	return dist
}
