package util

import "math"

// ----------------------------------------------------------------------------
// Distribution
// ----------------------------------------------------------------------------

// Distribution summarizes how evenly entries are spread over shards.
type Distribution struct {
	Min          int     `json:"min" yaml:"min"`
	Max          int     `json:"max" yaml:"max"`
	Mean         float64 `json:"mean" yaml:"mean"`
	StdDeviation float64 `json:"std_deviation" yaml:"std_deviation"`
	// Quality is 1 for a perfectly even spread and approaches 0 when all
	// entries end up in one shard. It combines the coefficient of variation
	// with the min/max ratio.
	Quality float64 `json:"quality" yaml:"quality"`
}

// NewDistribution computes the distribution of the given shard sizes.
func NewDistribution(sizes []int) Distribution {
	if len(sizes) == 0 {
		return Distribution{}
	}

	d := Distribution{Min: sizes[0], Max: sizes[0]}
	sum := 0
	for _, s := range sizes {
		sum += s
		d.Min = min(d.Min, s)
		d.Max = max(d.Max, s)
	}
	d.Mean = float64(sum) / float64(len(sizes))

	var sumSquaredDiffs float64
	for _, s := range sizes {
		diff := float64(s) - d.Mean
		sumSquaredDiffs += diff * diff
	}
	d.StdDeviation = math.Sqrt(sumSquaredDiffs / float64(len(sizes)))

	// an empty database is evenly distributed
	if d.Max == 0 {
		d.Quality = 1
		return d
	}
	cv := d.StdDeviation / d.Mean
	d.Quality = (1.0-math.Min(1.0, cv))*0.5 + float64(d.Min)/float64(d.Max)*0.5
	return d
}
