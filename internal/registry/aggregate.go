package registry

import (
	"math"
	"sort"
)

// KV is one aggregated key with its summed value.
type KV[K comparable] struct {
	Key   K
	Value float64
}

// AggregateAndSort groups entries by key, sums a value per group, and returns
// the groups sorted by value descending. Ties keep the order in which keys
// first appeared, so output is deterministic for a given entry order. With
// toPercentage set, values are rescaled to percent of the total and rounded
// to 2 decimals; a zero total leaves the sums untouched.
func AggregateAndSort[E any, K comparable](entries []E, key func(E) K, value func(E) float64, toPercentage bool) []KV[K] {
	sums := make(map[K]float64)
	order := make([]K, 0, len(entries))
	total := 0.0
	for _, e := range entries {
		k := key(e)
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		v := value(e)
		sums[k] += v
		total += v
	}

	out := make([]KV[K], 0, len(order))
	for _, k := range order {
		v := sums[k]
		if toPercentage && total > 0 {
			v = Round2(v * 100 / total)
		}
		out = append(out, KV[K]{Key: k, Value: v})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// CountOne is the default value extractor: one per entry.
func CountOne[E any](E) float64 { return 1 }

// Round2 rounds to 2 decimal places, the precision used in published stats.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
