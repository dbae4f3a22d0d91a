package sim

import "math"

// indexer compounds a nominal amount once per elapsed year. periods counts
// the full years since activation; the factor is carried forward instead of
// being recomputed from the activation year each step.
type indexer struct {
	rate    float64
	periods int
	factor  float64
	started bool
}

// start activates the indexer with periods years already elapsed.
func (ix *indexer) start(periods int) {
	ix.periods = periods
	ix.factor = math.Pow(1+ix.rate, float64(periods))
	ix.started = true
}

func (ix *indexer) advance() {
	ix.periods++
	ix.factor *= 1 + ix.rate
}
