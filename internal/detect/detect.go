// Package detect flags outliers in a single numeric column with an
// isolation forest: many randomized partitioning trees are grown over the
// value range, and points that isolate in unusually short paths score as
// anomalies. A fixed seed makes every run reproducible.
package detect

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"

	"certifier/pkg/sentinel"
)

// Label classifies one row. The numeric values follow the common estimator
// convention: -1 outlier, 1 inlier.
type Label int

const (
	Outlier Label = -1
	Inlier  Label = 1
)

// Config holds detector tuning. Contamination is the expected fraction of
// outliers; Seed fixes the random source.
type Config struct {
	Trees         int
	SampleSize    int
	Contamination float64
	Seed          int64
}

// DefaultConfig returns the settings used by the audit pipeline.
func DefaultConfig() Config {
	return Config{
		Trees:         100,
		SampleSize:    256,
		Contamination: 0.05,
		Seed:          42,
	}
}

const (
	minContamination = 0.01
	maxContamination = 0.20
)

// Detector scores and labels one value slice per Fit call.
type Detector struct {
	cfg Config
}

func New(cfg Config) *Detector {
	if cfg.Trees <= 0 {
		cfg.Trees = 100
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = 256
	}
	if cfg.Contamination < minContamination {
		cfg.Contamination = minContamination
	}
	if cfg.Contamination > maxContamination {
		cfg.Contamination = maxContamination
	}
	return &Detector{cfg: cfg}
}

// FitLabel builds the forest over values and labels each point, preserving
// input order. Points scoring strictly above the (1-contamination) empirical
// quantile of all scores are flagged; a column with no statistical outliers
// (every score at the quantile) flags nothing. Fewer than two values cannot
// be scored against each other and return sentinel.ErrInsufficientData.
func (d *Detector) FitLabel(values []float64) ([]Label, error) {
	n := len(values)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 numeric rows, got %d", sentinel.ErrInsufficientData, n)
	}

	scores := d.Score(values)

	sorted := make([]float64, n)
	copy(sorted, scores)
	sort.Float64s(sorted)
	threshold := stat.Quantile(1-d.cfg.Contamination, stat.Empirical, sorted, nil)

	labels := make([]Label, n)
	for i, score := range scores {
		if score > threshold {
			labels[i] = Outlier
		} else {
			labels[i] = Inlier
		}
	}
	return labels, nil
}

// Score returns the anomaly score of every point in [0, 1]; higher isolates
// faster and is more anomalous.
func (d *Detector) Score(values []float64) []float64 {
	n := len(values)
	sampleSize := d.cfg.SampleSize
	if sampleSize > n {
		sampleSize = n
	}
	heightLimit := int(math.Ceil(math.Log2(float64(sampleSize))))
	if heightLimit < 1 {
		heightLimit = 1
	}

	rng := rand.New(rand.NewSource(d.cfg.Seed))
	trees := make([]*node, d.cfg.Trees)
	for i := range trees {
		sample := make([]float64, sampleSize)
		for j, idx := range rng.Perm(n)[:sampleSize] {
			sample[j] = values[idx]
		}
		trees[i] = grow(sample, 0, heightLimit, rng)
	}

	norm := avgPathLength(sampleSize)
	scores := make([]float64, n)
	for i, v := range values {
		var total float64
		for _, t := range trees {
			total += pathLength(t, v, 0)
		}
		mean := total / float64(len(trees))
		scores[i] = math.Exp2(-mean / norm)
	}
	return scores
}

// node is one isolation tree node. Leaves keep the sample count that ended
// up in them so truncated paths can be extended by the expected subtree
// depth.
type node struct {
	split       float64
	left, right *node
	size        int
}

func grow(sample []float64, depth, limit int, rng *rand.Rand) *node {
	if depth >= limit || len(sample) <= 1 {
		return &node{size: len(sample)}
	}
	lo, hi := sample[0], sample[0]
	for _, v := range sample[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return &node{size: len(sample)}
	}

	split := lo + rng.Float64()*(hi-lo)
	var left, right []float64
	for _, v := range sample {
		if v < split {
			left = append(left, v)
		} else {
			right = append(right, v)
		}
	}
	return &node{
		split: split,
		left:  grow(left, depth+1, limit, rng),
		right: grow(right, depth+1, limit, rng),
	}
}

func pathLength(n *node, v float64, depth int) float64 {
	if n.left == nil && n.right == nil {
		return float64(depth) + avgPathLength(n.size)
	}
	if v < n.split {
		return pathLength(n.left, v, depth+1)
	}
	return pathLength(n.right, v, depth+1)
}

// avgPathLength is c(m), the expected path length of an unsuccessful BST
// search over m points; it normalizes scores across sample sizes.
func avgPathLength(m int) float64 {
	if m <= 1 {
		return 0
	}
	const euler = 0.5772156649
	h := math.Log(float64(m-1)) + euler
	return 2*h - 2*float64(m-1)/float64(m)
}
