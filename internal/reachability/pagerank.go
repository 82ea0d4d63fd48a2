package reachability

import (
	"context"
	"math"
	"sort"

	"github.com/groundlang/ground/internal/importgraph"
	"github.com/groundlang/ground/internal/metrics"
)

// PageRank configuration constants, per §4.E.
const (
	DefaultDampingFactor = 0.85
	DefaultMaxIterations = 100
	DefaultConvergence   = 1e-6
)

// PageRankOptions configures the PageRank algorithm.
type PageRankOptions struct {
	DampingFactor float64
	MaxIterations int
	Convergence   float64
}

// Validate applies defaults in place for out-of-range values.
func (o *PageRankOptions) Validate() {
	if o.DampingFactor < 0 || o.DampingFactor > 1 {
		o.DampingFactor = DefaultDampingFactor
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Convergence <= 0 {
		o.Convergence = DefaultConvergence
	}
}

// DefaultPageRankOptions returns the standard PageRank defaults.
func DefaultPageRankOptions() *PageRankOptions {
	return &PageRankOptions{
		DampingFactor: DefaultDampingFactor,
		MaxIterations: DefaultMaxIterations,
		Convergence:   DefaultConvergence,
	}
}

// PageRankResult is the output of the power iteration.
type PageRankResult struct {
	Scores     map[string]float64
	Iterations int
	Converged  bool
	MaxDiff    float64
}

// Classification buckets a node by percentile of its PageRank score,
// per §4.E: Critical >= 90th percentile, Important >= 75th, Standard
// >= 25th, else Peripheral.
type Classification int

const (
	Peripheral Classification = iota
	Standard
	Important
	Critical
)

func (c Classification) String() string {
	switch c {
	case Critical:
		return "critical"
	case Important:
		return "important"
	case Standard:
		return "standard"
	default:
		return "peripheral"
	}
}

// PageRank computes PageRank scores for every node in g using power
// iteration, with dangling-node (no outgoing resolved edges) rank
// redistributed uniformly, matching the graph/pagerank.go
// algorithm exactly.
func PageRank(ctx context.Context, g *importgraph.Graph, opts *PageRankOptions) (result PageRankResult) {
	defer func() { metrics.PageRankIterations.Observe(float64(result.Iterations)) }()

	if g == nil || g.NodeCount() == 0 {
		return PageRankResult{Scores: make(map[string]float64), Converged: true}
	}
	if opts == nil {
		opts = DefaultPageRankOptions()
	} else {
		opts.Validate()
	}

	nodes := g.Nodes()
	n := float64(len(nodes))
	d := opts.DampingFactor

	scores := make(map[string]float64, len(nodes))
	newScores := make(map[string]float64, len(nodes))
	initial := 1.0 / n
	for id := range nodes {
		scores[id] = initial
	}

	outDegree := make(map[string]int, len(nodes))
	var sinkNodes []string
	for id, node := range nodes {
		deg := 0
		for _, e := range node.Outgoing {
			if e.Kind == importgraph.EdgeResolved {
				deg++
			}
		}
		outDegree[id] = deg
		if deg == 0 {
			sinkNodes = append(sinkNodes, id)
		}
	}

	var iterations int
	var converged bool
	var maxDiff float64

	for iter := 0; iter < opts.MaxIterations; iter++ {
		if ctx != nil && ctx.Err() != nil {
			return PageRankResult{Scores: scores, Iterations: iter, Converged: false, MaxDiff: maxDiff}
		}

		maxDiff = 0
		sinkContribution := 0.0
		for _, id := range sinkNodes {
			sinkContribution += scores[id]
		}
		sinkContribution = d * sinkContribution / n

		for id, node := range nodes {
			newScore := (1-d)/n + sinkContribution
			for _, edge := range node.Incoming {
				if fromOut := outDegree[edge.From]; fromOut > 0 {
					newScore += d * scores[edge.From] / float64(fromOut)
				}
			}
			newScores[id] = newScore
			if diff := math.Abs(newScore - scores[id]); diff > maxDiff {
				maxDiff = diff
			}
		}

		scores, newScores = newScores, scores
		iterations = iter + 1
		if maxDiff < opts.Convergence {
			converged = true
			break
		}
	}

	return PageRankResult{Scores: normalize(scores), Iterations: iterations, Converged: converged, MaxDiff: maxDiff}
}

// normalize rescales scores so they sum to 1, per §4.E's "final vector
// normalized to sum = 1".
func normalize(scores map[string]float64) map[string]float64 {
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	if sum == 0 {
		return scores
	}
	out := make(map[string]float64, len(scores))
	for id, s := range scores {
		out[id] = s / sum
	}
	return out
}

// Classify buckets every node in result by percentile rank of its
// score among all scores.
func Classify(result PageRankResult) map[string]Classification {
	ids := make([]string, 0, len(result.Scores))
	for id := range result.Scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return result.Scores[ids[i]] < result.Scores[ids[j]] })

	classes := make(map[string]Classification, len(ids))
	total := len(ids)
	for i, id := range ids {
		percentile := 0.0
		if total > 1 {
			percentile = float64(i) / float64(total-1) * 100
		} else {
			percentile = 100
		}
		switch {
		case percentile >= 90:
			classes[id] = Critical
		case percentile >= 75:
			classes[id] = Important
		case percentile >= 25:
			classes[id] = Standard
		default:
			classes[id] = Peripheral
		}
	}
	return classes
}
