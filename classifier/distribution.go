package classifier

import (
	"fmt"
	"math"
	"sort"
)

// Prediction pairs a class label with its probability. Ordinal is the
// label's index in the model's compiled-in class list and is retained for
// deterministic tie-breaking.
type Prediction struct {
	Label       string  `json:"label"`
	Ordinal     int     `json:"-"`
	Probability float64 `json:"probability"`
}

// Distribution is a ranked probability distribution over the model's class
// set: descending by probability, probabilities summing to 1.0. Ties rank
// by ascending ordinal, so equal-probability classes resolve to the one
// earlier in the class list.
type Distribution []Prediction

// Softmax converts raw logits to probabilities. Shifted by the max logit
// for numerical stability.
func Softmax(logits []float32) []float64 {
	if len(logits) == 0 {
		return nil
	}

	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		probs[i] = math.Exp(float64(v - maxLogit))
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// Rank builds a Distribution from parallel class and probability slices.
// The result is sorted descending by probability with ties broken by
// ascending ordinal.
func Rank(classes []string, probs []float64) (Distribution, error) {
	if len(classes) != len(probs) {
		return nil, fmt.Errorf("%w: %d classes, %d probabilities",
			ErrBadDistribution, len(classes), len(probs))
	}

	dist := make(Distribution, len(classes))
	for i, label := range classes {
		dist[i] = Prediction{Label: label, Ordinal: i, Probability: probs[i]}
	}

	sort.SliceStable(dist, func(i, j int) bool {
		if dist[i].Probability != dist[j].Probability {
			return dist[i].Probability > dist[j].Probability
		}
		return dist[i].Ordinal < dist[j].Ordinal
	})

	return dist, nil
}

// Validate checks the Distribution invariants: non-empty, probabilities in
// [0,1] ordered descending, and a total within tolerance of 1.0.
func (d Distribution) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("%w: empty", ErrBadDistribution)
	}

	var sum float64
	for i, p := range d {
		if p.Probability < 0 || p.Probability > 1 {
			return fmt.Errorf("%w: probability %f for %q out of range",
				ErrBadDistribution, p.Probability, p.Label)
		}
		if i > 0 && p.Probability > d[i-1].Probability {
			return fmt.Errorf("%w: not ordered descending at %q", ErrBadDistribution, p.Label)
		}
		sum += p.Probability
	}

	if math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("%w: probabilities sum to %f", ErrBadDistribution, sum)
	}
	return nil
}

// Top returns the highest-probability prediction. Callers must ensure the
// distribution is non-empty (Validate rejects empty distributions).
func (d Distribution) Top() Prediction {
	return d[0]
}
