package model

import (
	"fmt"
	"math"

	apperrors "github.com/Custard69/BurnoutZero/internal/errors"
	"github.com/Custard69/BurnoutZero/internal/features"
)

// riskWeights reduce the class distribution to a scalar:
// 0·P(Low) + 0.5·P(Medium) + 1·P(High). The linear reduction keeps the score
// monotonic for trend charts while the full distribution stays available.
var riskWeights = [NumClasses]float64{0.0, 0.5, 1.0}

// Scorer standardizes a feature vector and runs the pretrained classifier.
// Immutable after LoadArtifacts; there is no per-call caching, every call
// re-scales and re-infers.
type Scorer struct {
	scaler ScalerArtifact
	clf    ClassifierArtifact
}

// Score returns the 3-class probability distribution and the weighted risk
// score in [0,1] for the given vector.
func (s *Scorer) Score(v features.Vector) ([NumClasses]float64, float64, error) {
	scaled, err := s.transform(v.Values())
	if err != nil {
		return [NumClasses]float64{}, 0, err
	}

	probs := s.predictProba(scaled)

	risk := 0.0
	for i, p := range probs {
		risk += riskWeights[i] * p
	}
	if risk < 0 {
		risk = 0
	}
	if risk > 1 {
		risk = 1
	}

	return probs, risk, nil
}

// transform applies the training-time standardization x' = (x - mean)/scale.
func (s *Scorer) transform(values []float64) ([]float64, error) {
	if len(values) != len(s.scaler.Mean) {
		return nil, apperrors.NewScoringError("feature vector schema mismatch",
			fmt.Errorf("got %d features, scaler expects %d", len(values), len(s.scaler.Mean)))
	}

	out := make([]float64, len(values))
	for i, x := range values {
		sd := s.scaler.Scale[i]
		if sd == 0 {
			sd = 1
		}
		out[i] = (x - s.scaler.Mean[i]) / sd
	}
	return out, nil
}

// predictProba computes softmax over the per-class logits.
func (s *Scorer) predictProba(scaled []float64) [NumClasses]float64 {
	var logits [NumClasses]float64
	for c := 0; c < NumClasses; c++ {
		z := s.clf.Intercept[c]
		for i, x := range scaled {
			z += s.clf.Coef[c][i] * x
		}
		logits[c] = z
	}

	// Shift by the max logit for numerical stability.
	maxZ := logits[0]
	for _, z := range logits[1:] {
		if z > maxZ {
			maxZ = z
		}
	}

	var probs [NumClasses]float64
	sum := 0.0
	for c, z := range logits {
		probs[c] = math.Exp(z - maxZ)
		sum += probs[c]
	}
	for c := range probs {
		probs[c] /= sum
	}
	return probs
}

// Classes returns the class labels in distribution order.
func (s *Scorer) Classes() []string {
	return append([]string(nil), s.clf.Classes...)
}

// RiskFromProbs applies the fixed class weights to a distribution. Exposed
// for the record-consistency invariant: a persisted record's risk score must
// be recomputable from its own stored distribution.
func RiskFromProbs(probs []float64) float64 {
	risk := 0.0
	for i, p := range probs {
		if i >= NumClasses {
			break
		}
		risk += riskWeights[i] * p
	}
	return risk
}
