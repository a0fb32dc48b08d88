package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/Custard69/BurnoutZero/internal/errors"
	"github.com/Custard69/BurnoutZero/internal/features"
)

// ScalerArtifact holds the standardization parameters fit during external
// training. Feature order must match the canonical order exactly.
type ScalerArtifact struct {
	Features []string  `json:"features"`
	Mean     []float64 `json:"mean"`
	Scale    []float64 `json:"scale"`
}

// ClassifierArtifact holds a multinomial logistic regression exported by the
// training pipeline: one coefficient row and intercept per class, classes
// ordered 0=Low, 1=Medium, 2=High.
type ClassifierArtifact struct {
	Features  []string    `json:"features"`
	Classes   []string    `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

const (
	scalerFile     = "scaler.json"
	classifierFile = "classifier.json"

	// NumClasses is the size of the class distribution (Low, Medium, High).
	NumClasses = 3
)

// LoadArtifacts reads and validates the scaler and classifier artifacts from
// dir. Missing or malformed artifacts, or artifacts whose feature schema
// disagrees with the canonical feature order, yield a ScoringError. This runs
// once at startup; the returned Scorer is immutable and safe for concurrent
// use.
func LoadArtifacts(dir string) (*Scorer, error) {
	var scaler ScalerArtifact
	if err := readArtifact(filepath.Join(dir, scalerFile), &scaler); err != nil {
		return nil, err
	}

	var clf ClassifierArtifact
	if err := readArtifact(filepath.Join(dir, classifierFile), &clf); err != nil {
		return nil, err
	}

	if err := validateSchema(scaler, clf); err != nil {
		return nil, err
	}

	return &Scorer{scaler: scaler, clf: clf}, nil
}

func readArtifact(path string, out interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return apperrors.NewScoringError(
			fmt.Sprintf("model artifact %s unavailable", filepath.Base(path)), err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(out); err != nil {
		return apperrors.NewScoringError(
			fmt.Sprintf("model artifact %s is malformed", filepath.Base(path)), err)
	}
	return nil
}

func validateSchema(scaler ScalerArtifact, clf ClassifierArtifact) error {
	if err := sameOrder(scaler.Features); err != nil {
		return apperrors.NewScoringError("scaler feature schema mismatch", err)
	}
	if err := sameOrder(clf.Features); err != nil {
		return apperrors.NewScoringError("classifier feature schema mismatch", err)
	}

	n := len(features.Order)
	if len(scaler.Mean) != n || len(scaler.Scale) != n {
		return apperrors.NewScoringError("scaler parameter shape mismatch",
			fmt.Errorf("expected %d means and scales, got %d and %d", n, len(scaler.Mean), len(scaler.Scale)))
	}

	if len(clf.Classes) != NumClasses || len(clf.Coef) != NumClasses || len(clf.Intercept) != NumClasses {
		return apperrors.NewScoringError("classifier class shape mismatch",
			fmt.Errorf("expected %d classes", NumClasses))
	}
	for i, row := range clf.Coef {
		if len(row) != n {
			return apperrors.NewScoringError("classifier coefficient shape mismatch",
				fmt.Errorf("class %d has %d coefficients, expected %d", i, len(row), n))
		}
	}
	return nil
}

func sameOrder(names []string) error {
	if len(names) != len(features.Order) {
		return fmt.Errorf("expected %d features, got %d", len(features.Order), len(names))
	}
	for i, name := range names {
		if name != features.Order[i] {
			return fmt.Errorf("feature %d is %q, expected %q", i, name, features.Order[i])
		}
	}
	return nil
}
