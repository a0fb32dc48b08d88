package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Custard69/BurnoutZero/internal/errors"
	"github.com/Custard69/BurnoutZero/internal/features"
)

// writeArtifacts materializes a scaler/classifier pair in dir.
func writeArtifacts(t *testing.T, dir string, scaler ScalerArtifact, clf ClassifierArtifact) {
	t.Helper()
	for name, v := range map[string]interface{}{
		scalerFile:     scaler,
		classifierFile: clf,
	} {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
}

// identityArtifacts returns a scaler that passes values through unchanged and
// a classifier with zero coefficients, which yields a uniform distribution.
func identityArtifacts() (ScalerArtifact, ClassifierArtifact) {
	n := len(features.Order)
	scaler := ScalerArtifact{
		Features: append([]string(nil), features.Order...),
		Mean:     make([]float64, n),
		Scale:    make([]float64, n),
	}
	for i := range scaler.Scale {
		scaler.Scale[i] = 1
	}

	clf := ClassifierArtifact{
		Features:  append([]string(nil), features.Order...),
		Classes:   []string{"low", "medium", "high"},
		Coef:      make([][]float64, NumClasses),
		Intercept: make([]float64, NumClasses),
	}
	for c := range clf.Coef {
		clf.Coef[c] = make([]float64, n)
	}
	return scaler, clf
}

func TestLoadArtifacts(t *testing.T) {
	dir := t.TempDir()
	scaler, clf := identityArtifacts()
	writeArtifacts(t, dir, scaler, clf)

	scorer, err := LoadArtifacts(dir)
	require.NoError(t, err)
	require.NotNil(t, scorer)
	assert.Equal(t, []string{"low", "medium", "high"}, scorer.Classes())
}

func TestLoadArtifactsMissingFile(t *testing.T) {
	dir := t.TempDir()
	// Only the scaler is present.
	scaler, _ := identityArtifacts()
	data, err := json.Marshal(scaler)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, scalerFile), data, 0o644))

	_, err = LoadArtifacts(dir)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryScoring))
}

func TestLoadArtifactsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, scalerFile), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, classifierFile), []byte("{}"), 0o644))

	_, err := LoadArtifacts(dir)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryScoring))
}

func TestLoadArtifactsSchemaMismatch(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ScalerArtifact, *ClassifierArtifact)
	}{
		{
			name: "scaler feature order permuted",
			mutate: func(s *ScalerArtifact, _ *ClassifierArtifact) {
				s.Features[0], s.Features[1] = s.Features[1], s.Features[0]
			},
		},
		{
			name: "scaler missing a feature",
			mutate: func(s *ScalerArtifact, _ *ClassifierArtifact) {
				s.Features = s.Features[:len(s.Features)-1]
			},
		},
		{
			name: "classifier feature order permuted",
			mutate: func(_ *ScalerArtifact, c *ClassifierArtifact) {
				c.Features[2], c.Features[3] = c.Features[3], c.Features[2]
			},
		},
		{
			name: "scaler mean length wrong",
			mutate: func(s *ScalerArtifact, _ *ClassifierArtifact) {
				s.Mean = s.Mean[:3]
			},
		},
		{
			name: "classifier has two classes",
			mutate: func(_ *ScalerArtifact, c *ClassifierArtifact) {
				c.Classes = c.Classes[:2]
				c.Coef = c.Coef[:2]
				c.Intercept = c.Intercept[:2]
			},
		},
		{
			name: "coefficient row too short",
			mutate: func(_ *ScalerArtifact, c *ClassifierArtifact) {
				c.Coef[1] = c.Coef[1][:5]
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			scaler, clf := identityArtifacts()
			tt.mutate(&scaler, &clf)
			writeArtifacts(t, dir, scaler, clf)

			_, err := LoadArtifacts(dir)
			require.Error(t, err)
			assert.True(t, errors.IsCategory(err, errors.CategoryScoring))
		})
	}
}
