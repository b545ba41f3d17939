// Package model evaluates scikit-learn estimators exported to JSON: random
// forests, TF-IDF vectorizers and standard scalers.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"clicksafe/internal/features"
)

var (
	// ErrSchemaMismatch means an input vector does not fit the artifact.
	ErrSchemaMismatch = errors.New("feature schema does not match model")
	// ErrInvalidArtifact means an artifact failed structural validation.
	ErrInvalidArtifact = errors.New("invalid model artifact")
)

// Tree is one fitted decision tree in scikit-learn's parallel-array layout.
// A node is a leaf when ChildrenLeft is -1. Value holds per-class weights.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// Forest is a RandomForestClassifier. Labels maps each class (as a string)
// to the verdict it means for this artifact.
type Forest struct {
	Name     string            `json:"name"`
	Features features.Schema   `json:"features,omitempty"`
	Width    int               `json:"n_features,omitempty"`
	Classes  []int             `json:"classes"`
	Labels   map[string]string `json:"labels"`
	Trees    []Tree            `json:"trees"`
}

// LoadForest reads and validates a forest artifact.
func LoadForest(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read forest %s: %w", path, err)
	}
	var f Forest
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode forest %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("forest %s: %w", path, err)
	}
	return &f, nil
}

// NumFeatures is the input width the forest expects.
func (f *Forest) NumFeatures() int {
	if len(f.Features) > 0 {
		return len(f.Features)
	}
	return f.Width
}

// Validate checks the tree arrays are consistent and every split references
// a column inside the declared width.
func (f *Forest) Validate() error {
	if len(f.Trees) == 0 {
		return fmt.Errorf("%w: no trees", ErrInvalidArtifact)
	}
	if len(f.Classes) < 2 {
		return fmt.Errorf("%w: need at least two classes", ErrInvalidArtifact)
	}
	width := f.NumFeatures()
	if width <= 0 {
		return fmt.Errorf("%w: feature width not declared", ErrInvalidArtifact)
	}
	for ti, t := range f.Trees {
		n := len(t.ChildrenLeft)
		if n == 0 || len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
			return fmt.Errorf("%w: tree %d has ragged arrays", ErrInvalidArtifact, ti)
		}
		for i := 0; i < n; i++ {
			if len(t.Value[i]) != len(f.Classes) {
				return fmt.Errorf("%w: tree %d node %d has %d class weights", ErrInvalidArtifact, ti, i, len(t.Value[i]))
			}
			l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
			if l == -1 {
				continue
			}
			if l <= i || l >= n || r <= i || r >= n {
				return fmt.Errorf("%w: tree %d node %d has bad children", ErrInvalidArtifact, ti, i)
			}
			if t.Feature[i] < 0 || t.Feature[i] >= width {
				return fmt.Errorf("%w: tree %d node %d splits on column %d of %d", ErrInvalidArtifact, ti, i, t.Feature[i], width)
			}
		}
	}
	return nil
}

// CheckSchema fails unless the forest was trained on exactly schema.
func (f *Forest) CheckSchema(schema features.Schema) error {
	if len(f.Features) == 0 {
		if f.Width != len(schema) {
			return fmt.Errorf("%w: model width %d, extractor width %d", ErrSchemaMismatch, f.Width, len(schema))
		}
		return nil
	}
	if !f.Features.Equal(schema) {
		return fmt.Errorf("%w: model %v, extractor %v", ErrSchemaMismatch, f.Features, schema)
	}
	return nil
}

// PredictProba averages each tree's normalized leaf distribution.
func (f *Forest) PredictProba(x []float64) ([]float64, error) {
	if len(x) != f.NumFeatures() {
		return nil, fmt.Errorf("%w: got %d values, want %d", ErrSchemaMismatch, len(x), f.NumFeatures())
	}
	proba := make([]float64, len(f.Classes))
	for _, t := range f.Trees {
		leaf := t.leaf(x)
		w := t.Value[leaf]
		var total float64
		for _, c := range w {
			total += c
		}
		if total == 0 {
			continue
		}
		for i, c := range w {
			proba[i] += c / total
		}
	}
	n := float64(len(f.Trees))
	for i := range proba {
		proba[i] /= n
	}
	return proba, nil
}

// Predict returns the class with the highest mean probability; ties go to
// the lower index, as numpy's argmax does.
func (f *Forest) Predict(x []float64) (int, float64, error) {
	proba, err := f.PredictProba(x)
	if err != nil {
		return 0, 0, err
	}
	best := 0
	for i := 1; i < len(proba); i++ {
		if proba[i] > proba[best] {
			best = i
		}
	}
	return f.Classes[best], proba[best], nil
}

func (t Tree) leaf(x []float64) int {
	node := 0
	for t.ChildrenLeft[node] != -1 {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return node
}
