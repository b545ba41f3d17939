package model

import (
	"encoding/json"
	"fmt"
	"os"

	"clicksafe/internal/features"
)

// Scaler is a fitted StandardScaler over named columns.
type Scaler struct {
	Columns features.Schema `json:"columns"`
	Mean    []float64       `json:"mean"`
	Scale   []float64       `json:"scale"`
}

// LoadScaler reads and validates a scaler artifact.
func LoadScaler(path string) (*Scaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scaler %s: %w", path, err)
	}
	var s Scaler
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scaler %s: %w", path, err)
	}
	if len(s.Columns) == 0 || len(s.Mean) != len(s.Columns) || len(s.Scale) != len(s.Columns) {
		return nil, fmt.Errorf("scaler %s: %w: column, mean and scale lengths differ", path, ErrInvalidArtifact)
	}
	return &s, nil
}

// Transform standardizes v, which must use the scaler's columns. A zero
// scale leaves the centred value unscaled, as scikit-learn does.
func (s *Scaler) Transform(v features.Vector) ([]float64, error) {
	if !v.Schema.Equal(s.Columns) {
		return nil, fmt.Errorf("%w: scaler columns %v, got %v", ErrSchemaMismatch, s.Columns, v.Schema)
	}
	out := make([]float64, len(s.Columns))
	for i, x := range v.Values {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (x - s.Mean[i]) / scale
	}
	return out, nil
}
