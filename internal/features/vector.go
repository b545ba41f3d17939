// Package features turns review text and app metadata into the fixed-schema
// numeric vectors the classifiers were trained on.
package features

import (
	"fmt"
	"math"
)

// Schema is the ordered list of feature names a classifier expects.
type Schema []string

// Index returns the column of name, or -1.
func (s Schema) Index(name string) int {
	for i, n := range s {
		if n == name {
			return i
		}
	}
	return -1
}

// Equal reports whether both schemas name the same features in the same order.
func (s Schema) Equal(other Schema) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Vector is a FeatureVector: values laid out in Schema order.
// A freshly built Vector is all zeros, never NaN.
type Vector struct {
	Schema Schema
	Values []float64
}

// NewVector returns a zeroed vector for schema.
func NewVector(schema Schema) Vector {
	return Vector{Schema: schema, Values: make([]float64, len(schema))}
}

// Get returns the value of name and whether the schema has it.
func (v Vector) Get(name string) (float64, bool) {
	i := v.Schema.Index(name)
	if i < 0 {
		return 0, false
	}
	return v.Values[i], true
}

// Set assigns name. Non-finite values are stored as zero.
func (v Vector) Set(name string, value float64) error {
	i := v.Schema.Index(name)
	if i < 0 {
		return fmt.Errorf("feature %q not in schema", name)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	v.Values[i] = value
	return nil
}

// Map returns the vector as name -> value, mostly for logging and JSON.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.Schema))
	for i, name := range v.Schema {
		m[name] = v.Values[i]
	}
	return m
}
