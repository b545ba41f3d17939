package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"
)

// wordPattern matches scikit-learn's default token_pattern (?u)\b\w\w+\b.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer is a fitted TfidfVectorizer.
type Vectorizer struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	Lowercase   *bool          `json:"lowercase,omitempty"`
	Norm        string         `json:"norm"`
	SublinearTF bool           `json:"sublinear_tf"`
}

// LoadVectorizer reads and validates a vectorizer artifact.
func LoadVectorizer(path string) (*Vectorizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vectorizer %s: %w", path, err)
	}
	var v Vectorizer
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode vectorizer %s: %w", path, err)
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("vectorizer %s: %w", path, err)
	}
	return &v, nil
}

// Validate checks every vocabulary column has an idf weight.
func (v *Vectorizer) Validate() error {
	if len(v.Vocabulary) == 0 {
		return fmt.Errorf("%w: empty vocabulary", ErrInvalidArtifact)
	}
	if len(v.IDF) != len(v.Vocabulary) {
		return fmt.Errorf("%w: %d idf weights for %d terms", ErrInvalidArtifact, len(v.IDF), len(v.Vocabulary))
	}
	for term, col := range v.Vocabulary {
		if col < 0 || col >= len(v.IDF) {
			return fmt.Errorf("%w: term %q maps to column %d", ErrInvalidArtifact, term, col)
		}
	}
	switch v.Norm {
	case "", "l2", "l1", "none":
	default:
		return fmt.Errorf("%w: unsupported norm %q", ErrInvalidArtifact, v.Norm)
	}
	return nil
}

// Width is the number of output columns.
func (v *Vectorizer) Width() int {
	return len(v.IDF)
}

// Tokens splits text the way the vectorizer was fitted.
func (v *Vectorizer) Tokens(text string) []string {
	if v.Lowercase == nil || *v.Lowercase {
		text = strings.ToLower(text)
	}
	return wordPattern.FindAllString(text, -1)
}

// Transform returns the dense tf-idf row for text. Out-of-vocabulary terms
// are ignored; text with no known terms is the zero vector.
func (v *Vectorizer) Transform(text string) []float64 {
	row := make([]float64, v.Width())
	for _, tok := range v.Tokens(text) {
		if col, ok := v.Vocabulary[tok]; ok {
			row[col]++
		}
	}

	for i, tf := range row {
		if tf == 0 {
			continue
		}
		if v.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		row[i] = tf * v.IDF[i]
	}

	switch v.Norm {
	case "", "l2":
		var sq float64
		for _, x := range row {
			sq += x * x
		}
		if sq > 0 {
			n := math.Sqrt(sq)
			for i := range row {
				row[i] /= n
			}
		}
	case "l1":
		var sum float64
		for _, x := range row {
			sum += math.Abs(x)
		}
		if sum > 0 {
			for i := range row {
				row[i] /= sum
			}
		}
	}
	return row
}
