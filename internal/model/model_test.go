package model

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"clicksafe/internal/features"
)

func testForest() *Forest {
	return &Forest{
		Name:     "test",
		Features: features.Schema{"x", "y"},
		Classes:  []int{0, 1},
		Labels:   map[string]string{"0": "SAFE", "1": "BAD"},
		Trees: []Tree{
			{
				ChildrenLeft:  []int{1, -1, -1},
				ChildrenRight: []int{2, -1, -1},
				Feature:       []int{0, -2, -2},
				Threshold:     []float64{0.5, -2, -2},
				Value:         [][]float64{{3, 3}, {3, 1}, {0, 2}},
			},
			{
				ChildrenLeft:  []int{1, -1, -1},
				ChildrenRight: []int{2, -1, -1},
				Feature:       []int{1, -2, -2},
				Threshold:     []float64{10, -2, -2},
				Value:         [][]float64{{2, 3}, {1, 0}, {1, 3}},
			},
		},
	}
}

func TestForestPredict(t *testing.T) {
	f := testForest()
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	tests := []struct {
		name      string
		x         []float64
		wantClass int
		wantProb  float64
	}{
		{"both trees say safe", []float64{0, 5}, 0, 0.875},
		{"both trees say bad", []float64{1, 20}, 1, 0.875},
		{"tie goes to first class", []float64{0, 20}, 0, 0.5},
		{"threshold is inclusive on the left", []float64{0.5, 10}, 0, 0.875},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, prob, err := f.Predict(tt.x)
			if err != nil {
				t.Fatalf("Predict: %v", err)
			}
			if class != tt.wantClass {
				t.Errorf("class = %d, want %d", class, tt.wantClass)
			}
			if math.Abs(prob-tt.wantProb) > 1e-12 {
				t.Errorf("prob = %v, want %v", prob, tt.wantProb)
			}
		})
	}
}

func TestForestPredictWrongWidth(t *testing.T) {
	_, _, err := testForest().Predict([]float64{1})
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("err = %v, want ErrSchemaMismatch", err)
	}
}

func TestForestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Forest)
	}{
		{"no trees", func(f *Forest) { f.Trees = nil }},
		{"one class", func(f *Forest) { f.Classes = []int{1} }},
		{"ragged arrays", func(f *Forest) { f.Trees[0].Threshold = f.Trees[0].Threshold[:2] }},
		{"split beyond width", func(f *Forest) { f.Trees[0].Feature[0] = 7 }},
		{"child loops back", func(f *Forest) { f.Trees[1].ChildrenLeft[0] = 0 }},
		{"wrong class weights", func(f *Forest) { f.Trees[0].Value[1] = []float64{1} }},
		{"no width", func(f *Forest) { f.Features = nil; f.Width = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testForest()
			tt.mutate(f)
			if err := f.Validate(); !errors.Is(err, ErrInvalidArtifact) {
				t.Errorf("Validate() = %v, want ErrInvalidArtifact", err)
			}
		})
	}
}

func TestForestCheckSchema(t *testing.T) {
	f := testForest()
	if err := f.CheckSchema(features.Schema{"x", "y"}); err != nil {
		t.Errorf("matching schema: %v", err)
	}
	if err := f.CheckSchema(features.Schema{"y", "x"}); !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("reordered schema: got %v, want ErrSchemaMismatch", err)
	}

	f.Features = nil
	f.Width = 2
	if err := f.CheckSchema(features.Schema{"a", "b"}); err != nil {
		t.Errorf("width-only artifact: %v", err)
	}
	if err := f.CheckSchema(features.Schema{"a"}); !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("width-only mismatch: got %v, want ErrSchemaMismatch", err)
	}
}

func TestLoadForest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forest.json")
	doc := `{
		"name": "fraud",
		"features": ["x", "y"],
		"classes": [0, 1],
		"labels": {"0": "NOT_FRAUDULENT", "1": "FRAUDULENT"},
		"trees": [{
			"children_left": [1, -1, -1],
			"children_right": [2, -1, -1],
			"feature": [0, -2, -2],
			"threshold": [0.5, -2, -2],
			"value": [[1, 1], [1, 0], [0, 1]]
		}]
	}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := LoadForest(path)
	if err != nil {
		t.Fatalf("LoadForest: %v", err)
	}
	class, _, err := f.Predict([]float64{2, 0})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got := f.Verdict(class); got != "FRAUDULENT" {
		t.Errorf("Verdict = %q, want FRAUDULENT", got)
	}

	if _, err := LoadForest(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestVectorizerTransform(t *testing.T) {
	v := &Vectorizer{
		Vocabulary: map[string]int{"shocking": 0, "believe": 1, "news": 2},
		IDF:        []float64{2, 1, 1.5},
		Norm:       "l2",
	}
	if err := v.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	row := v.Transform("Shocking news you wont believe SHOCKING!!!")
	n := math.Sqrt(16 + 1 + 2.25)
	want := []float64{4 / n, 1 / n, 1.5 / n}
	for i := range want {
		if math.Abs(row[i]-want[i]) > 1e-12 {
			t.Errorf("row[%d] = %v, want %v", i, row[i], want[i])
		}
	}

	empty := v.Transform("a b c")
	for i, x := range empty {
		if x != 0 {
			t.Errorf("single-char tokens should be dropped, row[%d] = %v", i, x)
		}
	}
}

func TestVectorizerSublinear(t *testing.T) {
	v := &Vectorizer{
		Vocabulary:  map[string]int{"win": 0},
		IDF:         []float64{1},
		Norm:        "none",
		SublinearTF: true,
	}
	row := v.Transform("win win win")
	if want := 1 + math.Log(3); math.Abs(row[0]-want) > 1e-12 {
		t.Errorf("row[0] = %v, want %v", row[0], want)
	}
}

func TestVectorizerValidate(t *testing.T) {
	bad := []*Vectorizer{
		{},
		{Vocabulary: map[string]int{"a": 0}, IDF: []float64{1, 2}},
		{Vocabulary: map[string]int{"a": 3}, IDF: []float64{1}},
		{Vocabulary: map[string]int{"a": 0}, IDF: []float64{1}, Norm: "max"},
	}
	for i, v := range bad {
		if err := v.Validate(); !errors.Is(err, ErrInvalidArtifact) {
			t.Errorf("case %d: Validate() = %v, want ErrInvalidArtifact", i, err)
		}
	}
}

func TestScalerTransform(t *testing.T) {
	s := &Scaler{
		Columns: features.Schema{"a", "b"},
		Mean:    []float64{1, 2},
		Scale:   []float64{2, 0},
	}
	v := features.NewVector(features.Schema{"a", "b"})
	got, err := s.Transform(v)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if got[0] != -0.5 || got[1] != -2 {
		t.Errorf("Transform = %v, want [-0.5 -2]", got)
	}

	if _, err := s.Transform(features.NewVector(features.Schema{"b", "a"})); !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("err = %v, want ErrSchemaMismatch", err)
	}
}

func TestLabelMap(t *testing.T) {
	m := LabelMap{"LABEL_1": "FAKE", "LABEL_0": "REAL"}
	tests := []struct {
		raw  string
		want string
	}{
		{"LABEL_1", "FAKE"},
		{"LABEL_0", "REAL"},
		{"label_1", "FAKE"},
		{"LABEL_2", Unknown},
		{"", Unknown},
	}
	for _, tt := range tests {
		if got := m.Verdict(tt.raw); got != tt.want {
			t.Errorf("Verdict(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}

	classes := LabelMap{"1": "CLICKBAIT", "0": "NOT_CLICKBAIT"}
	if got := classes.ClassVerdict(1); got != "CLICKBAIT" {
		t.Errorf("ClassVerdict(1) = %q", got)
	}
	if got := classes.ClassVerdict(5); got != Unknown {
		t.Errorf("ClassVerdict(5) = %q, want %q", got, Unknown)
	}
}
