// Package report scores predicted verdicts against labelled data and
// renders a per-class classification table.
package report

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ErrNoSamples means there was nothing to score.
var ErrNoSamples = errors.New("no samples to score")

// ClassStats are the scores of one class.
type ClassStats struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report summarises one evaluation run.
type Report struct {
	Classes  []ClassStats
	Accuracy float64
	MacroF1  float64
	Total    int
}

// New compares actual and predicted labels pairwise. A prediction outside
// the actual classes (UNKNOWN, ERROR) counts as a miss and gets its own row.
func New(actual, predicted []string) (*Report, error) {
	if len(actual) != len(predicted) {
		return nil, fmt.Errorf("got %d labels but %d predictions", len(actual), len(predicted))
	}
	if len(actual) == 0 {
		return nil, ErrNoSamples
	}

	tp := map[string]int{}
	predCount := map[string]int{}
	support := map[string]int{}
	correct := 0
	for i := range actual {
		support[actual[i]]++
		predCount[predicted[i]]++
		if actual[i] == predicted[i] {
			tp[actual[i]]++
			correct++
		}
	}

	labels := make([]string, 0, len(support)+len(predCount))
	for l := range support {
		labels = append(labels, l)
	}
	for l := range predCount {
		if _, ok := support[l]; !ok {
			labels = append(labels, l)
		}
	}
	slices.Sort(labels)

	r := &Report{Total: len(actual), Accuracy: float64(correct) / float64(len(actual))}
	var f1Sum float64
	for _, l := range labels {
		s := ClassStats{
			Label:     l,
			Precision: ratio(tp[l], predCount[l]),
			Recall:    ratio(tp[l], support[l]),
			Support:   support[l],
		}
		if s.Precision+s.Recall > 0 {
			s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
		}
		r.Classes = append(r.Classes, s)
		f1Sum += s.F1
	}
	r.MacroF1 = f1Sum / float64(len(labels))
	return r, nil
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// Class returns the stats for label.
func (r *Report) Class(label string) (ClassStats, bool) {
	for _, c := range r.Classes {
		if c.Label == label {
			return c, true
		}
	}
	return ClassStats{}, false
}

// Markdown renders the report as an aligned markdown table.
func (r *Report) Markdown() string {
	rows := [][]string{{"class", "precision", "recall", "f1", "support"}}
	for _, c := range r.Classes {
		rows = append(rows, []string{c.Label, pct(c.Precision), pct(c.Recall), pct(c.F1), fmt.Sprint(c.Support)})
	}
	rows = append(rows,
		[]string{"macro avg", "", "", pct(r.MacroF1), fmt.Sprint(r.Total)},
		[]string{"accuracy", "", "", pct(r.Accuracy), fmt.Sprint(r.Total)},
	)

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell), 3)
		}
	}

	var sb strings.Builder
	for i, row := range rows {
		writeRow(&sb, row, widths)
		if i == 0 {
			sep := make([]string, len(widths))
			for j, w := range widths {
				sep[j] = strings.Repeat("-", w)
			}
			writeRow(&sb, sep, widths)
		}
	}
	return sb.String()
}

func writeRow(sb *strings.Builder, row []string, widths []int) {
	sb.WriteString("|")
	for i, cell := range row {
		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(cell, widths[i]))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f", math.Round(v*10000)/10000)
}
