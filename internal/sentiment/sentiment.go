// Package sentiment scores free text with a word lexicon in the manner of
// pattern/TextBlob: polarity in [-1, 1], subjectivity in [0, 1].
package sentiment

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

// exclamationBoost is applied to the last assessment for each trailing "!" run.
const exclamationBoost = 1.25

// negationWindow is how many tokens a negation stays pending.
const negationWindow = 3

var tokenPattern = regexp.MustCompile(`[\p{L}][\p{L}']*|!+`)

// Entry is one lexicon word.
type Entry struct {
	Polarity     float64 `yaml:"polarity"`
	Subjectivity float64 `yaml:"subjectivity"`
}

// Lexicon is the on-disk lexicon document.
type Lexicon struct {
	Intensifiers map[string]float64 `yaml:"intensifiers"`
	Negations    []string           `yaml:"negations"`
	Words        map[string]Entry   `yaml:"words"`
}

// Result is the sentiment of one text.
type Result struct {
	Polarity     float64
	Subjectivity float64
}

// Analyzer is immutable after construction and safe for concurrent use.
type Analyzer struct {
	words        map[string]Entry
	intensifiers map[string]float64
	negations    map[string]struct{}
}

// New parses a YAML lexicon.
func New(data []byte) (*Analyzer, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	if len(lex.Words) == 0 {
		return nil, fmt.Errorf("lexicon has no words")
	}

	a := &Analyzer{
		words:        make(map[string]Entry, len(lex.Words)),
		intensifiers: make(map[string]float64, len(lex.Intensifiers)),
		negations:    make(map[string]struct{}, len(lex.Negations)),
	}
	for w, e := range lex.Words {
		a.words[strings.ToLower(w)] = e
	}
	for w, m := range lex.Intensifiers {
		a.intensifiers[strings.ToLower(w)] = m
	}
	for _, w := range lex.Negations {
		a.negations[strings.ToLower(w)] = struct{}{}
	}
	return a, nil
}

var (
	defaultAnalyzer *Analyzer
	defaultOnce     sync.Once
)

// Default returns the analyzer built from the embedded lexicon.
func Default() *Analyzer {
	defaultOnce.Do(func() {
		a, err := New(defaultLexicon)
		if err != nil {
			panic(fmt.Sprintf("sentiment: embedded lexicon: %v", err))
		}
		defaultAnalyzer = a
	})
	return defaultAnalyzer
}

type assessment struct {
	p, s float64
}

// Analyze scores text. Text with no lexicon words scores (0, 0).
func (a *Analyzer) Analyze(text string) Result {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)

	var (
		scored    []assessment
		intensity = 1.0
		negated   = 0 // tokens left in which a negation still applies
	)

	for _, tok := range tokens {
		if strings.HasPrefix(tok, "!") {
			if len(scored) > 0 {
				last := &scored[len(scored)-1]
				last.p *= exclamationBoost
				last.s *= exclamationBoost
			}
			continue
		}

		word := strings.Trim(tok, "'")
		if _, ok := a.negations[word]; ok || strings.HasSuffix(word, "n't") {
			negated = negationWindow
			continue
		}
		if m, ok := a.intensifiers[word]; ok {
			intensity = m
			continue
		}

		e, ok := a.words[word]
		if !ok {
			intensity = 1.0
			if negated > 0 {
				negated--
			}
			continue
		}

		p, s := e.Polarity*intensity, e.Subjectivity*intensity
		if negated > 0 {
			p *= -0.5
		}
		scored = append(scored, assessment{p: p, s: s})
		intensity = 1.0
		negated = 0
	}

	if len(scored) == 0 {
		return Result{}
	}

	var sumP, sumS float64
	for _, as := range scored {
		sumP += as.p
		sumS += as.s
	}
	n := float64(len(scored))
	return Result{
		Polarity:     clamp(sumP/n, -1, 1),
		Subjectivity: clamp(sumS/n, 0, 1),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
