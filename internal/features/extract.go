package features

import (
	"strings"
	"unicode"

	"clicksafe/internal/sentiment"
)

// Per-review text feature names, in training order.
const (
	ReviewLength          = "review_length"
	Exclamations          = "exclamations"
	AllCapsCount          = "all_caps_count"
	SentimentPolarity     = "sentiment_polarity"
	SentimentSubjectivity = "sentiment_subjectivity"
)

// TextSchema is the schema Extract produces.
var TextSchema = Schema{
	ReviewLength,
	Exclamations,
	AllCapsCount,
	SentimentPolarity,
	SentimentSubjectivity,
}

// Scorer is the sentiment model the extractor consults.
type Scorer interface {
	Analyze(text string) sentiment.Result
}

// Extractor computes text features. It holds no mutable state.
type Extractor struct {
	scorer Scorer
}

// NewExtractor creates an extractor; a nil scorer uses the embedded lexicon.
func NewExtractor(scorer Scorer) *Extractor {
	if scorer == nil {
		scorer = sentiment.Default()
	}
	return &Extractor{scorer: scorer}
}

// Extract returns the TextSchema vector for one review or headline.
// Empty text yields all zeros.
func (e *Extractor) Extract(text string) Vector {
	v := NewVector(TextSchema)
	if strings.TrimSpace(text) == "" {
		return v
	}

	tokens := strings.Fields(text)
	caps := 0
	for _, tok := range tokens {
		if IsUpperToken(tok) {
			caps++
		}
	}
	s := e.scorer.Analyze(text)

	v.Values[0] = float64(len(tokens))
	v.Values[1] = float64(strings.Count(text, "!"))
	v.Values[2] = float64(caps)
	v.Values[3] = s.Polarity
	v.Values[4] = s.Subjectivity
	return v
}

// ExtractAll runs Extract over every text.
func (e *Extractor) ExtractAll(texts []string) []Vector {
	out := make([]Vector, 0, len(texts))
	for _, t := range texts {
		out = append(out, e.Extract(t))
	}
	return out
}

// IsUpperToken reports whether tok has at least one cased letter and no
// lower-case ones ("OK!" and "A1" qualify, "!!!" does not).
func IsUpperToken(tok string) bool {
	cased := false
	for _, r := range tok {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}
