package fakenews

import (
	"context"
	"fmt"
	"strings"

	"clicksafe/internal/features"
	"clicksafe/internal/model"
	"clicksafe/internal/newsfeed"
)

// Article metadata columns the local model was trained with. Only the
// text-derived ones can be computed from a feed entry; the rest stay zero.
const (
	SentimentScore = "sentiment_score"
	WordCount      = "word_count"
	CharCount      = "char_count"
)

// MetaSchema is the metadata block in training order.
var MetaSchema = features.Schema{
	SentimentScore, WordCount, CharCount, "has_images", "has_videos",
	"readability_score", "num_shares", "num_comments",
	"political_bias", "fact_check_rating", "is_satirical",
	"trust_score", "source_reputation", "clickbait_score", "plagiarism_score",
}

// Local runs TF-IDF plus scaled metadata through a random forest.
type Local struct {
	vectorizer *model.Vectorizer
	scaler     *model.Scaler
	forest     *model.Forest
	extractor  *features.Extractor
}

// NewLocal checks the three artifacts fit together: the scaler must declare
// MetaSchema exactly, and the forest must take the vocabulary columns
// followed by those.
func NewLocal(vec *model.Vectorizer, scaler *model.Scaler, forest *model.Forest, extractor *features.Extractor) (*Local, error) {
	if vec == nil || scaler == nil || forest == nil {
		return nil, fmt.Errorf("local fake news backend needs a vectorizer, a scaler and a forest")
	}
	if !scaler.Columns.Equal(MetaSchema) {
		return nil, fmt.Errorf("fake news scaler: %w: columns %v, want %v",
			model.ErrSchemaMismatch, scaler.Columns, MetaSchema)
	}
	if want := vec.Width() + len(scaler.Columns); forest.NumFeatures() != want {
		return nil, fmt.Errorf("fake news model: %w: forest width %d, vectorizer+metadata width %d",
			model.ErrSchemaMismatch, forest.NumFeatures(), want)
	}
	if extractor == nil {
		extractor = features.NewExtractor(nil)
	}
	return &Local{vectorizer: vec, scaler: scaler, forest: forest, extractor: extractor}, nil
}

// LoadLocal reads the three artifacts from disk.
func LoadLocal(vectorizerPath, scalerPath, forestPath string) (*Local, error) {
	vec, err := model.LoadVectorizer(vectorizerPath)
	if err != nil {
		return nil, err
	}
	scaler, err := model.LoadScaler(scalerPath)
	if err != nil {
		return nil, err
	}
	forest, err := model.LoadForest(forestPath)
	if err != nil {
		return nil, err
	}
	return NewLocal(vec, scaler, forest, nil)
}

// Name implements Backend.
func (l *Local) Name() string { return "local" }

// Classify implements Backend.
func (l *Local) Classify(_ context.Context, item newsfeed.Item) (string, float64, error) {
	x, err := l.Row(item)
	if err != nil {
		return "", 0, err
	}
	class, prob, err := l.forest.Predict(x)
	if err != nil {
		return "", 0, err
	}
	return l.forest.Verdict(class), prob, nil
}

// Row builds the forest input for one item: the tf-idf row of title plus
// description, then the standardized metadata block.
func (l *Local) Row(item newsfeed.Item) ([]float64, error) {
	text := strings.TrimSpace(item.Title + " " + item.Description)

	meta := features.NewVector(l.scaler.Columns)
	if text != "" {
		tv := l.extractor.Extract(text)
		polarity, _ := tv.Get(features.SentimentPolarity)
		words, _ := tv.Get(features.ReviewLength)
		_ = meta.Set(SentimentScore, polarity)
		_ = meta.Set(WordCount, words)
		_ = meta.Set(CharCount, float64(len([]rune(text))))
	}
	scaled, err := l.scaler.Transform(meta)
	if err != nil {
		return nil, err
	}

	return append(l.vectorizer.Transform(text), scaled...), nil
}
