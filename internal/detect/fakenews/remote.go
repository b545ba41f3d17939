package fakenews

import (
	"context"

	"clicksafe/internal/inference"
	"clicksafe/internal/model"
	"clicksafe/internal/newsfeed"
)

// DefaultLabels is the label map of the hosted fake-news model.
var DefaultLabels = model.LabelMap{"LABEL_1": Fake, "LABEL_0": Real}

// TextClassifier is the remote classification call.
type TextClassifier interface {
	Classify(ctx context.Context, text string) (inference.Prediction, error)
}

// Remote sends each headline title to a hosted text classifier.
type Remote struct {
	client TextClassifier
	labels model.LabelMap
}

// NewRemote creates a remote backend. A nil label map uses DefaultLabels.
func NewRemote(client TextClassifier, labels model.LabelMap) *Remote {
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	return &Remote{client: client, labels: labels}
}

// Name implements Backend.
func (r *Remote) Name() string { return "remote" }

// Classify implements Backend. Labels outside the map become UNKNOWN.
func (r *Remote) Classify(ctx context.Context, item newsfeed.Item) (string, float64, error) {
	pred, err := r.client.Classify(ctx, item.Title)
	if err != nil {
		return "", 0, err
	}
	return r.labels.Verdict(pred.Label), pred.Score, nil
}
