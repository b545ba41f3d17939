// Command evaluate scores a detector artifact against a labelled CSV and
// prints a classification report.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"clicksafe/internal/config"
	"clicksafe/internal/detect/clickbait"
	"clicksafe/internal/detect/fakenews"
	"clicksafe/internal/logger"
	"clicksafe/internal/model"
	"clicksafe/internal/newsfeed"
	"clicksafe/internal/report"
)

type sample struct {
	text, extra, label string
}

func main() {
	detector := flag.String("detector", "clickbait", "Detector to evaluate: clickbait or fakenews")
	dataPath := flag.String("data", "", "Path to the labelled CSV")
	textCol := flag.String("text", "", "Text column (default: text for clickbait, title for fakenews)")
	extraCol := flag.String("extra", "text", "Body column for fakenews, optional")
	labelCol := flag.String("label", "label", "Label column; 0/1 or verdict names")
	flag.Parse()

	logger.Setup(os.Getenv("LOG_LEVEL"), "text")
	if *dataPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	ycfg, err := config.LoadYAMLConfig()
	if err != nil {
		slog.Error("failed to load config file", "error", err)
		os.Exit(1)
	}
	cfg.Apply(ycfg)

	if err := run(cfg, *detector, *dataPath, *textCol, *extraCol, *labelCol); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, detector, dataPath, textCol, extraCol, labelCol string) error {
	var (
		labels  model.LabelMap
		predict func(sample) (string, error)
	)

	if textCol == "" {
		textCol = defaultTextColumn(detector)
	}

	switch detector {
	case "clickbait":
		d, err := clickbait.Load(cfg.ClickbaitVectorizer, cfg.ClickbaitModel)
		if err != nil {
			return err
		}
		labels = model.LabelMap{"1": clickbait.Clickbait, "0": clickbait.NotClickbait}
		predict = func(s sample) (string, error) {
			res, err := d.Classify(s.text)
			return res.Verdict, err
		}
	case "fakenews":
		local, err := fakenews.LoadLocal(cfg.FakeNewsVectorizer, cfg.FakeNewsScaler, cfg.FakeNewsModel)
		if err != nil {
			return err
		}
		labels = model.LabelMap{"1": fakenews.Fake, "0": fakenews.Real}
		predict = func(s sample) (string, error) {
			label, _, err := local.Classify(context.Background(), newsfeed.Item{Title: s.text, Description: s.extra})
			return label, err
		}
	default:
		return fmt.Errorf("unknown detector %q", detector)
	}

	f, err := os.Open(dataPath)
	if err != nil {
		return err
	}
	defer f.Close()

	samples, err := readSamples(f, textCol, extraCol, labelCol)
	if err != nil {
		return fmt.Errorf("read %s: %w", dataPath, err)
	}
	fmt.Printf("📂 Scoring %d samples from %s with the %s detector\n\n", len(samples), dataPath, detector)

	actual := make([]string, 0, len(samples))
	predicted := make([]string, 0, len(samples))
	skipped := 0
	for _, s := range samples {
		if strings.TrimSpace(s.text) == "" {
			skipped++
			continue
		}
		verdict, err := predict(s)
		if err != nil {
			slog.Debug("prediction failed", "text", s.text, "error", err)
			verdict = model.Unknown
		}
		actual = append(actual, trueLabel(labels, s.label))
		predicted = append(predicted, verdict)
	}

	r, err := report.New(actual, predicted)
	if err != nil {
		return err
	}
	fmt.Print(r.Markdown())
	if skipped > 0 {
		fmt.Printf("\n⚠️  Skipped %d rows with empty text\n", skipped)
	}
	return nil
}

// defaultTextColumn names the text column of each detector's training data.
func defaultTextColumn(detector string) string {
	if detector == "fakenews" {
		return "title"
	}
	return "text"
}

// trueLabel maps numeric labels through labels; verdict names pass through.
func trueLabel(labels model.LabelMap, raw string) string {
	raw = strings.TrimSpace(raw)
	if v, ok := labels[raw]; ok {
		return v
	}
	return strings.ToUpper(raw)
}

func readSamples(r io.Reader, textCol, extraCol, labelCol string) ([]sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	ti := slices.Index(header, textCol)
	li := slices.Index(header, labelCol)
	if ti < 0 || li < 0 {
		return nil, fmt.Errorf("need columns %q and %q, have %v", textCol, labelCol, header)
	}
	ei := slices.Index(header, extraCol)

	var out []sample
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if ti >= len(rec) || li >= len(rec) {
			continue
		}
		s := sample{text: rec[ti], label: rec[li]}
		if ei >= 0 && ei < len(rec) {
			s.extra = rec[ei]
		}
		out = append(out, s)
	}
	return out, nil
}
