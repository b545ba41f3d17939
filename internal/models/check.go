package models

import (
	"time"

	"github.com/google/uuid"
)

// Detector names.
const (
	DetectorClickbait = "clickbait"
	DetectorFakeNews  = "fakenews"
	DetectorFraud     = "fraud"
)

// VerdictError marks a check that produced no verdict because a lookup failed.
const VerdictError = "ERROR"

// Check is one recorded evaluation.
type Check struct {
	ID        uuid.UUID `json:"id"`
	Detector  string    `json:"detector"`
	Input     string    `json:"input"`
	Verdict   string    `json:"verdict"`
	Kind      string    `json:"kind,omitempty"`
	Score     float64   `json:"score"`
	Error     *string   `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCheck stamps a check with a fresh ID and the current time.
func NewCheck(detector, input, verdict string, score float64) Check {
	return Check{
		ID:        uuid.New(),
		Detector:  detector,
		Input:     input,
		Verdict:   verdict,
		Score:     score,
		CreatedAt: time.Now().UTC(),
	}
}

// WithError attaches a failure reason.
func (c Check) WithError(err error) Check {
	if err != nil {
		msg := err.Error()
		c.Error = &msg
	}
	return c
}

// CheckOutcome is the running count of one verdict for one detector.
type CheckOutcome struct {
	Detector   string
	Verdict    string
	Count      int64
	LastSeenAt time.Time
}

// CheckFilter narrows a history query. Zero values match everything.
type CheckFilter struct {
	Detector string
	Verdict  string
	Since    time.Time
	Limit    uint64
}

// DenyListEntry is one curated known-bad app name.
type DenyListEntry struct {
	Name      string
	Source    string
	CreatedAt time.Time
}
