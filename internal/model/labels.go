package model

import (
	"strconv"
	"strings"
)

// Unknown is the verdict for a label no map entry covers.
const Unknown = "UNKNOWN"

// LabelMap maps raw classifier labels ("1", "LABEL_0", ...) to verdict names.
// Polarity differs between artifacts, so every artifact carries its own map.
type LabelMap map[string]string

// Verdict maps a raw label. Matching is case-insensitive on the raw label;
// unmapped labels are Unknown rather than either polarity.
func (m LabelMap) Verdict(raw string) string {
	if v, ok := m[raw]; ok && v != "" {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(k, raw) && v != "" {
			return v
		}
	}
	return Unknown
}

// ClassVerdict maps an integer class.
func (m LabelMap) ClassVerdict(class int) string {
	return m.Verdict(strconv.Itoa(class))
}

// Verdict maps a predicted class through the forest's own label map.
func (f *Forest) Verdict(class int) string {
	return LabelMap(f.Labels).ClassVerdict(class)
}
