package assess

import "github.com/kanishk-pant/orf-english/internal/align"

//
// Metrics holds the fluency measures derived from one scored
// reading attempt.
//
// WER is (substitutions + deletions + insertions) / reference
// length; accuracy is 1 - WER and is deliberately not clamped, so
// it can go negative when insertions dominate a short passage.
// WCPM is the hit count normalized to a one-minute reading rate.
//
type Metrics struct {
	WCPM               float64 `json:"wcpm"`
	Hits               int     `json:"hits"`
	Substitutions      int     `json:"substitutions"`
	Insertions         int     `json:"insertions"`
	Deletions          int     `json:"deletions"`
	Accuracy           float64 `json:"accuracy"`
	AccuracyPercentage float64 `json:"accuracy_percentage"`
	WER                float64 `json:"wer"`
}

//
// ComputeMetrics derives the fluency measures from a
// classification. an empty reference yields WER 0 rather than a
// division by zero, and a missing or non-positive duration yields
// WCPM 0 rather than infinity.
//
func ComputeMetrics(c align.Classification, durationSeconds float64) Metrics {

	m := Metrics{
		Hits:          len(c.Hits),
		Substitutions: len(c.Substitutions),
		Insertions:    len(c.Insertions),
		Deletions:     len(c.Deletions),
	}

	refLen := m.Hits + m.Substitutions + m.Deletions
	if refLen > 0 {
		m.WER = float64(m.Substitutions+m.Deletions+m.Insertions) / float64(refLen)
	}
	m.Accuracy = 1 - m.WER
	m.AccuracyPercentage = m.Accuracy * 100

	if durationSeconds > 0 {
		m.WCPM = float64(m.Hits) / (durationSeconds / 60)
	}

	return m
}
