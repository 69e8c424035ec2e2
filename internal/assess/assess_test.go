package assess

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/kanishk-pant/orf-english/internal/align"
)

func score(ref, hyp string, duration float64) Metrics {
	r := align.Tokenize(ref)
	h := align.Tokenize(hyp)
	return ComputeMetrics(align.Classify(r, h, align.Align(r, h)), duration)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeMetrics(t *testing.T) {
	tests := []struct {
		name       string
		reference  string
		hypothesis string
		wantWER    float64
		wantHits   int
		wantSubs   int
		wantIns    int
		wantDels   int
	}{
		{
			name:       "identical",
			reference:  "the cat sat on the mat",
			hypothesis: "the cat sat on the mat",
			wantWER:    0.0,
			wantHits:   6,
		},
		{
			name:       "empty_hypothesis",
			reference:  "the cat sat on the mat",
			hypothesis: "",
			wantWER:    1.0,
			wantDels:   6,
		},
		{
			name:       "one_insertion",
			reference:  "the cat sat on the mat",
			hypothesis: "the cat sat on the mat extra",
			wantWER:    1.0 / 6.0,
			wantHits:   6,
			wantIns:    1,
		},
		{
			name:       "one_substitution",
			reference:  "the cat sat on the mat",
			hypothesis: "the cat sit on the mat",
			wantWER:    1.0 / 6.0,
			wantHits:   5,
			wantSubs:   1,
		},
		{
			name:       "one_deletion",
			reference:  "the cat sat on the mat",
			hypothesis: "the cat on the mat",
			wantWER:    1.0 / 6.0,
			wantHits:   5,
			wantDels:   1,
		},
		{
			name:       "case_and_punctuation_ignored",
			reference:  "The Cat, sat!",
			hypothesis: "the cat sat",
			wantWER:    0.0,
			wantHits:   3,
		},
		{
			name:       "empty_reference_guard",
			reference:  "",
			hypothesis: "some stray words",
			wantWER:    0.0,
			wantIns:    3,
		},
		{
			name:       "both_empty",
			reference:  "",
			hypothesis: "",
			wantWER:    0.0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := score(tc.reference, tc.hypothesis, 0)
			if !almostEqual(m.WER, tc.wantWER) {
				t.Errorf("WER = %v, want %v", m.WER, tc.wantWER)
			}
			if m.Hits != tc.wantHits || m.Substitutions != tc.wantSubs ||
				m.Insertions != tc.wantIns || m.Deletions != tc.wantDels {
				t.Errorf("counts = %d/%d/%d/%d, want %d/%d/%d/%d",
					m.Hits, m.Substitutions, m.Insertions, m.Deletions,
					tc.wantHits, tc.wantSubs, tc.wantIns, tc.wantDels)
			}
			if !almostEqual(m.Accuracy, 1-m.WER) {
				t.Errorf("accuracy = %v, want exactly 1-WER = %v", m.Accuracy, 1-m.WER)
			}
			if !almostEqual(m.AccuracyPercentage, m.Accuracy*100) {
				t.Errorf("accuracy percentage = %v, want %v", m.AccuracyPercentage, m.Accuracy*100)
			}
			if m.WCPM != 0 {
				t.Errorf("WCPM without duration = %v, want 0", m.WCPM)
			}
		})
	}
}

// accuracy is not clamped: insertions can push WER past 1.
func TestComputeMetricsAccuracyCanGoNegative(t *testing.T) {
	m := score("one two", "one two three four five six", 0)
	if m.WER <= 1 {
		t.Fatalf("WER = %v, want > 1", m.WER)
	}
	if m.Accuracy >= 0 {
		t.Fatalf("accuracy = %v, want negative", m.Accuracy)
	}
}

func TestComputeMetricsWCPM(t *testing.T) {
	c := align.Classification{Hits: make([]align.WordPair, 30)}

	if got := ComputeMetrics(c, 60).WCPM; !almostEqual(got, 30.0) {
		t.Errorf("WCPM at 60s = %v, want 30", got)
	}
	if got := ComputeMetrics(c, 90).WCPM; !almostEqual(got, 20.0) {
		t.Errorf("WCPM at 90s = %v, want 20", got)
	}
	if got := ComputeMetrics(c, 0).WCPM; got != 0 {
		t.Errorf("WCPM at 0s = %v, want 0", got)
	}
	if got := ComputeMetrics(c, -5).WCPM; got != 0 {
		t.Errorf("WCPM at negative duration = %v, want 0", got)
	}
}

const testPassage = "with ai in the picture developers are already struggling for jobs across the industry"

func TestAssessSuccess(t *testing.T) {
	res, err := Assess(Input{
		TargetText:      testPassage,
		Transcript:      testPassage,
		DurationSeconds: 28,
	})
	if err != nil {
		t.Fatalf("Assess failed: %v", err)
	}
	if res.Metrics.WER != 0 || res.Metrics.Hits != 14 {
		t.Fatalf("unexpected metrics: %+v", res.Metrics)
	}
	if res.Metrics.WCPM <= 0 {
		t.Fatalf("WCPM = %v, want positive", res.Metrics.WCPM)
	}
	if res.Transcript != testPassage || res.TargetText != testPassage {
		t.Fatalf("result did not carry inputs through: %+v", res)
	}
}

func TestAssessEmptyTranscriptAllowed(t *testing.T) {
	res, err := Assess(Input{TargetText: testPassage, Transcript: ""})
	if err != nil {
		t.Fatalf("Assess failed: %v", err)
	}
	if res.Metrics.Deletions != 14 || res.Metrics.WER != 1 {
		t.Fatalf("unexpected metrics for silent attempt: %+v", res.Metrics)
	}
}

func TestAssessShortTargetFailsValidation(t *testing.T) {
	_, err := Assess(Input{TargetText: "only five words right here", Transcript: "anything"})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	want := []string{"Text too short (minimum 10 words)"}
	if !reflect.DeepEqual(verr.Problems, want) {
		t.Fatalf("problems = %v, want %v", verr.Problems, want)
	}
}

// audio validator messages come first, then the text checks, and
// all of them are reported together.
func TestValidateAccumulatesAllProblems(t *testing.T) {
	verr := Validate("too short", []string{"Audio file too short", "Audio level too low"})
	if verr == nil {
		t.Fatal("expected validation failure")
	}
	want := []string{
		"Audio file too short",
		"Audio level too low",
		"Text too short (minimum 10 words)",
	}
	if !reflect.DeepEqual(verr.Problems, want) {
		t.Fatalf("problems = %v, want %v", verr.Problems, want)
	}
	if !strings.Contains(verr.Error(), "Audio level too low") {
		t.Fatalf("error string should list every problem: %q", verr.Error())
	}
}

func TestValidatePasses(t *testing.T) {
	if verr := Validate(testPassage, nil); verr != nil {
		t.Fatalf("unexpected validation failure: %v", verr)
	}
}
