//
// orchestration of a single oral reading fluency assessment:
// validate the inputs, normalize both texts, align them, classify
// the word-level errors and derive the fluency metrics. the
// package is pure; transcription and persistence live with the
// caller.
//
package assess

import (
	"fmt"
	"strings"

	"github.com/kanishk-pant/orf-english/internal/align"
)

// MinTargetWords is the shortest passage worth scoring.
const MinTargetWords = 10

//
// ValidationError reports every unmet input precondition at once,
// in the order the checks ran, rather than just the first.
//
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Problems, "; "))
}

//
// Input carries everything one assessment needs. AudioProblems
// are messages contributed by the external audio validator; they
// are merged into the same validation result as the text checks.
//
type Input struct {
	TargetText      string
	Transcript      string
	DurationSeconds float64
	AudioProblems   []string
}

//
// Result is the immutable outcome of one scored attempt.
//
type Result struct {
	Transcript string
	TargetText string
	Metrics    Metrics
	Errors     align.Classification
}

//
// Validate accumulates every input problem: the audio validator's
// messages first, then the passage-length check. a nil return
// means the assessment can proceed.
//
func Validate(targetText string, audioProblems []string) *ValidationError {

	problems := append([]string(nil), audioProblems...)

	if len(align.Tokenize(targetText)) < MinTargetWords {
		problems = append(problems, "Text too short (minimum 10 words)")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

//
// Assess runs the full scoring pipeline for one attempt. on a
// validation failure it returns a *ValidationError and no partial
// result.
//
func Assess(in Input) (*Result, error) {

	if verr := Validate(in.TargetText, in.AudioProblems); verr != nil {
		return nil, verr
	}

	refTokens := align.Tokenize(in.TargetText)
	hypTokens := align.Tokenize(in.Transcript)

	ops := align.Align(refTokens, hypTokens)
	classified := align.Classify(refTokens, hypTokens, ops)

	return &Result{
		Transcript: in.Transcript,
		TargetText: in.TargetText,
		Metrics:    ComputeMetrics(classified, in.DurationSeconds),
		Errors:     classified,
	}, nil
}
