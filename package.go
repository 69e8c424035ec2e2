//
// web service that scores oral reading fluency attempts - an
// uploaded recording is transcribed by an external speech
// inference collaborator, the transcript is aligned word by word
// against the target passage, and the word-level discrepancies
// are rolled up into WER, accuracy and words-correct-per-minute.
// package also keeps per-student assessment history so different
// attempts all create comparable results for review in aggregate.
//
package orf
