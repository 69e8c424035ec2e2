package align

// WordPair joins a reference word with the hypothesis word that
// was aligned against it.
type WordPair struct {
	Reference  string `json:"reference"`
	Hypothesis string `json:"hypothesis"`
}

//
// Classification assigns every token of both sequences to exactly
// one category: each reference token is a hit, substitution or
// deletion; each hypothesis token is a hit, substitution or
// insertion.
//
type Classification struct {
	Hits          []WordPair
	Substitutions []WordPair
	Insertions    []string
	Deletions     []string
}

//
// Classify converts the opcode partition into categorized error
// collections. inside a replace block of unequal lengths the two
// sides are paired positionally: offsets present on both sides
// become substitutions, the overhang becomes deletions (reference
// longer) or insertions (hypothesis longer). the positional
// pairing is part of the scoring contract.
//
func Classify(ref, hyp []string, ops []Opcode) Classification {

	var c Classification

	for _, op := range ops {
		switch op.Tag {

		case TagEqual:
			for k := 0; k < op.I2-op.I1; k++ {
				c.Hits = append(c.Hits, WordPair{Reference: ref[op.I1+k], Hypothesis: hyp[op.J1+k]})
			}

		case TagReplace:
			refLen := op.I2 - op.I1
			hypLen := op.J2 - op.J1
			maxLen := refLen
			if hypLen > maxLen {
				maxLen = hypLen
			}
			for k := 0; k < maxLen; k++ {
				switch {
				case k < refLen && k < hypLen:
					c.Substitutions = append(c.Substitutions, WordPair{Reference: ref[op.I1+k], Hypothesis: hyp[op.J1+k]})
				case k < refLen:
					c.Deletions = append(c.Deletions, ref[op.I1+k])
				default:
					c.Insertions = append(c.Insertions, hyp[op.J1+k])
				}
			}

		case TagDelete:
			for i := op.I1; i < op.I2; i++ {
				c.Deletions = append(c.Deletions, ref[i])
			}

		case TagInsert:
			for j := op.J1; j < op.J2; j++ {
				c.Insertions = append(c.Insertions, hyp[j])
			}
		}
	}

	return c
}
