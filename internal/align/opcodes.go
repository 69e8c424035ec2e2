package align

import "sort"

// Tag labels how a reference sub-range relates to a hypothesis sub-range.
type Tag string

const (
	TagEqual   Tag = "equal"
	TagReplace Tag = "replace"
	TagDelete  Tag = "delete"
	TagInsert  Tag = "insert"
)

//
// Opcode describes one contiguous slice of the alignment:
// reference[I1:I2] relates to hypothesis[J1:J2] as Tag says.
// the opcodes returned by Align cover both index spaces fully,
// in order, with no gaps or overlaps.
//
type Opcode struct {
	Tag            Tag
	I1, I2, J1, J2 int
}

// block is a maximal run of tokens common to both sequences.
type block struct {
	a, b, size int
}

//
// Align partitions the two token sequences into matched and
// unmatched ranges using a recursive longest-matching-block
// heuristic. for equal-length candidate matches the one starting
// at the smallest reference index wins, then the smallest
// hypothesis index. the recursion is driven by an explicit
// worklist so pathological inputs cannot exhaust the stack.
//
// the exact tie-break and leftover classification here are a
// compatibility contract: previously stored scores were produced
// by this partition, so it must not be swapped for an
// edit-distance-optimal alignment.
//
func Align(ref, hyp []string) []Opcode {

	// index hypothesis tokens once for the longest-match scans
	b2j := make(map[string][]int, len(hyp))
	for j, word := range hyp {
		b2j[word] = append(b2j[word], j)
	}

	// collect matching blocks, splitting around each match
	type span struct {
		alo, ahi, blo, bhi int
	}
	queue := []span{{0, len(ref), 0, len(hyp)}}
	var blocks []block

	for len(queue) > 0 {
		sp := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		m := longestMatch(ref, b2j, sp.alo, sp.ahi, sp.blo, sp.bhi)
		if m.size == 0 {
			continue
		}
		blocks = append(blocks, m)
		if sp.alo < m.a && sp.blo < m.b {
			queue = append(queue, span{sp.alo, m.a, sp.blo, m.b})
		}
		if m.a+m.size < sp.ahi && m.b+m.size < sp.bhi {
			queue = append(queue, span{m.a + m.size, sp.ahi, m.b + m.size, sp.bhi})
		}
	}

	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].a != blocks[j].a {
			return blocks[i].a < blocks[j].a
		}
		return blocks[i].b < blocks[j].b
	})

	// fuse adjacent blocks so each equal opcode is maximal
	merged := blocks[:0]
	for _, blk := range blocks {
		n := len(merged)
		if n > 0 && merged[n-1].a+merged[n-1].size == blk.a && merged[n-1].b+merged[n-1].size == blk.b {
			merged[n-1].size += blk.size
			continue
		}
		merged = append(merged, blk)
	}
	// terminal sentinel closes out the trailing unmatched ranges
	merged = append(merged, block{len(ref), len(hyp), 0})

	// walk the blocks emitting opcodes for gaps and matches
	var ops []Opcode
	i, j := 0, 0
	for _, blk := range merged {
		tag := Tag("")
		switch {
		case i < blk.a && j < blk.b:
			tag = TagReplace
		case i < blk.a:
			tag = TagDelete
		case j < blk.b:
			tag = TagInsert
		}
		if tag != "" {
			ops = append(ops, Opcode{Tag: tag, I1: i, I2: blk.a, J1: j, J2: blk.b})
		}
		i, j = blk.a+blk.size, blk.b+blk.size
		if blk.size > 0 {
			ops = append(ops, Opcode{Tag: TagEqual, I1: blk.a, I2: i, J1: blk.b, J2: j})
		}
	}

	return ops
}

//
// find the longest run of tokens common to ref[alo:ahi] and the
// hypothesis slice [blo:bhi). runs of equal length are resolved
// in favour of the earliest reference start, then the earliest
// hypothesis start, which the ascending scan guarantees as long
// as only strictly longer runs displace the current best.
//
func longestMatch(ref []string, b2j map[string][]int, alo, ahi, blo, bhi int) block {

	best := block{a: alo, b: blo}

	// j2len[j] is the length of the common run ending at ref[i-1], hyp[j]
	j2len := map[int]int{}
	for i := alo; i < ahi; i++ {
		newJ2len := map[int]int{}
		for _, j := range b2j[ref[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > best.size {
				best = block{a: i - k + 1, b: j - k + 1, size: k}
			}
		}
		j2len = newJ2len
	}

	return best
}
