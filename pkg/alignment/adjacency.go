package alignment

// AdjacentBefore reports whether a can be immediately followed by b in a
// chain, where overlap is the length shared by their fragments in the
// assembly graph and margin is the fixed boundary tolerance.
//
// Both records must align to the same subject in the same orientation.
// Projecting each fragment's unaligned ends onto the reference, the end of
// a shifted back by overlap-1 must land on the start of b, give or take the
// smaller indel slack of the two records and the margin. For reverse
// alignments coordinates run downwards, so cuts flip sign and insertions
// and deletions swap sides.
func AdjacentBefore(a, b *Record, overlap, margin int) bool {
	if a.SubjectID != b.SubjectID || a.Forward != b.Forward {
		return false
	}

	shift := overlap - 1
	minInsert := min(a.Insertions, b.Insertions)
	minDelete := min(a.Deletions, b.Deletions)

	if a.Forward {
		realEnd := a.SubjectEnd + a.EndCut
		targetStart := b.SubjectStart - b.StartCut
		lo := targetStart - minInsert - margin
		hi := targetStart + minDelete + margin
		return lo <= realEnd-shift && realEnd-shift <= hi
	}

	realEnd := a.SubjectEnd - a.EndCut
	targetStart := b.SubjectStart + b.StartCut
	lo := targetStart - minDelete - margin
	hi := targetStart + minInsert + margin
	return lo <= realEnd+shift && realEnd+shift <= hi
}

// AdjacentBefore is [AdjacentBefore] with [DefaultErrorMargin].
func (r *Record) AdjacentBefore(next *Record, overlap int) bool {
	return AdjacentBefore(r, next, overlap, DefaultErrorMargin)
}

// NodesAdjacent reports whether any alignment of fragment from can
// immediately precede any alignment of fragment to. byNode must be an
// index of records built with [ByNodeID].
func NodesAdjacent(records []*Record, byNode Index, from, to string, overlap, margin int) bool {
	for _, i := range byNode[from] {
		for _, j := range byNode[to] {
			if AdjacentBefore(records[i], records[j], overlap, margin) {
				return true
			}
		}
	}
	return false
}
