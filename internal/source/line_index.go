package source

// buildLineIndex records the byte offset of every '\n' in content.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, 16)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// toLineCol maps a byte offset to a 1-based line/column pair using the
// precomputed newline index. A '\n' offset counts as the last column of
// the line it terminates.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// binary search: largest lineIdx[i] strictly before off
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if hi < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	// off sits on the line after newline hi; that line starts at
	// lineIdx[hi]+1.
	return LineCol{Line: uint32(hi + 2), Col: off - lineIdx[hi]}
}
