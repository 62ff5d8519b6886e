package token

// TextRange is a half-open interval [Pos, End) into a source file,
// consistent with the offsets produced by the scanner. It is used both for
// token spans and, via embedding, for every CST node's source extent.
type TextRange struct {
	From Pos
	To   Pos
}

// Len returns the number of bytes covered by the range.
func (r TextRange) Len() int {
	return r.To.Offset() - r.From.Offset()
}

// Contains reports whether p falls within the closed-open range [r.From,
// r.To). Positions exactly at r.To are not contained, matching the
// half-open convention used throughout the CST.
func (r TextRange) Contains(p Pos) bool {
	return r.From.Offset() <= p.Offset() && p.Offset() < r.To.Offset()
}

// ContainsInclusive is like Contains but also accepts p == r.To, which is
// the convention used by editor queries (a cursor placed immediately after
// a node is still considered "at" that node).
func (r TextRange) ContainsInclusive(p Pos) bool {
	return r.From.Offset() <= p.Offset() && p.Offset() <= r.To.Offset()
}
