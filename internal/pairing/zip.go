package pairing

// Pair associates the entries sharing a position in the two sorted lists.
// Index is 1-based.
type Pair struct {
	Index  int
	First  Entry
	Second Entry
}

// Mismatch records the sizes of the two lists handed to Zip.
type Mismatch struct {
	First  int
	Second int
}

// Truncated reports whether Zip dropped entries from the longer list.
func (m Mismatch) Truncated() bool {
	return m.First != m.Second
}

// Dropped returns how many entries of the longer list went unpaired.
func (m Mismatch) Dropped() int {
	if m.First > m.Second {
		return m.First - m.Second
	}
	return m.Second - m.First
}

// Zip pairs first and second by position and stops at the shorter list.
func Zip(first, second []Entry) ([]Pair, Mismatch) {
	mismatch := Mismatch{First: len(first), Second: len(second)}
	n := min(len(first), len(second))
	pairs := make([]Pair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, Pair{Index: i + 1, First: first[i], Second: second[i]})
	}
	return pairs, mismatch
}
