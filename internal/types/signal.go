package types

// Signals holds the entry and exit signal sequences produced by evaluating a
// compiled strategy over a table. Both slices are index-aligned with the
// table rows; warm-up rows are always false.
type Signals struct {
	Entry []bool
	Exit  []bool
}

// Len returns the number of rows covered by the signals.
func (s Signals) Len() int {
	return len(s.Entry)
}
