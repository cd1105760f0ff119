package watch

// Column defines one telemetry value: a header label, a printf-style
// display format and the function producing the value each tick. A
// value function is either a direct counter read or a Sampler's Tick.
// The column set and its order are fixed for the lifetime of a run.
type Column struct {
	Header string
	Format string
	Value  func() float64
}

// Headers returns the column labels in order.
func Headers(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
	}
	return out
}
