package presenter

// CompletionEdge detects false→true transitions of the completion flag
// across consecutive observations. The first observation only seeds it.
type CompletionEdge struct {
	seen bool
	last bool
}

// Observe records the flag and reports whether it just rose.
func (edge *CompletionEdge) Observe(flag bool) bool {
	rose := edge.seen && flag && !edge.last
	edge.seen = true
	edge.last = flag
	return rose
}

// Last returns the most recently observed flag.
func (edge *CompletionEdge) Last() bool {
	return edge.last
}
