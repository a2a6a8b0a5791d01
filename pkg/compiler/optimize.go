package compiler

// Optimize returns a new Root over the optimized body.
func (r *Root) Optimize() Node {
	return &Root{Body: r.Body.Optimize()}
}

// Optimize folds adjacent Move and Augment runs among the children.
func (s *Sequence) Optimize() Node {
	return &Sequence{Nodes: foldNodes(s.Nodes)}
}

// Optimize folds the loop body the same way as a Sequence.
func (l *Loop) Optimize() Node {
	return &Loop{Nodes: foldNodes(l.Nodes)}
}

// Move, Augment and the I/O leaves are already minimal on their own; merging
// happens at the parent level.
func (m *Move) Optimize() Node    { return m }
func (a *Augment) Optimize() Node { return a }
func (g *GetChar) Optimize() Node { return g }
func (p *PutChar) Optimize() Node { return p }

// merge combines two adjacent nodes when they are both Moves or both Augments.
func merge(acc, next Node) (Node, bool) {
	switch a := acc.(type) {
	case *Move:
		if b, ok := next.(*Move); ok {
			return &Move{Delta: a.Delta + b.Delta}, true
		}
	case *Augment:
		if b, ok := next.(*Augment); ok {
			return &Augment{Delta: a.Delta + b.Delta}, true
		}
	}
	return nil, false
}

// isNoop reports a zero-delta Move or Augment.
func isNoop(n Node) bool {
	switch n := n.(type) {
	case *Move:
		return n.Delta == 0
	case *Augment:
		return n.Delta == 0
	}
	return false
}

// foldNodes is a single left-to-right pass over the individually optimized
// children with one accumulator. Nested loops are folded by their own
// Optimize before they reach the accumulator.
func foldNodes(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	var acc Node
	for _, n := range nodes {
		n = n.Optimize()
		if acc == nil {
			acc = n
			continue
		}
		if merged, ok := merge(acc, n); ok {
			acc = merged
			continue
		}
		if !isNoop(acc) {
			out = append(out, acc)
			acc = n
			continue
		}
		// A dropped no-op can leave two mergeable nodes adjacent, as in
		// "+<>+"; fold n into the last flushed node so one pass is enough.
		if last := len(out) - 1; last >= 0 {
			if merged, ok := merge(out[last], n); ok {
				out = out[:last]
				acc = merged
				continue
			}
		}
		acc = n
	}
	if acc != nil && !isNoop(acc) {
		out = append(out, acc)
	}
	return out
}
