package compiler

import (
	"fmt"
	"strings"
)

// NodeKind tags the variant of an AST node. Backends key their handler
// tables on it.
type NodeKind int

const (
	ROOT NodeKind = iota
	SEQUENCE
	LOOP
	MOVE
	AUGMENT
	GET_CHAR_NODE
	PUT_CHAR_NODE
)

var kindNames = [...]string{
	ROOT:          "Root",
	SEQUENCE:      "Sequence",
	LOOP:          "Loop",
	MOVE:          "Move",
	AUGMENT:       "Augment",
	GET_CHAR_NODE: "GetChar",
	PUT_CHAR_NODE: "PutChar",
}

func (k NodeKind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is implemented by the closed set of AST variants below. Nodes are
// immutable once the parser hands them out; Optimize returns new nodes.
type Node interface {
	Kind() NodeKind
	// Optimize returns an optimized structural copy of the node.
	Optimize() Node
	String() string
	node()
}

// Root wraps the program body and only appears at the apex of the tree.
type Root struct {
	Body Node
}

func (*Root) node()            {}
func (*Root) Kind() NodeKind   { return ROOT }
func (r *Root) String() string { return fmt.Sprintf("(root %s)", r.Body) }

// Sequence is an ordered list of nodes run in order.
//
//	+>.   Sequence{Augment(1), Move(1), PutChar}
type Sequence struct {
	Nodes []Node
}

func (*Sequence) node()            {}
func (*Sequence) Kind() NodeKind   { return SEQUENCE }
func (s *Sequence) String() string { return listString("seq", s.Nodes) }

// Loop is a Sequence repeated while the current cell is non-zero.
//
//	[-]   Loop{Augment(-1)}
type Loop struct {
	Nodes []Node
}

func (*Loop) node()            {}
func (*Loop) Kind() NodeKind   { return LOOP }
func (l *Loop) String() string { return listString("loop", l.Nodes) }

// Move shifts the tape pointer by Delta cells.
type Move struct {
	Delta int
}

func (*Move) node()            {}
func (*Move) Kind() NodeKind   { return MOVE }
func (m *Move) String() string { return fmt.Sprintf("(move %d)", m.Delta) }

// Augment adds Delta to the current cell.
type Augment struct {
	Delta int
}

func (*Augment) node()            {}
func (*Augment) Kind() NodeKind   { return AUGMENT }
func (a *Augment) String() string { return fmt.Sprintf("(augment %d)", a.Delta) }

// GetChar reads one byte into the current cell.
type GetChar struct{}

func (*GetChar) node()          {}
func (*GetChar) Kind() NodeKind { return GET_CHAR_NODE }
func (*GetChar) String() string { return "(getchar)" }

// PutChar writes the current cell as one byte.
type PutChar struct{}

func (*PutChar) node()          {}
func (*PutChar) Kind() NodeKind { return PUT_CHAR_NODE }
func (*PutChar) String() string { return "(putchar)" }

func listString(tag string, nodes []Node) string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(tag)
	for _, n := range nodes {
		sb.WriteByte(' ')
		sb.WriteString(n.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Children returns the direct children of n in order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Root:
		return []Node{n.Body}
	case *Sequence:
		return n.Nodes
	case *Loop:
		return n.Nodes
	}
	return nil
}

// Equal reports whether a and b are structurally identical trees.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case *Move:
		return a.Delta == b.(*Move).Delta
	case *Augment:
		return a.Delta == b.(*Augment).Delta
	}
	ac, bc := Children(a), Children(b)
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if !Equal(ac[i], bc[i]) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n Node) int {
	total := 1
	for _, c := range Children(n) {
		total += Count(c)
	}
	return total
}
