package machine

import (
	"fmt"
	"strings"

	"github.com/google/btree"
)

// DefaultTapeSize is the classic tape length.
const DefaultTapeSize = 30000

// TapePolicy decides what happens when the pointer leaves the tape.
type TapePolicy int

const (
	// PolicyWrap reduces the pointer modulo the tape size.
	PolicyWrap TapePolicy = iota
	// PolicyStrict fails the run with ErrPointerOutOfRange.
	PolicyStrict
	// PolicyGrow uses an unbounded sparse tape in both directions.
	PolicyGrow
)

var policyNames = [...]string{
	PolicyWrap:   "wrap",
	PolicyStrict: "strict",
	PolicyGrow:   "grow",
}

func (p TapePolicy) String() string {
	if int(p) >= 0 && int(p) < len(policyNames) {
		return policyNames[p]
	}
	return fmt.Sprintf("TapePolicy(%d)", int(p))
}

// ParsePolicy maps a policy name (case-insensitive) to its TapePolicy. The
// empty string selects PolicyWrap.
func ParsePolicy(s string) (TapePolicy, error) {
	if s == "" {
		return PolicyWrap, nil
	}
	for i, name := range policyNames {
		if strings.EqualFold(s, name) {
			return TapePolicy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tape policy %q (want wrap, strict or grow)", s)
}

// tape stores cell values. Positions outside the stored range read as zero.
type tape interface {
	get(pos int) byte
	set(pos int, v byte)
	// extent is the half-open range of positions holding data.
	extent() (lo, hi int)
	reset()
}

// fixedTape backs the wrap and strict policies.
type fixedTape struct {
	cells []byte
}

func newFixedTape(size int) *fixedTape {
	return &fixedTape{cells: make([]byte, size)}
}

func (t *fixedTape) get(pos int) byte {
	if pos < 0 || pos >= len(t.cells) {
		return 0
	}
	return t.cells[pos]
}

func (t *fixedTape) set(pos int, v byte) {
	if pos >= 0 && pos < len(t.cells) {
		t.cells[pos] = v
	}
}

func (t *fixedTape) extent() (int, int) { return 0, len(t.cells) }

func (t *fixedTape) reset() { clear(t.cells) }

// cell is a btree item keyed by position.
type cell struct {
	pos int
	val byte
}

func (c cell) Less(than btree.Item) bool {
	return c.pos < than.(cell).pos
}

// sparseTape only stores non-zero cells, so a pointer can wander far in either
// direction without allocating the gap.
type sparseTape struct {
	cells *btree.BTree
}

func newSparseTape() *sparseTape {
	return &sparseTape{cells: btree.New(4)}
}

func (t *sparseTape) get(pos int) byte {
	if item := t.cells.Get(cell{pos: pos}); item != nil {
		return item.(cell).val
	}
	return 0
}

func (t *sparseTape) set(pos int, v byte) {
	if v == 0 {
		t.cells.Delete(cell{pos: pos})
		return
	}
	t.cells.ReplaceOrInsert(cell{pos: pos, val: v})
}

func (t *sparseTape) extent() (int, int) {
	if t.cells.Len() == 0 {
		return 0, 0
	}
	return t.cells.Min().(cell).pos, t.cells.Max().(cell).pos + 1
}

func (t *sparseTape) reset() { t.cells.Clear(false) }

// each calls fn for every stored cell in [lo, hi) in ascending order.
func (t *sparseTape) each(lo, hi int, fn func(pos int, v byte)) {
	t.cells.AscendRange(cell{pos: lo}, cell{pos: hi}, func(item btree.Item) bool {
		c := item.(cell)
		fn(c.pos, c.val)
		return true
	})
}
