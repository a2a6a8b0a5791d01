package machine

import "testing"

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    TapePolicy
		wantErr bool
	}{
		{"", PolicyWrap, false},
		{"wrap", PolicyWrap, false},
		{"STRICT", PolicyStrict, false},
		{"grow", PolicyGrow, false},
		{"infinite", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParsePolicy(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
	if s := TapePolicy(9).String(); s != "TapePolicy(9)" {
		t.Errorf("String() of unknown policy = %q", s)
	}
}

func TestSparseTape(t *testing.T) {
	tp := newSparseTape()
	if lo, hi := tp.extent(); lo != 0 || hi != 0 {
		t.Errorf("empty extent [%d, %d)", lo, hi)
	}
	tp.set(-1000000, 7)
	tp.set(1000000, 9)
	tp.set(5, 1)
	if tp.get(-1000000) != 7 || tp.get(1000000) != 9 || tp.get(4) != 0 {
		t.Errorf("get returned wrong values")
	}
	if lo, hi := tp.extent(); lo != -1000000 || hi != 1000001 {
		t.Errorf("extent [%d, %d); want [-1000000, 1000001)", lo, hi)
	}

	// zero cells are not stored
	tp.set(5, 0)
	if n := tp.cells.Len(); n != 2 {
		t.Errorf("stored %d cells; want 2", n)
	}

	var seen []int
	tp.each(-1000000, 1000000, func(pos int, v byte) { seen = append(seen, pos) })
	if len(seen) != 1 || seen[0] != -1000000 {
		t.Errorf("each visited %v; want [-1000000]", seen)
	}

	tp.reset()
	if tp.cells.Len() != 0 {
		t.Errorf("reset left %d cells", tp.cells.Len())
	}
}

func TestFixedTapeOutOfRange(t *testing.T) {
	tp := newFixedTape(3)
	tp.set(3, 1)
	tp.set(-1, 1)
	if tp.get(3) != 0 || tp.get(-1) != 0 {
		t.Errorf("out-of-range cells should read as zero")
	}
	tp.set(2, 4)
	tp.reset()
	if tp.get(2) != 0 {
		t.Errorf("reset left cell 2 = %d", tp.get(2))
	}
}
