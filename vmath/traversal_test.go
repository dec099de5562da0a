package vmath

import (
	"math"
	"testing"
)

func collectCells(x1, y1, x2, y2 float64) [][2]int {
	var cells [][2]int
	Traverse(x1, y1, x2, y2, func(x, y int) bool {
		cells = append(cells, [2]int{x, y})
		return len(cells) < 1000
	})
	return cells
}

func TestTraverseHorizontal(t *testing.T) {
	cells := collectCells(0.5, 2.5, 4.5, 2.5)
	if len(cells) != 5 {
		t.Fatalf("got %d cells, want 5: %v", len(cells), cells)
	}
	for i, c := range cells {
		if c != [2]int{i, 2} {
			t.Errorf("cell %d = %v, want [%d 2]", i, c, i)
		}
	}
}

func TestTraverseReverseAndNegative(t *testing.T) {
	cells := collectCells(1.5, -0.5, -2.5, -0.5)
	want := [][2]int{{1, -1}, {0, -1}, {-1, -1}, {-2, -1}, {-3, -1}}
	if len(cells) != len(want) {
		t.Fatalf("got %v, want %v", cells, want)
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("cell %d = %v, want %v", i, cells[i], want[i])
		}
	}
}

func TestTraverseIsConnected(t *testing.T) {
	cells := collectCells(0.2, 0.7, 7.9, 3.1)
	first, last := cells[0], cells[len(cells)-1]
	if first != [2]int{0, 0} || last != [2]int{7, 3} {
		t.Fatalf("endpoints %v..%v", first, last)
	}
	for i := 1; i < len(cells); i++ {
		dx := abs(cells[i][0] - cells[i-1][0])
		dy := abs(cells[i][1] - cells[i-1][1])
		if dx > 1 || dy > 1 || dx+dy == 0 {
			t.Errorf("gap between %v and %v", cells[i-1], cells[i])
		}
	}
}

func TestTraverseSingleCellAndNonFinite(t *testing.T) {
	if cells := collectCells(3.1, 3.9, 3.8, 3.2); len(cells) != 1 || cells[0] != [2]int{3, 3} {
		t.Errorf("single cell: %v", cells)
	}
	if cells := collectCells(math.NaN(), 0, 4, 4); len(cells) != 0 {
		t.Errorf("NaN endpoint produced %v", cells)
	}
	if cells := collectCells(0, 0, math.Inf(1), 0); len(cells) != 0 {
		t.Errorf("Inf endpoint produced %v", cells)
	}
}

func TestTraverseStopsEarly(t *testing.T) {
	n := 0
	Traverse(0, 0, 100, 0, func(x, y int) bool {
		n++
		return n < 3
	})
	if n != 3 {
		t.Errorf("visited %d, want 3", n)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
