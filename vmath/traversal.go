package vmath

import (
	"math"
)

// GridTraverser implements a zero-allocation iterator for Supercover DDA grid traversal.
// Cell (i, j) covers [i, i+1) x [j, j+1).
type GridTraverser struct {
	currX, currY     int
	targetX, targetY int
	stepX, stepY     int

	tMaxX, tMaxY     float64
	tDeltaX, tDeltaY float64

	started bool
	done    bool
}

// NewGridTraverser creates a new iterator from (x1, y1) to (x2, y2).
// Non-finite endpoints yield an empty traversal.
func NewGridTraverser(x1, y1, x2, y2 float64) GridTraverser {
	if !IsFinite(x1) || !IsFinite(y1) || !IsFinite(x2) || !IsFinite(y2) {
		return GridTraverser{done: true}
	}

	fx1, fy1 := math.Floor(x1), math.Floor(y1)
	t := GridTraverser{
		currX: int(fx1), currY: int(fy1),
		targetX: int(math.Floor(x2)), targetY: int(math.Floor(y2)),
	}

	dx := x2 - x1
	dy := y2 - y1

	t.stepX, t.stepY = 1, 1
	if dx < 0 {
		t.stepX = -1
		dx = -dx
	}
	if dy < 0 {
		t.stepY = -1
		dy = -dy
	}

	if dx == 0 {
		t.tMaxX = math.Inf(1)
	} else {
		t.tDeltaX = 1 / dx
		if t.stepX > 0 {
			t.tMaxX = (1 - (x1 - fx1)) * t.tDeltaX
		} else {
			t.tMaxX = (x1 - fx1) * t.tDeltaX
		}
	}

	if dy == 0 {
		t.tMaxY = math.Inf(1)
	} else {
		t.tDeltaY = 1 / dy
		if t.stepY > 0 {
			t.tMaxY = (1 - (y1 - fy1)) * t.tDeltaY
		} else {
			t.tMaxY = (y1 - fy1) * t.tDeltaY
		}
	}

	return t
}

// Next advances the traverser to the next cell.
// Returns true if a valid cell is available via Pos().
func (t *GridTraverser) Next() bool {
	if t.done {
		return false
	}
	if !t.started {
		t.started = true
		return true
	}

	if t.currX == t.targetX && t.currY == t.targetY {
		t.done = true
		return false
	}

	if t.tMaxX < t.tMaxY {
		if t.currX != t.targetX {
			t.currX += t.stepX
			t.tMaxX += t.tDeltaX
		} else {
			t.currY += t.stepY
			t.tMaxY += t.tDeltaY
		}
	} else if t.tMaxX > t.tMaxY {
		if t.currY != t.targetY {
			t.currY += t.stepY
			t.tMaxY += t.tDeltaY
		} else {
			t.currX += t.stepX
			t.tMaxX += t.tDeltaX
		}
	} else {
		if t.currX != t.targetX {
			t.currX += t.stepX
			t.tMaxX += t.tDeltaX
		}
		if t.currY != t.targetY {
			t.currY += t.stepY
			t.tMaxY += t.tDeltaY
		}
	}

	return true
}

// Pos returns the current grid coordinates.
func (t *GridTraverser) Pos() (int, int) {
	return t.currX, t.currY
}

// Traverse visits every grid cell intersected by a line from (x1, y1) to (x2, y2)
// Stops early when callback returns false
func Traverse(x1, y1, x2, y2 float64, callback func(x, y int) bool) {
	t := NewGridTraverser(x1, y1, x2, y2)
	for t.Next() {
		if !callback(t.Pos()) {
			return
		}
	}
}
