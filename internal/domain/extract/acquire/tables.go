package acquire

import (
	"math"
	"sort"
	"strings"
)

// snapTolerance merges ruling positions closer than this many points and
// lets nearly touching lines count as joined.
const snapTolerance = 3.0

// PageTables returns the ruled tables of a page ordered top to bottom, then
// left to right. Each table is a grid of cell text; rows and columns that
// are empty throughout are dropped.
func PageTables(p Page) [][][]string {
	var found []grid
	for _, group := range connectedRules(p.Rules) {
		g, ok := newGrid(group)
		if !ok {
			continue
		}
		found = append(found, g)
	}

	sort.SliceStable(found, func(i, j int) bool {
		if math.Abs(found[i].top()-found[j].top()) > snapTolerance {
			return found[i].top() < found[j].top()
		}
		return found[i].left() < found[j].left()
	})

	var tables [][][]string
	for _, g := range found {
		if t := compact(g.fill(p.Glyphs)); len(t) > 0 {
			tables = append(tables, t)
		}
	}
	return tables
}

// connectedRules groups segments that touch, directly or through others.
func connectedRules(segs []Segment) [][]Segment {
	parent := make([]int, len(segs))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	for i := range segs {
		for j := i + 1; j < len(segs); j++ {
			if touches(segs[i], segs[j]) {
				parent[find(i)] = find(j)
			}
		}
	}

	byRoot := map[int][]Segment{}
	var roots []int
	for i, s := range segs {
		r := find(i)
		if _, ok := byRoot[r]; !ok {
			roots = append(roots, r)
		}
		byRoot[r] = append(byRoot[r], s)
	}

	groups := make([][]Segment, 0, len(roots))
	for _, r := range roots {
		groups = append(groups, byRoot[r])
	}
	return groups
}

func touches(a, b Segment) bool {
	const tol = snapTolerance
	switch {
	case a.horizontal() && !b.horizontal():
		return b.X0 >= a.X0-tol && b.X0 <= a.X1+tol && a.Y0 >= b.Y0-tol && a.Y0 <= b.Y1+tol
	case !a.horizontal() && b.horizontal():
		return touches(b, a)
	case a.horizontal():
		return math.Abs(a.Y0-b.Y0) <= tol && a.X0 <= b.X1+tol && b.X0 <= a.X1+tol
	default:
		return math.Abs(a.X0-b.X0) <= tol && a.Y0 <= b.Y1+tol && b.Y0 <= a.Y1+tol
	}
}

type grid struct {
	xs []float64 // column boundaries
	ys []float64 // row boundaries
}

func (g grid) top() float64  { return g.ys[0] }
func (g grid) left() float64 { return g.xs[0] }

func newGrid(group []Segment) (grid, bool) {
	var xs, ys []float64
	for _, s := range group {
		if s.horizontal() {
			ys = append(ys, s.Y0)
		} else {
			xs = append(xs, s.X0)
		}
	}
	g := grid{xs: snap(xs), ys: snap(ys)}
	return g, len(g.xs) >= 2 && len(g.ys) >= 2
}

// snap sorts positions and merges those within snapTolerance.
func snap(pos []float64) []float64 {
	if len(pos) == 0 {
		return nil
	}
	sort.Float64s(pos)
	out := []float64{pos[0]}
	for _, p := range pos[1:] {
		if p-out[len(out)-1] > snapTolerance {
			out = append(out, p)
		}
	}
	return out
}

// fill places each glyph in the cell containing its centre.
func (g grid) fill(glyphs []Glyph) [][]string {
	cells := make([][][]Glyph, len(g.ys)-1)
	for i := range cells {
		cells[i] = make([][]Glyph, len(g.xs)-1)
	}

	for _, gl := range glyphs {
		cx := (gl.X0 + gl.X1) / 2
		cy := (gl.Top + gl.Bottom) / 2
		row := band(g.ys, cy)
		col := band(g.xs, cx)
		if row < 0 || col < 0 {
			continue
		}
		cells[row][col] = append(cells[row][col], gl)
	}

	out := make([][]string, len(cells))
	for i, row := range cells {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			out[i][j] = cellText(cell)
		}
	}
	return out
}

// band returns the index of the interval of bounds containing v, or -1.
func band(bounds []float64, v float64) int {
	if v < bounds[0] || v > bounds[len(bounds)-1] {
		return -1
	}
	i := sort.SearchFloat64s(bounds, v)
	if i == 0 {
		return 0
	}
	return min(i-1, len(bounds)-2)
}

// cellText joins the lines of a cell with newlines.
func cellText(glyphs []Glyph) string {
	if len(glyphs) == 0 {
		return ""
	}
	lines := groupLines(glyphs)
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if s := l.String(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// compact drops rows and columns without any text.
func compact(rows [][]string) [][]string {
	if len(rows) == 0 {
		return nil
	}
	keepCol := make([]bool, len(rows[0]))
	var kept [][]string
	for _, row := range rows {
		empty := true
		for j, c := range row {
			if strings.TrimSpace(c) != "" {
				keepCol[j] = true
				empty = false
			}
		}
		if !empty {
			kept = append(kept, row)
		}
	}

	out := make([][]string, len(kept))
	for i, row := range kept {
		for j, c := range row {
			if keepCol[j] {
				out[i] = append(out[i], c)
			}
		}
	}
	return out
}
