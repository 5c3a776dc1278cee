package source

import (
	"math"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// gridDetector finds ruled tables from the rectangles drawn on a page.
type gridDetector struct {
	// Tolerance for considering rules aligned or touching (in points).
	AlignmentTolerance float64

	// Rectangles thinner than this are treated as a single rule.
	RuleThickness float64

	// Minimum rule length to consider (in points).
	MinLineLength float64

	// Minimum number of cells for a grid to count as a table.
	MinCells int
}

func newGridDetector() *gridDetector {
	return &gridDetector{
		AlignmentTolerance: 3.0,
		RuleThickness:      2.0,
		MinLineLength:      10.0,
		MinCells:           2,
	}
}

type segment struct {
	x0, y0, x1, y1 float64
	horizontal     bool
}

// grid is a table hypothesis: column edges ascending, row edges descending.
type grid struct {
	xs []float64
	ys []float64
}

func (g grid) top() float64 { return g.ys[0] }

// detect returns grids ordered top to bottom.
func (gd *gridDetector) detect(rects []pdflib.Rect) []grid {
	segs := gd.segments(rects)
	if len(segs) < 4 {
		return nil
	}

	var grids []grid
	for _, component := range gd.connected(segs) {
		var xs, ys []float64
		for _, s := range component {
			if s.horizontal {
				ys = append(ys, s.y0)
			} else {
				xs = append(xs, s.x0)
			}
		}
		xs = clusterPositions(xs, gd.AlignmentTolerance)
		ys = clusterPositions(ys, gd.AlignmentTolerance)
		if len(xs) < 2 || len(ys) < 2 || (len(xs)-1)*(len(ys)-1) < gd.MinCells {
			continue
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(ys)))
		grids = append(grids, grid{xs: xs, ys: ys})
	}
	sort.SliceStable(grids, func(i, j int) bool { return grids[i].top() > grids[j].top() })
	return grids
}

// segments turns drawn rectangles into horizontal and vertical rules. A
// rectangle large in both directions contributes its four edges.
func (gd *gridDetector) segments(rects []pdflib.Rect) []segment {
	var segs []segment
	for _, r := range rects {
		x0, x1 := math.Min(r.Min.X, r.Max.X), math.Max(r.Min.X, r.Max.X)
		y0, y1 := math.Min(r.Min.Y, r.Max.Y), math.Max(r.Min.Y, r.Max.Y)
		w, h := x1-x0, y1-y0

		switch {
		case h <= gd.RuleThickness && w >= gd.MinLineLength:
			y := (y0 + y1) / 2
			segs = append(segs, segment{x0: x0, y0: y, x1: x1, y1: y, horizontal: true})
		case w <= gd.RuleThickness && h >= gd.MinLineLength:
			x := (x0 + x1) / 2
			segs = append(segs, segment{x0: x, y0: y0, x1: x, y1: y1})
		case w >= gd.MinLineLength && h >= gd.MinLineLength:
			segs = append(segs,
				segment{x0: x0, y0: y0, x1: x1, y1: y0, horizontal: true},
				segment{x0: x0, y0: y1, x1: x1, y1: y1, horizontal: true},
				segment{x0: x0, y0: y0, x1: x0, y1: y1},
				segment{x0: x1, y0: y0, x1: x1, y1: y1},
			)
		}
	}
	return segs
}

// connected groups rules that touch into separate components.
func (gd *gridDetector) connected(segs []segment) [][]segment {
	parent := make([]int, len(segs))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	tol := gd.AlignmentTolerance
	for i := range segs {
		for j := i + 1; j < len(segs); j++ {
			a, b := segs[i], segs[j]
			if a.x0-tol <= b.x1 && b.x0-tol <= a.x1 && a.y0-tol <= b.y1 && b.y0-tol <= a.y1 {
				parent[find(i)] = find(j)
			}
		}
	}

	groups := make(map[int][]segment)
	var roots []int
	for i, s := range segs {
		root := find(i)
		if _, ok := groups[root]; !ok {
			roots = append(roots, root)
		}
		groups[root] = append(groups[root], s)
	}
	out := make([][]segment, 0, len(roots))
	for _, root := range roots {
		out = append(out, groups[root])
	}
	return out
}

// clusterPositions merges positions within tol of a running group average
// and returns the group averages in ascending order.
func clusterPositions(vals []float64, tol float64) []float64 {
	if len(vals) == 0 {
		return nil
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	var out []float64
	sum, n := sorted[0], 1.0
	for _, v := range sorted[1:] {
		if v-sum/n <= tol {
			sum += v
			n++
			continue
		}
		out = append(out, sum/n)
		sum, n = v, 1
	}
	return append(out, sum/n)
}

// fill assigns each word to the cell containing its horizontal centre and
// baseline. Words outside the grid are ignored.
func (g grid) fill(words []pdfWord) [][]string {
	rows := make([][]string, len(g.ys)-1)
	for i := range rows {
		rows[i] = make([]string, len(g.xs)-1)
	}
	for _, w := range words {
		cx := (w.X0 + w.X1) / 2
		r := bandIndex(len(g.ys)-1, func(i int) bool { return g.ys[i] >= w.Top && w.Top > g.ys[i+1] })
		c := bandIndex(len(g.xs)-1, func(i int) bool { return g.xs[i] <= cx && cx < g.xs[i+1] })
		if r < 0 || c < 0 {
			continue
		}
		if rows[r][c] != "" {
			rows[r][c] += " "
		}
		rows[r][c] += w.Text
	}
	for i := range rows {
		for j := range rows[i] {
			rows[i][j] = strings.TrimSpace(rows[i][j])
		}
	}
	return rows
}

func bandIndex(n int, contains func(int) bool) int {
	for i := 0; i < n; i++ {
		if contains(i) {
			return i
		}
	}
	return -1
}
