package acquire

import (
	"math"
	"sort"
	"strings"
)

// textTolerance is the gap, in points, that separates lines vertically and
// words horizontally.
const textTolerance = 3.0

type line struct {
	top    float64
	glyphs []Glyph
}

// groupLines clusters glyphs into reading-order lines.
func groupLines(glyphs []Glyph) []line {
	sorted := make([]Glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if math.Abs(sorted[i].Top-sorted[j].Top) > textTolerance {
			return sorted[i].Top < sorted[j].Top
		}
		return sorted[i].X0 < sorted[j].X0
	})

	var lines []line
	for _, g := range sorted {
		if n := len(lines); n > 0 && math.Abs(g.Top-lines[n-1].top) <= textTolerance {
			lines[n-1].glyphs = append(lines[n-1].glyphs, g)
			continue
		}
		lines = append(lines, line{top: g.Top, glyphs: []Glyph{g}})
	}

	for i := range lines {
		sort.SliceStable(lines[i].glyphs, func(a, b int) bool {
			return lines[i].glyphs[a].X0 < lines[i].glyphs[b].X0
		})
	}
	return lines
}

func (l line) String() string {
	var b strings.Builder
	lastX := math.Inf(-1)
	for _, g := range l.glyphs {
		if b.Len() > 0 && g.X0-lastX > textTolerance {
			b.WriteByte(' ')
		}
		b.WriteString(g.Text)
		lastX = g.X1
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// PageText renders a page as newline separated lines.
func PageText(p Page) string {
	lines := groupLines(p.Glyphs)
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if s := l.String(); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n")
}

// DocumentText concatenates page texts, each followed by a newline.
// Pages without text are skipped.
func DocumentText(pages []Page) string {
	var b strings.Builder
	for _, p := range pages {
		if t := PageText(p); t != "" {
			b.WriteString(t)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
