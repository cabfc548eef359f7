// Package acquire reads text and ruled tables out of PDF files, falling back
// to OCR when a document carries too little embedded text.
package acquire

import (
	"fmt"
	"unicode"

	lpdf "github.com/ledongthuc/pdf"
)

// Coordinates are PDF points with the origin at the top-left of the page.

// Glyph is one character placed on a page.
type Glyph struct {
	Text   string
	X0, X1 float64
	Top    float64
	Bottom float64
}

// Segment is a ruling line. Horizontal segments have Y0 == Y1, vertical
// ones X0 == X1.
type Segment struct {
	X0, Y0, X1, Y1 float64
}

func (s Segment) horizontal() bool { return s.Y0 == s.Y1 }

// Page is the layout of one page.
type Page struct {
	Number int
	Width  float64
	Height float64
	Glyphs []Glyph
	Rules  []Segment
}

// ascent is the share of the font size above the baseline.
const ascent = 0.8

// ReadPages loads the glyphs and ruling of every page of the PDF at path.
// Pages whose content stream cannot be decoded come back empty.
func ReadPages(path string) ([]Page, error) {
	f, r, err := lpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pages := make([]Page, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		width, height := mediaBox(p.V)
		page := Page{Number: i, Width: width, Height: height}

		content, ok := pageContent(p)
		if ok {
			page.Glyphs = glyphs(content.Text, height)
			page.Rules = rules(content.Rect, height)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// pageContent decodes a content stream; the decoder panics on some
// malformed streams.
func pageContent(p lpdf.Page) (c lpdf.Content, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return p.Content(), true
}

// mediaBox returns the page size, following inherited boxes up the page tree.
func mediaBox(v lpdf.Value) (float64, float64) {
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == lpdf.Array && box.Len() == 4 {
			w := box.Index(2).Float64() - box.Index(0).Float64()
			h := box.Index(3).Float64() - box.Index(1).Float64()
			if w > 0 && h > 0 {
				return w, h
			}
		}
		v = v.Key("Parent")
	}
	return 612, 792
}

func glyphs(texts []lpdf.Text, height float64) []Glyph {
	out := make([]Glyph, 0, len(texts))
	for _, t := range texts {
		runes := []rune(t.S)
		if len(runes) == 0 {
			continue
		}
		width := t.W / float64(len(runes))
		top := height - (t.Y + t.FontSize*ascent)
		x := t.X
		for _, ch := range runes {
			if !unicode.IsSpace(ch) {
				out = append(out, Glyph{
					Text:   string(ch),
					X0:     x,
					X1:     x + width,
					Top:    top,
					Bottom: top + t.FontSize,
				})
			}
			x += width
		}
	}
	return out
}

// rules turns filled and stroked rectangles into ruling segments. Thin
// rectangles are lines; larger ones contribute their four edges.
func rules(rects []lpdf.Rect, height float64) []Segment {
	var out []Segment
	for _, r := range rects {
		x0, x1 := min(r.Min.X, r.Max.X), max(r.Min.X, r.Max.X)
		top, bottom := height-max(r.Min.Y, r.Max.Y), height-min(r.Min.Y, r.Max.Y)

		switch {
		case bottom-top <= snapTolerance && x1-x0 <= snapTolerance:
		case bottom-top <= snapTolerance:
			y := (top + bottom) / 2
			out = append(out, Segment{X0: x0, Y0: y, X1: x1, Y1: y})
		case x1-x0 <= snapTolerance:
			x := (x0 + x1) / 2
			out = append(out, Segment{X0: x, Y0: top, X1: x, Y1: bottom})
		default:
			out = append(out,
				Segment{X0: x0, Y0: top, X1: x1, Y1: top},
				Segment{X0: x0, Y0: bottom, X1: x1, Y1: bottom},
				Segment{X0: x0, Y0: top, X1: x0, Y1: bottom},
				Segment{X0: x1, Y0: top, X1: x1, Y1: bottom},
			)
		}
	}
	return out
}
