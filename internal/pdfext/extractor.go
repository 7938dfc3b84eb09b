// Package pdfext recovers rectangular table grids from timetable PDFs. It
// works from positioned text fragments: fragments are clustered into text
// lines by Y coordinate, column boundaries are found from the horizontal gaps
// left between cell contents, and wrapped lines that have no day label are
// folded back into the row above them so stacked cell content (subject over
// teacher names) survives as newline-separated cell text.
package pdfext

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document is the extraction result for one PDF file.
type Document struct {
	Pages  int
	Tables [][][]string
}

// Extractor converts PDF pages into table grids.
type Extractor struct {
	// RowTolerance is the Y distance (points) within which fragments are
	// considered part of the same text line.
	RowTolerance float64
	// ColumnGap is the minimum horizontal gap (points) treated as a column
	// separator.
	ColumnGap float64
	// WordGap is the horizontal gap (points) above which fragments on one
	// line become separate words.
	WordGap float64
}

// NewExtractor returns an Extractor with defaults tuned for A4 timetables.
func NewExtractor() *Extractor {
	return &Extractor{
		RowTolerance: 3.0,
		ColumnGap:    14.0,
		WordGap:      2.5,
	}
}

// Extract opens the PDF at path and builds one table grid per page that holds
// tabular content. Pages without any text yield no grid and no error.
func (e *Extractor) Extract(path string) (*Document, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close() //nolint:errcheck

	doc := &Document{}
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		doc.Pages++

		grid := e.buildGrid(fragmentsFromPage(page))
		if len(grid) > 0 {
			doc.Tables = append(doc.Tables, grid)
		}
	}

	return doc, nil
}

// fragment is one positioned piece of text on a page.
type fragment struct {
	x, y, w float64
	text    string
}

func fragmentsFromPage(page pdf.Page) []fragment {
	content := page.Content()
	frags := make([]fragment, 0, len(content.Text))
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		frags = append(frags, fragment{x: t.X, y: t.Y, w: t.W, text: t.S})
	}
	return frags
}

// buildGrid assembles a rectangular grid from raw fragments.
func (e *Extractor) buildGrid(frags []fragment) [][]string {
	if len(frags) == 0 {
		return nil
	}

	lines := e.clusterLines(frags)
	words := make([]fragment, 0, len(frags))
	for i := range lines {
		lines[i] = e.mergeWords(lines[i])
		words = append(words, lines[i]...)
	}

	boundaries := e.columnBoundaries(words)
	if len(boundaries) == 0 {
		// a single column of text is prose, not a table
		return nil
	}

	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, assignColumns(line, boundaries))
	}

	return mergeContinuations(rows)
}

// clusterLines groups fragments into text lines ordered top to bottom. PDF Y
// coordinates grow upwards, so reading order is descending Y.
func (e *Extractor) clusterLines(frags []fragment) [][]fragment {
	sorted := make([]fragment, len(frags))
	copy(sorted, frags)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].y != sorted[j].y {
			return sorted[i].y > sorted[j].y
		}
		return sorted[i].x < sorted[j].x
	})

	var lines [][]fragment
	for _, frag := range sorted {
		if n := len(lines); n > 0 {
			last := lines[n-1]
			if last[0].y-frag.y <= e.RowTolerance {
				lines[n-1] = append(last, frag)
				continue
			}
		}
		lines = append(lines, []fragment{frag})
	}

	for _, line := range lines {
		sort.Slice(line, func(i, j int) bool { return line[i].x < line[j].x })
	}
	return lines
}

// mergeWords joins fragments on one line that sit closer than WordGap, so
// character-level PDF output becomes whole words.
func (e *Extractor) mergeWords(line []fragment) []fragment {
	if len(line) == 0 {
		return nil
	}

	merged := []fragment{line[0]}
	for _, frag := range line[1:] {
		last := &merged[len(merged)-1]
		if frag.x-(last.x+last.w) <= e.WordGap {
			last.text += frag.text
			last.w = frag.x + frag.w - last.x
			continue
		}
		merged = append(merged, frag)
	}
	return merged
}

// columnBoundaries projects every word onto the X axis, merges overlapping
// extents, and places one boundary in the middle of each gap wider than
// ColumnGap.
func (e *Extractor) columnBoundaries(words []fragment) []float64 {
	if len(words) == 0 {
		return nil
	}

	type span struct{ lo, hi float64 }
	spans := make([]span, 0, len(words))
	for _, w := range words {
		spans = append(spans, span{lo: w.x, hi: w.x + w.w})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })

	merged := []span{spans[0]}
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.lo <= last.hi+e.ColumnGap {
			if s.hi > last.hi {
				last.hi = s.hi
			}
			continue
		}
		merged = append(merged, s)
	}

	boundaries := make([]float64, 0, len(merged)-1)
	for i := 1; i < len(merged); i++ {
		boundaries = append(boundaries, (merged[i-1].hi+merged[i].lo)/2)
	}
	return boundaries
}

// assignColumns buckets a line's words into cells split at the boundaries.
func assignColumns(line []fragment, boundaries []float64) []string {
	cells := make([]string, len(boundaries)+1)
	for _, word := range line {
		col := sort.SearchFloat64s(boundaries, word.x)
		if cells[col] != "" {
			cells[col] += " "
		}
		cells[col] += word.text
	}
	return cells
}

// mergeContinuations folds text lines without a leading cell into the row
// above them. In timetable layouts the day label anchors a row; wrapped
// subject or teacher lines leave the first column blank and belong to the
// previous row, stacked with newlines inside each cell.
func mergeContinuations(rows [][]string) [][]string {
	var grid [][]string
	for _, row := range rows {
		if len(grid) > 0 && strings.TrimSpace(row[0]) == "" {
			prev := grid[len(grid)-1]
			for col := 1; col < len(row) && col < len(prev); col++ {
				if strings.TrimSpace(row[col]) == "" {
					continue
				}
				if prev[col] != "" {
					prev[col] += "\n"
				}
				prev[col] += row[col]
			}
			continue
		}
		grid = append(grid, row)
	}
	return grid
}
