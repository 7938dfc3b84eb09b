package pdfext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frag is a shorthand constructor for test fixtures.
func frag(x, y, w float64, text string) fragment {
	return fragment{x: x, y: y, w: w, text: text}
}

func TestBuildGridTimetableLayout(t *testing.T) {
	e := NewExtractor()

	// Header line, then Monday with a stacked subject/teacher cell whose
	// teacher line wraps onto the next text line.
	frags := []fragment{
		frag(10, 700, 20, "Day"),
		frag(100, 700, 60, "9:00 - 10:00"),
		frag(200, 700, 60, "10:00 - 11:00"),

		frag(10, 680, 40, "Monday"),
		frag(100, 680, 40, "Physics"),
		frag(200, 680, 40, "Maths"),

		frag(100, 670, 50, "Dr. Rao"),
		frag(200, 670, 50, "Dr. Nair"),
	}

	grid := e.buildGrid(frags)
	require.Len(t, grid, 2)

	assert.Equal(t, []string{"Day", "9:00 - 10:00", "10:00 - 11:00"}, grid[0])
	assert.Equal(t, []string{"Monday", "Physics\nDr. Rao", "Maths\nDr. Nair"}, grid[1])
}

func TestBuildGridEmptyInput(t *testing.T) {
	e := NewExtractor()
	assert.Nil(t, e.buildGrid(nil))
}

func TestBuildGridSingleColumnIsNotATable(t *testing.T) {
	e := NewExtractor()
	frags := []fragment{
		frag(10, 700, 100, "Department of Computer Science"),
		frag(10, 680, 80, "Timetable 2024"),
	}
	assert.Nil(t, e.buildGrid(frags))
}

func TestClusterLinesRespectsTolerance(t *testing.T) {
	e := NewExtractor()
	frags := []fragment{
		frag(10, 700, 10, "a"),
		frag(30, 698, 10, "b"), // same line, within tolerance
		frag(10, 680, 10, "c"),
	}
	lines := e.clusterLines(frags)
	require.Len(t, lines, 2)
	assert.Len(t, lines[0], 2)
	assert.Equal(t, "c", lines[1][0].text)
}

func TestMergeWordsJoinsAdjacentFragments(t *testing.T) {
	e := NewExtractor()
	line := []fragment{
		frag(10, 700, 8, "Phy"),
		frag(18.5, 700, 10, "sics"), // touching, same word
		frag(60, 700, 10, "Lab"),    // far away, separate word
	}
	words := e.mergeWords(line)
	require.Len(t, words, 2)
	assert.Equal(t, "Physics", words[0].text)
	assert.Equal(t, "Lab", words[1].text)
}

func TestColumnBoundariesFindGaps(t *testing.T) {
	e := NewExtractor()
	words := []fragment{
		frag(10, 700, 30, "Day"),
		frag(10, 680, 30, "Monday"),
		frag(100, 700, 50, "9:00"),
		frag(100, 680, 50, "Physics"),
	}
	boundaries := e.columnBoundaries(words)
	require.Len(t, boundaries, 1)
	assert.Greater(t, boundaries[0], 40.0)
	assert.Less(t, boundaries[0], 100.0)
}

func TestMergeContinuationsKeepsLeadingRow(t *testing.T) {
	rows := [][]string{
		{"Day", "Slot"},
		{"Monday", "Physics"},
		{"", "Dr. Rao / Dr. Singh"},
		{"", ""},
		{"Tuesday", "Maths"},
	}
	grid := mergeContinuations(rows)
	require.Len(t, grid, 3)
	assert.Equal(t, "Physics\nDr. Rao / Dr. Singh", grid[1][1])
	assert.Equal(t, []string{"Tuesday", "Maths"}, grid[2])
}
