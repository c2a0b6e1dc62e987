// Package render prints events as aligned text tables for the admin CLI.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yair/eventify/pkg/domain"
)

// MaxCellWidth bounds the display width of a single cell.
const MaxCellWidth = 40

// Table writes a pipe-delimited table. Columns are padded by display width,
// so accented and wide characters stay aligned.
func Table(w io.Writer, headers []string, rows [][]string) error {
	widths := make([]int, len(headers))
	cells := make([][]string, 0, len(rows)+1)

	for _, row := range append([][]string{headers}, rows...) {
		line := make([]string, len(headers))
		for i := range line {
			if i < len(row) {
				line[i] = runewidth.Truncate(row[i], MaxCellWidth, "…")
			}
			if width := runewidth.StringWidth(line[i]); width > widths[i] {
				widths[i] = width
			}
		}
		cells = append(cells, line)
	}

	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	for i, line := range cells {
		if err := writeRow(w, line, widths); err != nil {
			return err
		}
		if i == 0 {
			sep := make([]string, len(widths))
			for j, width := range widths {
				sep[j] = strings.Repeat("-", width)
			}
			if err := writeRow(w, sep, widths); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeRow(w io.Writer, cells []string, widths []int) error {
	var sb strings.Builder
	sb.WriteString("|")
	for i, cell := range cells {
		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(cell, widths[i]))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

var eventHeaders = []string{"ID", "Title", "District", "Start", "Price", "Range", "Group"}

// Events writes one row per stored event.
func Events(w io.Writer, events []domain.Event) error {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, eventRow(e))
	}
	return Table(w, eventHeaders, rows)
}

// DisplayEvents writes one row per unified entry, using the merged fields.
func DisplayEvents(w io.Writer, events []domain.DisplayEvent) error {
	rows := make([][]string, 0, len(events))
	for _, d := range events {
		rows = append(rows, eventRow(d.Event))
	}
	return Table(w, eventHeaders, rows)
}

func eventRow(e domain.Event) []string {
	return []string{
		strconv.FormatInt(e.ID, 10),
		e.Title,
		e.District,
		e.TimeStart,
		fmt.Sprintf("%d %s", e.PriceBase, e.Currency),
		e.PriceRange,
		e.IdealGroup,
	}
}
