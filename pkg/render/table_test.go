package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yair/eventify/pkg/domain"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	err := Table(&buf, []string{"A", "District"}, [][]string{
		{"1", "Lavapiés"},
		{"22", "Chamberí"},
		{"3"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)

	assert.Equal(t, "| A   | District |", lines[0])
	assert.Equal(t, "| --- | -------- |", lines[1])
	assert.Equal(t, "| 1   | Lavapiés |", lines[2])
	assert.Equal(t, "| 3   |          |", lines[4])

	for _, line := range lines {
		assert.Equal(t, runewidth.StringWidth(lines[0]), runewidth.StringWidth(line), line)
	}
}

func TestTable_TruncatesLongCells(t *testing.T) {
	var buf bytes.Buffer
	long := strings.Repeat("Exposición ", 10)
	require.NoError(t, Table(&buf, []string{"Title"}, [][]string{{long}}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, MaxCellWidth+4, runewidth.StringWidth(lines[2]))
	assert.Contains(t, lines[2], "…")
}

func TestDisplayEvents(t *testing.T) {
	var buf bytes.Buffer
	err := DisplayEvents(&buf, []domain.DisplayEvent{{
		Event: domain.Event{ID: 4, NewEvent: domain.NewEvent{
			Title:      "Ruta de Tapas 3",
			District:   "Lavapiés, La Latina",
			TimeStart:  "18:00 / 21:00",
			PriceBase:  25,
			Currency:   "EUR",
			PriceRange: domain.PriceEconomico,
			IdealGroup: "amigos + niños",
		}},
	}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Lavapiés, La Latina")
	assert.Contains(t, out, "25 EUR")
	assert.Contains(t, out, "amigos + niños")
}
