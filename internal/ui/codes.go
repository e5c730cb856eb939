package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/smartconfig/internal/protocol"
)

// DatumTable renders an encoded credential: the guide codes, then one row per
// data code with the packet lengths it produces.
type DatumTable struct {
	Title string
	Datum *protocol.Datum
	Width int
}

// NewDatumTable creates a table for d
func NewDatumTable(d *protocol.Datum) *DatumTable {
	return &DatumTable{
		Title: "Encoded Datum",
		Datum: d,
		Width: GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (t *DatumTable) SetWidth(width int) *DatumTable {
	t.Width = width
	return t
}

// Rows returns the unstyled table rows, one per data code.
func (t *DatumTable) Rows() []string {
	groups := t.Datum.Groups()
	codes := t.Datum.Codes()

	rows := make([]string, 0, len(groups))
	for i, dc := range groups {
		lengths := codes[i*protocol.CodesPerDataCode : (i+1)*protocol.CodesPerDataCode]
		rows = append(rows, fmt.Sprintf("%3d  %-12s  0x%02x   0x%02x  % x  %4d %4d %4d",
			dc.Index(), t.Datum.Field(i), dc.Value(), dc.CRC(), dc[:],
			lengths[0], lengths[1], lengths[2]))
	}
	return rows
}

// Render returns the styled table inside a box
func (t *DatumTable) Render() string {
	width := t.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	guide := make([]string, len(protocol.GuideCodes))
	for i, c := range protocol.GuideCodes {
		guide[i] = fmt.Sprint(c)
	}

	lines := []string{
		TableHeaderStyle.Render(t.Title),
		"",
		NoteStyle.Render("guide codes: " + strings.Join(guide, " ")),
		NoteStyle.Render(fmt.Sprintf("checksum: 0x%02x  data codes: %d  packets per cycle: %d",
			t.Datum.Checksum(), len(t.Datum.Groups()), len(t.Datum.Codes()))),
		"",
		TableHeaderStyle.Render("idx  field         value  crc   bytes              lengths"),
	}
	for _, row := range t.Rows() {
		lines = append(lines, TableCellStyle.Render(row))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(width-4).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (t *DatumTable) String() string {
	return t.Render()
}
