package report

import (
	"fmt"
	"io"
	"strings"
)

// WriteFixedWidth serializes the table as fixed-width text with comma
// delimiters between columns. Cells are padded to the widest value in
// their column; the final column is not padded, so lines carry no
// trailing whitespace.
func WriteFixedWidth(w io.Writer, t *Table) error {
	columns := t.Columns()
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = len(c)
	}
	rows := t.Rows()
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	writeLine := func(cells []string) error {
		var sb strings.Builder
		for i, cell := range cells {
			if i > 0 {
				sb.WriteString(" , ")
			}
			if i == len(cells)-1 {
				sb.WriteString(cell)
			} else {
				sb.WriteString(cell)
				sb.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
			}
		}
		sb.WriteString("\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	if err := writeLine(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		if err := writeLine(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	return nil
}
