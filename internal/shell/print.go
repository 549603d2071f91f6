package shell

import (
	"fmt"
	"io"
	"strings"
)

// Print writes r for a terminal: text as is, tables aligned.
func Print(w io.Writer, r *Reply) {
	if r.Text != "" {
		fmt.Fprintln(w, strings.TrimRight(r.Text, "\n"))
	}
	if len(r.Columns) > 0 {
		printTable(w, r.Columns, r.Rows)
	}
}

func cell(row []any, i int) string {
	if i < len(row) && row[i] != nil {
		return fmt.Sprintf("%v", row[i])
	}
	return "NULL"
}

// printTable aligns columns:
//
//	id | name
//	---+-----
//	1  | ada
func printTable(w io.Writer, cols []string, rows [][]any) {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i := range cols {
			widths[i] = max(widths[i], len(cell(row, i)))
		}
	}

	printRow := func(values []string) {
		for i := range cols {
			if i > 0 {
				fmt.Fprint(w, " | ")
			}
			fmt.Fprint(w, padRight(values[i], widths[i]))
		}
		fmt.Fprintln(w)
	}

	printRow(cols)
	for i := range cols {
		if i > 0 {
			fmt.Fprint(w, "-+-")
		}
		fmt.Fprint(w, strings.Repeat("-", widths[i]))
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		out := make([]string, len(cols))
		for i := range cols {
			out[i] = cell(row, i)
		}
		printRow(out)
	}
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}
