package executor

// Result is a fully materialized operator output.
type Result struct {
	Columns []string
	Rows    [][]any
}
