package utils

import (
	"strings"

	"github.com/go-gota/gota/dataframe"
)

func containsString(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}

// MissingColumns returns the expected columns absent from df, in expected order.
func MissingColumns(df *dataframe.DataFrame, expected []string) []string {
	names := df.Names()
	var missing []string
	for _, col := range expected {
		if !containsString(names, col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// ColumnValues extracts the given columns once, with missing cells mapped to
// "". Columns absent from df yield empty values. gota copies a series on each
// Col call, so per-cell lookups would be quadratic on large sources.
func ColumnValues(df *dataframe.DataFrame, cols []string) ColumnSet {
	set := ColumnSet{values: make(map[string][]string, len(cols)), nrow: df.Nrow()}
	names := df.Names()
	for _, col := range cols {
		if !containsString(names, col) {
			continue
		}
		records := df.Col(col).Records()
		for i, v := range records {
			v = strings.TrimSpace(v)
			if IsNull(v) {
				v = ""
			}
			records[i] = v
		}
		set.values[col] = records
	}
	return set
}

// ColumnSet holds string cells of a dataframe keyed by column name.
type ColumnSet struct {
	values map[string][]string
	nrow   int
}

func (c ColumnSet) Nrow() int {
	return c.nrow
}

// GetStr returns the cell value, or "" when the column is absent or the cell
// is missing.
func (c ColumnSet) GetStr(col string, rowIdx int) string {
	values, ok := c.values[col]
	if !ok || rowIdx >= len(values) {
		return ""
	}
	return values[rowIdx]
}
