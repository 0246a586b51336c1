package converter

import (
	"database/sql"

	"github.com/farxc/oilst_consolidator/internal/consolidation/types"
	"github.com/farxc/oilst_consolidator/internal/consolidation/utils"
)

func parseTimestamp(cols utils.ColumnSet, col string, rowIdx int, quality *types.DataQualitySummary) sql.NullTime {
	t, err := utils.ParseTimestamp(col, cols.GetStr(col, rowIdx))
	if err != nil {
		quality.AddDateParseFailure(col)
	}
	return t
}

func parseFloat(cols utils.ColumnSet, col string, rowIdx int, quality *types.DataQualitySummary) sql.NullFloat64 {
	f, err := utils.ParseFloat(cols.GetStr(col, rowIdx))
	if err != nil {
		quality.AddInvalidNumber(col)
	}
	return f
}

func parseCount(cols utils.ColumnSet, col string, rowIdx int, quality *types.DataQualitySummary) sql.NullInt64 {
	n, err := utils.ParseCount(cols.GetStr(col, rowIdx))
	if err != nil {
		quality.AddInvalidNumber(col)
	}
	return n
}

// parseInt accepts negative values, unlike parseCount.
func parseInt(cols utils.ColumnSet, col string, rowIdx int, quality *types.DataQualitySummary) sql.NullInt64 {
	n, err := utils.ParseInt(cols.GetStr(col, rowIdx))
	if err != nil {
		quality.AddInvalidNumber(col)
	}
	return n
}
