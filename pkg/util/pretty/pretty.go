// Package pretty renders arrow records as aligned text tables.
package pretty

import (
	"bytes"
	"strconv"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/olekukonko/tablewriter"
)

// Format renders records as a single text table with one header row. All
// records must share the same schema. It returns an empty string when records
// is empty.
func Format(records []arrow.Record) string {
	if len(records) == 0 {
		return ""
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	fields := records[0].Schema().Fields()
	headers := make([]string, len(fields))
	for i, field := range fields {
		headers[i] = field.Name
	}
	table.SetHeader(headers)

	for _, rec := range records {
		for row := 0; row < int(rec.NumRows()); row++ {
			cells := make([]string, rec.NumCols())
			for col := range cells {
				cells[col] = cellValue(rec.Column(col), row)
			}
			table.Append(cells)
		}
	}

	table.Render()
	return buf.String()
}

func cellValue(arr arrow.Array, i int) string {
	if arr.IsNull(i) {
		return "NULL"
	}

	switch a := arr.(type) {
	case *array.Boolean:
		return strconv.FormatBool(a.Value(i))
	case *array.Int64:
		return strconv.FormatInt(a.Value(i), 10)
	case *array.Float64:
		return strconv.FormatFloat(a.Value(i), 'g', -1, 64)
	case *array.String:
		return a.Value(i)
	case *array.Timestamp:
		return a.Value(i).ToTime(arrow.Nanosecond).UTC().Format(time.RFC3339Nano)
	default:
		return arr.ValueStr(i)
	}
}
