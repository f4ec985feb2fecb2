package history

import (
	"io"
	"strconv"
	"strings"
)

// csvHeader is the fixed export header row
const csvHeader = "Type,Amount,Token,Date,Status,Transaction Hash,Description"

// csvDateLayout renders dates as M/D/YYYY to match the dashboard locale
const csvDateLayout = "1/2/2006"

// ExportCSV renders the given records as CSV, one row per record, with the
// fixed header. Missing optional fields render as empty strings.
//
// Field values are written verbatim: commas and quotes inside free-text
// fields are not escaped, for compatibility with the export format existing
// downstream consumers already parse.
func ExportCSV(records []TransactionRecord) string {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteByte('\n')

	for _, r := range records {
		fields := []string{
			string(r.Type),
			strconv.FormatFloat(r.Amount, 'f', -1, 64),
			r.TokenType,
			r.Timestamp.Format(csvDateLayout),
			string(r.Status),
			r.Hash,
			r.Description,
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteByte('\n')
	}

	return b.String()
}

// WriteCSV streams the export to w
func WriteCSV(w io.Writer, records []TransactionRecord) error {
	_, err := io.WriteString(w, ExportCSV(records))
	return err
}
