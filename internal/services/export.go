package services

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"geostation-service/internal/domain"
)

var csvHeader = []string{"ID", "Name", "Address", "Latitude", "Longitude", "Description", "Timestamp"}

// ExportCSV renders the record list as CSV. Every string field is wrapped in
// double quotes with internal quotes doubled; latitude and longitude stay
// numeric. Timestamps are ISO-8601 in UTC.
func ExportCSV(records []domain.Record) []byte {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(csvHeader, ","))
	buf.WriteByte('\n')

	for _, r := range records {
		fields := []string{
			csvQuote(r.ID),
			csvQuote(r.Name),
			csvQuote(r.Address),
			strconv.FormatFloat(r.Position.Lat, 'f', -1, 64),
			strconv.FormatFloat(r.Position.Lng, 'f', -1, 64),
			csvQuote(r.Description),
			csvQuote(r.CreatedTime().Format(time.RFC3339)),
		}
		buf.WriteString(strings.Join(fields, ","))
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

// ExportFilename includes the export date, e.g. stations-2026-08-25.csv.
func ExportFilename(now time.Time) string {
	return "stations-" + now.Format("2006-01-02") + ".csv"
}

func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
