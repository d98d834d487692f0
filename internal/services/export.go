package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
)

// ExportTalliesCSV renders one row per (question, option) pair using the
// same percentage formula as InsightsOf. Fields containing commas or quotes
// are escaped per RFC4180; the final row carries no trailing newline. The
// function performs no I/O — writing the bytes anywhere is the caller's job.
func ExportTalliesCSV(defs []*SurveyDefinition) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"Question", "Option", "Responses", "Percentage"})
	for _, d := range defs {
		for _, ins := range InsightsOf(d) {
			rec := []string{
				d.Question,
				ins.Label,
				strconv.Itoa(ins.Count),
				strconv.Itoa(ins.Percentage),
			}
			if err := w.Write(rec); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(strings.TrimSuffix(buf.String(), "\n")), nil
}
