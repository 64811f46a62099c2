package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/actuarial-calculator/internal/domain"
)

// CSVSummarizer implements the summary CSV output (one row per calculation, in batch order).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.BatchResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Name", "Type", "Status", "Metric", "Value", "Detail"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range results.Results {
		s := Summarize(r)
		row := []string{s.Name, string(s.Type), s.Status, s.Metric, s.Value, s.Detail}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
