package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/actuarial-calculator/internal/domain"
)

// AmortizationCSV writes one row per period of a schedule. A Due Date column is
// added when the schedule carries payment dates.
func AmortizationCSV(schedule domain.AmortizationSchedule) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	dated := len(schedule.Rows) > 0 && schedule.Rows[0].DueDate != nil

	header := []string{"Payment", "Beginning Balance", "Monthly Payment", "Interest", "Principal", "Ending Balance"}
	if dated {
		header = append(header, "Due Date")
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range schedule.Rows {
		rec := []string{
			intToString(row.Period),
			row.BeginningBalance.StringFixed(2),
			row.Payment.StringFixed(2),
			row.Interest.StringFixed(2),
			row.Principal.StringFixed(2),
			row.EndingBalance.StringFixed(2),
		}
		if dated {
			due := ""
			if row.DueDate != nil {
				due = row.DueDate.Format("2006-01-02")
			}
			rec = append(rec, due)
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// SensitivityCSV writes a sweep as Shock, Parameter, Value, OK, Error rows. Failed
// points keep their row with an empty value.
func SensitivityCSV(series domain.SensitivitySeries) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Shock", "Parameter", "Value", "OK", "Error"}); err != nil {
		return nil, err
	}
	for _, p := range series.Points {
		value := ""
		if p.OK() {
			value = floatToString(p.Value, 6)
		}
		rec := []string{
			floatToString(p.Shock, 6),
			floatToString(p.Parameter, 6),
			value,
			boolToString(p.OK()),
			p.Error,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
