package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rpgo/actuarial-calculator/internal/domain"
)

// HTMLFormatter produces a standalone HTML report of a batch run.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"money":   FormatMoney,
	"rate":    FormatRate,
	"curr":    FormatCurrency,
	"add":     func(i, j int) int { return i + j },
	"summary": Summarize,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(results *domain.BatchResult) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.BatchResult
		Failed int
	}{results, results.Failures()}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
