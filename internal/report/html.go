package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"mlb_pitchers/report/internal/config"
	"mlb_pitchers/report/internal/models"
)

var page = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta http-equiv="X-UA-Compatible" content="IE=edge">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Report {{.Date}}</title>
    <style>
        table { border-collapse: collapse; }
        th { font-size: 14px; background-color: #f4f4f4; padding: 6px; }
        td { padding: 6px; border: 1px solid #ddd; text-align: center; }
    </style>
</head>
<body>
<table>
<thead>
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
</thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td{{with .Style}} style="{{.}}"{{end}}>{{if .Link}}<a href="{{.Link}}">{{.Text}}</a>{{else}}{{.Text}}{{end}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`))

// RenderHTML writes the report as a standalone HTML document
func RenderHTML(w io.Writer, r *models.Report) error {
	if err := page.Execute(w, BuildTable(r)); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// HTMLPath is where the report for date is written under dir:
// reports/report-07042025.html
func HTMLPath(dir, date string) string {
	return filepath.Join(dir, fmt.Sprintf("report-%s.html", config.StrippedDate(date)))
}

// WriteHTML renders the report to its per-date path and returns the
// absolute path written
func WriteHTML(dir string, r *models.Report) (string, error) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, r); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports dir: %w", err)
	}

	path := HTMLPath(dir, r.Date)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}
