package reports

import (
	"bytes"
	_ "embed"
	"html/template"
	"time"

	"Backend-Inspectrack/src/qrcode"
)

//go:embed inspection_report.html
var reportHTML string

var reportTmpl = template.Must(
	template.New("report").
		Funcs(template.FuncMap{
			"formatTime": func(t time.Time) string {
				return t.UTC().Format("Jan 2, 2006 15:04 UTC")
			},
		}).
		Parse(reportHTML),
)

type htmlData struct {
	Report
	QRCode      template.URL
	GeneratedAt time.Time
}

// RenderHTML produces a standalone page. When the report has a link it is
// also embedded as a QR code.
func RenderHTML(r Report, generatedAt time.Time) ([]byte, error) {
	data := htmlData{Report: r, GeneratedAt: generatedAt}
	if r.Link != "" {
		uri, err := qrcode.DataURI(r.Link, 128)
		if err != nil {
			return nil, err
		}
		data.QRCode = template.URL(uri)
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
