package output

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/buemura/vtcli/pkg/types"
)

// HTMLFormatter renders scan reports as a self-contained HTML page with
// verdict badges and a table of flagged engines. Any other value is shown
// as preformatted JSON.
type HTMLFormatter struct{}

func (f *HTMLFormatter) Format(w io.Writer, v any) error {
	reports := types.ParseReports(v)
	if len(reports) == 0 {
		var buf bytes.Buffer
		if err := (&JSONFormatter{}).Format(&buf, v); err != nil {
			return err
		}
		return htmlTpl.Execute(w, templateData{Raw: buf.String()})
	}
	sortByVerdict(reports)

	return htmlTpl.Execute(w, templateData{Reports: reports})
}

type templateData struct {
	Reports []types.ScanReport
	Raw     string
}

// verdictClass maps a Verdict to a CSS class name.
func verdictClass(v types.Verdict) string {
	switch v {
	case types.VerdictMalicious:
		return "malicious"
	case types.VerdictSuspicious:
		return "suspicious"
	case types.VerdictClean:
		return "clean"
	default:
		return "unknown"
	}
}

var funcMap = template.FuncMap{
	"verdictClass": verdictClass,
	"hashKind": func(resource string) string {
		kind := types.KindOfHash(resource)
		if kind == types.HashUnknown {
			return ""
		}
		return string(kind)
	},
	"countVerdict": func(reports []types.ScanReport, v types.Verdict) int {
		n := 0
		for _, r := range reports {
			if r.Verdict() == v {
				n++
			}
		}
		return n
	},
	"verdictMalicious":  func() types.Verdict { return types.VerdictMalicious },
	"verdictSuspicious": func() types.Verdict { return types.VerdictSuspicious },
	"verdictClean":      func() types.Verdict { return types.VerdictClean },
	"verdictUnknown":    func() types.Verdict { return types.VerdictUnknown },
}

var htmlTpl = template.Must(template.New("report").Funcs(funcMap).Parse(fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>VirusTotal Report</title>
<style>%s</style>
</head>
<body>
<div class="container">
  <h1>VirusTotal Report</h1>
  {{if .Reports}}
  <div class="summary-bar">
    <span class="badge malicious">{{countVerdict .Reports verdictMalicious}} Malicious</span>
    <span class="badge suspicious">{{countVerdict .Reports verdictSuspicious}} Suspicious</span>
    <span class="badge clean">{{countVerdict .Reports verdictClean}} Clean</span>
    <span class="badge unknown">{{countVerdict .Reports verdictUnknown}} Unknown</span>
    <span class="total">{{len .Reports}} resources</span>
  </div>

  {{range .Reports}}
  <section class="report-section">
    <h2>{{.Resource}}{{with hashKind .Resource}} <small>({{.}})</small>{{end}}
      <span class="badge {{verdictClass .Verdict}}">{{.Verdict}}</span></h2>
    {{if not .Found}}
      <p class="no-findings">{{if .Message}}{{.Message}}{{else}}No report available.{{end}}</p>
    {{else}}
      <p>Detections: {{.Positives}}/{{.Total}}{{if .ScanDate}} (scanned {{.ScanDate}}){{end}}</p>
      {{if .Permalink}}<p><a href="{{.Permalink}}">{{.Permalink}}</a></p>{{end}}
      {{with .Flagged}}
        <table>
          <thead>
            <tr><th>Engine</th><th>Result</th><th>Version</th><th>Update</th></tr>
          </thead>
          <tbody>
            {{range .}}
            <tr><td>{{.Engine}}</td><td class="result">{{.Result}}</td><td>{{.Version}}</td><td>{{.Update}}</td></tr>
            {{end}}
          </tbody>
        </table>
      {{else}}
        <p class="no-findings">No engines flagged this resource.</p>
      {{end}}
    {{end}}
  </section>
  {{end}}
  {{else}}
  <pre>{{.Raw}}</pre>
  {{end}}
</div>
</body>
</html>
`, cssStyles)))

const cssStyles = `
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,Helvetica,Arial,sans-serif;
     line-height:1.6;color:#1a1a2e;background:#f5f5fa;padding:2rem}
.container{max-width:960px;margin:0 auto}
h1{margin-bottom:1rem;font-size:1.8rem}
h2{margin:1.5rem 0 .75rem;font-size:1.2rem;border-bottom:2px solid #e0e0e0;padding-bottom:.3rem;word-break:break-all}
.summary-bar{display:flex;gap:.5rem;flex-wrap:wrap;align-items:center;margin-bottom:1.5rem}
.total{margin-left:.5rem;font-weight:600}
.badge{display:inline-block;padding:2px 10px;border-radius:12px;font-size:.8rem;font-weight:700;color:#fff;text-transform:uppercase}
.badge.malicious{background:#d32f2f}
.badge.suspicious{background:#f9a825;color:#333}
.badge.clean{background:#388e3c}
.badge.unknown{background:#757575}
table{width:100%;border-collapse:collapse;margin-bottom:1rem}
th,td{text-align:left;padding:.5rem .75rem;border-bottom:1px solid #e0e0e0}
th{background:#eaeaea;font-weight:600}
tr:hover{background:#f0f0ff}
td.result{color:#c62828}
pre{background:#fff;padding:1rem;border-radius:6px;overflow-x:auto}
.no-findings{color:#666;font-style:italic}
.report-section{margin-bottom:2rem}
`
