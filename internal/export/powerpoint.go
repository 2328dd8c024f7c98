package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// The deck is a single self-contained HTML file: one <section> per slide,
// inline CSS, no external assets, so it opens anywhere and prints to PDF.
var deckTmpl = template.Must(template.New("deck").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Project.Name}} — MVP Pitch</title>
<style>
  body { margin: 0; font-family: "Segoe UI", Helvetica, Arial, sans-serif; background: #111; }
  section {
    box-sizing: border-box; width: 100vw; min-height: 100vh; padding: 8vh 10vw;
    background: #1b2838; color: #eee; page-break-after: always;
  }
  h1 { font-size: 3em; margin: 0 0 .3em; color: #6cf; }
  h2 { font-size: 2.2em; margin: 0 0 .6em; color: #6cf; }
  p.lead { font-size: 1.3em; color: #ccc; }
  ul { font-size: 1.15em; line-height: 1.7; }
  table { border-collapse: collapse; font-size: 1.05em; }
  th, td { border: 1px solid #456; padding: .4em .9em; text-align: left; }
  th { background: #243b55; }
  .tag { color: #9ab; font-size: .85em; }
</style>
</head>
<body>

<section>
  <h1>{{.Project.Name}}</h1>
  <p class="lead">{{.Project.ProblemStatement}}</p>
  <p class="tag">{{.Project.Industry}}{{if .Project.Audience}} · for {{.Project.Audience}}{{end}}</p>
</section>

{{if .Project.KeyBenefits}}<section>
  <h2>Why it matters</h2>
  <ul>{{range .Project.KeyBenefits}}<li>{{.}}</li>{{end}}</ul>
</section>{{end}}

<section>
  <h2>MVP Scope</h2>
  {{$mvp := .MvpFeatures}}{{if $mvp}}<ul>
  {{range $mvp}}<li><strong>{{.Name}}</strong> <span class="tag">{{.Priority}} / {{.Difficulty}}</span>{{if .Description}}<br>{{.Description}}{{end}}</li>
  {{end}}</ul>{{else}}<p class="lead">Feature selection in progress.</p>{{end}}
</section>

{{if .Competitors}}<section>
  <h2>Competitive Landscape</h2>
  <table>
    <tr><th>Capability</th><th>Us</th>{{range .Competitors}}<th>{{.Name}}</th>{{end}}</tr>
    {{$comps := .Competitors}}{{range .CompFeatures}}<tr>
      <td>{{.Name}}</td><td>{{if .YourMvp}}✓{{end}}</td>
      {{$cf := .}}{{range $comps}}<td>{{if index $cf.Flags .ID}}✓{{end}}</td>{{end}}
    </tr>{{end}}
  </table>
</section>{{end}}

<section>
  <h2>Roadmap</h2>
  {{if .Milestones}}<ul>
  {{range .Milestones}}<li><strong>{{.Title}}</strong> <span class="tag">{{.DurationWeeks}} wk</span>{{if .Description}}<br>{{.Description}}{{end}}</li>
  {{end}}</ul>
  <p class="tag">≈ {{.TotalWeeks}} weeks to MVP</p>{{else}}<p class="lead">Roadmap in progress.</p>{{end}}
</section>

<section>
  <h2>Success Metrics</h2>
  {{if .Kpis}}<ul>
  {{range .Kpis}}<li><strong>{{.Name}}</strong>{{if .Target}} — {{.Target}}{{end}}{{if .Timeframe}} <span class="tag">({{.Timeframe}})</span>{{end}}</li>
  {{end}}</ul>{{else}}<p class="lead">KPIs to be defined.</p>{{end}}
</section>

</body>
</html>
`))

// RenderDeck produces the pitch-deck HTML export.
func RenderDeck(b *Bundle) ([]byte, error) {
	var buf bytes.Buffer
	if err := deckTmpl.Execute(&buf, b); err != nil {
		return nil, fmt.Errorf("render deck: %w", err)
	}
	return buf.Bytes(), nil
}
