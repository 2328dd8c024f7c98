package export

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/mvp-studio/mvp-planner-backend/internal/planning"
)

var readmeTmpl = template.Must(template.New("readme").Funcs(template.FuncMap{
	"join": strings.Join,
	"add1": func(i int) int { return i + 1 },
}).Parse(`# {{.Project.Name}}

{{.Project.ProblemStatement}}

- **Industry:** {{.Project.Industry}}
- **Target audience:** {{.Project.Audience}}
{{- if .Project.KeyBenefits}}
- **Key benefits:** {{join .Project.KeyBenefits ", "}}
{{- end}}

## MVP Features
{{- $mvp := .MvpFeatures}}
{{- if $mvp}}
{{range $mvp}}
- **{{.Name}}** ({{.Priority}} priority, {{.Difficulty}}){{if .Description}} — {{.Description}}{{end}}
{{- end}}
{{- else}}

_No features selected for the MVP yet._
{{- end}}

## Roadmap
{{- if .Milestones}}
{{range $i, $m := .Milestones}}
{{add1 $i}}. **{{$m.Title}}** ({{$m.DurationWeeks}} wk){{if $m.Description}} — {{$m.Description}}{{end}}
{{- end}}

Total estimated duration: {{.TotalWeeks}} weeks.
{{- else}}

_No milestones defined yet._
{{- end}}

## Success Metrics
{{- if .Kpis}}
{{range .Kpis}}
- **{{.Name}}**{{if .Target}}: target {{.Target}}{{end}}{{if .Timeframe}} within {{.Timeframe}}{{end}}{{if .Description}} — {{.Description}}{{end}}
{{- end}}
{{- else}}

_No KPIs defined yet._
{{- end}}

## Validation
{{- $sel := .SelectedValidation}}
{{- if $sel}}
{{range $sel}}
- {{.Method}}
{{- end}}
{{- else}}

_No validation methods selected._
{{- end}}
{{- if .Project.AdditionalNotes}}

## Notes

{{.Project.AdditionalNotes}}
{{- end}}
`))

// SelectedValidation filters validation methods down to the ones the user
// actually committed to.
func (b *Bundle) SelectedValidation() []planning.ValidationMethod {
	out := make([]planning.ValidationMethod, 0, len(b.ValidationMethods))
	for _, v := range b.ValidationMethods {
		if v.Selected {
			out = append(out, v)
		}
	}
	return out
}

// RenderReadme produces the project's README.md export.
func RenderReadme(b *Bundle) ([]byte, error) {
	var buf bytes.Buffer
	if err := readmeTmpl.Execute(&buf, b); err != nil {
		return nil, fmt.Errorf("render readme: %w", err)
	}
	return buf.Bytes(), nil
}
