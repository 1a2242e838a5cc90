package compliance

import (
	"embed"
	"strings"
	"text/template"

	"meddoc-backend/internal/regulations"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var promptTemplates = template.Must(
	template.New("prompts").
		Funcs(template.FuncMap{
			"join":  strings.Join,
			"lower": strings.ToLower,
		}).
		ParseFS(promptFS, "prompts/*.tmpl"),
)

type detailedPromptData struct {
	Spec         regulations.Spec
	Severity     []regulations.SeverityLevel
	DocumentText string
	DetailLevel  DetailLevel
}

type basicPromptData struct {
	Regulation   string
	DocumentText string
	DetailLevel  string
}

// BuildPrompt renders the analysis prompt for regulation.
//
// A regulation found in the catalog gets the detailed prompt with every
// subsection, the severity rubric and the full output schema. Anything else
// gets the reduced prompt whose schema covers only the assessment and
// findings. The output depends only on the arguments.
func BuildPrompt(documentText, regulation string, detail DetailLevel) string {
	if detail == "" {
		detail = DetailStandard
	}
	var sb strings.Builder
	spec, ok := regulations.Lookup(regulation)
	if ok {
		data := detailedPromptData{
			Spec:         spec,
			Severity:     regulations.SeverityLevels(),
			DocumentText: documentText,
			DetailLevel:  detail,
		}
		mustExecute(&sb, "detailed.tmpl", data)
		return sb.String()
	}
	mustExecute(&sb, "basic.tmpl", basicPromptData{
		Regulation:   regulation,
		DocumentText: documentText,
		DetailLevel:  string(detail),
	})
	return sb.String()
}

// Templates are embedded and their data types are fixed, so an execution
// error is a programming error.
func mustExecute(sb *strings.Builder, name string, data any) {
	if err := promptTemplates.ExecuteTemplate(sb, name, data); err != nil {
		panic("compliance: render " + name + ": " + err.Error())
	}
}
