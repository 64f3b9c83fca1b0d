package notify

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// IssueLine is one row of the opened-issues e-mail.
type IssueLine struct {
	Title       string
	Description string
	Priority    string
	Location    string
}

type IssuesOpenedEmailData struct {
	BuildingID     string
	FormName       string
	CompletedAt    time.Time
	InspectionLink string
	Issues         []IssueLine
}

//go:embed email_issues_opened.html
var issuesOpenedHTML string

var issuesOpenedTmpl = template.Must(
	template.New("issues-opened").
		Funcs(template.FuncMap{
			"formatTime": func(t time.Time) string {
				return t.UTC().Format("Jan 2, 2006 15:04 UTC")
			},
			"upper": strings.ToUpper,
		}).
		Parse(issuesOpenedHTML),
)

func RenderIssuesOpenedHTML(data IssuesOpenedEmailData) (string, error) {
	var buf bytes.Buffer
	if err := issuesOpenedTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func IssuesOpenedSubject(formName string, count int) string {
	if count == 1 {
		return "1 new issue: " + formName
	}
	return fmt.Sprintf("%d new issues: %s", count, formName)
}
