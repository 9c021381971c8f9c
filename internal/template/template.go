package template

import (
	"embed"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"time"

	"github.com/scan-io-git/pfast/internal/defect"
)

//go:embed templates/report.html
var defaultTemplates embed.FS

const reportName = "report.html"

// add adds two integers and returns the result.
// helper function for html template
func add(a, b int) int {
	return a + b
}

// ordinalDate returns a string with the ordinal number of the day
// helper function for html template
func ordinalDate(day int) string {
	suffix := "th"
	switch day {
	case 1, 21, 31:
		suffix = "st"
	case 2, 22:
		suffix = "nd"
	case 3, 23:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", day, suffix)
}

// formatDateTime formats a time.Time object into the specified string format.
// helper function for html template
func formatDateTime(t time.Time) string {
	day := ordinalDate(t.Day())
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%s %s %d %d:%02d:%02d %s", day, t.Month(), t.Year(), hour, t.Minute(), t.Second(), t.Format("pm"))
}

// location renders an SFA as path(line,column).
// helper function for html template
func location(s defect.SFA) string {
	var b strings.Builder
	b.WriteString(s.FilePath)
	b.WriteString(s.FileName)
	fmt.Fprintf(&b, "(%d", s.Line)
	if s.Column > 0 {
		fmt.Fprintf(&b, ",%d", s.Column)
	}
	b.WriteString(")")
	return b.String()
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"add":            add,
		"formatDateTime": formatDateTime,
		"location":       location,
	}
}

// NewTemplate parses the report template at templateFile.
// An empty templateFile selects the built-in report.
func NewTemplate(templateFile string) (*template.Template, error) {
	if templateFile == "" {
		return template.New(reportName).Funcs(funcs()).ParseFS(defaultTemplates, "templates/"+reportName)
	}
	return template.New(filepath.Base(templateFile)).Funcs(funcs()).ParseFiles(templateFile)
}
