package ui

import (
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// exportPage wraps snippet fragments in a standalone page
var exportPage = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{range .Sections}}<h2>{{.Label}}</h2>
<p>{{.Body}}</p>
{{end}}</body>
</html>
`))

type exportSection struct {
	Label string
	Body  template.HTML
}

type exportDoc struct {
	Title    string
	Sections []exportSection
}

// exportedMsg is sent when an export file has been written
type exportedMsg struct {
	path string
	err  error
}

// textSection escapes plain status lines
func textSection(label string, lines []string) exportSection {
	return exportSection{Label: label, Body: template.HTML(template.HTMLEscapeString(strings.Join(lines, " ")))}
}

// exportDocument returns what the export key saves: the search result when
// one is shown, otherwise the open popup
func (m Model) exportDocument() (exportDoc, bool) {
	switch {
	case m.search.Active():
		doc := exportDoc{Title: "Representatives near " + m.search.Place}
		for _, s := range m.search.sections {
			if s.Snippet != nil {
				doc.Sections = append(doc.Sections, exportSection{Label: s.Kind.Label(), Body: s.Snippet.HTML()})
				continue
			}
			doc.Sections = append(doc.Sections, textSection(s.Kind.Label(), s.Lines))
		}
		return doc, true
	case m.popup != nil:
		label := m.popup.Feature.Kind.Label()
		return exportDoc{
			Title:    m.popup.Snippet.Title,
			Sections: []exportSection{{Label: label, Body: m.popup.Snippet.HTML()}},
		}, true
	}
	return exportDoc{}, false
}

// exportHTML writes doc to a new file in dir
func exportHTML(dir string, doc exportDoc) tea.Cmd {
	return func() tea.Msg {
		f, err := os.CreateTemp(dir, "la-districts-*.html")
		if err != nil {
			return exportedMsg{err: fmt.Errorf("creating export file: %w", err)}
		}
		if err := exportPage.Execute(f, doc); err != nil {
			f.Close()
			os.Remove(f.Name())
			return exportedMsg{err: fmt.Errorf("writing %s: %w", f.Name(), err)}
		}
		if err := f.Close(); err != nil {
			return exportedMsg{err: fmt.Errorf("closing %s: %w", f.Name(), err)}
		}
		slog.Info("exported districts", "path", f.Name(), "sections", len(doc.Sections))
		return exportedMsg{path: f.Name()}
	}
}
