// Package snippet formats a district feature into the short description
// shown in the info panel, popups and search results.
package snippet

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/ngmaloney/la-districts/internal/districts"
)

// legislatureContact is the California Legislature contact form for a
// chamber-prefixed district (AD54, SD24)
const legislatureContact = "https://lcmspubcontact.lc.ca.gov/PublicLCMS/ContactPopup.php?district=%s%s&inframe=Y"

// Snippet is the formatted description of one feature
type Snippet struct {
	Kind     districts.Kind
	Title    string // Council or representative name
	Subtitle string // District number line
	Detail   string // Representative line, legislative layers only
	Link     string // Official website, possibly empty
	Contact  string // Contact address or form, possibly empty
}

// For builds the snippet of f, dispatching on the feature's kind
func For(f *districts.Feature) Snippet {
	s := Snippet{Kind: f.Kind, Link: f.Attrs.Website()}

	switch a := f.Attrs.(type) {
	case districts.NeighborhoodCouncilAttrs:
		s.Title = a.Name
		s.Subtitle = "NC District #" + a.ID
	case districts.CityCouncilAttrs:
		s.Title = a.DistrictName
		s.Subtitle = "City District #" + a.District
		s.Contact = a.Contact
	case districts.SupervisorAttrs:
		s.Title = a.Supervisor
		s.Subtitle = "Supervisorial District #" + a.District
	case districts.AssemblyAttrs:
		s.Title = a.Name
		s.Subtitle = "Assembly District #" + a.District
		s.Detail = "Assembly member: " + a.Member
		s.Contact = legislatorContact("AD", a.District)
	case districts.SenateAttrs:
		s.Title = a.Name
		s.Subtitle = "Senate District #" + a.District
		s.Detail = "Senator: " + a.Senator
		s.Contact = legislatorContact("SD", a.District)
	}
	return s
}

func legislatorContact(chamber, district string) string {
	district = strings.TrimLeft(district, "0")
	if district == "" {
		return ""
	}
	return fmt.Sprintf(legislatureContact, chamber, district)
}

// Lines renders the snippet as plain text lines. The title is always the
// first line and the link the last; an empty link renders as an empty line.
func (s Snippet) Lines() []string {
	lines := []string{s.Title, s.Subtitle}
	if s.Detail != "" {
		lines = append(lines, s.Detail)
	}
	return append(lines, s.Link)
}

var fragment = template.Must(template.New("snippet").Parse(
	`<b>{{.Title}}</b><br />{{.Subtitle}}<br />` +
		`{{if .Detail}}{{.Detail}}<br />{{end}}` +
		`<a href="{{.Link}}">{{.Link}}</a>`))

// HTML renders the snippet as an HTML fragment with escaped values
func (s Snippet) HTML() template.HTML {
	var buf bytes.Buffer
	if err := fragment.Execute(&buf, s); err != nil {
		return template.HTML(template.HTMLEscapeString(s.Title))
	}
	return template.HTML(buf.String())
}
