package openproject

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/model"
)

type link struct {
	Href  string `json:"href"`
	Title string `json:"title"`
}

type collection struct {
	Embedded struct {
		Elements []json.RawMessage `json:"elements"`
	} `json:"_embedded"`
	Links struct {
		NextByOffset link `json:"nextByOffset"`
	} `json:"_links"`
}

// flexID accepts both numeric and string ids.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

type projectElement struct {
	ID         flexID `json:"id"`
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
}

func (p projectElement) toModel() model.Project {
	return model.Project{ID: string(p.ID), Identifier: p.Identifier, Name: p.Name}
}

type timeEntryElement struct {
	Hours   string `json:"hours"`
	SpentOn string `json:"spentOn"`
	Links   struct {
		User *link `json:"user"`
	} `json:"_links"`
}

func (e timeEntryElement) toModel() model.TimeEntry {
	te := model.TimeEntry{Duration: e.Hours, SpentOn: e.SpentOn}
	if e.Links.User != nil {
		te.UserID = lastSegment(e.Links.User.Href)
		te.UserName = e.Links.User.Title
	}
	return te
}

type groupElement struct {
	ID    flexID `json:"id"`
	Name  string `json:"name"`
	Links struct {
		Members []link `json:"members"`
	} `json:"_links"`
}

func (g groupElement) toModel() model.Group {
	refs := make([]string, 0, len(g.Links.Members))
	for _, m := range g.Links.Members {
		if m.Href != "" {
			refs = append(refs, m.Href)
		}
	}
	return model.Group{ID: string(g.ID), Name: g.Name, MemberRefs: refs}
}

// lastSegment returns the final path segment of href, "" when there is none.
func lastSegment(href string) string {
	href = strings.TrimRight(strings.TrimSpace(href), "/")
	if href == "" {
		return ""
	}
	if i := strings.LastIndex(href, "/"); i >= 0 {
		return href[i+1:]
	}
	return href
}
