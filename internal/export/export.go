// Package export renders a project into downloadable documents.
package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/esp32-copilot/go-copilot-backend/internal/projects/domain"
)

// Markdown renders the project as a single document: metadata header, then
// every stage in lifecycle order with its approval mark.
func Markdown(p *domain.Project) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", p.Description)
	}
	fmt.Fprintf(&b, "- **Target hardware:** %s\n", p.TargetHardware)
	fmt.Fprintf(&b, "- **Status:** %s\n", p.Status)
	fmt.Fprintf(&b, "- **Current stage:** %s\n", p.CurrentStage)
	fmt.Fprintf(&b, "- **Created:** %s\n\n", p.CreatedAt.Format("2006-01-02 15:04 UTC"))

	for _, stage := range domain.StageOrder {
		rec := p.Stages.Get(stage)
		if rec.Content == "" {
			continue
		}
		mark := ""
		if rec.Approved {
			mark = " ✓"
		}
		fmt.Fprintf(&b, "## %s%s\n\n", title(string(stage)), mark)
		b.WriteString(rec.Content)
		b.WriteString("\n\n")
		if rec.Notes != "" {
			fmt.Fprintf(&b, "> Notes: %s\n\n", rec.Notes)
		}
	}

	return b.String()
}

// JSON renders the full aggregate as indented JSON.
func JSON(p *domain.Project) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Filename builds a safe attachment name from the project name.
func Filename(p *domain.Project, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		}
		return -1
	}, p.Name)
	if name == "" {
		name = "project"
	}
	return strings.ToLower(name) + "." + ext
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
