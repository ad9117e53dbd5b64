package wiring

import (
	"fmt"
	"strings"

	"github.com/esp32-copilot/go-copilot-backend/internal/hardware"
)

const powerFooter = `Power Notes:
- 3.3V rail: max ~600mA from the onboard regulator
- 5V (VIN) is only available when powered over USB or VIN
- All components must share a common ground`

func roleNote(descriptor string) string {
	lower := strings.ToLower(descriptor)
	if strings.Contains(lower, "pull-up") {
		return " [pull-up required]"
	}
	if strings.Contains(lower, "pull-down") {
		return " [pull-down required]"
	}
	return ""
}

// renderDiagram formats the textual wiring diagram: a header, one block per
// component, collected component notes, warnings, and the power footer.
func renderDiagram(components []hardware.Component, assignments map[string]map[string]string, warnings []string) string {
	var b strings.Builder

	b.WriteString("ESP32 DevKit V1 Wiring Diagram\n")
	b.WriteString("==============================\n")

	for _, comp := range components {
		if len(comp.Roles) == 0 {
			continue
		}
		b.WriteString("\n")
		b.WriteString(comp.Name)
		b.WriteString(":\n")
		for _, role := range comp.Roles {
			pin := assignments[comp.ID][role.Name]
			fmt.Fprintf(&b, "  %-12s -> %s%s\n", pin, role.Name, roleNote(role.Descriptor))
		}
	}

	var notes []string
	for _, comp := range components {
		if comp.Notes != "" {
			notes = append(notes, fmt.Sprintf("- %s: %s", comp.Name, comp.Notes))
		}
	}
	if len(notes) > 0 {
		b.WriteString("\nNotes:\n")
		b.WriteString(strings.Join(notes, "\n"))
		b.WriteString("\n")
	}

	if len(warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, w := range warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(powerFooter)
	b.WriteString("\n")
	return b.String()
}
