package category

import (
	"strconv"
	"strings"
)

const defaultPlace = "Indian cities"

type promptSpec struct {
	role string
	// local appends "for <location>" to the role.
	local   bool
	task    string
	lead    string
	points  []string
	closing string
}

func (p promptSpec) render(query, location string) string {
	var b strings.Builder
	b.WriteString("You are ")
	b.WriteString(p.role)
	if p.local {
		place := strings.TrimSpace(location)
		if place == "" {
			place = defaultPlace
		}
		b.WriteString(" for ")
		b.WriteString(place)
	}
	b.WriteString(".\n\n")
	if p.task != "" {
		b.WriteString("Your task: ")
		b.WriteString(p.task)
		b.WriteString("\n\n")
	}
	b.WriteString("User Query: \"")
	b.WriteString(strings.TrimSpace(query))
	b.WriteString("\"\n\n")

	lead := p.lead
	if lead == "" {
		lead = "Please provide:"
	}
	b.WriteString(lead)
	for i, point := range p.points {
		b.WriteString("\n")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(point)
	}
	if p.closing != "" {
		b.WriteString("\n\n")
		b.WriteString(p.closing)
	}
	return b.String()
}
