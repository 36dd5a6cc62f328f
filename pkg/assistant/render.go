package assistant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-wayfinder/pkg/navigation"
)

// maxSearchHits caps each group in a rendered search answer.
const maxSearchHits = 5

// RenderRoute formats a route as a markdown report.
func RenderRoute(r *navigation.PathResult) string {
	var b strings.Builder
	b.WriteString("## Route Found\n\n")
	fmt.Fprintf(&b, "**Distance:** %d units\n", r.Distance)
	fmt.Fprintf(&b, "**Estimated Time:** %s minutes\n", formatMinutes(r.EstimatedTimeMinutes))
	fmt.Fprintf(&b, "**Floor Changes:** %d\n", r.FloorChanges)
	if r.AccessibilityFriendly {
		b.WriteString("**Accessibility:** Accessible\n")
	} else {
		b.WriteString("**Accessibility:** Uses stairs\n")
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "\n> **Note:** %s\n", w)
	}

	b.WriteString("\n### Step-by-Step Directions\n\n")
	for i, step := range r.Directions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	return b.String()
}

// RenderFaculty formats a faculty lookup: who, when, and how to get there.
func RenderFaculty(fr *navigation.FacultyRoute) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", fr.Faculty.Name)
	if fr.Faculty.Role != "" {
		fmt.Fprintf(&b, "*%s*\n", fr.Faculty.Role)
	}
	b.WriteString("\n")
	if fr.Faculty.Schedule != "" {
		fmt.Fprintf(&b, "**Schedule:** %s\n", fr.Faculty.Schedule)
	}
	if fr.Room != nil {
		fmt.Fprintf(&b, "**Room:** %s (%s)\n", fr.Room.DisplayName(), fr.Room.Floor)
	}
	if !fr.Available {
		b.WriteString("**Note:** Usually not available on this day.\n")
	}
	b.WriteString("\n")
	b.WriteString(RenderRoute(fr.Route))
	return b.String()
}

// RenderSearch formats grouped search hits, at most five per group.
func RenderSearch(r *navigation.SearchResults) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Search Results for %q:**\n\n", r.Query)

	if len(r.Locations) > 0 {
		b.WriteString("**Locations:**\n")
		for _, loc := range head(r.Locations) {
			name := loc.Name
			if loc.FullName != "" && loc.FullName != loc.Name {
				name = fmt.Sprintf("%s (%s)", loc.FullName, loc.Name)
			}
			fmt.Fprintf(&b, "- **%s** - %s\n", name, loc.Floor)
		}
		b.WriteString("\n")
	}

	if len(r.Departments) > 0 {
		b.WriteString("**Departments:**\n")
		for _, d := range head(r.Departments) {
			fmt.Fprintf(&b, "- **%s** - %s", d.Name, d.Floor)
			if len(d.Services) > 0 {
				fmt.Fprintf(&b, " (%s)", strings.Join(d.Services, ", "))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(r.Faculty) > 0 {
		b.WriteString("**Faculty:**\n")
		for _, f := range head(r.Faculty) {
			fmt.Fprintf(&b, "- **%s**", f.Name)
			if f.Role != "" {
				fmt.Fprintf(&b, " - %s", f.Role)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(r.Services) > 0 {
		b.WriteString("**Services:**\n")
		for _, s := range head(r.Services) {
			fmt.Fprintf(&b, "- **%s** at %s", s.Name, s.Department)
			if s.Description != "" {
				fmt.Fprintf(&b, " - %s", s.Description)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Would you like directions to any of these locations?")
	return b.String()
}

func head[T any](items []T) []T {
	if len(items) > maxSearchHits {
		return items[:maxSearchHits]
	}
	return items
}

// formatMinutes drops a trailing ".0" so 5 minutes reads "5", not "5.0".
func formatMinutes(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}
