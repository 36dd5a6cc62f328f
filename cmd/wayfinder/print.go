package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-wayfinder/pkg/navigation"
	"github.com/dd0wney/cluso-wayfinder/pkg/overlay"
)

// Styles
var (
	ruleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF"))

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF00"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Width(16)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00")).
			Bold(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

const ruleWidth = 70

func rule() string {
	return ruleStyle.Render(strings.Repeat("=", ruleWidth))
}

func minutes(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}

func field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s%s\n", labelStyle.Render(label), value)
}

// printRoute writes the route report: summary, path overview, then directions.
func printRoute(w io.Writer, r *navigation.PathResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule())
	fmt.Fprintln(w, headingStyle.Render("ROUTE FOUND"))
	fmt.Fprintln(w, rule())
	field(w, "Distance:", fmt.Sprintf("%d units", r.Distance))
	field(w, "Estimated Time:", minutes(r.EstimatedTimeMinutes)+" minutes")
	field(w, "Floor Changes:", strconv.Itoa(r.FloorChanges))
	if r.AccessibilityFriendly {
		field(w, "Accessibility:", "Yes")
	} else {
		field(w, "Accessibility:", warnStyle.Render("Uses stairs"))
	}
	for _, warning := range r.Warnings {
		fmt.Fprintln(w, warnStyle.Render("Note: "+warning))
	}
	fmt.Fprintln(w, rule())
	fmt.Fprintln(w)

	fmt.Fprintln(w, headingStyle.Render("PATH OVERVIEW:"))
	for i, node := range r.Path {
		marker := " "
		switch i {
		case len(r.Path) - 1:
			marker = "*"
		case 0:
			marker = ">"
		}
		fmt.Fprintf(w, "  %s %d. %-30s %s\n", marker, i+1, node.Name, dimStyle.Render("["+node.Floor+"]"))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule())
	fmt.Fprintln(w, headingStyle.Render("STEP-BY-STEP DIRECTIONS:"))
	fmt.Fprintln(w, rule())
	fmt.Fprintln(w)
	for _, step := range r.Directions {
		fmt.Fprintf(w, "  %s\n", step)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule())
}

// printFacultyRoute notes availability before the route itself.
func printFacultyRoute(w io.Writer, fr *navigation.FacultyRoute) {
	if !fr.Available {
		fmt.Fprintln(w, warnStyle.Render(fr.Faculty.Name+" is typically not available on this day."))
		fmt.Fprintf(w, "   Schedule: %s\n", orNA(fr.Faculty.Schedule))
	}
	role := fr.Faculty.Role
	if role == "" {
		role = "Faculty"
	}
	fmt.Fprintf(w, "%s - %s (%s, %s)\n", fr.Faculty.Name, role, fr.Room.DisplayName(), fr.Room.Floor)
	printRoute(w, fr.Route)
}

func printFacultyLocations(w io.Writer, name string, locs []navigation.FacultyLocation) {
	fmt.Fprintln(w, headingStyle.Render(name))
	for _, l := range locs {
		fmt.Fprintf(w, "  - %-12s %-14s %s\n", l.RoomID, l.Floor, dimStyle.Render(l.Schedule))
	}
}

func printSearch(w io.Writer, r *navigation.SearchResults) {
	if r.Total() == 0 {
		fmt.Fprintf(w, "No results for %q\n", r.Query)
		return
	}
	if len(r.Services) > 0 {
		fmt.Fprintln(w, headingStyle.Render("Services found:"))
		for _, s := range r.Services {
			fmt.Fprintf(w, "  - %s (%s, %s)", s.Name, s.Department, s.Floor)
			if s.Description != "" {
				fmt.Fprintf(w, ": %s", s.Description)
			}
			fmt.Fprintln(w)
		}
	}
	if len(r.Locations) > 0 {
		fmt.Fprintln(w, headingStyle.Render("Locations found:"))
		for _, l := range r.Locations {
			fmt.Fprintf(w, "  - %s [%s]\n", nameOf(l.Name, l.FullName), l.Floor)
		}
	}
	if len(r.Departments) > 0 {
		fmt.Fprintln(w, headingStyle.Render("Departments found:"))
		for _, d := range r.Departments {
			fmt.Fprintf(w, "  - %s [%s]\n", nameOf(d.Name, d.FullName), d.Floor)
		}
	}
	if len(r.Faculty) > 0 {
		fmt.Fprintln(w, headingStyle.Render("Faculty found:"))
		for _, f := range r.Faculty {
			fmt.Fprintf(w, "  - %s, %s (%s) %s\n", f.Name, orNA(f.Role), f.RoomID, dimStyle.Render(f.Schedule))
		}
	}
}

func printCandidates(w io.Writer, query string, cands []navigation.LocationMatch) {
	if len(cands) == 0 {
		fmt.Fprintf(w, "No location matches %q\n", query)
		return
	}
	for i, c := range cands {
		via := ""
		if c.Service != "" {
			via = " via " + c.Service
		}
		fmt.Fprintf(w, "%2d. %-28s %-8s %s%s\n", i+1, c.Node.DisplayName(), c.Match, dimStyle.Render("["+c.Node.Floor+"]"), via)
	}
}

func printChange(w io.Writer, c *overlay.Change) {
	state := "open"
	if c.Restricted {
		state = "restricted"
	}
	if !c.Changed {
		fmt.Fprintf(w, "%s is already %s\n", c.Node.DisplayName(), state)
		return
	}
	fmt.Fprintf(w, "%s is now %s\n", c.Node.DisplayName(), state)
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errStyle.Render("Error: "+err.Error()))
}

func nameOf(name, fullName string) string {
	if fullName != "" && fullName != name {
		return fmt.Sprintf("%s (%s)", name, fullName)
	}
	return name
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
