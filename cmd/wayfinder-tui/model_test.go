package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-wayfinder/pkg/facility"
	"github.com/dd0wney/cluso-wayfinder/pkg/navigation"
	"github.com/dd0wney/cluso-wayfinder/pkg/overlay"
	"github.com/dd0wney/cluso-wayfinder/pkg/store"
)

func newTestModel(t *testing.T) model {
	t.Helper()
	desc, err := facility.Sample()
	if err != nil {
		t.Fatalf("facility.Sample() error = %v", err)
	}
	nav, err := navigation.New(desc)
	if err != nil {
		t.Fatalf("navigation.New() error = %v", err)
	}
	return initialModel(nav, overlay.NewManager(nav, store.NewMemoryStore()), "MIS")
}

func press(m model, k tea.KeyType) model {
	next, _ := m.Update(tea.KeyMsg{Type: k})
	return next.(model)
}

func TestTabCycling(t *testing.T) {
	m := newTestModel(t)

	m = press(m, tea.KeyTab)
	if m.currentView != routeView {
		t.Fatalf("view = %d, want routeView", m.currentView)
	}
	if !m.fromInput.Focused() {
		t.Error("from input should be focused on the route view")
	}

	m = press(m, tea.KeyShiftTab)
	m = press(m, tea.KeyShiftTab)
	if m.currentView != restrictionsView {
		t.Errorf("view = %d, want restrictionsView", m.currentView)
	}
}

func TestFindRoute(t *testing.T) {
	m := newTestModel(t)
	m.toInput.SetValue("Library")
	m.findRoute()

	if m.messageErr {
		t.Fatalf("findRoute() failed: %s", m.message)
	}
	if m.route == nil || m.route.Distance != 7 {
		t.Fatalf("route = %+v, want distance 7", m.route)
	}

	summary := routeSummary(m.route)
	if !strings.HasPrefix(summary, "Distance: 7 units") {
		t.Errorf("summary = %q", summary)
	}
	if got := strings.Count(summary, "\n"); got < len(m.route.Directions) {
		t.Errorf("summary has %d lines, want at least %d", got, len(m.route.Directions))
	}

	m.toInput.SetValue("")
	m.findRoute()
	if !m.messageErr {
		t.Error("empty destination should fail")
	}
}

func TestSearchRows(t *testing.T) {
	m := newTestModel(t)
	m.searchInput.SetValue("print")
	m.runSearch()

	rows := m.resultTable.Rows()
	if len(rows) < 2 {
		t.Fatalf("rows = %d, want at least 2", len(rows))
	}
	if rows[0][0] != "service" || rows[0][1] != "ID Printing" {
		t.Errorf("first row = %v", rows[0])
	}
}

func TestSetRestriction(t *testing.T) {
	m := newTestModel(t)
	m.placeInput.SetValue("Library")

	m.setRestriction(true)
	if m.messageErr {
		t.Fatalf("setRestriction() failed: %s", m.message)
	}
	if m.stats.Restricted != 1 {
		t.Errorf("restricted = %d, want 1", m.stats.Restricted)
	}
	if !strings.Contains(m.renderRestrictions(), "Learning Resource Center") {
		t.Error("restrictions view should list the library")
	}

	m.setRestriction(false)
	if m.stats.Restricted != 0 {
		t.Errorf("restricted = %d, want 0", m.stats.Restricted)
	}

	m.placeInput.SetValue("zzzz")
	m.setRestriction(true)
	if !m.messageErr {
		t.Error("unknown location should fail")
	}
}

func TestViewBeforeResize(t *testing.T) {
	m := newTestModel(t)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q", got)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if out := next.(model).View(); !strings.Contains(out, "Quick Access") {
		t.Error("dashboard should list quick access entries")
	}
}
