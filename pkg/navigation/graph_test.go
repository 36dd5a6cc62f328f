package navigation

import (
	"errors"
	"testing"

	"github.com/dd0wney/cluso-wayfinder/pkg/facility"
)

func sampleDescription(t testing.TB) *facility.Description {
	t.Helper()
	desc, err := facility.Sample()
	if err != nil {
		t.Fatalf("facility.Sample() failed: %v", err)
	}
	return desc
}

// elevatorDescription is a two-floor building with both a staircase and an elevator.
func elevatorDescription() *facility.Description {
	return &facility.Description{
		Floors: map[string]*facility.Floor{
			"g": {
				Name:  "Ground",
				Level: 0,
				Locations: []facility.Location{
					{ID: "lobby", Name: "Lobby", Type: facility.TypeRoom},
					{ID: "elevator-g", Name: "Elevator G", Type: facility.TypeNavigation},
					{ID: "stairs-g", Name: "Stairs G", Type: facility.TypeNavigation},
				},
				Corridors: [][]string{{"lobby", "elevator-g", "stairs-g"}},
			},
			"f1": {
				Name:  "First",
				Level: 1,
				Locations: []facility.Location{
					{ID: "elevator-1", Name: "Elevator 1", Type: facility.TypeNavigation},
					{ID: "stairs-1", Name: "Stairs 1", Type: facility.TypeNavigation},
					{ID: "office", Name: "Office", Type: facility.TypeDepartment, FullName: "Main Office"},
				},
				Corridors: [][]string{{"elevator-1", "stairs-1", "office"}},
			},
		},
		Connectors: []facility.Connector{
			{From: "stairs-g", To: "stairs-1", Weight: 3, Kind: facility.KindStairs},
			{From: "elevator-g", To: "elevator-1", Weight: 4, Kind: facility.KindElevator},
		},
	}
}

// connectorDescription mixes a flat ramp with stair and elevator landings whose ids
// carry no hint of their kind.
func connectorDescription() *facility.Description {
	return &facility.Description{
		Floors: map[string]*facility.Floor{
			"g": {
				Name:  "Ground",
				Level: 0,
				Locations: []facility.Location{
					{ID: "lobby", Name: "Lobby", Type: facility.TypeRoom},
					{ID: "ramp-g", Name: "Ramp", Type: facility.TypeNavigation},
					{ID: "desk", Name: "Desk", FullName: "Front Desk", Type: facility.TypeRoom},
					{ID: "landing-g", Name: "Landing G", Type: facility.TypeNavigation},
					{ID: "core-g", Name: "Core G", Type: facility.TypeNavigation},
				},
				Corridors: [][]string{{"lobby", "ramp-g", "desk"}, {"desk", "landing-g"}, {"desk", "core-g"}},
			},
			"f1": {
				Name:  "First",
				Level: 1,
				Locations: []facility.Location{
					{ID: "landing-1", Name: "Landing 1", Type: facility.TypeNavigation},
					{ID: "core-1", Name: "Core 1", Type: facility.TypeNavigation},
					{ID: "studio", Name: "Studio", Type: facility.TypeRoom},
				},
				Corridors: [][]string{{"landing-1", "studio"}, {"core-1", "studio"}},
			},
		},
		Connectors: []facility.Connector{
			{From: "landing-g", To: "landing-1", Weight: 3, Kind: facility.KindStairs},
			{From: "core-g", To: "core-1", Weight: 4, Kind: facility.KindElevator},
		},
	}
}

func TestBuildGraph_Sample(t *testing.T) {
	desc := sampleDescription(t)

	tests := []struct {
		mode     Mode
		edges    int
		vertical int
	}{
		{ModeStandard, 22, 3},
		{ModeAccessible, 19, 0},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			g, err := BuildGraph(desc, tt.mode)
			if err != nil {
				t.Fatalf("BuildGraph failed: %v", err)
			}
			if g.NodeCount() != 23 {
				t.Errorf("Expected 23 nodes, got %d", g.NodeCount())
			}
			if g.EdgeCount() != tt.edges {
				t.Errorf("Expected %d edges, got %d", tt.edges, g.EdgeCount())
			}
			if v := g.VerticalEdges(); len(v) != tt.vertical {
				t.Errorf("Expected %d vertical edges, got %v", tt.vertical, v)
			}
			if g.Mode() != tt.mode {
				t.Errorf("Mode() = %v, want %v", g.Mode(), tt.mode)
			}
		})
	}
}

func TestBuildGraph_NodeOrderFollowsFloors(t *testing.T) {
	g, err := BuildGraph(sampleDescription(t), ModeStandard)
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}

	nodes := g.Nodes()
	if nodes[0].ID != "sps-org-chart" {
		t.Errorf("First node = %s, want sps-org-chart", nodes[0].ID)
	}
	if last := nodes[len(nodes)-1]; last.ID != "comfort-room-3f" || last.Level != 3 {
		t.Errorf("Last node = %s (level %d), want comfort-room-3f on level 3", last.ID, last.Level)
	}
	for i := 1; i < len(nodes); i++ {
		if nodes[i].Level < nodes[i-1].Level {
			t.Fatalf("Node %s (level %d) listed after level %d", nodes[i].ID, nodes[i].Level, nodes[i-1].Level)
		}
	}
}

func TestBuildGraph_EdgesAreSymmetric(t *testing.T) {
	g, err := BuildGraph(sampleDescription(t), ModeStandard)
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}

	for _, n := range g.Nodes() {
		for _, e := range g.Neighbors(n.ID) {
			back, ok := g.Weight(e.To, n.ID)
			if !ok {
				t.Errorf("Edge %s->%s has no reverse", n.ID, e.To)
				continue
			}
			if back != e.Weight {
				t.Errorf("Edge %s->%s weight %d, reverse %d", n.ID, e.To, e.Weight, back)
			}
		}
	}
}

func TestBuildGraph_Weights(t *testing.T) {
	g, err := BuildGraph(sampleDescription(t), ModeStandard)
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}

	tests := []struct {
		from, to string
		want     int
	}{
		{"mis", "institutional-programs", 1},
		{"stairs-1f", "mis", 2},
		{"stairs-1f", "stairs-2f", 3},
		{"stairs-3f", "stairs-2f", 3},
	}
	for _, tt := range tests {
		if w, ok := g.Weight(tt.from, tt.to); !ok || w != tt.want {
			t.Errorf("Weight(%s, %s) = %d, %v; want %d", tt.from, tt.to, w, ok, tt.want)
		}
	}

	if _, ok := g.Weight("mis", "library"); ok {
		t.Error("Expected no direct edge between mis and library")
	}
}

func TestBuildGraph_Roles(t *testing.T) {
	g, err := BuildGraph(elevatorDescription(), ModeStandard)
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}
	sample, err := BuildGraph(sampleDescription(t), ModeStandard)
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}
	// Roles come from the connectors even in a mode that leaves them out.
	links, err := BuildGraph(connectorDescription(), ModeAccessible)
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}

	tests := []struct {
		g    *Graph
		id   string
		want Role
	}{
		{g, "elevator-g", RoleElevator},
		{g, "stairs-1", RoleStairs},
		{g, "office", RoleDepartment},
		{g, "lobby", RoleRoom},
		{sample, "comfort-room-2f", RoleFacility},
		{sample, "comlab1", RoleRoom},
		{sample, "faculty-office", RoleRoom},
		{sample, "stairs-1f", RoleStairs},
		{links, "ramp-g", RoleConnector},
		{links, "landing-g", RoleStairs},
		{links, "landing-1", RoleStairs},
		{links, "core-g", RoleElevator},
	}
	for _, tt := range tests {
		n, ok := tt.g.Node(tt.id)
		if !ok {
			t.Fatalf("Node(%s) missing", tt.id)
		}
		if n.Role != tt.want {
			t.Errorf("Node(%s).Role = %v, want %v", tt.id, n.Role, tt.want)
		}
	}

	mis, _ := sample.Node("mis")
	if !mis.HasServices() {
		t.Error("Expected mis to carry services")
	}
}

func TestRoleOf_Navigation(t *testing.T) {
	stairs := map[string]bool{facility.KindStairs: true}
	elevator := map[string]bool{facility.KindElevator: true}
	both := map[string]bool{facility.KindStairs: true, facility.KindElevator: true}

	tests := []struct {
		name  string
		id    string
		kinds map[string]bool
		want  Role
	}{
		{"stairs id", "north-stairs", nil, RoleStairs},
		{"stairwell id", "stairwell-2", nil, RoleStairs},
		{"elevator id", "elevator-3", nil, RoleElevator},
		{"lift id", "lift-b", nil, RoleElevator},
		{"id outranks connector kind", "lift-b", stairs, RoleElevator},
		{"stairs connector", "landing", stairs, RoleStairs},
		{"elevator connector", "core", elevator, RoleElevator},
		{"both connector kinds", "atrium", both, RoleStairs},
		{"plain link", "ramp", nil, RoleConnector},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := facility.Location{ID: tt.id, Name: tt.id, Type: facility.TypeNavigation}
			if got := roleOf(loc, tt.kinds); got != tt.want {
				t.Errorf("roleOf(%s) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}

	room := facility.Location{ID: "stairs-storage", Type: facility.TypeRoom}
	if got := roleOf(room, stairs); got != RoleRoom {
		t.Errorf("roleOf(room) = %v, want room", got)
	}
}

func TestBuildGraph_ModeSelectsConnectors(t *testing.T) {
	desc := elevatorDescription()

	std, err := BuildGraph(desc, ModeStandard)
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}
	acc, err := BuildGraph(desc, ModeAccessible)
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}

	if _, ok := std.Weight("elevator-g", "elevator-1"); ok {
		t.Error("Standard graph must not contain elevator edges")
	}
	if _, ok := std.Weight("stairs-g", "stairs-1"); !ok {
		t.Error("Standard graph must contain stair edges")
	}
	if _, ok := acc.Weight("stairs-g", "stairs-1"); ok {
		t.Error("Accessible graph must not contain stair edges")
	}
	if w, ok := acc.Weight("elevator-1", "elevator-g"); !ok || w != 4 {
		t.Errorf("Accessible elevator edge weight = %d, %v; want 4", w, ok)
	}
}

func TestBuildGraph_Errors(t *testing.T) {
	if _, err := BuildGraph(nil, ModeStandard); !errors.Is(err, facility.ErrInvalidFacility) {
		t.Errorf("BuildGraph(nil) error = %v, want ErrInvalidFacility", err)
	}

	desc := elevatorDescription()
	desc.Floors["g"].Corridors = [][]string{{"lobby", "ghost"}}
	if _, err := BuildGraph(desc, ModeStandard); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("Expected ErrUnknownNode for dangling corridor, got %v", err)
	}

	desc = elevatorDescription()
	desc.Connectors[0].Weight = 0
	if _, err := BuildGraph(desc, ModeStandard); !errors.Is(err, facility.ErrInvalidFacility) {
		t.Errorf("Expected ErrInvalidFacility for zero weight, got %v", err)
	}

	desc = elevatorDescription()
	desc.Floors["f1"].Locations = append(desc.Floors["f1"].Locations, facility.Location{ID: "lobby", Name: "Lobby", Type: facility.TypeRoom})
	if _, err := BuildGraph(desc, ModeStandard); !errors.Is(err, facility.ErrInvalidFacility) {
		t.Errorf("Expected ErrInvalidFacility for duplicate id, got %v", err)
	}
}
