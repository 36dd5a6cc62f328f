package facility

import (
	"errors"
	"strings"
	"testing"
)

func validDescription() *Description {
	return &Description{
		Floors: map[string]*Floor{
			"ground": {
				Name:  "Ground Floor",
				Level: 0,
				Locations: []Location{
					{ID: "lobby", Name: "Lobby", Type: TypeRoom},
					{ID: "stairs-g", Name: "Stairs G", Type: TypeNavigation},
				},
				Corridors: [][]string{{"lobby", "stairs-g"}},
			},
			"first": {
				Name:  "First Floor",
				Level: 1,
				Locations: []Location{
					{ID: "stairs-1", Name: "Stairs 1", Type: TypeNavigation},
					{ID: "office", Name: "Office", Type: TypeDepartment},
				},
				Corridors: [][]string{{"stairs-1", "office"}},
			},
		},
		Connectors: []Connector{
			{From: "stairs-g", To: "stairs-1", Weight: 3, Kind: KindStairs},
		},
		Faculty: []Faculty{
			{Name: "Ada", PrimaryLocation: &LocationRef{Floor: "first", Room: "office"}},
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := Validate(validDescription()); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Description)
		want   string
	}{
		{
			name:   "no floors",
			mutate: func(d *Description) { d.Floors = nil },
			want:   "Floors",
		},
		{
			name: "duplicate id",
			mutate: func(d *Description) {
				d.Floors["first"].Locations = append(d.Floors["first"].Locations, Location{ID: "lobby", Name: "Lobby 2", Type: TypeRoom})
			},
			want: `location "lobby" declared on both`,
		},
		{
			name:   "corridor crosses floors",
			mutate: func(d *Description) { d.Floors["ground"].Corridors = [][]string{{"lobby", "office"}} },
			want:   `belongs to floor "first"`,
		},
		{
			name:   "corridor unknown id",
			mutate: func(d *Description) { d.Floors["ground"].Corridors = [][]string{{"lobby", "ghost"}} },
			want:   `unknown location "ghost"`,
		},
		{
			name:   "corridor too short",
			mutate: func(d *Description) { d.Floors["ground"].Corridors = [][]string{{"lobby"}} },
			want:   "Corridors",
		},
		{
			name:   "bad connector kind",
			mutate: func(d *Description) { d.Connectors[0].Kind = "ladder" },
			want:   "must be one of",
		},
		{
			name:   "zero weight",
			mutate: func(d *Description) { d.Connectors[0].Weight = 0 },
			want:   "must be greater than 0",
		},
		{
			name: "connector without navigation endpoint",
			mutate: func(d *Description) {
				d.Connectors = append(d.Connectors, Connector{From: "lobby", To: "office", Weight: 2, Kind: KindStairs})
			},
			want: "has no navigation endpoint",
		},
		{
			name:   "faculty wrong floor",
			mutate: func(d *Description) { d.Faculty[0].PrimaryLocation.Floor = "ground" },
			want:   `is on floor "first"`,
		},
		{
			name:   "faculty unknown floor",
			mutate: func(d *Description) { d.Faculty[0].PrimaryLocation.Floor = "roof" },
			want:   `unknown floor "roof"`,
		},
		{
			name:   "faculty missing primary",
			mutate: func(d *Description) { d.Faculty[0].PrimaryLocation = nil },
			want:   "PrimaryLocation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDescription()
			tt.mutate(d)

			err := Validate(d)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !errors.Is(err, ErrInvalidFacility) {
				t.Errorf("Expected ErrInvalidFacility, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Error %q does not mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestFacultyRooms(t *testing.T) {
	f := Faculty{
		Name:            "Ada",
		PrimaryLocation: &LocationRef{Floor: "first", Room: "office"},
		Locations:       []LocationRef{{Floor: "ground", Room: "lobby"}},
	}
	rooms := f.Rooms()
	if len(rooms) != 2 || rooms[0].Room != "office" || rooms[1].Room != "lobby" {
		t.Errorf("Rooms() = %+v, want primary first", rooms)
	}
}
