package navigation

import (
	"fmt"
	"math"
)

// Walking cost model, in minutes.
const (
	MinutesPerUnit        = 0.5
	MinutesPerFloorChange = 1.0
)

// EstimateMinutes returns the travel time for a route, rounded to one decimal.
func EstimateMinutes(distance, floorChanges int) float64 {
	raw := MinutesPerUnit*float64(distance) + MinutesPerFloorChange*float64(floorChanges)
	return math.Round(raw*10) / 10
}

// Annotate derives floor changes, stair usage, accessibility, time and directions for a path.
func Annotate(path []*Node, distance int, mode Mode) *PathResult {
	result := &PathResult{
		Path:     path,
		Distance: distance,
	}

	for i, n := range path {
		if n.Role == RoleStairs {
			result.UsesStairs = true
		}
		if i > 0 && path[i-1].Level != n.Level {
			result.FloorChanges++
		}
	}

	result.AccessibilityFriendly = !result.UsesStairs || mode == ModeAccessible
	result.EstimatedTimeMinutes = EstimateMinutes(distance, result.FloorChanges)
	result.Directions = directions(path, mode)
	return result
}

func directions(path []*Node, mode Mode) []string {
	if len(path) == 1 {
		return []string{"You are already at your destination."}
	}

	start, dest := path[0], path[len(path)-1]
	steps := []string{fmt.Sprintf("Start at %s (%s)", start.DisplayName(), start.Floor)}

	via := "stairs"
	if mode == ModeAccessible {
		via = "elevator"
	}

	level := start.Level
	for i := 1; i < len(path); i++ {
		n := path[i]
		switch {
		case n.Level != level:
			dir := "up"
			if n.Level < level {
				dir = "down"
			}
			steps = append(steps, fmt.Sprintf("Take the %s %s to %s", via, dir, n.Floor))
			level = n.Level
		case n.Role == RoleConnector:
			steps = append(steps, fmt.Sprintf("Continue through %s", n.Name))
		case n.Role.IsConnector():
			steps = append(steps, fmt.Sprintf("Head to the %s", n.Role))
		case i == len(path)-1:
			steps = append(steps, fmt.Sprintf("Walk to %s", n.DisplayName()))
		default:
			steps = append(steps, fmt.Sprintf("Pass by %s", n.Name))
		}
	}

	steps = append(steps, fmt.Sprintf("Arrive at %s (%s)", dest.DisplayName(), dest.Floor))
	if dest.Description != "" {
		steps = append(steps, dest.Description)
	}
	return steps
}
