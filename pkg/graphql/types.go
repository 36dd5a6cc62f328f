package graphql

import (
	"github.com/dd0wney/cluso-wayfinder/pkg/navigation"
	"github.com/graphql-go/graphql"
)

// Object types resolve through graphql-go's default resolver, which matches a
// field name case-insensitively against the Go struct field.

var serviceType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Service",
	Fields: graphql.Fields{
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.String},
		"hours":       &graphql.Field{Type: graphql.String},
	},
})

func newLocationType(isRestricted func(id string) bool) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name:        "Location",
		Description: "A node of the facility graph",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"fullName":    &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"floor":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"floorKey":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"level":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"type":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"services":    &graphql.Field{Type: graphql.NewList(serviceType)},
			"role": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if n, ok := p.Source.(*navigation.Node); ok {
						return n.Role.String(), nil
					}
					return nil, nil
				},
			},
			"restricted": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if n, ok := p.Source.(*navigation.Node); ok {
						return isRestricted(n.ID), nil
					}
					return false, nil
				},
			},
		},
	})
}

func newRouteType(location *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Route",
		Fields: graphql.Fields{
			"path":                  &graphql.Field{Type: graphql.NewList(location)},
			"distance":              &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"directions":            &graphql.Field{Type: graphql.NewList(graphql.String)},
			"floorChanges":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"usesStairs":            &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"estimatedTimeMinutes":  &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"accessibilityFriendly": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"warnings":              &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})
}

var facultyType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Faculty",
	Fields: graphql.Fields{
		"name":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"availability": &graphql.Field{Type: graphql.String},
		"schedule":     &graphql.Field{Type: graphql.String},
		"role":         &graphql.Field{Type: graphql.String},
	},
})

func newFacultyRouteType(location, route *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "FacultyRoute",
		Fields: graphql.Fields{
			"faculty":   &graphql.Field{Type: facultyType},
			"room":      &graphql.Field{Type: location},
			"route":     &graphql.Field{Type: route},
			"available": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		},
	})
}

var facultyLocationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "FacultyLocation",
	Fields: graphql.Fields{
		"roomId":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"floor":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"schedule": &graphql.Field{Type: graphql.String},
	},
})

var locationHitType = graphql.NewObject(graphql.ObjectConfig{
	Name: "LocationHit",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"fullName": &graphql.Field{Type: graphql.String},
		"floor":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"type":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var facultyHitType = graphql.NewObject(graphql.ObjectConfig{
	Name: "FacultyHit",
	Fields: graphql.Fields{
		"name":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"role":         &graphql.Field{Type: graphql.String},
		"availability": &graphql.Field{Type: graphql.String},
		"schedule":     &graphql.Field{Type: graphql.String},
		"roomId":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"floor":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var departmentHitType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DepartmentHit",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"fullName": &graphql.Field{Type: graphql.String},
		"floor":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"services": &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

var serviceHitType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ServiceHit",
	Fields: graphql.Fields{
		"name":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description":  &graphql.Field{Type: graphql.String},
		"hours":        &graphql.Field{Type: graphql.String},
		"departmentId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"department":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"floor":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var searchResultsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SearchResults",
	Fields: graphql.Fields{
		"query":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"locations":   &graphql.Field{Type: graphql.NewList(locationHitType)},
		"faculty":     &graphql.Field{Type: graphql.NewList(facultyHitType)},
		"departments": &graphql.Field{Type: graphql.NewList(departmentHitType)},
		"services":    &graphql.Field{Type: graphql.NewList(serviceHitType)},
		"total": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if r, ok := p.Source.(*navigation.SearchResults); ok {
					return r.Total(), nil
				}
				return 0, nil
			},
		},
	},
})

func newLocationMatchType(location *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "LocationMatch",
		Fields: graphql.Fields{
			"node":    &graphql.Field{Type: location},
			"key":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"match":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"service": &graphql.Field{Type: graphql.String},
		},
	})
}

// quickAccessEntry pairs a shortcut name with the node it resolves to.
type quickAccessEntry struct {
	Name     string
	Location *navigation.Node
}

func newQuickAccessType(location *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "QuickAccess",
		Fields: graphql.Fields{
			"name":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"location": &graphql.Field{Type: location},
		},
	})
}

var statsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Stats",
	Fields: graphql.Fields{
		"mode":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"nodes":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"edges":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"floors":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"faculty":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"restricted": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

func newRestrictionChangeType(location *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "RestrictionChange",
		Fields: graphql.Fields{
			"node":       &graphql.Field{Type: location},
			"restricted": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"changed":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"actor":      &graphql.Field{Type: graphql.String},
			"source":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})
}
