// Package graphql exposes navigation queries and restriction changes over GraphQL.
package graphql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dd0wney/cluso-wayfinder/pkg/navigation"
	"github.com/dd0wney/cluso-wayfinder/pkg/overlay"
	"github.com/graphql-go/graphql"
)

// Navigator is the read side of the schema. *navigation.Navigator satisfies it.
type Navigator interface {
	Navigate(start, destination string) (*navigation.PathResult, error)
	NavigateToFaculty(start, name string, day *time.Weekday) (*navigation.FacultyRoute, error)
	FacultyLocations(name string) ([]navigation.FacultyLocation, error)
	Search(query string) *navigation.SearchResults
	LocationCandidates(query string) []navigation.LocationMatch
	QuickAccess(name string) (*navigation.Node, error)
	QuickAccessNames() []string
	Restricted() []string
	IsRestricted(id string) bool
	Graph() *navigation.Graph
	Stats() navigation.Stats
}

// Restrictor applies restriction changes. *overlay.Manager satisfies it.
type Restrictor interface {
	Apply(ctx context.Context, location string, restricted bool, actor string) (*overlay.Change, error)
}

// Authorizer decides whether the caller in ctx may change restrictions and
// returns the name to record as the actor.
type Authorizer func(ctx context.Context) (actor string, err error)

// SchemaConfig wires the schema to its collaborators. Restrictor is optional;
// without it the schema has no mutations. A nil Authorizer allows everyone.
type SchemaConfig struct {
	Navigator  Navigator
	Restrictor Restrictor
	Authorizer Authorizer
}

// NewSchema builds the wayfinder schema.
func NewSchema(cfg SchemaConfig) (graphql.Schema, error) {
	if cfg.Navigator == nil {
		return graphql.Schema{}, errors.New("navigator is required")
	}
	nav := cfg.Navigator

	location := newLocationType(nav.IsRestricted)
	route := newRouteType(location)

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"navigate": &graphql.Field{
				Type:        route,
				Description: "Shortest route between two free-text locations",
				Args: graphql.FieldConfigArgument{
					"start":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"destination": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					start, _ := p.Args["start"].(string)
					dest, _ := p.Args["destination"].(string)
					return nav.Navigate(start, dest)
				},
			},
			"navigateToFaculty": &graphql.Field{
				Type: newFacultyRouteType(location, route),
				Args: graphql.FieldConfigArgument{
					"start":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"faculty": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"day": &graphql.ArgumentConfig{
						Type:        graphql.String,
						Description: "Weekday name used for the availability check",
					},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					start, _ := p.Args["start"].(string)
					name, _ := p.Args["faculty"].(string)
					var day *time.Weekday
					if s, ok := p.Args["day"].(string); ok && s != "" {
						d, err := navigation.ParseWeekday(s)
						if err != nil {
							return nil, err
						}
						day = &d
					}
					return nav.NavigateToFaculty(start, name, day)
				},
			},
			"facultyLocations": &graphql.Field{
				Type: graphql.NewList(facultyLocationType),
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					name, _ := p.Args["name"].(string)
					return nav.FacultyLocations(name)
				},
			},
			"search": &graphql.Field{
				Type: searchResultsType,
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					q, _ := p.Args["query"].(string)
					return nav.Search(q), nil
				},
			},
			"resolveLocation": &graphql.Field{
				Type:        graphql.NewList(newLocationMatchType(location)),
				Description: "Every location a query could resolve to, best match first",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					q, _ := p.Args["query"].(string)
					return nav.LocationCandidates(q), nil
				},
			},
			"quickAccess": &graphql.Field{
				Type: graphql.NewList(newQuickAccessType(location)),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					names := nav.QuickAccessNames()
					out := make([]quickAccessEntry, 0, len(names))
					for _, name := range names {
						node, err := nav.QuickAccess(name)
						if err != nil {
							return nil, fmt.Errorf("quick access %q: %w", name, err)
						}
						out = append(out, quickAccessEntry{Name: name, Location: node})
					}
					return out, nil
				},
			},
			"restrictions": &graphql.Field{
				Type: graphql.NewList(location),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					ids := nav.Restricted()
					out := make([]*navigation.Node, 0, len(ids))
					for _, id := range ids {
						if n, ok := nav.Graph().Node(id); ok {
							out = append(out, n)
						}
					}
					return out, nil
				},
			},
			"stats": &graphql.Field{
				Type: statsType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return nav.Stats(), nil
				},
			},
		},
	})

	schemaConfig := graphql.SchemaConfig{Query: query}
	if cfg.Restrictor != nil {
		schemaConfig.Mutation = newMutationType(cfg, location)
	}

	schema, err := graphql.NewSchema(schemaConfig)
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

func newMutationType(cfg SchemaConfig, location *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"setRestriction": &graphql.Field{
				Type: newRestrictionChangeType(location),
				Args: graphql.FieldConfigArgument{
					"location":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"restricted": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Boolean)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					ctx := p.Context
					if ctx == nil {
						ctx = context.Background()
					}
					actor := ""
					if cfg.Authorizer != nil {
						var err error
						if actor, err = cfg.Authorizer(ctx); err != nil {
							return nil, err
						}
					}
					loc, _ := p.Args["location"].(string)
					restricted, _ := p.Args["restricted"].(bool)
					return cfg.Restrictor.Apply(ctx, loc, restricted, actor)
				},
			},
		},
	})
}
