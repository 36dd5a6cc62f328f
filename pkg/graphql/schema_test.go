package graphql

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-wayfinder/pkg/facility"
	"github.com/dd0wney/cluso-wayfinder/pkg/navigation"
	"github.com/dd0wney/cluso-wayfinder/pkg/overlay"
	"github.com/dd0wney/cluso-wayfinder/pkg/store"
	"github.com/graphql-go/graphql"
)

func newTestNavigator(t *testing.T) *navigation.Navigator {
	t.Helper()
	desc, err := facility.Sample()
	if err != nil {
		t.Fatalf("facility.Sample() failed: %v", err)
	}
	nav, err := navigation.New(desc)
	if err != nil {
		t.Fatalf("navigation.New failed: %v", err)
	}
	return nav
}

func newTestSchema(t *testing.T, nav *navigation.Navigator, authorizer Authorizer) graphql.Schema {
	t.Helper()
	schema, err := NewSchema(SchemaConfig{
		Navigator:  nav,
		Restrictor: overlay.NewManager(nav, store.NewMemoryStore()),
		Authorizer: authorizer,
	})
	if err != nil {
		t.Fatalf("NewSchema failed: %v", err)
	}
	return schema
}

func mustData(t *testing.T, result *graphql.Result) map[string]any {
	t.Helper()
	if result.HasErrors() {
		t.Fatalf("Unexpected errors: %v", result.Errors)
	}
	data, ok := result.Data.(map[string]any)
	if !ok {
		t.Fatalf("Data = %T", result.Data)
	}
	return data
}

func TestNewSchema_RequiresNavigator(t *testing.T) {
	if _, err := NewSchema(SchemaConfig{}); err == nil {
		t.Error("Expected error without navigator")
	}
}

func TestQuery_Navigate(t *testing.T) {
	schema := newTestSchema(t, newTestNavigator(t), nil)

	result := ExecuteQuery(context.Background(), schema, `{
		navigate(start: "MIS", destination: "Library") {
			distance
			floorChanges
			estimatedTimeMinutes
			accessibilityFriendly
			path { id role floor }
		}
	}`)
	route := mustData(t, result)["navigate"].(map[string]any)

	if route["distance"] != 7 {
		t.Errorf("distance = %v, want 7", route["distance"])
	}
	if route["floorChanges"] != 2 {
		t.Errorf("floorChanges = %v, want 2", route["floorChanges"])
	}
	if route["estimatedTimeMinutes"] != 5.5 {
		t.Errorf("estimatedTimeMinutes = %v, want 5.5", route["estimatedTimeMinutes"])
	}
	path := route["path"].([]any)
	if len(path) != 5 {
		t.Fatalf("path has %d nodes, want 5", len(path))
	}
	second := path[1].(map[string]any)
	if second["id"] != "stairs-1f" || second["role"] != "stairs" {
		t.Errorf("second hop = %v", second)
	}
}

func TestQuery_NavigateUnknownDestination(t *testing.T) {
	schema := newTestSchema(t, newTestNavigator(t), nil)

	result := ExecuteQuery(context.Background(), schema, `{ navigate(start: "MIS", destination: "Atlantis") { distance } }`)
	if !result.HasErrors() {
		t.Fatal("Expected an error for an unknown destination")
	}
	if !strings.Contains(result.Errors[0].Message, "destination not found") {
		t.Errorf("Error = %q", result.Errors[0].Message)
	}
}

func TestQuery_NavigateToFaculty(t *testing.T) {
	schema := newTestSchema(t, newTestNavigator(t), nil)

	result := ExecuteQueryWithVariables(context.Background(), schema,
		`query($day: String) {
			navigateToFaculty(start: "MIS", faculty: "Mark Valencia", day: $day) {
				available
				faculty { name role }
				room { id }
				route { distance }
			}
		}`,
		map[string]any{"day": "monday"}, "")
	fr := mustData(t, result)["navigateToFaculty"].(map[string]any)

	if fr["available"] != false {
		t.Errorf("available = %v, want false on Monday", fr["available"])
	}
	if room := fr["room"].(map[string]any); room["id"] != "comlab2" {
		t.Errorf("room = %v, want comlab2", room)
	}
	if faculty := fr["faculty"].(map[string]any); faculty["role"] != "Part-time Instructor" {
		t.Errorf("faculty = %v", faculty)
	}

	bad := ExecuteQuery(context.Background(), schema, `{ navigateToFaculty(start: "MIS", faculty: "Mark Valencia", day: "funday") { available } }`)
	if !bad.HasErrors() {
		t.Error("Expected an error for an invalid day")
	}
}

func TestQuery_SearchAndResolve(t *testing.T) {
	schema := newTestSchema(t, newTestNavigator(t), nil)

	result := ExecuteQuery(context.Background(), schema, `{
		search(query: "print") { total services { name departmentId } }
		resolveLocation(query: "comlab") { match node { id } }
		quickAccess { name location { id } }
		stats { nodes floors faculty }
	}`)
	data := mustData(t, result)

	search := data["search"].(map[string]any)
	if search["total"] != 2 {
		t.Errorf("search total = %v, want 2", search["total"])
	}
	services := search["services"].([]any)
	if first := services[0].(map[string]any); first["departmentId"] != "mis" {
		t.Errorf("first service = %v", first)
	}

	matches := data["resolveLocation"].([]any)
	if len(matches) != 2 {
		t.Fatalf("resolveLocation returned %d matches, want 2", len(matches))
	}
	if first := matches[0].(map[string]any); first["match"] != navigation.MatchPrefix {
		t.Errorf("first match = %v", first)
	}

	qa := data["quickAccess"].([]any)
	if len(qa) != 3 {
		t.Fatalf("quickAccess returned %d entries, want 3", len(qa))
	}
	if first := qa[0].(map[string]any); first["name"] != "payments" {
		t.Errorf("first quick access = %v", first)
	}

	if stats := data["stats"].(map[string]any); stats["floors"] != 4 || stats["faculty"] != 3 {
		t.Errorf("stats = %v", stats)
	}
}

func TestMutation_SetRestriction(t *testing.T) {
	nav := newTestNavigator(t)
	schema := newTestSchema(t, nav, func(ctx context.Context) (string, error) {
		return "ops", nil
	})

	result := ExecuteQuery(context.Background(), schema, `mutation {
		setRestriction(location: "Library", restricted: true) { changed actor node { id restricted } }
	}`)
	change := mustData(t, result)["setRestriction"].(map[string]any)
	if change["changed"] != true || change["actor"] != "ops" {
		t.Errorf("change = %v", change)
	}
	if node := change["node"].(map[string]any); node["restricted"] != true {
		t.Errorf("node = %v", node)
	}

	listed := mustData(t, ExecuteQuery(context.Background(), schema, `{ restrictions { id } }`))
	if r := listed["restrictions"].([]any); len(r) != 1 || r[0].(map[string]any)["id"] != "library" {
		t.Errorf("restrictions = %v", r)
	}
}

func TestMutation_Unauthorized(t *testing.T) {
	nav := newTestNavigator(t)
	denied := errors.New("missing bearer token")
	schema := newTestSchema(t, nav, func(ctx context.Context) (string, error) {
		return "", denied
	})

	result := ExecuteQuery(context.Background(), schema, `mutation { setRestriction(location: "Library", restricted: true) { changed } }`)
	if !result.HasErrors() || !strings.Contains(result.Errors[0].Message, "missing bearer token") {
		t.Fatalf("Expected authorization error, got %v", result.Errors)
	}
	if nav.IsRestricted("library") {
		t.Error("Unauthorized mutation must not apply")
	}
}

func TestSchema_WithoutRestrictorHasNoMutations(t *testing.T) {
	schema, err := NewSchema(SchemaConfig{Navigator: newTestNavigator(t)})
	if err != nil {
		t.Fatalf("NewSchema failed: %v", err)
	}
	result := ExecuteQuery(context.Background(), schema, `mutation { setRestriction(location: "Library", restricted: true) { changed } }`)
	if !result.HasErrors() {
		t.Error("Expected mutation to be rejected without a restrictor")
	}
}
