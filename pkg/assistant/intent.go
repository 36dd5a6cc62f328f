package assistant

import (
	"regexp"
	"strings"
)

// Intent is the detected purpose of a natural-language query.
type Intent string

const (
	IntentRoute   Intent = "route"
	IntentFaculty Intent = "faculty"
	IntentSearch  Intent = "search"
)

var (
	facultyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bwhere (?:is|can i find) (?:ma'?am|sir|prof|professor|teacher|faculty)\b`),
		regexp.MustCompile(`(?i)\b(?:find|locate) (?:ma'?am|sir|prof|professor)\b`),
	}

	routePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bhow (?:do|can) i (?:get|go) (?:to|from)\b|\bnavigate (?:to|from)\b|\bdirections? (?:to|from)\b|\broute (?:to|from)\b|\bway to\b`),
		regexp.MustCompile(`(?i)\b(?:where is|find|locate)\b`),
		regexp.MustCompile(`(?i)\bfrom .+ to .+`),
	}

	fromToRe = regexp.MustCompile(`(?i)\bfrom\s+([a-z0-9'\s-]+?)\s+to\s+([a-z0-9'\s-]+?)\s*[?.!]*$`)
	toFromRe = regexp.MustCompile(`(?i)\bto\s+([a-z0-9'\s-]+?)\s+from\s+([a-z0-9'\s-]+?)\s*[?.!]*$`)
	getToRe  = regexp.MustCompile(`(?i)\b(?:get to|go to|navigate to|directions? to|route to|way to)\s+([a-z0-9'\s-]+?)\s*[?.!]*$`)
	whereRe  = regexp.MustCompile(`(?i)\b(?:where is|find|locate)\s+([a-z0-9'\s-]+?)\s*[?.!]*$`)
	titleRe  = regexp.MustCompile(`(?i)\b(?:ma'?am|sir|prof(?:essor)?|teacher|faculty)\.?\s+([a-z][a-z.\s]*?)\s*(?:[?.!]|$|\bfrom\b|\bat\b)`)
	articles = []string{"the ", "a ", "an "}
)

// navigationKeywords mark a query as navigation-related for IsNavigationQuery.
var navigationKeywords = []string{
	"where", "how", "get to", "go to", "navigate", "direction", "route", "way to",
	"find", "locate", "location", "room", "floor", "building",
	"ma'am", "sir", "professor", "faculty", "teacher",
}

// Classify decides which handler a query belongs to. Faculty phrasing wins over
// route phrasing since "where is ma'am X" matches both.
func Classify(query string) Intent {
	for _, re := range facultyPatterns {
		if re.MatchString(query) {
			return IntentFaculty
		}
	}
	for _, re := range routePatterns {
		if re.MatchString(query) {
			return IntentRoute
		}
	}
	return IntentSearch
}

// IsNavigationQuery reports whether query mentions any navigation keyword.
func IsNavigationQuery(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range navigationKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// RouteQuery is the pair of place names extracted from a route question.
// Start is empty when the query names only a destination.
type RouteQuery struct {
	Start       string
	Destination string
}

// ParseRoute extracts endpoints from "from X to Y", "how do I get to X",
// "navigate to X" and "where is X" phrasings.
func ParseRoute(query string) (RouteQuery, bool) {
	if m := fromToRe.FindStringSubmatch(query); m != nil {
		rq := RouteQuery{Start: cleanPlace(m[1]), Destination: cleanPlace(m[2])}
		return rq, rq.Start != "" && rq.Destination != ""
	}
	if m := toFromRe.FindStringSubmatch(query); m != nil {
		rq := RouteQuery{Start: cleanPlace(m[2]), Destination: cleanPlace(m[1])}
		return rq, rq.Start != "" && rq.Destination != ""
	}

	m := getToRe.FindStringSubmatch(query)
	if m == nil {
		m = whereRe.FindStringSubmatch(query)
	}
	if m == nil {
		return RouteQuery{}, false
	}
	rq := RouteQuery{Destination: cleanPlace(m[1])}
	return rq, rq.Destination != ""
}

// ParseFaculty extracts the name following an honorific such as ma'am, sir or prof.
func ParseFaculty(query string) (string, bool) {
	m := titleRe.FindStringSubmatch(query)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(strings.TrimLeft(m[1], ". "))
	return name, name != ""
}

func cleanPlace(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	for _, a := range articles {
		if strings.HasPrefix(lower, a) {
			return strings.TrimSpace(s[len(a):])
		}
	}
	return s
}
