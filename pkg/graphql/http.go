package graphql

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"

	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
)

// GraphQLRequest is the POST body accepted on /graphql.
type GraphQLRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// GraphQLResponse is written for every executed request, including failed ones.
type GraphQLResponse struct {
	Data   any            `json:"data,omitempty"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// GraphQLError is a resolver or validation error with the field path it came from.
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

func toGraphQLErrors(errs []gqlerrors.FormattedError) []GraphQLError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]GraphQLError, len(errs))
	for i, e := range errs {
		out[i] = GraphQLError{Message: e.Message, Path: e.Path}
	}
	return out
}

// GraphQLHandler serves a schema over HTTP POST.
type GraphQLHandler struct {
	schema   graphql.Schema
	maxDepth int
	logger   logging.Logger
}

// NewGraphQLHandler creates a new GraphQL HTTP handler. maxDepth <= 0 uses DefaultMaxDepth.
func NewGraphQLHandler(schema graphql.Schema, maxDepth int, logger logging.Logger) *GraphQLHandler {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &GraphQLHandler{schema: schema, maxDepth: maxDepth, logger: logger.With(logging.Component("graphql"))}
}

// ServeHTTP answers 405 for anything but POST and 400 for an unreadable body.
// Execution errors are reported in the body with status 200.
func (h *GraphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req GraphQLRequest
	switch err := json.NewDecoder(r.Body).Decode(&req); {
	case err != nil:
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	case req.Query == "":
		http.Error(w, "Query is required", http.StatusBadRequest)
		return
	}

	start := time.Now()
	result := ExecuteWithDepthLimit(r.Context(), h.schema, req.Query, h.maxDepth, req.Variables, req.OperationName)
	resp := GraphQLResponse{Data: result.Data, Errors: toGraphQLErrors(result.Errors)}

	h.logger.Debug("graphql request executed",
		logging.Operation(req.OperationName),
		logging.Int("errors", len(resp.Errors)),
		logging.Latency(time.Since(start)))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Warn("failed to write graphql response", logging.Error(err))
	}
}
