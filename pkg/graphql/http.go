package graphql

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/graphql-go/graphql"
)

// DefaultMaxQueryBytes caps the size of a query document
const DefaultMaxQueryBytes = 64 << 10

// Request represents a GraphQL HTTP request
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// Response represents a GraphQL HTTP response
type Response struct {
	Data   any     `json:"data,omitempty"`
	Errors []Error `json:"errors,omitempty"`
}

// Error represents a GraphQL error
type Error struct {
	Message string `json:"message"`
}

// Handler serves GraphQL over HTTP. Queries arrive as a JSON POST body or,
// for GET, in the query and operationName URL parameters.
type Handler struct {
	schema graphql.Schema
}

// NewHandler creates a handler over provider
func NewHandler(provider SnapshotProvider) (*Handler, error) {
	schema, err := NewSchema(provider)
	if err != nil {
		return nil, err
	}
	return &Handler{schema: schema}, nil
}

// ServeHTTP handles HTTP requests for GraphQL queries
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	switch r.Method {
	case http.MethodGet:
		req.Query = r.URL.Query().Get("query")
		req.OperationName = r.URL.Query().Get("operationName")
	case http.MethodPost:
		body := http.MaxBytesReader(w, r.Body, DefaultMaxQueryBytes)
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writeErrors(w, http.StatusRequestEntityTooLarge, "query too large")
				return
			}
			writeErrors(w, http.StatusBadRequest, "invalid request body")
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		writeErrors(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if req.Query == "" {
		writeErrors(w, http.StatusBadRequest, "query is required")
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	resp := Response{Data: result.Data}
	for _, err := range result.Errors {
		resp.Errors = append(resp.Errors, Error{Message: err.Message})
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeErrors(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Response{Errors: []Error{{Message: msg}}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
