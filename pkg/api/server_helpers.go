package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/logging"
)

const (
	contentTypeJSON = "application/json"
	contentTypeYAML = "application/yaml"
)

// wantsYAML reports whether the client asked for YAML via ?format=yaml or
// the Accept header.
func wantsYAML(r *http.Request) bool {
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "yaml", "yml":
		return true
	case "json":
		return false
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, contentTypeYAML) || strings.Contains(accept, "text/yaml")
}

// respond writes data as JSON, or YAML when the client asked for it
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	if wantsYAML(r) {
		s.respondYAML(w, status, data)
		return
	}
	s.respondJSON(w, status, data)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode json response", logging.Error(err))
	}
}

func (s *Server) respondYAML(w http.ResponseWriter, status int, data any) {
	out, err := yaml.Marshal(data)
	if err != nil {
		s.logger.Error("failed to encode yaml response", logging.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	w.Header().Set("Content-Type", contentTypeYAML)
	w.WriteHeader(status)
	w.Write(out)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
