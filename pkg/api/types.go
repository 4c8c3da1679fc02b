package api

import (
	"time"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/reduction"
)

// GraphsResponse is the current snapshot: both views plus provenance.
type GraphsResponse struct {
	Original   *reduction.OriginalView `json:"original" yaml:"original"`
	After      *reduction.AfterView    `json:"after" yaml:"after"`
	Generation string                  `json:"generation" yaml:"generation"`
	ComputedAt time.Time               `json:"computedAt" yaml:"computedAt"`
	Source     string                  `json:"source" yaml:"source"`
}

// ReloadResponse reports the outcome of a recompute
type ReloadResponse struct {
	OK         bool   `json:"ok" yaml:"ok"`
	Generation string `json:"generation,omitempty" yaml:"generation,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" yaml:"error"`
	Message string `json:"message" yaml:"message"`
	Code    int    `json:"code" yaml:"code"`
}
