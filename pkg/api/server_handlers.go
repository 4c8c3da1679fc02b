package api

import (
	"errors"
	"net/http"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/api/middleware"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/graph"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/logging"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/reduction"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/validation"
)

// handleGraphs returns the current snapshot
func (s *Server) handleGraphs(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Current()
	if snap == nil {
		s.respondError(w, http.StatusServiceUnavailable, "no result computed yet")
		return
	}

	s.respond(w, r, http.StatusOK, GraphsResponse{
		Original:   snap.Result.Original,
		After:      snap.Result.After,
		Generation: snap.Generation,
		ComputedAt: snap.ComputedAt,
		Source:     snap.Source,
	})
}

// handleReload recomputes from the configured source. On failure the
// previous snapshot keeps being served.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Recompute(r.Context())
	if err != nil {
		s.logger.Warn("reload failed",
			logging.RequestID(middleware.GetRequestID(r)),
			logging.Error(err),
		)
		s.respond(w, r, http.StatusInternalServerError, ReloadResponse{OK: false, Error: err.Error()})
		return
	}

	s.respond(w, r, http.StatusOK, ReloadResponse{OK: true, Generation: snap.Generation})
}

// handleStep runs one reduction step on a network posted in the body. The
// cached snapshot is not touched.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	var req validation.NetworkRequest
	if s.newRequestDecoder(w, r).DecodeJSON(&req).ValidateNetwork(&req).RespondError() {
		return
	}

	result, err := reduction.Run(req.Nodes, req.Edges, s.stepOptions...)
	if err != nil {
		if graph.IsInvalidEdge(err) || errors.Is(err, graph.ErrInvalidID) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("step failed",
			logging.RequestID(middleware.GetRequestID(r)),
			logging.Error(err),
		)
		s.respondError(w, http.StatusInternalServerError, "step failed")
		return
	}

	s.respond(w, r, http.StatusOK, result)
}
