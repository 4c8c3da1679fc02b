package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/validation"
)

// requestDecoder decodes and validates request bodies with a fluent
// interface; the first failure sticks.
type requestDecoder struct {
	r          *http.Request
	w          http.ResponseWriter
	server     *Server
	err        error
	statusCode int
}

func (s *Server) newRequestDecoder(w http.ResponseWriter, r *http.Request) *requestDecoder {
	return &requestDecoder{r: r, w: w, server: s}
}

// DecodeJSON decodes the body into v, rejecting unknown fields.
func (rd *requestDecoder) DecodeJSON(v any) *requestDecoder {
	if rd.err != nil {
		return rd
	}

	dec := json.NewDecoder(rd.r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			rd.fail(http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", maxErr.Limit))
			return rd
		}
		rd.fail(http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
	}
	return rd
}

// ValidateNetwork checks an inline network's shape
func (rd *requestDecoder) ValidateNetwork(req *validation.NetworkRequest) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if err := validation.ValidateNetworkRequest(req); err != nil {
		rd.fail(http.StatusBadRequest, err)
	}
	return rd
}

func (rd *requestDecoder) fail(status int, err error) {
	rd.statusCode = status
	rd.err = err
}

// RespondError sends the error response and reports whether there was one.
func (rd *requestDecoder) RespondError() bool {
	if rd.err == nil {
		return false
	}
	rd.server.respondError(rd.w, rd.statusCode, rd.err.Error())
	return true
}
