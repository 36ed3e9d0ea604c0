package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/matzehuels/cardgrid/pkg/buildinfo"
	"github.com/matzehuels/cardgrid/pkg/deck"
	apperrors "github.com/matzehuels/cardgrid/pkg/errors"
	"github.com/matzehuels/cardgrid/pkg/pipeline"
)

// LayoutRequest is the body of both layout endpoints.
type LayoutRequest struct {
	deck.Deck
	pipeline.Options
}

// LayoutResponse is returned by POST /v1/layout.
type LayoutResponse struct {
	Layout   deck.Layout `json:"layout"`
	DeckHash string      `json:"deck_hash"`
	Cached   bool        `json:"cached"`
}

// Breakpoint is one entry of a BreakpointsResponse.
type Breakpoint struct {
	Columns  int         `json:"columns"`
	MinWidth float64     `json:"min_width"`
	Layout   deck.Layout `json:"layout"`
}

// BreakpointsResponse is returned by POST /v1/breakpoints.
type BreakpointsResponse struct {
	DeckHash    string       `json:"deck_hash"`
	Breakpoints []Breakpoint `json:"breakpoints"`
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error     ErrorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeLayoutRequest(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), req.Deck, req.Options)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, LayoutResponse{
		Layout:   res.Layout,
		DeckHash: res.DeckHash,
		Cached:   res.CacheHit,
	})
}

func (s *Server) handleBreakpoints(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeLayoutRequest(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	results, err := s.runner.ExecuteBreakpoints(r.Context(), req.Deck, req.Options)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := BreakpointsResponse{Breakpoints: make([]Breakpoint, len(results))}
	for i, res := range results {
		resp.DeckHash = res.DeckHash
		resp.Breakpoints[i] = Breakpoint{
			Columns:  res.Layout.Columns,
			MinWidth: res.Layout.ContainerWidth,
			Layout:   res.Layout,
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// decodeLayoutRequest reads a request body over the configured defaults.
func (s *Server) decodeLayoutRequest(w http.ResponseWriter, r *http.Request) (LayoutRequest, error) {
	req := LayoutRequest{Options: s.cfg.Defaults.Clone()}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return req, errBodyTooLarge{limit: tooLarge.Limit}
		case errors.Is(err, io.EOF):
			return req, apperrors.New(apperrors.ErrCodeInvalidInput, "request body is empty")
		default:
			return req, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body")
		}
	}
	if dec.More() {
		return req, apperrors.New(apperrors.ErrCodeInvalidInput, "request body must hold a single JSON object")
	}
	return req, nil
}

type errBodyTooLarge struct{ limit int64 }

func (e errBodyTooLarge) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.limit)
}

func notFound(r *http.Request) error {
	return apperrors.New(apperrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}

type errMethodNotAllowed struct{ method, path string }

func (e errMethodNotAllowed) Error() string {
	return fmt.Sprintf("method %s not allowed on %s", e.method, e.path)
}

func methodNotAllowed(r *http.Request) error {
	return errMethodNotAllowed{method: r.Method, path: r.URL.Path}
}

// =============================================================================
// Responses
// =============================================================================

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

// respondError maps err to a status and code. Unclassified errors are
// logged and reported as INTERNAL_ERROR without their message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	detail := ErrorDetail{Code: apperrors.GetCode(err), Message: apperrors.UserMessage(err)}

	var (
		tooLarge   errBodyTooLarge
		notAllowed errMethodNotAllowed
		limited    *apperrors.RateLimitedError
	)
	switch {
	case errors.As(err, &tooLarge):
		status, detail.Code = http.StatusRequestEntityTooLarge, apperrors.ErrCodeInvalidInput
	case errors.As(err, &notAllowed):
		status, detail.Code = http.StatusMethodNotAllowed, apperrors.ErrCodeUnsupported
	case errors.As(err, &limited):
		status, detail.Code = http.StatusTooManyRequests, apperrors.ErrCodeRateLimited
	case detail.Code == "":
		s.logger.Error("request failed", "id", RequestIDFromContext(r.Context()), "err", err)
		detail.Code = apperrors.ErrCodeInternal
		detail.Message = "internal error"
	}

	s.respondJSON(w, status, ErrorBody{Error: detail, RequestID: RequestIDFromContext(r.Context())})
}
