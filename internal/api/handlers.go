package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matzehuels/causaltower/pkg/admg"
	"github.com/matzehuels/causaltower/pkg/buildinfo"
	perrors "github.com/matzehuels/causaltower/pkg/errors"
	"github.com/matzehuels/causaltower/pkg/pipeline"
)

// QueryRequest is the body of POST /v1/query. The query options are
// inlined next to the graph.
type QueryRequest struct {
	Graph  string `json:"graph"`
	Source string `json:"source,omitempty"` // grapl (default) or json
	pipeline.Options
}

// RenderRequest is the body of POST /v1/render.
type RenderRequest struct {
	Graph  string `json:"graph"`
	Source string `json:"source,omitempty"`
	pipeline.RenderOptions
}

type errorBody struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

var contentTypes = map[string]string{
	pipeline.RenderSVG: "image/svg+xml",
	pipeline.RenderPNG: "image/png",
	pipeline.RenderPDF: "application/pdf",
	pipeline.RenderDOT: "text/vnd.graphviz; charset=utf-8",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !decode(w, r, &req) {
		return
	}
	g, err := s.graph(req.Graph, req.Source)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	req.Options.Logger = s.logger
	ans, err := s.runner.Query(r.Context(), g, req.Options)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ans)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if !decode(w, r, &req) {
		return
	}
	g, err := s.graph(req.Graph, req.Source)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, _, err := s.runner.Render(r.Context(), g, req.RenderOptions)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	format := req.Format
	if format == "" {
		format = pipeline.RenderSVG
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) graph(src, source string) (*admg.ADMG, error) {
	if src == "" {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "graph is required")
	}
	g, err := pipeline.DecodeGraph("request", []byte(src), source)
	if err != nil {
		return nil, err
	}
	if err := perrors.ValidateGraphSize(g.Len(), s.maxNodes); err != nil {
		return nil, err
	}
	return g, nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, r, status, string(perrors.ErrCodeInvalidInput), "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	err = perrors.Classify(err)
	code := perrors.GetCode(err)
	status := perrors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", RequestIDFromContext(r.Context()))
	}
	writeError(w, r, status, string(code), perrors.UserMessage(err))
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = msg
	body.Error.RequestID = RequestIDFromContext(r.Context())
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
