package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/pkgtopo/pkg/buildinfo"
	"github.com/matzehuels/pkgtopo/pkg/errors"
	"github.com/matzehuels/pkgtopo/pkg/pipeline"
	"github.com/matzehuels/pkgtopo/pkg/registry"
	"github.com/matzehuels/pkgtopo/pkg/render"
	"github.com/matzehuels/pkgtopo/pkg/store"
)

// =============================================================================
// Request Types
// =============================================================================

type layoutRequest struct {
	Packages      []registry.Package `json:"packages"`
	Compact       bool               `json:"compact,omitempty"`
	IncludeYanked bool               `json:"include_yanked,omitempty"`
}

type renderRequest struct {
	layoutRequest
	Highlight []string `json:"highlight,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"`
	Title     string   `json:"title,omitempty"`
}

type snapshotRequest struct {
	Name     string             `json:"name"`
	Packages []registry.Package `json:"packages"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.run(w, r, pipeline.Options{
		Source:        pipeline.SourceInline,
		Packages:      req.Packages,
		Compact:       req.Compact,
		IncludeYanked: req.IncludeYanked,
		Formats:       []render.Format{render.FormatJSON},
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req renderRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.run(w, r, pipeline.Options{
		Source:        pipeline.SourceInline,
		Packages:      req.Packages,
		Compact:       req.Compact,
		IncludeYanked: req.IncludeYanked,
		Formats:       []render.Format{format},
		Highlight:     req.Highlight,
		Detailed:      req.Detailed,
		Title:         req.Title,
	})
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name != "" {
		if err := store.ValidateName(name); err != nil {
			writeError(w, err)
			return
		}
	}
	summaries, err := s.store.List(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	if summaries == nil {
		summaries = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshots": summaries})
}

func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	pkgs, warnings, err := registry.Normalize(req.Packages)
	if err != nil {
		writeError(w, err)
		return
	}
	snap, err := store.NewSnapshot(req.Name, pkgs)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), snap); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("snapshot saved", "id", snap.ID, "name", snap.Name, "packages", snap.PackageCount)

	w.Header().Set("Location", "/v1/snapshots/"+snap.ID)
	writeJSON(w, http.StatusCreated, struct {
		store.Summary
		Warnings []string `json:"warnings,omitempty"`
	}{snap.Summary(), warnings})
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := snapshotID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	snap, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := snapshotID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("snapshot deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSnapshotLayout(w http.ResponseWriter, r *http.Request) {
	id, err := snapshotID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts := pipeline.Options{
		Source:   pipeline.SourceSnapshot,
		Snapshot: id,
		Formats:  []render.Format{render.FormatJSON},
	}
	if err := applyQuery(r, &opts); err != nil {
		writeError(w, err)
		return
	}
	s.run(w, r, opts)
}

func (s *Server) handleSnapshotRender(w http.ResponseWriter, r *http.Request) {
	id, err := snapshotID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, err)
		return
	}
	opts := pipeline.Options{
		Source:   pipeline.SourceSnapshot,
		Snapshot: id,
		Formats:  []render.Format{format},
	}
	if err := applyQuery(r, &opts); err != nil {
		writeError(w, err)
		return
	}
	s.run(w, r, opts)
}

// run executes the pipeline for a single format and writes the artifact.
func (s *Server) run(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	opts.Logger = s.logger
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	format := opts.Formats[0]
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Pkgtopo-Set-Hash", result.SetHash)
	w.Header().Set("X-Pkgtopo-Cache", cacheHeader(result.CacheInfo))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// =============================================================================
// Helpers
// =============================================================================

func snapshotID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if err := store.ValidateID(id); err != nil {
		return "", err
	}
	return id, nil
}

// applyQuery reads compact, include_yanked, detailed and highlight.
func applyQuery(r *http.Request, opts *pipeline.Options) error {
	q := r.URL.Query()
	for key, dst := range map[string]*bool{
		"compact":        &opts.Compact,
		"include_yanked": &opts.IncludeYanked,
		"detailed":       &opts.Detailed,
	} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "query parameter %s: %q is not a boolean", key, v)
		}
		*dst = b
	}
	if h := q.Get("highlight"); h != "" {
		for name := range strings.SplitSeq(h, ",") {
			if name = strings.TrimSpace(name); name != "" {
				opts.Highlight = append(opts.Highlight, name)
			}
		}
	}
	opts.Title = q.Get("title")
	return nil
}

func cacheHeader(info pipeline.CacheInfo) string {
	switch {
	case info.RenderHit:
		return "hit"
	case info.LayoutHit:
		return "layout"
	}
	return "miss"
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func notFoundError(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status and a JSON error body.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		code = errors.ErrCodeNotFound
	case code == "":
		code = errors.ErrCodeInternal
	}
	status := errors.HTTPStatus(errors.New(code, ""))
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}
