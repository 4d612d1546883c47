package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mindtower/pkg/buildinfo"
	"github.com/matzehuels/mindtower/pkg/engine"
	errs "github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/mindmap"
	"github.com/matzehuels/mindtower/pkg/pipeline"
	"github.com/matzehuels/mindtower/pkg/store"
)

// CreateResponse is returned when a diagram is uploaded.
type CreateResponse struct {
	ID       string          `json:"id"`
	Title    string          `json:"title,omitempty"`
	Snapshot engine.Snapshot `json:"snapshot"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string    `json:"error"`
	Code  errs.Code `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": info.Version,
		"commit":  info.Commit,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	if summaries == nil {
		summaries = []store.Summary{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"diagrams": summaries})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	doc, err := mindmap.ReadDocument(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		s.respondError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid diagram"))
		return
	}

	e, err := s.newEngine()
	if err != nil {
		s.respondError(w, err)
		return
	}
	doc.Restore(e)

	id := s.newID()
	s.addSession(id, &session{title: doc.Title, engine: e, dirty: true})
	s.logger.Info("created diagram", "id", id, "nodes", len(doc.Nodes))

	s.respondJSON(w, http.StatusCreated, CreateResponse{
		ID:       id,
		Title:    doc.Title,
		Snapshot: e.Snapshot(),
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	sess.mu.Lock()
	snap := sess.engine.Snapshot()
	sess.mu.Unlock()
	s.respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	var cmd engine.Command
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize)).Decode(&cmd); err != nil {
		s.respondError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid command"))
		return
	}

	sess.mu.Lock()
	snap, err := sess.engine.Apply(cmd)
	if err == nil {
		sess.dirty = true
	}
	sess.mu.Unlock()
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRender(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.session(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.respondError(w, err)
			return
		}
		sess.mu.Lock()
		snap := sess.engine.Snapshot()
		sess.mu.Unlock()

		artifacts, _, err := s.runner.Render(r.Context(), snap, pipeline.RenderOptions{
			Formats:  []string{format},
			Detailed: r.URL.Query().Get("detailed") == "true",
		})
		if err != nil {
			s.respondError(w, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(artifacts[format])
	}
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.session(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if title := r.URL.Query().Get("title"); title != "" {
		sess.title = title
	}
	doc := mindmap.Capture(id, sess.title, sess.engine)
	if err := s.store.Save(r.Context(), doc); err != nil {
		s.respondError(w, err)
		return
	}
	sess.dirty = false
	s.logger.Info("saved diagram", "id", id, "nodes", len(doc.Nodes))
	s.respondJSON(w, http.StatusOK, store.Summary{
		ID:        doc.ID,
		Title:     doc.Title,
		NodeCount: len(doc.Nodes),
		UpdatedAt: doc.UpdatedAt,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	live := s.dropSession(id)
	err := s.store.Delete(r.Context(), id)
	if err != nil && !(live && errors.Is(err, store.ErrNotFound)) {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.respondJSON(w, status, ErrorResponse{Error: errs.UserMessage(err), Code: errs.GetCode(err)})
}

// statusOf maps an error to an HTTP status code.
func statusOf(err error) int {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidID, errs.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errs.ErrCodeLoading:
		return http.StatusConflict
	case errs.ErrCodeStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
