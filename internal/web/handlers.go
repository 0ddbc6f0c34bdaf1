package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/buildprops/internal/core"
	"github.com/JonMunkholm/buildprops/internal/logging"
	"github.com/JonMunkholm/buildprops/internal/render"
	"github.com/JonMunkholm/buildprops/internal/web/templates"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes caps the property payload of one build.
const maxBodyBytes = 1 << 20

// ViewResponse describes a registered view in API responses.
type ViewResponse struct {
	Key     string `json:"key"`
	Title   string `json:"title"`
	Pattern string `json:"pattern,omitempty"`
}

// RecordResponse is returned after properties are stored.
type RecordResponse struct {
	Job      string `json:"job"`
	Build    string `json:"build"`
	Recorded int    `json:"recorded"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIndex lists every job with a link per view.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.service.Jobs(r.Context())
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	views := s.service.Views()
	links := make([]templates.ViewLink, 0, len(views))
	for _, v := range views {
		links = append(links, templates.ViewLink{Key: v.Key, Title: v.Title, Pattern: v.Pattern})
	}

	s.renderPage(w, r, "Build properties", templates.Index(jobs, links))
}

// handleTableView renders one view of a job as an HTML table.
func (s *Server) handleTableView(w http.ResponseWriter, r *http.Request) {
	job := chi.URLParam(r, "job")
	viewKey := chi.URLParam(r, "view")

	t, err := s.service.BuildTable(r.Context(), job, viewKey)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	s.renderPage(w, r, job, templates.TableView(templates.TableViewParams{
		Job:     job,
		ViewKey: viewKey,
		Title:   t.Title(),
		Headers: t.Headers(),
		Rows:    t.Rows(),
	}))
}

// handleTableJSON returns one view of a job as a JSON document.
func (s *Server) handleTableJSON(w http.ResponseWriter, r *http.Request) {
	t, err := s.service.BuildTable(r.Context(), chi.URLParam(r, "job"), chi.URLParam(r, "view"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, http.StatusOK, render.NewDocument(t))
}

func (s *Server) handleListViews(w http.ResponseWriter, r *http.Request) {
	views := s.service.Views()
	resp := make([]ViewResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, ViewResponse{Key: v.Key, Title: v.Title, Pattern: v.Pattern})
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.service.Jobs(r.Context())
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if jobs == nil {
		jobs = []string{}
	}
	writeJSON(w, r, http.StatusOK, jobs)
}

// handleRecordProperties stores a JSON object of property name to value
// for one build.
func (s *Server) handleRecordProperties(w http.ResponseWriter, r *http.Request) {
	job := chi.URLParam(r, "job")
	build := chi.URLParam(r, "build")

	var props map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&props); err != nil {
		err = fmt.Errorf("decode properties: %w: %w", core.ErrInvalidBody, err)
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if props == nil {
		s.respondError(w, r, fmt.Errorf("decode properties: %w: expected an object", core.ErrInvalidBody), http.StatusBadRequest)
		return
	}

	n, err := s.service.RecordProperties(withReporter(r.Context(), r), job, build, props)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, r, http.StatusCreated, RecordResponse{Job: job, Build: build, Recorded: n})
}

// renderPage writes c inside the page shell.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, title string, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Page(title, c).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}
