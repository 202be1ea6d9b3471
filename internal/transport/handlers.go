package transport

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/pnaas/internal/domain/project"
)

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexPage)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.logger.WarnContext(r.Context(), "health check failed", "error", err)
			writeText(w, http.StatusServiceUnavailable, msgUnavailable)
			return
		}
	}
	writeText(w, http.StatusOK, "ok")
}

func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	doc, err := s.projects.Retrieve(r.Context(), chi.URLParam(r, "resid"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := json.Marshal(doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleSubmit requires both owner and desc to be present as form keys.
// Empty values are accepted.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	form, ok := parseForm(w, r)
	if !ok || !form.Has("owner") || !form.Has("desc") {
		writeText(w, http.StatusBadRequest, msgMissingData)
		return
	}

	proj, err := s.projects.Submit(r.Context(), project.SubmitRequest{
		Owner: form.Get("owner"),
		Desc:  form.Get("desc"),
		IP:    clientIP(r),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeText(w, http.StatusOK, proj.ResID)
}

func (s *Server) handleRespond(w http.ResponseWriter, r *http.Request) {
	form, ok := parseForm(w, r)
	if !ok || !form.Has("response") {
		writeText(w, http.StatusBadRequest, msgMissingData)
		return
	}

	doc, err := s.projects.Respond(r.Context(), chi.URLParam(r, "resid"), form.Get("response"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeText(w, http.StatusOK, string(doc.Status))
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, project.ErrProjectNotFound) {
		writeText(w, http.StatusNotFound, msgNotFound)
		return
	}
	s.logger.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
	writeText(w, http.StatusInternalServerError, msgInternalError)
}

// parseForm reads url-encoded or multipart bodies. Only body fields count,
// query string parameters are ignored.
func parseForm(w http.ResponseWriter, r *http.Request) (url.Values, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	err := r.ParseMultipartForm(maxFormBytes)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, false
	}
	return r.PostForm, true
}

// clientIP is the host part of the remote address, or LocalIP when unknown.
func clientIP(r *http.Request) string {
	addr := r.RemoteAddr
	if addr == "" {
		return project.LocalIP
	}
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	if ip := net.ParseIP(addr); ip != nil {
		return ip.String()
	}
	return project.LocalIP
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
