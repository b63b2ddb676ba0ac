// Package web serves the HTTP API and the built-in chat page.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/docai/docai"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes sources, search and ask over HTTP.
type Server struct {
	Sources docai.SourceService
	Search  docai.SearchService
	Asker   docai.Asker
	Logger  *slog.Logger

	Addr string

	srv *http.Server
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/", s.handleIndex)

	r.Route("/api", func(r chi.Router) {
		r.Get("/sources", s.handleListSources)
		r.Post("/search", s.handleSearch)
		r.Post("/ask", s.handleAsk)
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- s.srv.ListenAndServe()
	}()

	s.Logger.Info("web server listening", "addr", s.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(begin),
		)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	filter := docai.SourceFilter{
		EnabledOnly: r.URL.Query().Get("enabled") == "true",
		IndexedOnly: r.URL.Query().Get("indexed") == "true",
		Tag:         r.URL.Query().Get("tag"),
	}

	sources, err := s.Sources.FindSources(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sources": sources})
}

type queryRequest struct {
	Question string   `json:"question"`
	Query    string   `json:"query"`
	Sources  []string `json:"sources,omitempty"`
	Limit    int      `json:"limit,omitempty"`
	MinScore float32  `json:"minScore,omitempty"`
}

func (req *queryRequest) text() string {
	if req.Question != "" {
		return req.Question
	}
	return req.Query
}

func (req *queryRequest) options() docai.SearchOptions {
	return docai.SearchOptions{
		SourceIDs: req.Sources,
		Limit:     req.Limit,
		MinScore:  req.MinScore,
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, docai.Errorf(docai.EINVALID, "invalid JSON body"))
		return
	}

	results, err := s.Search.Search(r.Context(), req.text(), req.options())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, docai.Errorf(docai.EINVALID, "invalid JSON body"))
		return
	}

	answer, err := s.Asker.Ask(r.Context(), req.text(), req.options())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeError maps domain error codes onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := docai.ErrorCode(err)
	status := http.StatusInternalServerError
	switch code {
	case docai.EINVALID:
		status = http.StatusBadRequest
	case docai.ENOTFOUND:
		status = http.StatusNotFound
	case docai.ECONFLICT:
		status = http.StatusConflict
	case docai.EUNAVAILABLE:
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		s.Logger.Error("internal error", "path", r.URL.Path, "err", err)
	}

	var resp errorResponse
	resp.Error.Code = code
	resp.Error.Message = docai.ErrorMessage(err)
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(w, `{"error":{"code":"internal","message":"encoding response"}}`)
	}
}
