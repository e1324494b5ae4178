package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"

	"github.com/umputun/newstag/pkg/store"
)

// tagsResponse is the metadata for a stored article. Degraded lists fields replaced by a placeholder.
type tagsResponse struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Tags     []string `json:"tags"`
	Degraded []string `json:"degraded,omitempty"`
}

// rootHandler returns application name
func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	rest.RenderJSON(w, rest.JSON{"app": "Auto News Tagging"})
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// multinewsHandler serves a random article from the dataset, storing the dataset on the first call
func (s *Server) multinewsHandler(w http.ResponseWriter, r *http.Request) {
	article, path, err := s.feed.RandomArticle(r.Context())
	if err != nil {
		s.metrics.feedServed("error")
		lgr.Printf("[ERROR] failed to serve news: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	s.metrics.feedServed(string(path))
	lgr.Printf("[DEBUG] served article %d, %s path", article.ID, path)
	renderJSON(w, r, http.StatusOK, article)
}

// gentagsHandler generates title and tags for a stored article. Generation failures don't fail
// the request, the degraded field carries a placeholder and is listed in the response.
func (s *Server) gentagsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		renderError(w, r, fmt.Errorf("invalid article id %q", r.PathValue("id")), http.StatusBadRequest)
		return
	}

	row, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			renderError(w, r, fmt.Errorf("article %d not found", id), http.StatusBadRequest)
			return
		}
		lgr.Printf("[ERROR] failed to get article %d: %v", id, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	_, timeout := s.config.GetServerConfig()
	genCtx, cancel := context.WithTimeout(ctx, generateBudget(timeout))
	defer cancel()

	start := time.Now()
	meta := s.tagger.Generate(genCtx, row.News)
	s.metrics.generateDuration.Observe(time.Since(start).Seconds())
	s.metrics.fieldGenerated("title", meta.Title.Degraded)
	s.metrics.fieldGenerated("tags", meta.Tags.Degraded)

	tags := meta.TagList
	if tags == nil {
		tags = []string{}
	}
	renderJSON(w, r, http.StatusOK, tagsResponse{ID: id, Title: meta.Title.Text, Tags: tags, Degraded: meta.Degraded()})
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}

// generateBudget is the time left for generation within the server write timeout,
// leaving a tenth of it, up to 5s, to render the response
func generateBudget(writeTimeout time.Duration) time.Duration {
	return writeTimeout - min(writeTimeout/10, 5*time.Second)
}
