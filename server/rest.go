package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/umputun/feed2index/pkg/domain"
	"github.com/umputun/feed2index/pkg/scheduler"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

type searchResponse struct {
	Query string             `json:"query"`
	Hits  []domain.SearchHit `json:"hits"`
}

type statusResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Time      time.Time         `json:"time"`
	Index     string            `json:"index"`
	Documents int64             `json:"documents"`
	Sync      *scheduler.Status `json:"sync,omitempty"`
}

// searchHandler runs full-text query against the local index
func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		renderError(w, r, errors.New("query parameter q is required"), http.StatusBadRequest)
		return
	}

	limit := defaultSearchLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 {
			renderError(w, r, fmt.Errorf("invalid limit %q", limitStr), http.StatusBadRequest)
			return
		}
		limit = min(l, maxSearchLimit)
	}

	hits, err := s.index.Search(r.Context(), query, limit)
	if err != nil {
		log.Printf("[ERROR] search %q failed: %v", query, err)
		code := http.StatusInternalServerError
		if errors.Is(err, domain.ErrIndexNotFound) {
			code = http.StatusNotFound
		}
		renderError(w, r, err, code)
		return
	}
	if hits == nil {
		hits = []domain.SearchHit{}
	}

	renderJSON(w, r, http.StatusOK, searchResponse{Query: query, Hits: hits})
}

// statusHandler returns index size and the state of synchronization passes
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Status:  "ok",
		Version: s.version,
		Time:    time.Now().UTC(),
		Index:   s.index.Name(),
	}

	count, err := s.index.Count(r.Context())
	if err != nil {
		log.Printf("[WARN] failed to count documents: %v", err)
		resp.Status = "degraded"
	}
	resp.Documents = count

	if s.scheduler != nil {
		st := s.scheduler.Status()
		resp.Sync = &st
	}

	renderJSON(w, r, http.StatusOK, resp)
}

// syncHandler starts synchronization pass in background
func (s *Server) syncHandler(w http.ResponseWriter, r *http.Request) {
	if s.scheduler == nil {
		renderError(w, r, errors.New("scheduler is not configured"), http.StatusServiceUnavailable)
		return
	}

	if err := s.scheduler.TriggerNow(); err != nil {
		if errors.Is(err, scheduler.ErrPassInProgress) {
			renderError(w, r, err, http.StatusConflict)
			return
		}
		log.Printf("[ERROR] failed to trigger sync: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	log.Printf("[INFO] synchronization pass triggered via api")
	renderJSON(w, r, http.StatusAccepted, map[string]string{"status": "started"})
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
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
