package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ssargent/btreemset/pkg/service"
)

// Server holds the API server state
type Server struct {
	svc     *service.MultisetService
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server
func NewServer(svc *service.MultisetService, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		svc:     svc,
		config:  config,
		metrics: metrics,
	}
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleInsert godoc
//
//	@Summary		Insert a key
//	@Description	Add one occurrence of key to the multiset
//	@Tags			keys
//	@Accept			json
//	@Produce		json
//	@Param			request	body		InsertRequest	true	"Key to insert"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/keys [post]
func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req InsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordTreeOperation("insert", false, time.Since(start))
		sendError(w, "invalid JSON request", http.StatusBadRequest)
		return
	}
	if req.Key == "" {
		s.metrics.RecordTreeOperation("insert", false, time.Since(start))
		sendError(w, "key is required", http.StatusBadRequest)
		return
	}

	if err := s.svc.Insert(req.Key); err != nil {
		s.metrics.RecordTreeOperation("insert", false, time.Since(start))
		sendError(w, "failed to insert key: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.metrics.RecordTreeOperation("insert", true, time.Since(start))
	s.metrics.UpdateTreeApproxSize(s.svc.ApproxSize())
	sendSuccess(w, map[string]string{"message": "key inserted"})
}

// handleRemove godoc
//
//	@Summary		Remove a key
//	@Description	Remove at most one occurrence of key from the multiset. A missing key is a no-op.
//	@Tags			keys
//	@Produce		json
//	@Param			key	path		string	true	"Key"
//	@Success		200	{object}	map[string]string
//	@Failure		400	{object}	map[string]string
//	@Router			/keys/{key} [delete]
func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	key, err := url.QueryUnescape(chi.URLParam(r, "key"))
	if err != nil {
		s.metrics.RecordTreeOperation("remove", false, time.Since(start))
		sendError(w, "invalid key encoding", http.StatusBadRequest)
		return
	}
	if key == "" {
		s.metrics.RecordTreeOperation("remove", false, time.Since(start))
		sendError(w, "key is required", http.StatusBadRequest)
		return
	}

	s.svc.Remove(key)

	s.metrics.RecordTreeOperation("remove", true, time.Since(start))
	s.metrics.UpdateTreeApproxSize(s.svc.ApproxSize())
	sendSuccess(w, map[string]string{"message": "key removed"})
}

// handleContains godoc
//
//	@Summary		Check membership
//	@Description	Report whether any occurrence of key exists
//	@Tags			keys
//	@Produce		json
//	@Param			key	path		string	true	"Key"
//	@Success		200	{object}	map[string]bool
//	@Failure		404	{object}	map[string]string
//	@Router			/keys/{key} [get]
func (s *Server) handleContains(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	key, err := url.QueryUnescape(chi.URLParam(r, "key"))
	if err != nil {
		s.metrics.RecordTreeOperation("contains", false, time.Since(start))
		sendError(w, "invalid key encoding", http.StatusBadRequest)
		return
	}

	found := s.svc.Contains(key)
	s.metrics.RecordTreeOperation("contains", true, time.Since(start))

	if !found {
		sendError(w, "key not found", http.StatusNotFound)
		return
	}
	sendSuccess(w, map[string]bool{"contains": true})
}

// handleListKeys godoc
//
//	@Summary		List keys
//	@Description	Traverse the multiset in ascending order. Pass ?distinct=true to collapse duplicates.
//	@Tags			keys
//	@Produce		json
//	@Param			distinct	query		string	false	"collapse adjacent duplicates"
//	@Success		200			{object}	map[string]interface{}
//	@Router			/keys [get]
func (s *Server) handleListKeys(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var keys []string
	if r.URL.Query().Get("distinct") == "true" {
		keys = s.svc.SortedDistinctKeys()
	} else {
		keys = s.svc.Keys()
	}

	s.metrics.RecordTreeOperation("traverse", true, time.Since(start))
	sendSuccess(w, map[string]interface{}{"keys": keys})
}

// handleStats godoc
//
//	@Summary		Get multiset statistics
//	@Description	Get the approximate occupancy of the multiset
//	@Tags			diagnostics
//	@Produce		json
//	@Success		200	{object}	StatsResponse
//	@Router			/stats [get]
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	size := s.svc.ApproxSize()
	s.metrics.UpdateTreeApproxSize(size)
	sendSuccess(w, StatsResponse{ApproxSize: size})
}
