// Package webui is the dashboard: an HTTP service that receives folded-stack
// sampling records over the wire format spec.md §6 defines, persists them
// through a GORM repository, and renders stored records as flame graphs.
package webui

import (
	"compress/zlib"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/stackfold/stackfold/internal/repository"
	"github.com/stackfold/stackfold/pkg/model"
	"github.com/stackfold/stackfold/pkg/sampling"
	"github.com/stackfold/stackfold/pkg/utils"
	"github.com/stackfold/stackfold/pkg/writer"
)

// Server is the dashboard's HTTP entrypoint.
type Server struct {
	repo      repository.Repository
	fgService *FlameGraphService
	port      int
	logger    utils.Logger
	sampler   *sampling.Sampler
	server    *http.Server
}

// NewServer creates a dashboard server over repo. sampler is optional; when
// set, every request is profiled via Instrument, exercising the profiler
// against the dashboard's own request handling.
func NewServer(repo repository.Repository, port int, logger utils.Logger, sampler *sampling.Sampler) *Server {
	return &Server{
		repo:      repo,
		fgService: NewFlameGraphService(repo),
		port:      port,
		logger:    logger,
		sampler:   sampler,
	}
}

// Start starts the web server.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/names", s.handleNames)
	mux.HandleFunc("/api/records", s.handleListRecords)
	mux.HandleFunc("/api/flamegraph", s.handleFlameGraph)
	mux.HandleFunc("/", s.handleRoot)

	var handler http.Handler = mux
	handler = Instrument(s.sampler, "dashboard", handler)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Info("dashboard listening at http://localhost:%d", s.port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleRoot dispatches the {project}/sample/add ingestion route (the only
// path shape spec.md §6's remote repository POSTs to) and otherwise answers
// a liveness check.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/sample/add") {
		s.handleSampleAdd(w, r)
		return
	}

	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "stackfold dashboard")
}

// remotePayload mirrors pkg/repository's wire shape exactly; the dashboard
// is the server side of the same contract RemoteRepository implements as a
// client.
type remotePayload struct {
	SampleID      string  `json:"sample_id"`
	Name          string  `json:"name"`
	ProcessID     int     `json:"process_id"`
	ThreadID      int     `json:"thread_id"`
	Timestamp     float64 `json:"timestamp"`
	StackInfo     string  `json:"stack_info"`
	ExecutionTime int64   `json:"execution_time"`
}

// handleSampleAdd ingests a zlib-deflated JSON payload and persists it as a
// ProfileRecord.
func (s *Server) handleSampleAdd(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var reader io.Reader = r.Body
	if r.Header.Get("Content-Encoding") == "deflate" {
		zr, err := zlib.NewReader(r.Body)
		if err != nil {
			http.Error(w, "invalid deflate body", http.StatusBadRequest)
			return
		}
		defer zr.Close()
		reader = zr
	}

	var payload remotePayload
	if err := json.NewDecoder(reader).Decode(&payload); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	rec := &model.ProfileRecord{
		SampleID:      payload.SampleID,
		Name:          payload.Name,
		ProcessID:     payload.ProcessID,
		ThreadID:      uint64(payload.ThreadID),
		Timestamp:     time.Unix(0, int64(payload.Timestamp*float64(time.Second))),
		StackInfo:     payload.StackInfo,
		ExecutionTime: payload.ExecutionTime,
	}

	if err := s.repo.Save(r.Context(), rec); err != nil {
		s.logger.Error("failed to store sample %s: %v", payload.SampleID, err)
		http.Error(w, "failed to store sample", http.StatusInternalServerError)
		return
	}

	s.fgService.InvalidateCache(payload.SampleID)

	w.WriteHeader(http.StatusCreated)
}

// handleNames lists every distinct context name on record.
func (s *Server) handleNames(w http.ResponseWriter, r *http.Request) {
	names, err := s.repo.Names(r.Context())
	if err != nil {
		http.Error(w, "failed to list names", http.StatusInternalServerError)
		return
	}

	writeJSON(w, names)
}

// handleListRecords lists the most recent records for a name.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := s.repo.ListByName(r.Context(), name, limit)
	if err != nil {
		http.Error(w, "failed to list records", http.StatusInternalServerError)
		return
	}

	writeJSON(w, records)
}

// handleFlameGraph renders a single record, or every record for a name
// merged together, as a flame graph JSON tree.
func (s *Server) handleFlameGraph(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if sampleID := r.URL.Query().Get("sample_id"); sampleID != "" {
		fg, err := s.fgService.GetFlameGraph(ctx, sampleID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, fg)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "sample_id or name is required", http.StatusBadRequest)
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	fg, err := s.fgService.GetAggregateFlameGraph(ctx, name, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, fg)
}

var responseWriter = writer.NewJSONWriter[any]()

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if err := responseWriter.Write(v, w); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
