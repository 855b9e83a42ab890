package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"framegate/internal/api"
	"framegate/internal/config"
	"framegate/internal/ingest"
	"framegate/internal/logging"
	"framegate/internal/services"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	bind := strings.TrimSpace(cfg.Server.APIBind)
	if bind == "" {
		return nil, errors.New("server.api_bind is empty")
	}

	srv := &apiServer{
		bind:   bind,
		logger: logger,
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/frame", srv.handleFrame)
	mux.HandleFunc("/api/imagesets", srv.handleImageSets)
	mux.HandleFunc("/api/presign", srv.handlePresign)
	mux.HandleFunc("/api/ingest", srv.handleIngest)
	mux.HandleFunc("/api/jobs", srv.handleJobs)
	mux.HandleFunc("/api/jobs/", srv.handleJob)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Handler exposes the route table for tests.
func (s *apiServer) handler() http.Handler {
	return s.server.Handler
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status(r.Context())
	payload := api.StatusResponse{
		Running:      status.Running,
		PID:          status.PID,
		DatastoreID:  status.DatastoreID,
		Bucket:       status.Bucket,
		LockFilePath: status.LockFilePath,
		Dependencies: make([]api.DependencyStatus, 0, len(status.Dependencies)),
	}
	for _, dep := range status.Dependencies {
		payload.Dependencies = append(payload.Dependencies, api.DependencyStatus{
			Name:        dep.Name,
			Command:     dep.Command,
			Description: dep.Description,
			Optional:    dep.Optional,
			Available:   dep.Available,
			Detail:      dep.Detail,
		})
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.daemon.components.Resolver == nil {
		s.writeError(w, http.StatusNotFound, "frame resolution unavailable")
		return
	}
	imageSetID := r.URL.Query().Get("imageSetId")
	ctx := services.WithRequestID(r.Context(), uuid.NewString())
	frame, err := s.daemon.components.Resolver.Resolve(ctx, imageSetID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromResolvedFrame(frame))
}

func (s *apiServer) handleImageSets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.daemon.components.Sets == nil {
		s.writeJSON(w, http.StatusOK, api.ImageSetsResponse{ImageSets: []api.ImageSetSummary{}})
		return
	}
	query := r.URL.Query()
	maxResults, _ := strconv.Atoi(query.Get("maxResults"))
	page, err := s.daemon.components.Sets.List(r.Context(), int32(maxResults), query.Get("nextToken"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromListPage(page))
}

func (s *apiServer) handlePresign(w http.ResponseWriter, r *http.Request) {
	if s.daemon.components.Presign == nil {
		s.writeError(w, http.StatusNotFound, "presigning unavailable")
		return
	}
	switch r.Method {
	case http.MethodPost:
		var req struct {
			Filename    string `json:"filename"`
			ContentType string `json:"contentType"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		grant, err := s.daemon.components.Presign.Upload(r.Context(), req.Filename, req.ContentType)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.FromPresignedUpload(grant))
	case http.MethodGet:
		grant, err := s.daemon.components.Presign.Download(r.Context(), r.URL.Query().Get("key"))
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.FromPresignedDownload(grant))
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.daemon.components.Imports == nil {
		s.writeError(w, http.StatusNotFound, "ingestion unavailable")
		return
	}
	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	job, err := s.daemon.components.Imports.Ingest(r.Context(), req.Key)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, jobResponse(job))
}

func (s *apiServer) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.daemon.components.Imports == nil {
		s.writeJSON(w, http.StatusOK, api.JobsResponse{Jobs: []api.JobResponse{}})
		return
	}
	jobs, err := s.daemon.components.Imports.Jobs(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	payload := api.JobsResponse{Jobs: make([]api.JobResponse, 0, len(jobs))}
	for i := range jobs {
		payload.Jobs = append(payload.Jobs, jobResponse(&jobs[i]))
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.daemon.components.Imports == nil {
		s.writeError(w, http.StatusNotFound, "ingestion unavailable")
		return
	}
	jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	if jobID == "" || strings.Contains(jobID, "/") {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	job, err := s.daemon.components.Imports.Status(r.Context(), jobID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, jobResponse(job))
}

func jobResponse(job *ingest.Job) api.JobResponse {
	return api.JobResponse{
		JobID:       job.JobID,
		JobName:     job.JobName,
		Status:      job.Status,
		Message:     job.Message,
		SourceKey:   job.SourceKey,
		ImportKey:   job.ImportKey,
		SubmittedAt: job.SubmittedAt,
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}

func (s *apiServer) writeServiceError(w http.ResponseWriter, err error) {
	s.writeError(w, services.HTTPStatus(err), err.Error())
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}
