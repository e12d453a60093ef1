package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort int

// jobStore tracks in-flight and finished pipeline runs for the webhook
// surface. In-memory only; restarting the server forgets all jobs.
type jobStore struct {
	mu   sync.RWMutex
	jobs map[string]*pipelineJob
}

type pipelineJob struct {
	ID        string     `json:"id"`
	URL       string     `json:"url"`
	Status    string     `json:"status"` // running, done, failed
	Error     string     `json:"error,omitempty"`
	Result    *runResult `json:"result,omitempty"`
	StartedAt time.Time  `json:"started_at"`
}

func newJobStore() *jobStore {
	return &jobStore{jobs: make(map[string]*pipelineJob)}
}

func (s *jobStore) put(j *pipelineJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = j
}

// finish records the terminal state of a job under the lock so concurrent
// status reads never see a half-updated job.
func (s *jobStore) finish(id string, result *runResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return
	}
	if err != nil {
		j.Status = "failed"
		j.Error = err.Error()
		return
	}
	j.Status = "done"
	j.Result = result
}

// get returns a snapshot of the job.
func (s *jobStore) get(id string) (pipelineJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return pipelineJob{}, false
	}
	return *j, true
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server for ad generation requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fc, err := newFirecrawl()
		if err != nil {
			return err
		}
		ai, err := newAnthropic()
		if err != nil {
			return err
		}

		store := newJobStore()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/webhook/generate", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				URL          string `json:"url"`
				SkipVideo    bool   `json:"skip_video"`
				SkipOutreach bool   `json:"skip_outreach"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
			if body.URL == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
				return
			}

			job := &pipelineJob{
				ID:        uuid.NewString(),
				URL:       body.URL,
				Status:    "running",
				StartedAt: time.Now().UTC(),
			}
			store.put(job)

			// The pipeline outlives the request; it is bound to the server
			// lifetime, not the HTTP call.
			go func() {
				result, err := runPipeline(ctx, fc, ai, body.URL, body.SkipVideo, body.SkipOutreach, false)
				store.finish(job.ID, result, err)
				if err != nil {
					zap.L().Error("webhook pipeline failed",
						zap.String("job", job.ID), zap.String("url", body.URL), zap.Error(err))
					return
				}
				zap.L().Info("webhook pipeline complete", zap.String("job", job.ID))
			}()

			writeJSON(w, http.StatusAccepted, map[string]string{
				"status": "accepted",
				"job_id": job.ID,
			})
		})

		r.Get("/jobs/{id}", func(w http.ResponseWriter, req *http.Request) {
			job, ok := store.get(chi.URLParam(req, "id"))
			if !ok {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "job not found"})
				return
			}
			writeJSON(w, http.StatusOK, job)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
