package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"voicetracker/transcription"
)

const maxBodyBytes = 32 << 20

type requestIDKey struct{}

// RequestID returns the id assigned to the request by the server.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Server holds the model credential and answers /api/ai on behalf of
// clients that have none.
type Server struct {
	generator transcription.Generator
	timeout   time.Duration
	logger    *log.Logger
	metrics   *Metrics
	router    *chi.Mux
}

// NewServer builds the proxy. A positive timeout bounds each model call.
func NewServer(generator transcription.Generator, timeout time.Duration, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	s := &Server{
		generator: generator,
		timeout:   timeout,
		logger:    logger,
		metrics:   NewMetrics(reg),
		router:    chi.NewRouter(),
	}

	s.router.Use(requestID)
	s.router.Use(middleware.Recoverer)
	s.router.Post("/api/ai", s.handleAI)
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	s.router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func (s *Server) handleAI(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := s.logger.With("request_id", RequestID(r.Context()))

	status := http.StatusOK
	defer func() {
		s.metrics.Requests.WithLabelValues(strconv.Itoa(status)).Inc()
		s.metrics.RequestDuration.Observe(time.Since(start).Seconds())
	}()

	var req transcription.ProxyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		status = http.StatusBadRequest
		http.Error(w, "Invalid request body", status)
		return
	}
	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil || len(audio) == 0 {
		status = http.StatusBadRequest
		http.Error(w, "Invalid audio payload", status)
		return
	}
	s.metrics.AudioBytes.Observe(float64(len(audio)))

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	reply, err := s.generator.Generate(ctx, audio, req.MIMEType)
	if err != nil {
		s.metrics.ModelFailures.Inc()
		logger.Error("generate", "error", err, "bytes", len(audio))
		status = http.StatusInternalServerError
		writeJSON(w, status, transcription.ProxyResponse{
			Reply: "Error processing audio",
			Error: errorMessage(err),
		})
		return
	}

	logger.Info("generated", "bytes", len(audio), "mime", req.MIMEType, "duration", time.Since(start))
	writeJSON(w, status, transcription.ProxyResponse{Reply: reply})
}

func errorMessage(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "request cancelled"
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("write response", "error", err)
	}
}

// Serve listens on port until ctx is cancelled.
func Serve(ctx context.Context, port int, handler http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("http", "url", fmt.Sprintf("http://localhost:%d", port))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
