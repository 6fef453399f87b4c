package sim

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/five82/pathpilot/internal/log"
	"github.com/five82/pathpilot/internal/robot"
)

const (
	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 64 * 1024
)

// Options configure the simulator.
type Options struct {
	Addr string

	// Latency delays every command reply, which makes stop and cancel
	// behaviour visible from the console.
	Latency time.Duration

	// FailIDs lists command ids answered with 500 instead of being applied.
	FailIDs []string
}

// Server is the simulated robot's HTTP front end.
type Server struct {
	opts     Options
	odometry *Odometry
	metrics  *metrics
	registry *prometheus.Registry
	handler  http.Handler
	logger   log.Logger
	failIDs  map[string]bool
}

// NewServer builds a simulator. A nil logger discards output.
func NewServer(opts Options, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	s := &Server{
		opts:     opts,
		odometry: &Odometry{},
		registry: prometheus.NewRegistry(),
		logger:   logger.WithName("sim"),
		failIDs:  make(map[string]bool, len(opts.FailIDs)),
	}
	for _, id := range opts.FailIDs {
		if id = strings.TrimSpace(id); id != "" {
			s.failIDs[id] = true
		}
	}
	s.metrics = newMetrics(s.registry, s.odometry)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/api/pose", s.handlePose).Methods(http.MethodGet)
	r.HandleFunc("/api/{name}", s.handleCommand).Methods(http.MethodPost)
	// A known path with the wrong method is answered like an unknown path.
	notFound := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	})
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notFound
	s.handler = r
	return s
}

// Handler returns the simulator's routes.
func (s *Server) Handler() http.Handler { return s.handler }

// Odometry exposes the simulated robot state.
func (s *Server) Odometry() *Odometry { return s.odometry }

// Start listens on opts.Addr and serves until ctx is done, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.handler, ReadHeaderTimeout: 5 * time.Second}
	s.logger.Info("simulator listening", "addr", ln.Addr().String())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("simulator shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handlePose(w http.ResponseWriter, _ *http.Request) {
	pose, token := s.odometry.Observe()
	s.metrics.poseRequests.Inc()
	w.Header().Set("Access-Control-Allow-Origin", "*")
	writeJSON(w, http.StatusOK, map[string]any{
		"H":    token,
		"pose": map[string]float64{"x": pose.X, "y": pose.Y},
	})
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
		return
	}
	cmd, err := robot.DecodeCommand(data)
	if err != nil {
		s.metrics.commands.WithLabelValues("unknown", "rejected").Inc()
		s.logger.Warn("rejected command", "endpoint", name, "error", err.Error())
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	kind := string(cmd.Kind())

	if s.opts.Latency > 0 {
		select {
		case <-time.After(s.opts.Latency):
		case <-r.Context().Done():
			return
		}
	}

	if s.failIDs[cmd.CommandID()] {
		s.metrics.commands.WithLabelValues(kind, "rejected").Inc()
		s.logger.Warn("injected failure", "id", cmd.CommandID())
		writeJSON(w, http.StatusInternalServerError, map[string]string{"H": cmd.CommandID(), "status": "error"})
		return
	}
	if err := s.odometry.Apply(cmd); err != nil {
		s.metrics.commands.WithLabelValues(kind, "rejected").Inc()
		s.logger.Warn("rejected command", "id", cmd.CommandID(), "error", err.Error())
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.metrics.commands.WithLabelValues(kind, "accepted").Inc()
	pose := s.odometry.Pose()
	s.logger.Info("command applied", "id", cmd.CommandID(), "cmd", kind, "x", pose.X, "y", pose.Y)
	writeJSON(w, http.StatusOK, robot.CommandAck{H: cmd.CommandID(), Status: "success"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
