package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tranvictor/addrlens/addressview"
	"github.com/tranvictor/addrlens/config"
	"github.com/tranvictor/addrlens/metrics"
	"github.com/tranvictor/addrlens/navigation"
	"github.com/tranvictor/addrlens/networks"
)

// viewFactory builds a view bound to a navigator, one per request.
type viewFactory func(nav navigation.Navigator) *addressview.View

// server answers address page requests with the settled snapshot as json,
// or redirects to the canonical location.
type server struct {
	router  *httprouter.Router
	newView viewFactory
	wait    time.Duration
	log     *zap.Logger
	metrics *metrics.Metrics
}

func newServer(newView viewFactory, wait time.Duration, l *zap.Logger, m *metrics.Metrics) *server {
	s := &server{
		router:  httprouter.New(),
		newView: newView,
		wait:    wait,
		log:     l,
		metrics: m,
	}
	s.router.GET("/address/*path", s.handleAddress)
	s.router.GET("/healthz", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if m != nil {
		s.router.Handler(http.MethodGet, "/metrics", m.Handler())
	}
	return s
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *server) handleAddress(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	raw := ps.ByName("path")
	if r.URL.RawQuery != "" {
		raw += "?" + r.URL.RawQuery
	}
	loc, err := navigation.ParseLocation(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	history := navigation.NewHistory(loc)
	view := s.newView(history)
	view.Navigate(loc)

	ctx, cancel := context.WithTimeout(r.Context(), s.wait)
	defer cancel()
	snap, err := view.Wait(ctx)
	if err != nil {
		s.log.Info("answering before the lookup settled",
			zap.String("location", loc.String()),
			zap.Error(err),
		)
		writeJSON(w, http.StatusAccepted, snap)
		return
	}

	if history.Replacements() > 0 {
		http.Redirect(w, r, history.Current(), http.StatusPermanentRedirect)
		return
	}
	status := http.StatusOK
	if snap.State() == addressview.NotFound {
		status = http.StatusNotFound
	}
	writeJSON(w, status, snap)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve address lookups over http",
	Long: `GET /address/<address or name>[/suffix][?query] answers the settled
lookup as json, or redirects (308) to the checksummed location when the
identifier as typed is not canonical. GET /metrics exposes prometheus
metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m := metrics.New("")
		p, err := newPipeline(networks.CurrentNetwork(), appLogger, m)
		if err != nil {
			return err
		}
		handler := newServer(p.newView, 3*config.LookupTimeout, appLogger, m)
		httpServer := &http.Server{
			Addr:         config.Listen,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 3*config.LookupTimeout + 15*time.Second,
			IdleTimeout:  60 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		errCh := make(chan error, 1)
		go func() {
			appLogger.Info("serving",
				zap.String("listen", config.Listen),
				zap.String("network", p.network.GetName()),
			)
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&config.Listen, "listen", ":8080", "address to listen on")
	rootCmd.AddCommand(serveCmd)
}
