package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plugdeps/internal/config"
	"github.com/matzehuels/plugdeps/pkg/deps"
	plerrors "github.com/matzehuels/plugdeps/pkg/errors"
	"github.com/matzehuels/plugdeps/pkg/io"
	"github.com/matzehuels/plugdeps/pkg/observability"
	"github.com/matzehuels/plugdeps/pkg/observability/metrics"
	"github.com/matzehuels/plugdeps/pkg/observability/tracing"
)

const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve resolution queries and metrics over HTTP",
		Long: `Serve the resolution queries as JSON. Every request runs a fresh pass over
the plugin set, so answers always reflect what is installed now.

Endpoints:
  GET /components            installed plugins with dependencies
  GET /missing               required slugs that are not installed
  GET /required-by/{slug}    display names of plugins requiring slug
  GET /required/{id}         whether removing plugin id breaks a dependent
  GET /report                full JSON report
  GET /metrics               Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			m := metrics.New(metrics.WithRegistry(reg))
			observability.SetResolveHooks(observability.CombineResolve(m, tracing.New()))
			observability.SetHTTPHooks(m)
			defer observability.Reset()

			srv := &http.Server{
				Addr:              cfg.Listen,
				Handler:           c.router(cfg, reg),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return c.listen(cmd.Context(), srv)
		},
	}

	cmd.Flags().String("listen", "", "address to listen on (default 127.0.0.1:8080)")

	return cmd
}

// listen serves until ctx is done, then shuts down gracefully.
func (c *CLI) listen(ctx context.Context, srv *http.Server) error {
	logger := loggerFromContext(ctx)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// router builds the HTTP API. gatherer backs /metrics.
func (c *CLI) router(cfg *config.Config, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(c.requestLogger)

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.Timeout * 3))
		r.Get("/components", c.withPass(cfg, handleComponents))
		r.Get("/missing", c.withPass(cfg, handleMissing))
		r.Get("/required-by/{slug}", c.withPass(cfg, handleRequiredBy))
		r.Get("/required/*", c.withPass(cfg, handleRequired))
		r.Get("/report", c.withPass(cfg, handleReport))
	})
	return r
}

type passHandler func(w http.ResponseWriter, r *http.Request, res *deps.Resolution)

// withPass runs a fresh resolution pass per request.
func (c *CLI) withPass(cfg *config.Config, h passHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(withLogger(r.Context(), c.Logger))
		res, err := c.resolve(r.Context(), cfg, false)
		if err != nil {
			writeError(w, r, err)
			return
		}
		h(w, r, res)
	}
}

func (c *CLI) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		c.Logger.Debug("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

type componentResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Requires   []string `json:"requires"`
	Required   bool     `json:"required"`
	RequiredBy []string `json:"required_by"`
}

func handleComponents(w http.ResponseWriter, r *http.Request, res *deps.Resolution) {
	out := []componentResponse{}
	for _, comp := range res.Components() {
		requires := res.Graph().Dependencies(comp.ID)
		if requires == nil {
			requires = []string{}
		}
		out = append(out, componentResponse{
			ID:         comp.ID,
			Name:       comp.DisplayName(),
			Requires:   requires,
			Required:   res.IsRequired(comp.ID),
			RequiredBy: requiredByFor(res, comp.ID),
		})
	}
	writeJSON(w, r, http.StatusOK, out)
}

func handleMissing(w http.ResponseWriter, r *http.Request, res *deps.Resolution) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"missing":   res.MissingSlugs(),
		"satisfied": res.Satisfied(),
	})
}

func handleRequiredBy(w http.ResponseWriter, r *http.Request, res *deps.Resolution) {
	s := chi.URLParam(r, "slug")
	if err := plerrors.ValidateSlug(s); err != nil {
		writeError(w, r, err)
		return
	}
	body := map[string]any{"slug": s, "required_by": res.DependentsOf(s)}
	if m, ok := res.Metadata(s); ok {
		body["metadata"] = m.Map()
	}
	writeJSON(w, r, http.StatusOK, body)
}

func handleRequired(w http.ResponseWriter, r *http.Request, res *deps.Resolution) {
	id := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if err := plerrors.ValidatePluginFile(id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"id": id, "required": res.IsRequired(id)})
}

func handleReport(w http.ResponseWriter, r *http.Request, res *deps.Resolution) {
	writeJSON(w, r, http.StatusOK, io.NewReport(res))
}

// writeJSON encodes v as the response body. A failed encode can only be
// logged since the status line is already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		loggerFromContext(r.Context()).Debug("Encode response failed",
			"path", r.URL.Path,
			"err", err,
			"request_id", middleware.GetReqID(r.Context()))
	}
}

// errorStatus maps an error code to the HTTP status reported for it.
func errorStatus(err error) int {
	switch plerrors.GetCode(err) {
	case plerrors.ErrCodeInvalidSlug, plerrors.ErrCodeInvalidPath, plerrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case plerrors.ErrCodeFileNotFound, plerrors.ErrCodeInvalidManifest:
		return http.StatusServiceUnavailable
	case plerrors.ErrCodeNetwork, plerrors.ErrCodeRateLimited:
		return http.StatusBadGateway
	case plerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := plerrors.GetCode(err)
	if code == "" {
		code = plerrors.ErrCodeInternal
	}
	writeJSON(w, r, errorStatus(err), map[string]string{
		"error": plerrors.UserMessage(err),
		"code":  string(code),
	})
}
