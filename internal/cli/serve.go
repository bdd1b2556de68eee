package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackreport/pkg/buildinfo"
	"github.com/matzehuels/stackreport/pkg/observability"
	"github.com/matzehuels/stackreport/pkg/pipeline"
)

const (
	serveReadHeaderTimeout = 5 * time.Second
	serveShutdownTimeout   = 5 * time.Second
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		ro      renderOpts
	)

	cmd := &cobra.Command{
		Use:   "serve <document.json>",
		Short: "Preview a document over HTTP",
		Long: `Serve the rendered page of a document. The document is re-read on every
request, so edits show up on reload; unchanged documents come from the cache.

  GET /         rendered page (?refresh=1 bypasses the cache)
  GET /healthz  liveness check
  GET /version  build information as JSON`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions()
			if err != nil {
				return err
			}
			if err := applyRenderFlags(cmd, &opts, ro); err != nil {
				return err
			}
			opts.Input = args[0]
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Serve.Addr
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			return serve(cmd.Context(), addr, newServeRouter(runner, opts, c.Logger), c.Logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the page cache")
	cmd.Flags().StringVar(&ro.templateDir, "templates", "", "directory with override templates")
	cmd.Flags().StringVar(&ro.engine, "engine", "", "graph layout engine: exec (default), embedded")
	cmd.Flags().StringArrayVarP(&ro.shortcuts, "shortcut", "s", nil, "shortcut as name=key (repeatable)")

	return cmd
}

// newServeRouter builds the preview routes. Every request runs its own
// pipeline execution, so concurrent requests never share a scratch
// directory.
func newServeRouter(runner *pipeline.Runner, opts pipeline.Options, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hooksMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})

	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(buildinfo.Get())
	})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		reqOpts := opts
		reqOpts.Refresh = req.URL.Query().Get("refresh") == "1"

		result, err := runner.Execute(req.Context(), reqOpts)
		if err != nil {
			logger.Error("render failed", "request_id", middleware.GetReqID(req.Context()), "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Cache", cacheHeader(result.CacheHit))
		_, _ = w.Write(result.HTML)
	})

	return r
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

// hooksMiddleware reports requests to the registered HTTP hooks.
func hooksMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

// serve runs handler on addr until ctx is cancelled.
func serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return serveListener(ctx, ln, handler, logger)
}

// serveListener serves on ln until ctx is cancelled or the server fails.
// The shutdown goroutine has exited by the time it returns.
func serveListener(ctx context.Context, ln net.Listener, handler http.Handler, logger *log.Logger) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: serveReadHeaderTimeout,
	}

	stop := make(chan struct{})
	shutdownErr := make(chan error, 1)
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
			shutdownErr <- nil
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
		defer cancel()
		shutdownErr <- server.Shutdown(shutdownCtx)
	}()

	url := "http://" + ln.Addr().String() + "/"
	printSuccess("Serving preview")
	printKeyValue("Address", StyleLink.Render(url))
	printNextStep("Force a re-render", url+"?refresh=1")
	logger.Debug("server started", "addr", ln.Addr().String())

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		close(stop)
		<-shutdownErr
		_ = server.Close()
		return fmt.Errorf("serve %s: %w", ln.Addr(), err)
	}
	if err := <-shutdownErr; err != nil {
		printError("Shutdown: %v", err)
		return err
	}
	logger.Info("server stopped")
	return ctx.Err()
}
