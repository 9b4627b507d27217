// Package web serves the browser build: the page, its bootstrap script, the
// Go JS glue and the js/wasm binary.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/woxQAQ/hello-wasm/internal/bundle"
	"github.com/woxQAQ/hello-wasm/internal/config"
)

//go:embed static
var static embed.FS

// Fixed URLs the bootstrap script expects.
const (
	PathIndex     = "/"
	PathBootstrap = "/bootstrap.js"
	PathLoader    = "/wasm_exec.js"
	PathWasm      = "/hello.wasm"
)

const contentTypeWasm = "application/wasm"

// Server hosts a bundle's js target.
type Server struct {
	cfg        config.WebConfig
	wasmPath   string
	loaderPath string
	logger     *zap.Logger
}

// NewServer returns a Server for the js target of manifest.
func NewServer(cfg config.WebConfig, manifest *bundle.Manifest, logger *zap.Logger) (*Server, error) {
	target, err := manifest.Target(bundle.TargetJS)
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:        cfg,
		wasmPath:   manifest.FilePath(target),
		loaderPath: manifest.LoaderPath(target),
		logger:     logger.With(zap.String("component", "web")),
	}, nil
}

// Handler returns the HTTP handler. Only GET and HEAD are routed.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", serveEmbedded("static/index.html"))
	mux.HandleFunc("GET "+PathBootstrap, serveEmbedded("static/bootstrap.js"))
	mux.HandleFunc("GET "+PathLoader, serveFile(s.loaderPath, "text/javascript; charset=utf-8"))
	mux.HandleFunc("GET "+PathWasm, serveFile(s.wasmPath, contentTypeWasm))
	return s.logRequests(mux)
}

// Serve listens on the configured address until ctx is cancelled, then
// shuts down within the configured timeout.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info("Serving browser bundle",
		zap.String("url", "http://"+ln.Addr().String()+PathIndex),
		zap.String("wasm", s.wasmPath),
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down web server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down web server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	s.logger.Info("Web server shutdown complete")
	return nil
}

func serveEmbedded(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fs.ReadFile(static, name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		http.ServeContent(w, r, path.Base(name), time.Time{}, bytes.NewReader(data))
	}
}

func serveFile(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		http.ServeFile(w, r, name)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
