package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jsonkit/ecmason/pkg/cache"
	ecmaerrors "github.com/jsonkit/ecmason/pkg/errors"
	"github.com/jsonkit/ecmason/pkg/scanner"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	redisAddr string
}

// newServeCmd creates the serve command, exposing the formatting and
// validation engines over HTTP.
func newServeCmd() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an HTTP formatting service",
		Long: `Run an HTTP service exposing the formatting engine.

Endpoints:
  POST /v1/format?indent=N   reformat the request body
  POST /v1/validate          check the request body for syntax errors
  GET  /healthz              liveness probe

With a Redis address configured, format results are cached there instead
of the local filesystem.

Examples:
  ecmason serve --addr :8080
  ecmason serve --redis localhost:6379`,
		RunE: func(c *cobra.Command, args []string) error {
			return runServe(c.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, else :8080)")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "redis address for the result cache (optional)")

	return cmd
}

func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr := opts.addr
	if addr == "" {
		addr = cfg.Serve.Addr
	}
	redisAddr := opts.redisAddr
	if redisAddr == "" {
		redisAddr = cfg.Serve.RedisAddr
	}

	store := cache.NewNullCache()
	if redisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, redisAddr, "", cfg.Serve.RedisDB)
		if err != nil {
			return ecmaerrors.Wrap(ecmaerrors.ErrCodeInvalidConfig, err, "connecting to redis at %s", redisAddr)
		}
		store = rc
		logger.Infof("Caching results in redis at %s", redisAddr)
	}
	defer store.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(logger, store, cfg.Cache.TTL),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newRouter builds the chi routing tree with request-ID and logging middleware.
func newRouter(logger *charmlog.Logger, store cache.Cache, ttl time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/v1/format", handleFormat(store, ttl))
	r.Post("/v1/validate", handleValidate())

	return r
}

// requestID assigns a UUID to each request and echoes it in the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

const requestIDKey ctxKey = 1

// requestLogger logs each request with its ID, method, path, and duration.
func requestLogger(logger *charmlog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			id, _ := r.Context().Value(requestIDKey).(string)
			logger.Debug("request",
				"id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start))
		})
	}
}

// formatResponse is the body returned by /v1/format.
type formatResponse struct {
	Output string `json:"output"`
	Cached bool   `json:"cached"`
}

// errorResponse is the body returned on any request failure.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// handleFormat reformats the request body with the indent from the query.
func handleFormat(store cache.Cache, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := io.ReadAll(io.LimitReader(r.Body, 32<<20))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		indent := 0
		if q := r.URL.Query().Get("indent"); q != "" {
			indent, err = strconv.Atoi(q)
			if err != nil || indent < 0 || indent > 10 {
				writeError(w, http.StatusBadRequest, ecmaerrors.New(ecmaerrors.ErrCodeInvalidIndent, "indent must be an integer in [0, 10]"))
				return
			}
		}
		gap := ""
		for i := 0; i < indent; i++ {
			gap += " "
		}

		out, cached, err := formatCached(r.Context(), store, ttl, input, gap)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeJSON(w, http.StatusOK, formatResponse{Output: string(out), Cached: cached})
	}
}

// handleValidate checks the request body against the JSON grammar.
func handleValidate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := io.ReadAll(io.LimitReader(r.Body, 32<<20))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if _, err := scanner.Parse(string(input)); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: ecmaerrors.UserMessage(err)}
	if code := ecmaerrors.GetCode(err); code != "" {
		resp.Code = string(code)
	}
	writeJSON(w, status, resp)
}
