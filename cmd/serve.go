package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/cardscan/internal/extract"
	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/resilience"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP extraction server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		cfg.Server.Port = port

		env, err := initExtractor(cfg, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		s := &server{
			extractor: env.Extractor,
			breakers:  env.Breakers,
			maxUpload: int64(cfg.Server.MaxUploadMB) << 20,
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           s.routes(cfg.Server.AllowedOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.L().Warn("server shutdown", zap.Error(err))
			}
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// server adapts the extractor to HTTP.
type server struct {
	extractor *extract.Extractor
	breakers  *resilience.ServiceBreakers
	maxUpload int64
}

func (s *server) routes(allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/v1/extract", func(r chi.Router) {
		r.Post("/", s.handleExtract)
		r.Post("/multi", s.handleExtractMulti)
		r.Post("/text", s.handleExtractText)
	})
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{"status": "ok"}
	if s.breakers != nil {
		body["breakers"] = s.breakers.States()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *server) handleExtract(w http.ResponseWriter, r *http.Request) {
	img, err := s.readImage(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.extractor.ExtractSingle(r.Context(), img)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleExtractMulti(w http.ResponseWriter, r *http.Request) {
	img, err := s.readImage(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.extractor.ExtractMulti(r.Context(), img)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleExtractText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, badRequest(err, "invalid request body"))
		return
	}
	writeJSON(w, http.StatusOK, textResult(req.Text))
}

// readImage accepts a multipart upload in the "image" field or a JSON body
// {"image": "<base64 or data URL>"}.
func (s *server) readImage(w http.ResponseWriter, r *http.Request) (model.Image, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(s.maxUpload); err != nil {
			return model.Image{}, badRequest(err, "invalid multipart body")
		}
		f, _, err := r.FormFile("image")
		if err != nil {
			return model.Image{}, badRequest(model.ErrNoImage, "missing image field")
		}
		defer f.Close() //nolint:errcheck
		data, err := io.ReadAll(f)
		if err != nil {
			return model.Image{}, badRequest(err, "read image")
		}
		return model.NewImage(data)
	}

	var req struct {
		Image string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return model.Image{}, badRequest(err, "invalid request body")
	}
	return model.DecodeImage(req.Image)
}

// requestError is a client error carrying its own message.
type requestError struct {
	err error
	msg string
}

func (e *requestError) Error() string { return e.msg + ": " + e.err.Error() }

func (e *requestError) Unwrap() error { return e.err }

func badRequest(err error, msg string) error {
	return &requestError{err: err, msg: msg}
}

func writeError(w http.ResponseWriter, err error) {
	var (
		status  int
		msg     string
		reqErr  *requestError
		sizeErr *http.MaxBytesError
	)
	switch {
	case errors.As(err, &sizeErr):
		status, msg = http.StatusRequestEntityTooLarge, "request body too large"
	case errors.Is(err, model.ErrNoImage):
		status, msg = http.StatusBadRequest, "no image provided"
	case errors.Is(err, model.ErrUnsupportedImage):
		status, msg = http.StatusBadRequest, "unsupported image"
	case errors.As(err, &reqErr):
		status, msg = http.StatusBadRequest, reqErr.msg
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status, msg = http.StatusServiceUnavailable, "request cancelled"
	default:
		status, msg = http.StatusInternalServerError, "internal error"
		zap.L().Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}
