// Package server exposes report payloads and budget plans over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/QingyuanL1/financial-backend-sub000/internal/budget"
	"github.com/QingyuanL1/financial-backend-sub000/pkg/constants"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Repository is the storage the HTTP API reads and writes.
type Repository interface {
	budget.Source

	Ping(ctx context.Context) error
	GetReport(ctx context.Context, tableKey, period string) (string, error)
	SaveReport(ctx context.Context, tableKey, period, data string) error
	DeleteReport(ctx context.Context, tableKey, period string) error
	ListReportPeriods(ctx context.Context, tableKey string) ([]string, error)
	ListBudgetYear(ctx context.Context, year string) ([]budget.Entry, error)
	ReplaceBudgetYear(ctx context.Context, year string, entries []budget.Entry) error
	DeleteBudgetYear(ctx context.Context, year string) error
}

// Options tunes the handler.
type Options struct {
	MaxBodySize int64
	Version     string
}

type handler struct {
	logger      *zap.Logger
	repo        Repository
	annotator   *budget.Annotator
	tables      map[string]reportTable
	maxBodySize int64
	version     string
}

// envelope is the body of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Period  string `json:"period,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewHandler constructs the HTTP handler serving the report and budget API.
func NewHandler(logger *zap.Logger, repo Repository, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = constants.DefaultMaxBodySizeBytes
	}
	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	h := &handler{
		logger:      logger,
		repo:        repo,
		annotator:   budget.NewAnnotator(budget.NewLoader(repo, logger)),
		tables:      reportTables(),
		maxBodySize: opts.MaxBodySize,
		version:     version,
	}

	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(withRequestLogging(logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)

		r.Get("/reports", h.handleListReports)
		r.Post("/reports/{table}", h.handleSaveReport)
		r.Get("/reports/{table}/periods", h.handleListPeriods)
		r.Get("/reports/{table}/{period}", h.handleGetReport)
		r.Delete("/reports/{table}/{period}", h.handleDeleteReport)

		r.Get("/budget-planning/{year}", h.handleGetBudgetYear)
		r.Post("/budget-planning/{year}", h.handleReplaceBudgetYear)
		r.Delete("/budget-planning/{year}", h.handleDeleteBudgetYear)
		r.Get("/budget-planning/{year}/{tableKey}", h.handleGetBudgetTable)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		h.writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		h.writeJSON(w, http.StatusMethodNotAllowed, envelope{Success: false, Message: http.StatusText(http.StatusMethodNotAllowed)})
	})

	return r
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	if err := h.repo.Ping(ctx); err != nil {
		h.logger.Warn("database ping failed",
			zap.String("op", "server.handleHealth"),
			zap.Error(err),
		)
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	h.writeJSON(w, code, envelope{
		Success: code == http.StatusOK,
		Data:    map[string]string{"status": status, "version": h.version},
	})
}

// decodeBody reads a JSON request body of at most maxBodySize bytes.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) (int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return http.StatusRequestEntityTooLarge, errors.New("request body too large")
		}
		return http.StatusBadRequest, errors.New("invalid JSON body: " + err.Error())
	}
	return 0, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, err error, op string) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("message", msg),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields...)
	} else {
		h.logger.Info("request rejected", fields...)
	}

	body := envelope{Success: false, Message: msg}
	if err != nil && status < http.StatusInternalServerError {
		body.Error = err.Error()
	}
	h.writeJSON(w, status, body)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
