package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"ricedoctor/classifier"
	"ricedoctor/diagnose"
	"ricedoctor/knowledge"
	"ricedoctor/metrics"
)

// Diagnoser runs one diagnostic call. diagnose.Orchestrator satisfies
// this; handler tests substitute stubs.
type Diagnoser interface {
	Diagnose(ctx context.Context, imageData []byte) (diagnose.Result, error)
}

// OperationTracker gates new work during shutdown. shutdown.Tracker
// satisfies this.
type OperationTracker interface {
	Start() error
	Done()
}

// APIConfig bounds the diagnose endpoint.
type APIConfig struct {
	MaxImageBytes   int64
	DiagnoseTimeout time.Duration
	DefaultLimit    int
	MaxLimit        int
}

// DefaultAPIConfig returns an APIConfig with sensible defaults.
func DefaultAPIConfig() APIConfig {
	return APIConfig{
		MaxImageBytes:   10 << 20,
		DiagnoseTimeout: 60 * time.Second,
		DefaultLimit:    20,
		MaxLimit:        100,
	}
}

// API holds the diagnosis endpoints and their dependencies.
type API struct {
	diagnoser Diagnoser
	kb        *knowledge.Base
	collector metrics.Collector
	tracker   OperationTracker
	config    APIConfig
	logger    *zap.Logger
}

// NewAPI creates the endpoint set. tracker may be nil when shutdown
// gating is not wired (tests, mostly).
func NewAPI(
	diagnoser Diagnoser,
	kb *knowledge.Base,
	collector metrics.Collector,
	tracker OperationTracker,
	config APIConfig,
	logger *zap.Logger,
) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		diagnoser: diagnoser,
		kb:        kb,
		collector: collector,
		tracker:   tracker,
		config:    config,
		logger:    logger,
	}
}

// errorResponse is the uniform error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// HandleDiagnose accepts an image (multipart field "image" or a raw
// image/* body) and returns the diagnosis with its treatment advisory.
func (a *API) HandleDiagnose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}

	if a.tracker != nil {
		if err := a.tracker.Start(); err != nil {
			writeError(w, http.StatusServiceUnavailable, "shutting down")
			return
		}
		defer a.tracker.Done()
	}

	imageData, err := a.readImage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), a.config.DiagnoseTimeout)
	defer cancel()

	result, err := a.diagnoser.Diagnose(ctx, imageData)
	if err != nil {
		a.logger.Error("diagnose call failed", zap.Error(err))
		writeError(w, diagnoseStatusCode(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// readImage extracts the image bytes from a multipart form or a raw
// request body, enforcing the configured size limit.
func (a *API) readImage(r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, a.config.MaxImageBytes)

	contentType := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, errors.New("missing or malformed Content-Type")
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		file, _, err := r.FormFile("image")
		if err != nil {
			return nil, errors.New(`multipart form must carry an "image" file field`)
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, errors.New("image upload exceeds the size limit or was truncated")
		}
		return data, nil
	}

	if strings.HasPrefix(mediaType, "image/") {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, errors.New("image upload exceeds the size limit or was truncated")
		}
		return data, nil
	}

	return nil, errors.New("send a multipart form or an image/* body")
}

// HandleLabels returns the conditions the advisory table covers.
func (a *API) HandleLabels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"labels": a.kb.Labels()})
}

// HandleMetrics returns aggregated call statistics.
func (a *API) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}
	writeJSON(w, http.StatusOK, a.collector.GetMetrics())
}

// HandleHistory returns recent diagnosis records, newest first. The
// optional "limit" query parameter is clamped to the configured maximum.
func (a *API) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}

	limit := a.config.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > a.config.MaxLimit {
		limit = a.config.MaxLimit
	}

	records := a.collector.GetRecentDiagnoses(limit)
	if records == nil {
		records = []metrics.DiagnosisRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"diagnoses": records})
}

// HandleHealth returns the process health snapshot.
func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := a.collector.GetSystemStatus()
	code := http.StatusOK
	if status.Health != metrics.SystemHealthRunning {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// diagnoseStatusCode maps pipeline errors to HTTP status codes. Bad
// input is the caller's fault; everything else is ours.
func diagnoseStatusCode(err error) int {
	switch {
	case errors.Is(err, classifier.ErrInvalidImage):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, classifier.ErrRemoteUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
