package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// HealthHandler provides health check endpoint
type HealthHandler struct {
	processor string
	logger    *slog.Logger
}

// NewHealthHandler creates a new health handler. processor names the
// payment processor in use, or "" when none is configured.
func NewHealthHandler(processor string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		processor: processor,
		logger:    logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status              string    `json:"status"`
	Message             string    `json:"message"`
	Timestamp           time.Time `json:"timestamp"`
	Version             string    `json:"version"`
	Processor           string    `json:"processor,omitempty"`
	ProcessorConfigured bool      `json:"processor_configured"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:              "healthy",
		Message:             "Mint Kitchen API is running",
		Timestamp:           time.Now().UTC(),
		Version:             "1.0.0",
		Processor:           h.processor,
		ProcessorConfigured: h.processor != "",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode health response", "error", err)
	}
}
