package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/mint-kitchen/internal/repository"
	"github.com/Lixing-Zhang/mint-kitchen/internal/service"
)

// MenuHandler handles menu and catalog HTTP requests
type MenuHandler struct {
	service *service.MenuService
	logger  *slog.Logger
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(service *service.MenuService, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger,
	}
}

// GetMenu handles GET /api/menu
// Returns the catalog grouped into dosas, biryanis, curries and other
func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.service.GetMenu(r.Context())
	if err != nil {
		h.logger.Error("failed to fetch menu", "error", err)
		WriteError(w, http.StatusInternalServerError, "Error fetching menu: "+err.Error(), h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, menu, h.logger)
}

// GetCategories handles GET /api/categories
func (h *MenuHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetCategories(r.Context())
	if err != nil {
		h.logger.Error("failed to fetch categories", "error", err)
		WriteError(w, http.StatusInternalServerError, "Error fetching categories: "+err.Error(), h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, categories, h.logger)
}

// GetItem handles GET /api/items/{itemId}
// - 200: the item
// - 400: empty ID
// - 404: Item not found
func (h *MenuHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimSpace(chi.URLParam(r, "itemId"))
	if itemID == "" {
		h.logger.Warn("item ID is required")
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	item, err := h.service.GetItem(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			h.logger.Info("item not found", "item_id", itemID)
			WriteError(w, http.StatusNotFound, "Item not found", h.logger)
			return
		}

		h.logger.Error("failed to fetch item", "item_id", itemID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Error fetching item: "+err.Error(), h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, item, h.logger)
}
