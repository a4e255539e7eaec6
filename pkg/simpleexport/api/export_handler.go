package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-export/pkg/simpleexport"
)

// ExportHandler handles HTTP requests for exports
type ExportHandler struct {
	service simpleexport.Service
}

// NewExportHandler creates a new export handler
func NewExportHandler(service simpleexport.Service) *ExportHandler {
	return &ExportHandler{service: service}
}

// Routes returns the routes for exports
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateExport)
	r.Get("/{id}", h.GetExport)
	r.Delete("/{id}", h.DeletePublication)
	r.Get("/{id}/download", h.GetDownloadURL)
	r.Get("/role/{roleID}", h.ListExportsByRole)

	return r
}

// CreateExportRequest is the request body for creating an export
type CreateExportRequest struct {
	Operation    string                 `json:"operation"`
	CreatorID    string                 `json:"creator_id"`
	Label        string                 `json:"label"`
	CollectionID string                 `json:"collection_id,omitempty"`
	MimeType     string                 `json:"mime_type,omitempty"`
	Meta         map[string]interface{} `json:"meta,omitempty"`

	// ExpiresAfterDays overrides the 30 day default when positive.
	ExpiresAfterDays int `json:"expires_after_days,omitempty"`
}

// DownloadResponse is the response body for a download link
type DownloadResponse struct {
	URL string `json:"url"`
}

// CreateExport creates a new pending export record
func (h *ExportHandler) CreateExport(w http.ResponseWriter, r *http.Request) {
	var req CreateExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	creatorID, err := uuid.Parse(req.CreatorID)
	if err != nil {
		slog.Error("Invalid creator ID", "creator_id", req.CreatorID, "error", err)
		http.Error(w, "Invalid creator ID", http.StatusBadRequest)
		return
	}

	createReq := simpleexport.CreateExportRequest{
		Operation:    req.Operation,
		CreatorID:    creatorID,
		Label:        req.Label,
		MimeType:     req.MimeType,
		Meta:         req.Meta,
		ExpiresAfter: time.Duration(req.ExpiresAfterDays) * 24 * time.Hour,
	}

	if req.CollectionID != "" {
		collectionID, err := uuid.Parse(req.CollectionID)
		if err != nil {
			slog.Error("Invalid collection ID", "collection_id", req.CollectionID, "error", err)
			http.Error(w, "Invalid collection ID", http.StatusBadRequest)
			return
		}
		createReq.CollectionID = &collectionID
	}

	export, err := h.service.CreateExport(r.Context(), createReq)
	if err != nil {
		slog.Error("Failed to create export", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Info("Export created", "export_id", export.ID.String())
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, export.Map())
}

// GetExport retrieves an export by ID, optionally scoped to a creator via
// the creator_id query parameter
func (h *ExportHandler) GetExport(w http.ResponseWriter, r *http.Request) {
	export, ok := h.lookupExport(w, r)
	if !ok {
		return
	}

	render.JSON(w, r, export.Map())
}

// ListExportsByRole lists a role's exports, newest first
func (h *ExportHandler) ListExportsByRole(w http.ResponseWriter, r *http.Request) {
	roleIDStr := chi.URLParam(r, "roleID")
	roleID, err := uuid.Parse(roleIDStr)
	if err != nil {
		slog.Error("Invalid role ID", "role_id", roleIDStr, "error", err)
		http.Error(w, "Invalid role ID", http.StatusBadRequest)
		return
	}

	includeDeleted := r.URL.Query().Get("include_deleted") == "true"

	exports, err := h.service.ListExportsByRole(r.Context(), roleID, includeDeleted)
	if err != nil {
		slog.Error("Failed to list exports", "role_id", roleIDStr, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	result := make([]map[string]interface{}, 0, len(exports))
	for _, export := range exports {
		result = append(result, export.Map())
	}

	render.JSON(w, r, result)
}

// GetDownloadURL issues a time-limited download link for a published export
func (h *ExportHandler) GetDownloadURL(w http.ResponseWriter, r *http.Request) {
	export, ok := h.lookupExport(w, r)
	if !ok {
		return
	}

	url, err := h.service.GetDownloadURL(r.Context(), export)
	if err != nil {
		if errors.Is(err, simpleexport.ErrExportNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if errors.Is(err, simpleexport.ErrExportNotReady) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		slog.Error("Failed to issue download URL", "export_id", export.ID.String(), "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, DownloadResponse{URL: url})
}

// DeletePublication soft-deletes the export and reclaims its blob when no
// other live export references the same content
func (h *ExportHandler) DeletePublication(w http.ResponseWriter, r *http.Request) {
	export, ok := h.lookupExport(w, r)
	if !ok {
		return
	}

	if err := h.service.DeletePublication(r.Context(), export); err != nil {
		slog.Error("Failed to delete publication", "export_id", export.ID.String(), "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Info("Publication deleted", "export_id", export.ID.String())
	render.NoContent(w, r)
}

func (h *ExportHandler) lookupExport(w http.ResponseWriter, r *http.Request) (*simpleexport.Export, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		slog.Error("Invalid export ID", "export_id", idStr, "error", err)
		http.Error(w, "Invalid export ID", http.StatusBadRequest)
		return nil, false
	}

	req := simpleexport.GetExportRequest{ID: id}
	if creator := r.URL.Query().Get("creator_id"); creator != "" {
		creatorID, err := uuid.Parse(creator)
		if err != nil {
			http.Error(w, "Invalid creator ID", http.StatusBadRequest)
			return nil, false
		}
		req.CreatorID = &creatorID
	}

	export, err := h.service.GetExport(r.Context(), req)
	if err != nil {
		if errors.Is(err, simpleexport.ErrExportNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return nil, false
		}
		slog.Error("Failed to get export", "export_id", idStr, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}

	return export, true
}
