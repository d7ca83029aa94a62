package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	masterdata "bacnet-commissioning/internal/masterdata/domain"
	"bacnet-commissioning/internal/observability/metrics"
	semanticapp "bacnet-commissioning/internal/semantic/application"
	"bacnet-commissioning/internal/semantic/dictionary"
	semantic "bacnet-commissioning/internal/semantic/domain"
)

// maxBatch bounds one ad-hoc normalization request.
const maxBatch = 10000

// EquipmentReader loads equipment for exports.
type EquipmentReader interface {
	Get(ctx context.Context, id string) (*masterdata.Equipment, error)
}

// Handler serves point normalization endpoints.
type Handler struct {
	service   *semanticapp.NormalizationService
	equipment EquipmentReader
}

// NewHandler constructs a Handler.
func NewHandler(service *semanticapp.NormalizationService, equipment EquipmentReader) (*Handler, error) {
	if service == nil {
		return nil, errors.New("normalization handler: nil service")
	}
	if equipment == nil {
		return nil, errors.New("normalization handler: nil equipment reader")
	}
	return &Handler{service: service, equipment: equipment}, nil
}

// ServeHTTP routes normalization requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/api/v1/points/normalize" && r.Method == http.MethodPost:
		h.handleNormalize(w, r)
		return
	case strings.HasPrefix(path, "/api/v1/equipment/"):
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}

	parts := strings.Split(strings.TrimPrefix(path, "/api/v1/equipment/"), "/")
	if len(parts) < 2 || parts[0] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	equipmentID := parts[0]
	if len(parts) == 2 && parts[1] == "normalize" && r.Method == http.MethodPost {
		h.handleNormalizeEquipment(w, r, equipmentID)
		return
	}
	if len(parts) == 3 && parts[1] == "points" && parts[2] == "normalized.xlsx" && r.Method == http.MethodGet {
		h.handleExport(w, r, equipmentID)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *Handler) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Context dictionary.Context  `json:"context"`
		Points  []semantic.RawPoint `json:"points"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if len(req.Points) > maxBatch {
		http.Error(w, "too many points", http.StatusRequestEntityTooLarge)
		return
	}
	results, err := h.service.NormalizeBatch(r.Context(), req.Points, req.Context)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]any{"points": results})
}

func (h *Handler) handleNormalizeEquipment(w http.ResponseWriter, r *http.Request, equipmentID string) {
	results, err := h.service.NormalizeEquipment(r.Context(), equipmentID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, map[string]any{"equipment_id": equipmentID, "points": results})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request, equipmentID string) {
	start := time.Now()
	equipment, err := h.equipment.Get(r.Context(), equipmentID)
	if err != nil {
		metrics.ObserveExport("xlsx", metrics.ResultError, time.Since(start))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if equipment == nil {
		http.Error(w, "equipment not found", http.StatusNotFound)
		return
	}
	results, err := h.service.PreviewEquipment(r.Context(), equipmentID)
	if err != nil {
		metrics.ObserveExport("xlsx", metrics.ResultError, time.Since(start))
		respondError(w, err)
		return
	}
	payload, err := BuildNormalizedXLSX(equipment, results)
	if err != nil {
		metrics.ObserveExport("xlsx", metrics.ResultError, time.Since(start))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport("xlsx", metrics.ResultSuccess, time.Since(start))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+equipmentID+`-points.xlsx"`)
	_, _ = w.Write(payload)
}

func respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, masterdata.ErrEquipmentNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
