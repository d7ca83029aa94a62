package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"bacnet-commissioning/internal/audit"
	"bacnet-commissioning/internal/auth"
	masterdataapp "bacnet-commissioning/internal/masterdata/application"
	masterdata "bacnet-commissioning/internal/masterdata/domain"
	semantic "bacnet-commissioning/internal/semantic/domain"
)

// Handler serves the equipment and point inventory endpoints.
type Handler struct {
	service     *masterdataapp.InventoryService
	auditLogger audit.Logger
}

// NewHandler constructs a Handler.
func NewHandler(service *masterdataapp.InventoryService, auditLogger audit.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("inventory handler: nil service")
	}
	return &Handler{service: service, auditLogger: auditLogger}, nil
}

// ServeHTTP routes inventory requests:
//
//	POST /api/v1/equipment
//	GET  /api/v1/equipment?inventory=source|target
//	GET  /api/v1/equipment/{id}
//	POST /api/v1/equipment/{id}/points
//	GET  /api/v1/equipment/{id}/points
//	PUT  /api/v1/points/{id}/nav-name
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(r.URL.Path, "/")
	parts := strings.Split(path, "/")
	if len(parts) < 3 || parts[0] != "api" || parts[1] != "v1" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	parts = parts[2:]

	switch {
	case parts[0] == "equipment" && len(parts) == 1 && r.Method == http.MethodPost:
		h.handleUpsert(w, r)
	case parts[0] == "equipment" && len(parts) == 1 && r.Method == http.MethodGet:
		h.handleList(w, r)
	case parts[0] == "equipment" && len(parts) == 2 && r.Method == http.MethodGet:
		h.handleGet(w, r, parts[1])
	case parts[0] == "equipment" && len(parts) == 3 && parts[2] == "points" && r.Method == http.MethodPost:
		h.handleImport(w, r, parts[1])
	case parts[0] == "equipment" && len(parts) == 3 && parts[2] == "points" && r.Method == http.MethodGet:
		h.handlePoints(w, r, parts[1])
	case parts[0] == "points" && len(parts) == 3 && parts[2] == "nav-name" && r.Method == http.MethodPut:
		h.handleNavName(w, r, parts[1])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID        string `json:"id"`
		Inventory string `json:"inventory"`
		Name      string `json:"name"`
		Type      string `json:"type"`
		Vendor    string `json:"vendor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	equipment := &masterdata.Equipment{
		ID:        req.ID,
		Inventory: masterdata.Inventory(strings.ToLower(req.Inventory)),
		Name:      req.Name,
		Type:      req.Type,
		Vendor:    req.Vendor,
	}
	if err := h.service.UpsertEquipment(r.Context(), equipment); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, equipment)
	h.logAudit(r, "equipment.upsert", "equipment", equipment.ID, equipment.ID, map[string]any{
		"inventory": equipment.Inventory,
		"name":      equipment.Name,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	inventory := masterdata.Inventory(strings.ToLower(r.URL.Query().Get("inventory")))
	if inventory == "" {
		inventory = masterdata.InventorySource
	}
	if !inventory.IsValid() {
		http.Error(w, "inventory must be source or target", http.StatusBadRequest)
		return
	}
	list, err := h.service.ListEquipment(r.Context(), inventory)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	equipment, err := h.service.GetEquipment(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, equipment)
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request, equipmentID string) {
	var req struct {
		Points []semantic.RawPoint `json:"points"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	points, err := h.service.ImportPoints(r.Context(), equipmentID, req.Points)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
	h.logAudit(r, "points.import", "equipment", equipmentID, equipmentID, map[string]any{"points": len(points)})
}

func (h *Handler) handlePoints(w http.ResponseWriter, r *http.Request, equipmentID string) {
	points, err := h.service.ListPoints(r.Context(), equipmentID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *Handler) handleNavName(w http.ResponseWriter, r *http.Request, pointID string) {
	var req struct {
		NavName string `json:"nav_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	point, err := h.service.AssignNavName(r.Context(), pointID, req.NavName)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, point)
	h.logAudit(r, "point.nav_name.set", "point", point.ID, point.EquipmentID, map[string]any{"nav_name": point.NavName})
}

func (h *Handler) logAudit(r *http.Request, action, resourceType, resourceID, equipmentID string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	payload, _ := json.Marshal(meta)
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		EquipmentID:  equipmentID,
		Metadata:     payload,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, masterdata.ErrEquipmentNotFound), errors.Is(err, masterdata.ErrPointNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
