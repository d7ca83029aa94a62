package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"bacnet-commissioning/internal/audit"
	"bacnet-commissioning/internal/auth"
	masterdata "bacnet-commissioning/internal/masterdata/domain"
	matchingapp "bacnet-commissioning/internal/matching/application"
	matching "bacnet-commissioning/internal/matching/domain"
	"bacnet-commissioning/internal/observability/metrics"
)

// Handler serves equipment mapping, template and application endpoints.
type Handler struct {
	mappings    *matchingapp.EquipmentMappingService
	templates   *matchingapp.TemplateService
	auditLogger audit.Logger
}

// NewHandler constructs a Handler.
func NewHandler(mappings *matchingapp.EquipmentMappingService, templates *matchingapp.TemplateService, auditLogger audit.Logger) (*Handler, error) {
	if mappings == nil {
		return nil, errors.New("matching handler: nil mapping service")
	}
	if templates == nil {
		return nil, errors.New("matching handler: nil template service")
	}
	return &Handler{mappings: mappings, templates: templates, auditLogger: auditLogger}, nil
}

// ServeHTTP routes matching requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/api/v1/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/"), "/"), "/")
	switch parts[0] {
	case "mappings":
		h.routeMappings(w, r, parts[1:])
	case "templates":
		h.routeTemplates(w, r, parts[1:])
	case "applications":
		h.routeApplications(w, r, parts[1:])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) routeMappings(w http.ResponseWriter, r *http.Request, parts []string) {
	switch {
	case len(parts) == 0 && r.Method == http.MethodGet:
		h.handleListMappings(w, r)
	case len(parts) == 0 && r.Method == http.MethodPost:
		h.handleAccept(w, r)
	case len(parts) == 1 && parts[0] == "suggestions" && r.Method == http.MethodGet:
		h.handleSuggestions(w, r)
	case len(parts) == 1 && parts[0] == "exact" && r.Method == http.MethodPost:
		h.handleAcceptExact(w, r)
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleGetMapping(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "verify" && r.Method == http.MethodPost:
		h.handleVerify(w, r, parts[0])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) routeTemplates(w http.ResponseWriter, r *http.Request, parts []string) {
	switch {
	case len(parts) == 0 && r.Method == http.MethodGet:
		h.handleListTemplates(w, r)
	case len(parts) == 0 && r.Method == http.MethodPost:
		h.handleCreateTemplate(w, r)
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleGetTemplate(w, r, parts[0])
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.handleDeleteTemplate(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "apply" && r.Method == http.MethodPost:
		h.handleApply(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "applications" && r.Method == http.MethodGet:
		h.handleListApplications(w, r, parts[0])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) routeApplications(w http.ResponseWriter, r *http.Request, parts []string) {
	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleGetApplication(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "report.pdf" && r.Method == http.MethodGet:
		h.handleReport(w, r, parts[0])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.mappings.Suggest(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (h *Handler) handleListMappings(w http.ResponseWriter, r *http.Request) {
	list, err := h.mappings.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGetMapping(w http.ResponseWriter, r *http.Request, sourceID string) {
	mapping, err := h.mappings.Get(r.Context(), sourceID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping)
}

func (h *Handler) handleAccept(w http.ResponseWriter, r *http.Request) {
	var req struct {
		matching.BulkMappingPair
		MappingType string `json:"mapping_type"`
		Verified    bool   `json:"verified"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.SourceID == "" || req.TargetID == "" {
		http.Error(w, "source_id and target_id are required", http.StatusBadRequest)
		return
	}
	mappingType := matching.MappingType(strings.ToLower(req.MappingType))
	if mappingType != "" && !mappingType.IsValid() {
		http.Error(w, "mapping_type must be exact, fuzzy or manual", http.StatusBadRequest)
		return
	}
	mapping, err := h.mappings.Accept(r.Context(), req.BulkMappingPair, mappingType, req.Verified)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping)
	h.logAudit(r, "mapping.accept", "equipment_mapping", mapping.SourceID, mapping.SourceID, map[string]any{
		"target_id":    mapping.TargetID,
		"mapping_type": mapping.MappingType,
		"confidence":   mapping.Confidence,
		"verified":     mapping.IsVerified,
	})
}

func (h *Handler) handleAcceptExact(w http.ResponseWriter, r *http.Request) {
	accepted, err := h.mappings.AcceptExact(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"accepted": accepted, "count": len(accepted)})
	h.logAudit(r, "mapping.accept_exact", "equipment_mapping", "", "", map[string]any{"count": len(accepted)})
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request, sourceID string) {
	mapping, err := h.mappings.Verify(r.Context(), sourceID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping)
	h.logAudit(r, "mapping.verify", "equipment_mapping", sourceID, sourceID, map[string]any{"target_id": mapping.TargetID})
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := h.templates.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceEquipmentID string `json:"source_equipment_id"`
		Name              string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.SourceEquipmentID == "" {
		http.Error(w, "source_equipment_id is required", http.StatusBadRequest)
		return
	}
	template, err := h.templates.CreateFromMapping(r.Context(), req.SourceEquipmentID, strings.TrimSpace(req.Name))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, template)
	h.logAudit(r, "template.create", "template", template.ID, template.SourceEquipmentID, map[string]any{
		"name":   template.Name,
		"points": len(template.PointMappings),
	})
}

func (h *Handler) handleGetTemplate(w http.ResponseWriter, r *http.Request, id string) {
	template, err := h.templates.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, template)
}

func (h *Handler) handleDeleteTemplate(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.templates.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	h.logAudit(r, "template.delete", "template", id, "", nil)
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request, templateID string) {
	var req struct {
		TargetEquipmentID string `json:"target_equipment_id"`
		matchingapp.ApplyRequest
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.TargetEquipmentID == "" {
		http.Error(w, "target_equipment_id is required", http.StatusBadRequest)
		return
	}
	application, err := h.templates.Apply(r.Context(), templateID, req.TargetEquipmentID, req.ApplyRequest)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, application)
	h.logAudit(r, "template.apply", "template", templateID, req.TargetEquipmentID, map[string]any{
		"application_id": application.ID,
		"matched":        application.MatchedCount,
		"unmatched":      application.UnmatchedCount,
		"successful":     application.IsSuccessful,
	})
}

func (h *Handler) handleListApplications(w http.ResponseWriter, r *http.Request, templateID string) {
	list, err := h.templates.ListApplications(r.Context(), templateID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGetApplication(w http.ResponseWriter, r *http.Request, id string) {
	application, err := h.templates.GetApplication(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, application)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request, id string) {
	start := time.Now()
	application, err := h.templates.GetApplication(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	template, err := h.templates.Get(r.Context(), application.TemplateID)
	if err != nil {
		respondError(w, err)
		return
	}
	payload, err := BuildApplicationPDF(template, application)
	if err != nil {
		metrics.ObserveExport("pdf", metrics.ResultError, time.Since(start))
		http.Error(w, "report failed", http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport("pdf", metrics.ResultSuccess, time.Since(start))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="application-`+id+`.pdf"`)
	_, _ = w.Write(payload)
}

func (h *Handler) logAudit(r *http.Request, action, resourceType, resourceID, equipmentID string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	var payload []byte
	if meta != nil {
		payload, _ = json.Marshal(meta)
	}
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
	case errors.Is(err, matching.ErrTemplateNotFound),
		errors.Is(err, matching.ErrApplicationNotFound),
		errors.Is(err, matching.ErrMappingNotFound),
		errors.Is(err, masterdata.ErrEquipmentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, matching.ErrMappingNotVerified):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, matching.ErrInvalidFacet),
		errors.Is(err, matching.ErrInvalidThreshold),
		errors.Is(err, matching.ErrInvalidMapping),
		errors.Is(err, matching.ErrEmptyTemplate):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
