package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bacnet-commissioning/internal/audit"
	masterdata "bacnet-commissioning/internal/masterdata/domain"
	masterdatamemory "bacnet-commissioning/internal/masterdata/infrastructure/memory"
	matchingapp "bacnet-commissioning/internal/matching/application"
	matching "bacnet-commissioning/internal/matching/domain"
	matchingmemory "bacnet-commissioning/internal/matching/infrastructure/memory"
	semantic "bacnet-commissioning/internal/semantic/domain"
)

type recordingAudit struct {
	actions []string
}

func (r *recordingAudit) Log(_ context.Context, entry audit.Entry) error {
	r.actions = append(r.actions, entry.Action)
	return nil
}

func newTestHandler(t *testing.T) (*Handler, *recordingAudit) {
	t.Helper()
	ctx := context.Background()
	equipmentRepo := masterdatamemory.NewEquipmentRepository()
	pointRepo := masterdatamemory.NewPointRepository()
	mappingRepo := matchingmemory.NewEquipmentMappingRepository()

	for _, eq := range []masterdata.Equipment{
		{ID: "src-1", Inventory: masterdata.InventorySource, Name: "AHU-1", Type: "AHU"},
		{ID: "src-2", Inventory: masterdata.InventorySource, Name: "AHU-2", Type: "AHU"},
		{ID: "tgt-1", Inventory: masterdata.InventoryTarget, Name: "ahu-1", Type: "AHU"},
		{ID: "tgt-2", Inventory: masterdata.InventoryTarget, Name: "AHU 2", Type: "AHU"},
	} {
		require.NoError(t, equipmentRepo.Save(ctx, &eq))
	}
	points := []masterdata.Point{
		{ID: "a1", EquipmentID: "src-1", Raw: semantic.RawPoint{OriginalName: "SA-T", Units: "°F"}, NavName: "supplyAirTemp"},
		{ID: "a2", EquipmentID: "src-1", Raw: semantic.RawPoint{OriginalName: "RA-T", Units: "°F"}, NavName: "returnAirTemp"},
		{ID: "b1", EquipmentID: "src-2", Raw: semantic.RawPoint{OriginalName: "SA-T"}},
		{ID: "b2", EquipmentID: "src-2", Raw: semantic.RawPoint{OriginalName: "MA-T"}},
	}
	for i := range points {
		require.NoError(t, pointRepo.Save(ctx, &points[i]))
	}

	mappings, err := matchingapp.NewEquipmentMappingService(equipmentRepo, mappingRepo)
	require.NoError(t, err)
	templates, err := matchingapp.NewTemplateService(equipmentRepo, pointRepo, mappingRepo,
		matchingmemory.NewTemplateRepository(), matchingmemory.NewApplicationRepository())
	require.NoError(t, err)
	recorder := &recordingAudit{}
	handler, err := NewHandler(mappings, templates, recorder)
	require.NoError(t, err)
	return handler, recorder
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&value))
	return value
}

func TestMappingWorkflow(t *testing.T) {
	h, recorder := newTestHandler(t)

	resp := do(h, http.MethodGet, "/api/v1/mappings/suggestions", "")
	require.Equal(t, http.StatusOK, resp.Code)
	suggestions := decode[matchingapp.Suggestions](t, resp)
	assert.Len(t, suggestions.Fuzzy, 2)
	require.Len(t, suggestions.Exact, 1)
	assert.Equal(t, "tgt-1", suggestions.Exact[0].TargetID)

	resp = do(h, http.MethodPost, "/api/v1/mappings/exact", "")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = do(h, http.MethodPost, "/api/v1/mappings", `{"source_id":"src-2","target_id":"tgt-2","confidence":0.9}`)
	require.Equal(t, http.StatusOK, resp.Code)
	mapping := decode[matching.EquipmentMapping](t, resp)
	assert.Equal(t, matching.MappingFuzzy, mapping.MappingType)
	assert.False(t, mapping.IsVerified)

	resp = do(h, http.MethodPost, "/api/v1/mappings/src-2/verify", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, decode[matching.EquipmentMapping](t, resp).IsVerified)

	resp = do(h, http.MethodGet, "/api/v1/mappings", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[[]matching.EquipmentMapping](t, resp), 2)

	assert.Equal(t, []string{"mapping.accept_exact", "mapping.accept", "mapping.verify"}, recorder.actions)
}

func TestMappingErrors(t *testing.T) {
	h, _ := newTestHandler(t)

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/v1/mappings", `{"source_id":"src-1"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/v1/mappings", `{"source_id":"src-1","target_id":"tgt-1","mapping_type":"guess"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/v1/mappings", `{"source_id":"src-1","target_id":"tgt-1","confidence":1.5}`).Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodPost, "/api/v1/mappings", `{"source_id":"src-1","target_id":"nope"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodPost, "/api/v1/mappings/src-1/verify", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/v1/mappings/src-1", "").Code)
}

func TestTemplateWorkflow(t *testing.T) {
	h, recorder := newTestHandler(t)

	resp := do(h, http.MethodPost, "/api/v1/templates", `{"source_equipment_id":"src-1"}`)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	require.Equal(t, http.StatusOK, do(h, http.MethodPost, "/api/v1/mappings", `{"source_id":"src-1","target_id":"tgt-1"}`).Code)
	resp = do(h, http.MethodPost, "/api/v1/templates", `{"source_equipment_id":"src-1","name":"AHU"}`)
	assert.Equal(t, http.StatusConflict, resp.Code)

	require.Equal(t, http.StatusOK, do(h, http.MethodPost, "/api/v1/mappings/src-1/verify", "").Code)
	resp = do(h, http.MethodPost, "/api/v1/templates", `{"source_equipment_id":"src-1","name":"AHU"}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	template := decode[matching.MappingTemplate](t, resp)
	assert.Len(t, template.PointMappings, 2)

	resp = do(h, http.MethodPost, "/api/v1/templates/"+template.ID+"/apply", `{"target_equipment_id":"src-2","allow_partial_matches":false}`)
	require.Equal(t, http.StatusOK, resp.Code)
	application := decode[matching.TemplateApplication](t, resp)
	assert.Equal(t, 1, application.MatchedCount)
	assert.Equal(t, []string{"a2"}, application.Unmatched)
	assert.Equal(t, "supplyAirTemp", application.Matched[0].NavName)

	resp = do(h, http.MethodGet, "/api/v1/applications/"+application.ID, "")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = do(h, http.MethodGet, "/api/v1/templates/"+template.ID+"/applications", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[[]matching.TemplateApplication](t, resp), 1)

	resp = do(h, http.MethodGet, "/api/v1/applications/"+application.ID+"/report.pdf", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/pdf", resp.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF")))

	resp = do(h, http.MethodGet, "/api/v1/templates/"+template.ID, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, decode[matching.MappingTemplate](t, resp).Usage.UsageCount)

	assert.Equal(t, http.StatusNoContent, do(h, http.MethodDelete, "/api/v1/templates/"+template.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/v1/templates/"+template.ID, "").Code)

	assert.Contains(t, recorder.actions, "template.create")
	assert.Contains(t, recorder.actions, "template.apply")
	assert.Contains(t, recorder.actions, "template.delete")
}

func TestApplyErrors(t *testing.T) {
	h, _ := newTestHandler(t)
	require.Equal(t, http.StatusOK, do(h, http.MethodPost, "/api/v1/mappings", `{"source_id":"src-1","target_id":"tgt-1","verified":true}`).Code)
	resp := do(h, http.MethodPost, "/api/v1/templates", `{"source_equipment_id":"src-1"}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	template := decode[matching.MappingTemplate](t, resp)
	path := "/api/v1/templates/" + template.ID + "/apply"

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, path, `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, path, `{"target_equipment_id":"src-2","matching_facet":"colour"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, path, `{"target_equipment_id":"src-2","confidence_threshold":2}`).Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodPost, path, `{"target_equipment_id":"nope"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodPost, "/api/v1/templates/nope/apply", `{"target_equipment_id":"src-2"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/v1/applications/nope/report.pdf", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/v1/unknown", "").Code)
}
