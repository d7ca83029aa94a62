package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bacnet-commissioning/internal/audit"
	masterdataapp "bacnet-commissioning/internal/masterdata/application"
	masterdata "bacnet-commissioning/internal/masterdata/domain"
	"bacnet-commissioning/internal/masterdata/infrastructure/memory"
)

type recordingAudit struct {
	entries []audit.Entry
}

func (r *recordingAudit) Log(_ context.Context, entry audit.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func newTestHandler(t *testing.T) (*Handler, *recordingAudit) {
	t.Helper()
	service, err := masterdataapp.NewInventoryService(memory.NewEquipmentRepository(), memory.NewPointRepository())
	require.NoError(t, err)
	recorder := &recordingAudit{}
	handler, err := NewHandler(service, recorder)
	require.NoError(t, err)
	return handler, recorder
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func TestInventoryLifecycle(t *testing.T) {
	h, recorder := newTestHandler(t)

	resp := do(h, http.MethodPost, "/api/v1/equipment", `{"id":"eq-1","inventory":"Source","name":" VAV-101 ","type":"VAV"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	var equipment masterdata.Equipment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&equipment))
	assert.Equal(t, "VAV-101", equipment.Name)
	assert.Equal(t, masterdata.InventorySource, equipment.Inventory)

	resp = do(h, http.MethodPost, "/api/v1/equipment/eq-1/points",
		`{"points":[{"original_name":"ZN-T","object_type":"analog-input","object_instance":1,"units":"°F"},{"original_name":"  "}]}`)
	require.Equal(t, http.StatusOK, resp.Code)
	var points []masterdata.Point
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&points))
	require.Len(t, points, 1)
	assert.Equal(t, "AI:1", points[0].CurRef())

	resp = do(h, http.MethodPut, "/api/v1/points/"+points[0].ID+"/nav-name", `{"nav_name":"zoneTemp"}`)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = do(h, http.MethodGet, "/api/v1/equipment/eq-1/points", "")
	require.Equal(t, http.StatusOK, resp.Code)
	points = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&points))
	assert.Equal(t, "zoneTemp", points[0].NavName)

	resp = do(h, http.MethodGet, "/api/v1/equipment?inventory=source", "")
	require.Equal(t, http.StatusOK, resp.Code)
	var list []masterdata.Equipment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list, 1)

	actions := make([]string, 0, len(recorder.entries))
	for _, entry := range recorder.entries {
		actions = append(actions, entry.Action)
	}
	assert.Equal(t, []string{"equipment.upsert", "points.import", "point.nav_name.set"}, actions)
}

func TestInventoryErrors(t *testing.T) {
	h, _ := newTestHandler(t)

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/v1/equipment", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/v1/equipment", `{"inventory":"elsewhere","name":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/api/v1/equipment?inventory=nope", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/v1/equipment/missing", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodPost, "/api/v1/equipment/missing/points", `{"points":[]}`).Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodPut, "/api/v1/points/missing/nav-name", `{"nav_name":"x"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodDelete, "/api/v1/equipment/eq-1", "").Code)
}
