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
	"github.com/xuri/excelize/v2"

	masterdata "bacnet-commissioning/internal/masterdata/domain"
	"bacnet-commissioning/internal/masterdata/infrastructure/memory"
	semanticapp "bacnet-commissioning/internal/semantic/application"
	semantic "bacnet-commissioning/internal/semantic/domain"
	"bacnet-commissioning/internal/semantic/normalizer"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	handler, _ := newTestHandlerWithPoints(t)
	return handler
}

func newTestHandlerWithPoints(t *testing.T) (*Handler, *memory.PointRepository) {
	t.Helper()
	ctx := context.Background()
	equipmentRepo := memory.NewEquipmentRepository()
	pointRepo := memory.NewPointRepository()
	require.NoError(t, equipmentRepo.Save(ctx, &masterdata.Equipment{ID: "vav-1", Inventory: masterdata.InventorySource, Name: "VAV-1", Type: "VAV"}))
	require.NoError(t, pointRepo.Save(ctx, &masterdata.Point{ID: "p1", EquipmentID: "vav-1", Raw: semantic.RawPoint{OriginalName: "ZN-T_SP"}}))
	require.NoError(t, pointRepo.Save(ctx, &masterdata.Point{ID: "p2", EquipmentID: "vav-1", Raw: semantic.RawPoint{OriginalName: "xqz"}}))

	service, err := semanticapp.NewNormalizationService(normalizer.New(nil), semanticapp.WithInventory(equipmentRepo, pointRepo), semanticapp.WithWorkers(2))
	require.NoError(t, err)
	handler, err := NewHandler(service, equipmentRepo)
	require.NoError(t, err)
	return handler, pointRepo
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func TestNormalizeEndpoint(t *testing.T) {
	h := newTestHandler(t)
	resp := do(h, http.MethodPost, "/api/v1/points/normalize",
		`{"context":{"equipment_type":"VAV"},"points":[{"original_name":"ZN-T_SP"},{"original_name":""}]}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Points []semantic.NormalizedPoint `json:"points"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Points, 2)
	assert.Equal(t, "Zone Temperature Setpoint", body.Points[0].NormalizedName)
	assert.True(t, body.Points[1].RequiresManualReview)

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/v1/points/normalize", "{").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/v1/points/normalize", "").Code)
}

func TestNormalizeEquipmentEndpoint(t *testing.T) {
	h := newTestHandler(t)
	resp := do(h, http.MethodPost, "/api/v1/equipment/vav-1/normalize", "")
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		EquipmentID string                       `json:"equipment_id"`
		Points      []semanticapp.EquipmentPoint `json:"points"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "vav-1", body.EquipmentID)
	require.Len(t, body.Points, 2)
	assert.Equal(t, "p1", body.Points[0].Point.ID)
	assert.Greater(t, body.Points[0].Point.Confidence, 0.8)

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodPost, "/api/v1/equipment/missing/normalize", "").Code)
}

func TestExportEndpoint(t *testing.T) {
	h, points := newTestHandlerWithPoints(t)
	resp := do(h, http.MethodGet, "/api/v1/equipment/vav-1/points/normalized.xlsx", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "vav-1-points.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(resp.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue("summary", "B3")
	require.NoError(t, err)
	assert.Equal(t, "VAV-1", name)
	review, err := f.GetCellValue("summary", "B7")
	require.NoError(t, err)
	assert.Equal(t, "1", review)

	header, err := f.GetCellValue("points", "E1")
	require.NoError(t, err)
	assert.Equal(t, "Normalized Name", header)
	normalized, err := f.GetCellValue("points", "E2")
	require.NoError(t, err)
	assert.Equal(t, "Zone Temperature Setpoint", normalized)

	// Exports are read-only: stored confidences stay as imported.
	stored, err := points.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, stored.Confidence)

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/v1/equipment/missing/points/normalized.xlsx", "").Code)
}
