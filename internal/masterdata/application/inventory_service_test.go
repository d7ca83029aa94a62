package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	masterdata "bacnet-commissioning/internal/masterdata/domain"
	"bacnet-commissioning/internal/masterdata/infrastructure/memory"
	semantic "bacnet-commissioning/internal/semantic/domain"
)

func newService(t *testing.T) *InventoryService {
	t.Helper()
	svc, err := NewInventoryService(memory.NewEquipmentRepository(), memory.NewPointRepository())
	require.NoError(t, err)
	return svc
}

func TestNewInventoryServiceRequiresRepositories(t *testing.T) {
	_, err := NewInventoryService(nil, memory.NewPointRepository())
	require.Error(t, err)
	_, err = NewInventoryService(memory.NewEquipmentRepository(), nil)
	require.Error(t, err)
}

func TestImportPointsAndAssignNavName(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	equipment := &masterdata.Equipment{Inventory: masterdata.InventorySource, Name: " VAV-101 ", Type: "VAV"}
	require.NoError(t, svc.UpsertEquipment(ctx, equipment))
	require.NotEmpty(t, equipment.ID)
	assert.Equal(t, "VAV-101", equipment.Name)

	points, err := svc.ImportPoints(ctx, equipment.ID, []semantic.RawPoint{
		{OriginalName: "ZN-T", ObjectType: semantic.ObjectAnalogInput, ObjectInstance: semantic.Instance(1)},
		{OriginalName: "  "},
		{OriginalName: "ZN-T_SP", ObjectType: semantic.ObjectAnalogValue, ObjectInstance: semantic.Instance(2)},
	})
	require.NoError(t, err)
	require.Len(t, points, 2)

	listed, err := svc.ListPoints(ctx, equipment.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "ZN-T", listed[0].DisplayName())
	assert.Equal(t, "AV:2", listed[1].CurRef())

	updated, err := svc.AssignNavName(ctx, points[0].ID, " zoneTemp ")
	require.NoError(t, err)
	assert.Equal(t, "zoneTemp", updated.NavName)
}

func TestInventoryServiceReferenceErrors(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.ImportPoints(ctx, "missing", []semantic.RawPoint{{OriginalName: "X"}})
	require.ErrorIs(t, err, masterdata.ErrEquipmentNotFound)

	_, err = svc.AssignNavName(ctx, "missing", "label")
	require.ErrorIs(t, err, masterdata.ErrPointNotFound)

	err = svc.UpsertEquipment(ctx, &masterdata.Equipment{Inventory: "other", Name: "AHU-1"})
	require.Error(t, err)
}
