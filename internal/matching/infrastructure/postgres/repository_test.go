package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	matching "bacnet-commissioning/internal/matching/domain"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestTemplateRepositoryGetDecodesMappings(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTemplateRepository(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "name", "source_equipment_id", "target_equipment_id", "source_equipment_type",
		"point_mappings", "usage_count", "success_rate", "created_at", "updated_at",
	}).AddRow("tpl-1", "VAV", "src", "tgt", "VAV",
		[]byte(`[{"template_point_id":"p1","display_name":"ZN-T","nav_name":"zoneTemp"}]`), 3, 0.5, now, now)
	mock.ExpectQuery(`FROM mapping_templates`).WithArgs("tpl-1").WillReturnRows(rows)

	template, err := repo.Get(context.Background(), "tpl-1")
	require.NoError(t, err)
	require.NotNil(t, template)
	require.Len(t, template.PointMappings, 1)
	assert.Equal(t, "zoneTemp", template.PointMappings[0].NavName)
	assert.Equal(t, matching.UsageStats{UsageCount: 3, SuccessRate: 0.5}, template.Usage)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplateRepositorySave(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTemplateRepository(db)

	mock.ExpectExec(`INSERT INTO mapping_templates`).
		WithArgs("tpl-1", "VAV", "src", "tgt", "VAV", sqlmock.AnyArg(), 0, 0.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	template := &matching.MappingTemplate{
		ID:                  "tpl-1",
		Name:                "VAV",
		SourceEquipmentID:   "src",
		TargetEquipmentID:   "tgt",
		SourceEquipmentType: "VAV",
		PointMappings:       []matching.PointMapping{{TemplatePointID: "p1", NavName: "zoneTemp"}},
	}
	require.NoError(t, repo.Save(context.Background(), template))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplateRepositoryRecordUsage(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTemplateRepository(db)

	mock.ExpectQuery(`UPDATE mapping_templates`).
		WithArgs("tpl-1", 1.0).
		WillReturnRows(sqlmock.NewRows([]string{"usage_count", "success_rate"}).AddRow(4, 0.75))

	stats, err := repo.RecordUsage(context.Background(), "tpl-1", true)
	require.NoError(t, err)
	assert.Equal(t, matching.UsageStats{UsageCount: 4, SuccessRate: 0.75}, stats)

	mock.ExpectQuery(`UPDATE mapping_templates`).
		WithArgs("gone", 0.0).
		WillReturnError(sql.ErrNoRows)
	_, err = repo.RecordUsage(context.Background(), "gone", false)
	require.ErrorIs(t, err, matching.ErrTemplateNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplateRepositoryDeleteMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTemplateRepository(db)

	mock.ExpectExec(`DELETE FROM mapping_templates`).WithArgs("gone").WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Delete(context.Background(), "gone"), matching.ErrTemplateNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositorySaveAndGet(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectExec(`INSERT INTO template_applications`).
		WithArgs("app-1", "tpl-1", "eq-2", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), 1, 1, 1.0, true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	application := &matching.TemplateApplication{
		ID:                "app-1",
		TemplateID:        "tpl-1",
		TargetEquipmentID: "eq-2",
		Options:           matching.DefaultApplyOptions(),
		Matched:           []matching.AppliedPoint{{TemplatePointID: "p1", TargetPointID: "t1", Confidence: 1, Exact: true}},
		Unmatched:         []string{"p2"},
		MatchedCount:      1,
		UnmatchedCount:    1,
		AverageConfidence: 1,
		IsSuccessful:      true,
	}
	require.NoError(t, repo.Save(context.Background(), application))

	rows := sqlmock.NewRows([]string{
		"id", "template_id", "target_equipment_id", "options", "matched", "unmatched",
		"matched_count", "unmatched_count", "average_confidence", "is_successful", "created_at",
	}).AddRow("app-1", "tpl-1", "eq-2",
		[]byte(`{"matching_facet":"description","confidence_threshold":0.8}`),
		[]byte(`[{"template_point_id":"p1","target_point_id":"t1","confidence":1,"exact":true}]`),
		[]byte(`["p2"]`), 1, 1, 1.0, true, application.CreatedAt)
	mock.ExpectQuery(`FROM template_applications`).WithArgs("app-1").WillReturnRows(rows)

	loaded, err := repo.Get(context.Background(), "app-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, matching.FacetDescription, loaded.Options.Facet)
	assert.Equal(t, []string{"p2"}, loaded.Unmatched)
	assert.True(t, loaded.Matched[0].Exact)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEquipmentMappingRepository(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEquipmentMappingRepository(db)
	now := time.Now().UTC()

	mock.ExpectExec(`ON CONFLICT \(source_id\)`).
		WithArgs("s1", "t1", "exact", 1.0, true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Save(context.Background(), &matching.EquipmentMapping{
		SourceID: "s1", TargetID: "t1", MappingType: matching.MappingExact, Confidence: 1, IsVerified: true,
	}))

	mock.ExpectQuery(`FROM equipment_mappings`).WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"source_id", "target_id", "mapping_type", "confidence", "is_verified", "created_at", "updated_at"}).
			AddRow("s1", "t1", "exact", 1.0, true, now, now))
	mapping, err := repo.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, mapping)
	assert.Equal(t, matching.MappingExact, mapping.MappingType)
	assert.True(t, mapping.IsVerified)

	mock.ExpectQuery(`FROM equipment_mappings`).WithArgs("s2").WillReturnError(sql.ErrNoRows)
	missing, err := repo.Get(context.Background(), "s2")
	require.NoError(t, err)
	assert.Nil(t, missing)
	require.NoError(t, mock.ExpectationsWereMet())
}
