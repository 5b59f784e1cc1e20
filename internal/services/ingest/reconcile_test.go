package ingest

import (
	"testing"

	"github.com/BearBump/TrackSheet/internal/models"
	"github.com/stretchr/testify/require"
)

func TestReconcile_LocalPrecedence(t *testing.T) {
	persisted := []models.Record{{
		TrackingNumber: "75761365043766",
		Batch:          "4月",
		Status:         "已发出",
		Origin:         models.OriginLocal,
	}}
	imported := []models.Record{{
		TrackingNumber:    "75761365043766",
		Batch:             "5月",
		Status:            "待处理",
		SourceRow:         7,
		SourceColumn:      1,
		SourceColumnLabel: "单号",
		Origin:            models.OriginImported,
	}}

	res := Reconcile(imported, persisted)
	require.Len(t, res.Merged, 1)
	require.Empty(t, res.ToPersist)

	m := res.Merged[0]
	// Непустое локальное значение выигрывает...
	require.Equal(t, "已发出", m.Status)
	// ...но позиционные поля всегда берутся из импорта.
	require.Equal(t, "5月", m.Batch)
	require.Equal(t, 7, m.SourceRow)
	require.Equal(t, 1, m.SourceColumn)
	require.Equal(t, "单号", m.SourceColumnLabel)
	require.Equal(t, models.OriginLocal, m.Origin)
}

func TestReconcile_Backfill(t *testing.T) {
	persisted := []models.Record{{
		TrackingNumber: "75761365043766",
		Status:         "",
		Kind:           "",
		Company:        "中通",
	}}
	imported := []models.Record{{
		TrackingNumber: "75761365043766",
		Status:         "已发出",
		Kind:           "正常",
		Company:        "圆通",
		ArrivedAt:      "5-1",
	}}

	res := Reconcile(imported, persisted)
	require.Len(t, res.Merged, 1)

	m := res.Merged[0]
	require.Equal(t, "已发出", m.Status) // пустое поле добивается импортом
	require.Equal(t, "正常", m.Kind)
	require.Equal(t, "5-1", m.ArrivedAt)
	require.Equal(t, "中通", m.Company) // непустое — не перетирается
}

func TestReconcile_NewRecordDetection(t *testing.T) {
	imported := []models.Record{{
		TrackingNumber: "SF123456789012",
		Batch:          "5月",
		Origin:         models.OriginImported,
	}}

	res := Reconcile(imported, nil)
	require.Len(t, res.Merged, 1)
	require.Len(t, res.ToPersist, 1)
	require.Equal(t, imported[0], res.Merged[0])
	require.Equal(t, imported[0], res.ToPersist[0])
}

func TestReconcile_OrphanRetention(t *testing.T) {
	persisted := []models.Record{
		{TrackingNumber: "A11111", Batch: "4月", Status: "已签收"},
		{TrackingNumber: "B22222", Batch: "4月"},
	}
	imported := []models.Record{{TrackingNumber: "B22222", Batch: "5月"}}

	res := Reconcile(imported, persisted)
	require.Len(t, res.Merged, 2)

	// Сохранённая запись, не пришедшая в импорте, остаётся без изменений.
	var orphan *models.Record
	for i := range res.Merged {
		if res.Merged[i].TrackingNumber == "A11111" {
			orphan = &res.Merged[i]
		}
	}
	require.NotNil(t, orphan)
	require.Equal(t, "4月", orphan.Batch)
	require.Equal(t, "已签收", orphan.Status)
}

func TestReconcile_Uniqueness(t *testing.T) {
	persisted := []models.Record{
		{TrackingNumber: "A11111"},
	}
	imported := []models.Record{
		{TrackingNumber: "A11111", Batch: "5月"},
		{TrackingNumber: "A11111", Batch: "5月"}, // дубликат в одном листе
		{TrackingNumber: "B22222"},
		{TrackingNumber: "B22222"},
	}

	res := Reconcile(imported, persisted)

	seen := map[string]int{}
	for _, r := range res.Merged {
		seen[r.TrackingNumber]++
	}
	for tn, n := range seen {
		require.Equal(t, 1, n, "tracking number %s duplicated", tn)
	}
	require.Len(t, res.Merged, 2)
	require.Len(t, res.ToPersist, 1)
}

func TestReconcile_OrderFollowsImport(t *testing.T) {
	persisted := []models.Record{
		{TrackingNumber: "OLD111"},
	}
	imported := []models.Record{
		{TrackingNumber: "C33333"},
		{TrackingNumber: "A11111"},
		{TrackingNumber: "B22222"},
	}

	res := Reconcile(imported, persisted)
	require.Len(t, res.Merged, 4)
	require.Equal(t, "C33333", res.Merged[0].TrackingNumber)
	require.Equal(t, "A11111", res.Merged[1].TrackingNumber)
	require.Equal(t, "B22222", res.Merged[2].TrackingNumber)
	require.Equal(t, "OLD111", res.Merged[3].TrackingNumber)
}

func TestReconcile_EmptyInputs(t *testing.T) {
	res := Reconcile(nil, nil)
	require.Empty(t, res.Merged)
	require.Empty(t, res.ToPersist)

	res = Reconcile(nil, []models.Record{{TrackingNumber: "A11111"}})
	require.Len(t, res.Merged, 1)
	require.Empty(t, res.ToPersist)
}
