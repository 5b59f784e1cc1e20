package sheet

import (
	"testing"

	"github.com/BearBump/TrackSheet/internal/models"
	"github.com/stretchr/testify/require"
)

func TestParse_HeaderOnlySheetIsEmpty(t *testing.T) {
	recs := Parse(models.Sheet{Name: "5月", Rows: [][]any{{"单号", "状态"}}})
	require.Empty(t, recs)

	recs = Parse(models.Sheet{Name: "5月", Rows: nil})
	require.Empty(t, recs)
}

func TestParse_ResolvedColumns(t *testing.T) {
	s := models.Sheet{
		Name: "5月",
		Rows: [][]any{
			{"快递公司", "单号", "类型", "状态", "到件时间", "发出时间"},
			{"中通", "75761365043766", "正常", "已发出", "5-1", "5-2"},
			{"", "  SF123456789012 ", "", "待处理", "", ""},
		},
	}
	recs := Parse(s)
	require.Len(t, recs, 2)

	r := recs[0]
	require.Equal(t, "75761365043766", r.TrackingNumber)
	require.Equal(t, "中通", r.Company)
	require.Equal(t, "正常", r.Kind)
	require.Equal(t, "已发出", r.Status)
	require.Equal(t, "5-1", r.ArrivedAt)
	require.Equal(t, "5-2", r.DispatchedAt)
	require.Equal(t, "5月", r.Batch)
	require.Equal(t, models.OriginImported, r.Origin)
	require.Equal(t, 1, r.SourceRow)
	require.Equal(t, 1, r.SourceColumn)
	require.Equal(t, "单号", r.SourceColumnLabel)

	// Пустая колонка компании добивается классификатором.
	require.Equal(t, "SF123456789012", recs[1].TrackingNumber)
	require.Equal(t, "顺丰", recs[1].Company)
	require.Equal(t, 2, recs[1].SourceRow)
}

func TestParse_FallbackExtraction(t *testing.T) {
	s := models.Sheet{
		Name: "导入",
		Rows: [][]any{
			{"a", "b", "c"},
			{"abc", "ZT123456X", ""},
		},
	}
	recs := Parse(s)
	require.Len(t, recs, 1)
	require.Equal(t, "ZT123456X", recs[0].TrackingNumber)
	require.Equal(t, 1, recs[0].SourceColumn)
	require.Equal(t, "b", recs[0].SourceColumnLabel)
}

func TestParse_FallbackColumnLabelSynthesized(t *testing.T) {
	s := models.Sheet{
		Name: "导入",
		Rows: [][]any{
			{"x"},
			{"757613650437", "ignored"},
		},
	}
	recs := Parse(s)
	require.Len(t, recs, 1)
	// Колонки 1 в заголовке нет — метка синтезируется.
	require.Equal(t, "Column 2", recs[0].SourceColumnLabel)
}

func TestParse_RowWithoutTrackingNumberSkipped(t *testing.T) {
	s := models.Sheet{
		Name: "导入",
		Rows: [][]any{
			{"单号"},
			{""},
			{"短"},
			{"has spaces here"},
			{"75761365043766"},
		},
	}
	recs := Parse(s)
	require.Len(t, recs, 1)
	require.Equal(t, "75761365043766", recs[0].TrackingNumber)
}

func TestParse_NumericCellsFormattedPlain(t *testing.T) {
	s := models.Sheet{
		Name: "导入",
		Rows: [][]any{
			{"单号"},
			{float64(75761365043766)},
		},
	}
	recs := Parse(s)
	require.Len(t, recs, 1)
	require.Equal(t, "75761365043766", recs[0].TrackingNumber)
}

func TestParse_DuplicatesEmittedAsIs(t *testing.T) {
	s := models.Sheet{
		Name: "导入",
		Rows: [][]any{
			{"单号"},
			{"75761365043766"},
			{"75761365043766"},
		},
	}
	// Дедупликация — ответственность сверки, не парсера.
	require.Len(t, Parse(s), 2)
}

func TestParseWorkbook_ConcatsSheetsInOrder(t *testing.T) {
	book := models.Workbook{
		Name: "five.xlsx",
		Sheets: []models.Sheet{
			{Name: "A", Rows: [][]any{{"单号"}, {"75761365043766"}}},
			{Name: "B", Rows: [][]any{{"单号"}, {"SF123456789012"}}},
		},
	}
	recs := ParseWorkbook(book)
	require.Len(t, recs, 2)
	require.Equal(t, "A", recs[0].Batch)
	require.Equal(t, "B", recs[1].Batch)
}
