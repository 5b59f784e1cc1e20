// Package sample — встроенный демонстрационный набор. Показывается,
// когда импорт не дал записей и хранилище пусто.
package sample

import "github.com/BearBump/TrackSheet/internal/models"

var records = []models.Record{
	{
		TrackingNumber:    "75761365043766",
		Company:           "中通",
		Batch:             "示例",
		Kind:              "正常",
		Status:            "已发出",
		ArrivedAt:         "5-1",
		DispatchedAt:      "5-2",
		SourceRow:         1,
		SourceColumn:      1,
		SourceColumnLabel: "单号",
		Origin:            models.OriginImported,
	},
	{
		TrackingNumber:    "SF123456789012",
		Company:           "顺丰",
		Batch:             "示例",
		Kind:              "正常",
		Status:            "待处理",
		SourceRow:         2,
		SourceColumn:      1,
		SourceColumnLabel: "单号",
		Origin:            models.OriginImported,
	},
	{
		TrackingNumber:    "771234567890123",
		Company:           "申通",
		Batch:             "示例",
		Kind:              "错标",
		Status:            "已到件",
		ArrivedAt:         "5-3",
		SourceRow:         3,
		SourceColumn:      1,
		SourceColumnLabel: "单号",
		Origin:            models.OriginImported,
	},
}

// Records возвращает копию набора: вызывающие могут править её свободно.
func Records() []models.Record {
	out := make([]models.Record, len(records))
	copy(out, records)
	return out
}
