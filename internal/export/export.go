// Package export раскладывает записи в фиксированную табличную схему —
// одна таблица на партию. Сам файл пишет внешний слой.
package export

import (
	"strconv"

	"github.com/BearBump/TrackSheet/internal/models"
)

// Header — закреплённый внешним контрактом порядок и подписи колонок.
var Header = []string{
	"序号", "批次", "单号", "公司", "类型", "状态",
	"到件时间", "发出时间", "收件人", "电话", "地址",
}

type Table struct {
	Batch string     `json:"batch"`
	Rows  [][]string `json:"rows"`
}

// Row сериализует запись в строку схемы. seq — номер строки внутри
// своей таблицы, с единицы.
func Row(seq int, r models.Record) []string {
	return []string{
		strconv.Itoa(seq),
		r.Batch,
		r.TrackingNumber,
		r.Company,
		r.Kind,
		r.Status,
		r.ArrivedAt,
		r.DispatchedAt,
		r.Recipient,
		r.Phone,
		r.Address,
	}
}

// Tables группирует записи по партии в порядке первого появления.
// Первая строка каждой таблицы — Header.
func Tables(recs []models.Record) []Table {
	index := map[string]int{}
	var out []Table
	for _, r := range recs {
		i, ok := index[r.Batch]
		if !ok {
			i = len(out)
			index[r.Batch] = i
			out = append(out, Table{Batch: r.Batch, Rows: [][]string{Header}})
		}
		out[i].Rows = append(out[i].Rows, Row(len(out[i].Rows), r))
	}
	return out
}
