// Package sheet turns raw tabular sheets into candidate records.
// The grid arrives already decoded (row 0 = header); the spreadsheet
// binary itself is handled upstream.
package sheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BearBump/TrackSheet/internal/carriers"
	"github.com/BearBump/TrackSheet/internal/models"
)

const colNotFound = -1

// Колонка по умолчанию, когда колонку с номером не нашли по заголовку.
const fallbackTrackingColumn = 1

// Синонимы заголовков. Берётся первая колонка, чей заголовок содержит
// любое из ключевых слов.
var headerKeywords = []struct {
	field string
	keys  []string
}{
	{"trackingNumber", []string{"单号", "运单", "tracking"}},
	{"company", []string{"公司", "快递", "承运", "company", "carrier"}},
	{"kind", []string{"类型", "kind", "type"}},
	{"status", []string{"状态", "status"}},
	{"arrivedAt", []string{"到件", "到达", "arriv"}},
	{"dispatchedAt", []string{"发出", "发货", "dispatch"}},
	{"recipient", []string{"收件", "姓名", "recipient"}},
	{"phone", []string{"电话", "手机", "phone"}},
	{"address", []string{"地址", "address"}},
}

type columns map[string]int

// resolveColumns сканирует строку заголовка и сопоставляет семантические
// поля с индексами колонок. Ненайденные поля остаются colNotFound.
func resolveColumns(header []any) columns {
	cols := make(columns, len(headerKeywords))
	for _, hk := range headerKeywords {
		cols[hk.field] = colNotFound
		for i, cell := range header {
			text := strings.ToLower(cellString(cell))
			if text == "" {
				continue
			}
			matched := false
			for _, k := range hk.keys {
				if strings.Contains(text, k) {
					matched = true
					break
				}
			}
			if matched {
				cols[hk.field] = i
				break
			}
		}
	}
	return cols
}

// Parse разбирает один лист в записи-кандидаты (origin=IMPORTED,
// batch=имя листа). Строки без номера молча пропускаются. Дубликаты
// внутри листа не схлопываются — этим занимается сверка.
func Parse(s models.Sheet) []models.Record {
	// Лист из одного заголовка (или пустой) не даёт записей.
	if len(s.Rows) <= 1 {
		return nil
	}

	cols := resolveColumns(s.Rows[0])
	out := make([]models.Record, 0, len(s.Rows)-1)

	for rowIdx := 1; rowIdx < len(s.Rows); rowIdx++ {
		row := s.Rows[rowIdx]
		tn := extractTrackingNumber(row, cols["trackingNumber"])
		if tn == "" {
			continue
		}

		rec := models.Record{
			TrackingNumber: tn,
			Batch:          s.Name,
			Company:        cellAt(row, cols["company"]),
			Kind:           cellAt(row, cols["kind"]),
			Status:         cellAt(row, cols["status"]),
			ArrivedAt:      cellAt(row, cols["arrivedAt"]),
			DispatchedAt:   cellAt(row, cols["dispatchedAt"]),
			Recipient:      cellAt(row, cols["recipient"]),
			Phone:          cellAt(row, cols["phone"]),
			Address:        cellAt(row, cols["address"]),
			SourceRow:      rowIdx,
			Origin:         models.OriginImported,
		}

		if rec.Company == "" {
			rec.Company = carriers.Classify(tn)
		}

		srcCol := cols["trackingNumber"]
		if srcCol == colNotFound {
			srcCol = fallbackTrackingColumn
		}
		rec.SourceColumn = srcCol
		rec.SourceColumnLabel = columnLabel(s.Rows[0], srcCol)

		out = append(out, rec)
	}
	return out
}

// ParseWorkbook разбирает все листы книги подряд, в порядке входа.
func ParseWorkbook(book models.Workbook) []models.Record {
	var out []models.Record
	for _, s := range book.Sheets {
		out = append(out, Parse(s)...)
	}
	return out
}

// extractTrackingNumber берёт номер из распознанной колонки, а при её
// отсутствии (или пустой ячейке) сканирует строку слева направо и берёт
// первую чисто буквенно-цифровую ячейку длиннее 5 символов.
func extractTrackingNumber(row []any, col int) string {
	if col != colNotFound && col < len(row) {
		if v := strings.TrimSpace(cellString(row[col])); v != "" {
			return v
		}
	}
	for _, cell := range row {
		v := strings.TrimSpace(cellString(cell))
		if len(v) > 5 && isAlphanumeric(v) {
			return v
		}
	}
	return ""
}

func columnLabel(header []any, col int) string {
	if col < len(header) {
		if v := strings.TrimSpace(cellString(header[col])); v != "" {
			return v
		}
	}
	return fmt.Sprintf("Column %d", col+1)
}

func cellAt(row []any, col int) string {
	if col == colNotFound || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(cellString(row[col]))
}

// cellString приводит сырое значение ячейки к строке. Числа приходят из
// JSON как float64; длинные номера без форматирования — иначе получим
// экспоненциальную запись.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(x)
	}
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
