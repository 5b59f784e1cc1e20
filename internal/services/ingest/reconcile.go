package ingest

import "github.com/BearBump/TrackSheet/internal/models"

// ReconcileResult: Merged — рабочий набор после слияния, ToPersist — только
// новые записи из импорта (уже сохранённые не перезаписываются).
type ReconcileResult struct {
	Merged    []models.Record
	ToPersist []models.Record
}

// Reconcile сливает свежераспарсенные записи с сохранёнными.
// Локальные данные выигрывают: непустые поля сохранённой записи не
// перетираются импортом, пустые добиваются. Позиционные поля (batch,
// sourceRow/Column/Label) всегда берутся из импорта.
//
// Детерминированный одиночный проход: порядок Merged повторяет порядок
// импорта, затем идут сохранённые записи, не встретившиеся в импорте.
func Reconcile(imported, persisted []models.Record) ReconcileResult {
	local := make(map[string]models.Record, len(persisted))
	localOrder := make([]string, 0, len(persisted))
	for _, r := range persisted {
		if _, ok := local[r.TrackingNumber]; !ok {
			localOrder = append(localOrder, r.TrackingNumber)
		}
		local[r.TrackingNumber] = r
	}

	res := ReconcileResult{
		Merged: make([]models.Record, 0, len(imported)+len(persisted)),
	}

	// Дубликат номера внутри одного импорта: выигрывает первое вхождение,
	// последующие пропускаются — в Merged каждый номер ровно один раз.
	emitted := make(map[string]struct{}, len(imported))

	for _, imp := range imported {
		if _, ok := emitted[imp.TrackingNumber]; ok {
			continue
		}
		emitted[imp.TrackingNumber] = struct{}{}

		prev, known := local[imp.TrackingNumber]
		if !known {
			res.Merged = append(res.Merged, imp)
			res.ToPersist = append(res.ToPersist, imp)
			continue
		}

		m := prev
		m.Batch = imp.Batch
		m.SourceRow = imp.SourceRow
		m.SourceColumn = imp.SourceColumn
		m.SourceColumnLabel = imp.SourceColumnLabel
		m.Company = firstNonEmpty(prev.Company, imp.Company)
		m.Kind = firstNonEmpty(prev.Kind, imp.Kind)
		m.Status = firstNonEmpty(prev.Status, imp.Status)
		m.ArrivedAt = firstNonEmpty(prev.ArrivedAt, imp.ArrivedAt)
		m.DispatchedAt = firstNonEmpty(prev.DispatchedAt, imp.DispatchedAt)
		// Сохранённая идентичность выигрывает.
		m.Origin = models.OriginLocal
		res.Merged = append(res.Merged, m)
		delete(local, imp.TrackingNumber)
	}

	// Сохранённые записи, которых не было в импорте, остаются как есть.
	for _, key := range localOrder {
		if r, ok := local[key]; ok {
			res.Merged = append(res.Merged, r)
		}
	}

	return res
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
