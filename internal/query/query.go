// Package query — поиск и фасетная фильтрация по рабочему набору.
// Функции чистые и без состояния; State лишь кодирует внешний контракт
// «поиск и фильтр взаимно исключают друг друга».
package query

import (
	"strings"

	"github.com/BearBump/TrackSheet/internal/models"
)

// FacetAll — значение-сентинел «без ограничения».
const FacetAll = "all"

// Facets — независимые фильтры-равенства, складываются по AND.
type Facets struct {
	Batch   string `json:"batch"`
	Company string `json:"company"`
	Kind    string `json:"kind"`
	Status  string `json:"status"`
}

// AllFacets возвращает фасеты без ограничений.
func AllFacets() Facets {
	return Facets{Batch: FacetAll, Company: FacetAll, Kind: FacetAll, Status: FacetAll}
}

func (f Facets) normalized() Facets {
	norm := func(v string) string {
		if v == "" {
			return FacetAll
		}
		return v
	}
	return Facets{
		Batch:   norm(f.Batch),
		Company: norm(f.Company),
		Kind:    norm(f.Kind),
		Status:  norm(f.Status),
	}
}

// Search — свободный поиск. Номер сравнивается без учёта регистра,
// остальные текстовые поля — с учётом. Запись подходит, если совпало
// хотя бы одно поле. Пустая строка возвращает всё.
func Search(recs []models.Record, term string) []models.Record {
	if term == "" {
		return recs
	}
	lower := strings.ToLower(term)
	out := make([]models.Record, 0, len(recs))
	for _, r := range recs {
		if matches(r, term, lower) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r models.Record, term, lowerTerm string) bool {
	if strings.Contains(strings.ToLower(r.TrackingNumber), lowerTerm) {
		return true
	}
	for _, f := range []string{r.Company, r.Recipient, r.Phone, r.Address, r.Kind, r.Status, r.Batch} {
		if f != "" && strings.Contains(f, term) {
			return true
		}
	}
	return false
}

// Filter применяет фасеты. Пустое значение фасета равносильно FacetAll.
func Filter(recs []models.Record, f Facets) []models.Record {
	f = f.normalized()
	out := make([]models.Record, 0, len(recs))
	for _, r := range recs {
		if f.Batch != FacetAll && r.Batch != f.Batch {
			continue
		}
		if f.Company != FacetAll && r.Company != f.Company {
			continue
		}
		if f.Kind != FacetAll && r.Kind != f.Kind {
			continue
		}
		if f.Status != FacetAll && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	return out
}

// State хранит текущий режим отображения. Вызов одного входа сбрасывает
// другой: это контракт UI, а не свойство данных.
type State struct {
	term   string
	facets Facets
}

func NewState() *State {
	return &State{facets: AllFacets()}
}

func (s *State) SearchBy(term string) {
	s.term = term
	s.facets = AllFacets()
}

func (s *State) FilterBy(f Facets) {
	s.facets = f.normalized()
	s.term = ""
}

// Apply накладывает текущий режим на рабочий набор.
func (s *State) Apply(recs []models.Record) []models.Record {
	if s.term != "" {
		return Search(recs, s.term)
	}
	return Filter(recs, s.facets)
}
