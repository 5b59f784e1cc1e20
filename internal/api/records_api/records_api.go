// Package records_api — HTTP/JSON поверхность сервиса. Тонкий слой:
// разбор запроса, вызов сервиса, сериализация ответа.
package records_api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/BearBump/TrackSheet/internal/carriers"
	"github.com/BearBump/TrackSheet/internal/export"
	"github.com/BearBump/TrackSheet/internal/models"
	"github.com/BearBump/TrackSheet/internal/query"
	"github.com/BearBump/TrackSheet/internal/services/ingest"
	"github.com/go-chi/chi/v5"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

type RecordsAPI struct {
	svc *ingest.Service

	rl          RateLimiter
	uploadLimit int64
}

func New(svc *ingest.Service) *RecordsAPI {
	return &RecordsAPI{svc: svc}
}

// WithRateLimiter включает ограничение частоты загрузок по IP клиента.
func (a *RecordsAPI) WithRateLimiter(rl RateLimiter, perMinute int64) *RecordsAPI {
	a.rl = rl
	a.uploadLimit = perMinute
	return a
}

func (a *RecordsAPI) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/workbooks", a.ingestWorkbook)
	r.Get("/records", a.listRecords)
	r.Get("/records/{trackingNumber}", a.getRecord)
	r.Put("/records/{trackingNumber}", a.editRecord)
	r.Delete("/records", a.clearRecords)
	r.Get("/export", a.exportTables)
	r.Get("/carriers/classify", a.classify)
	return r
}

func (a *RecordsAPI) ingestWorkbook(w http.ResponseWriter, r *http.Request) {
	if a.rl != nil && a.uploadLimit > 0 {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		ok, _, err := a.rl.Allow(r.Context(), "upload:"+host, a.uploadLimit, time.Minute)
		// Недоступный лимитер не блокирует загрузку.
		if err == nil && !ok {
			writeError(w, http.StatusTooManyRequests, "too many uploads, slow down")
			return
		}
	}

	var book models.Workbook
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		writeError(w, http.StatusBadRequest, "invalid workbook payload: "+err.Error())
		return
	}

	res, err := a.svc.Ingest(r.Context(), book)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type listResponse struct {
	Records []models.Record `json:"records"`
	Total   int             `json:"total"`
}

// listRecords: q= — свободный поиск, иначе фасеты. Оба сразу не
// принимаются — поиск и фильтр взаимоисключающие.
func (a *RecordsAPI) listRecords(w http.ResponseWriter, r *http.Request) {
	ws, err := a.svc.WorkingSet(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	q := r.URL.Query()
	term := q.Get("q")
	facets := query.Facets{
		Batch:   q.Get("batch"),
		Company: q.Get("company"),
		Kind:    q.Get("kind"),
		Status:  q.Get("status"),
	}

	if term != "" && facets != (query.Facets{}) {
		writeError(w, http.StatusBadRequest, "q and facet filters are mutually exclusive")
		return
	}

	st := query.NewState()
	if term != "" {
		st.SearchBy(term)
	} else {
		st.FilterBy(facets)
	}
	out := st.Apply(ws)
	writeJSON(w, http.StatusOK, listResponse{Records: out, Total: len(out)})
}

func (a *RecordsAPI) getRecord(w http.ResponseWriter, r *http.Request) {
	tn := chi.URLParam(r, "trackingNumber")
	rec, ok, err := a.svc.GetRecord(r.Context(), tn)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *RecordsAPI) editRecord(w http.ResponseWriter, r *http.Request) {
	var in models.RecordEditInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid edit payload: "+err.Error())
		return
	}
	in.TrackingNumber = chi.URLParam(r, "trackingNumber")

	rec, err := a.svc.ApplyEdit(r.Context(), in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *RecordsAPI) clearRecords(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *RecordsAPI) exportTables(w http.ResponseWriter, r *http.Request) {
	ws, err := a.svc.WorkingSet(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, export.Tables(ws))
}

func (a *RecordsAPI) classify(w http.ResponseWriter, r *http.Request) {
	tn := r.URL.Query().Get("trackingNumber")
	if tn == "" {
		writeError(w, http.StatusBadRequest, "trackingNumber is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"trackingNumber": tn,
		"company":        carriers.Classify(tn),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
