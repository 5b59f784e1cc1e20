package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/BearBump/TrackSheet/internal/broker/messages"
	"github.com/BearBump/TrackSheet/internal/cache"
	"github.com/BearBump/TrackSheet/internal/models"
	"github.com/BearBump/TrackSheet/internal/sample"
	"github.com/BearBump/TrackSheet/internal/sheet"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Repository interface {
	GetAll(ctx context.Context) ([]models.Record, error)
	Put(ctx context.Context, recs []models.Record) error
	GetByKey(ctx context.Context, trackingNumber string) (models.Record, bool, error)
	Clear(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

type Topics struct {
	RecordsPersisted string
	RecordEdited     string
}

type Service struct {
	repo     Repository
	cache    cache.BytesCache
	producer Producer
	topics   Topics
	cacheTTL time.Duration

	// Сверка читает-потом-пишет хранилище не атомарно, поэтому два
	// одновременных импорта в один Store недопустимы.
	mu      sync.Mutex
	working []models.Record
}

func New(repo Repository, c cache.BytesCache, producer Producer, topics Topics, cacheTTL time.Duration) *Service {
	return &Service{repo: repo, cache: c, producer: producer, topics: topics, cacheTTL: cacheTTL}
}

type IngestResult struct {
	RunID    string          `json:"runId"`
	Records  []models.Record `json:"records"`
	NewCount int             `json:"newCount"`
	Degraded bool            `json:"degraded"`
	Warnings []string        `json:"warnings,omitempty"`
}

// Ingest прогоняет книгу через разбор, сверку и сохранение. Ошибки
// хранилища не фатальны: пайплайн деградирует до памяти и пишет warning.
func (s *Service) Ingest(ctx context.Context, book models.Workbook) (*IngestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := &IngestResult{RunID: uuid.NewString()}

	imported := sheet.ParseWorkbook(book)

	persisted, err := s.repo.GetAll(ctx)
	if err != nil {
		// Store недоступен: работаем только в памяти.
		persisted = nil
		res.Degraded = true
		res.Warnings = append(res.Warnings, fmt.Sprintf("store read failed, memory-only mode: %v", err))
	}

	if len(imported) == 0 {
		// Ни одной записи во всех листах: показываем хранилище,
		// а если и оно пусто — встроенный пример.
		res.Warnings = append(res.Warnings, "no records found in uploaded sheets")
		if len(persisted) > 0 {
			res.Records = persisted
		} else {
			res.Records = sample.Records()
		}
		s.working = res.Records
		return res, nil
	}

	rec := Reconcile(imported, persisted)
	res.Records = rec.Merged
	res.NewCount = len(rec.ToPersist)

	if len(rec.ToPersist) > 0 && !res.Degraded {
		if err := s.repo.Put(ctx, rec.ToPersist); err != nil {
			res.Degraded = true
			res.Warnings = append(res.Warnings, fmt.Sprintf("store write failed, records kept in memory: %v", err))
		} else {
			s.cacheRecords(ctx, rec.ToPersist)
			s.publishPersisted(ctx, res.RunID, book, rec.ToPersist)
		}
	}

	s.working = res.Records
	return res, nil
}

// WorkingSet возвращает рабочий набор: результат последней сверки, иначе
// содержимое хранилища, иначе встроенный пример.
func (s *Service) WorkingSet(ctx context.Context) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.working != nil {
		out := make([]models.Record, len(s.working))
		copy(out, s.working)
		return out, nil
	}

	persisted, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load working set")
	}
	if len(persisted) == 0 {
		return sample.Records(), nil
	}
	return persisted, nil
}

// GetRecord читает одну запись, кэш — best effort.
func (s *Service) GetRecord(ctx context.Context, trackingNumber string) (models.Record, bool, error) {
	if trackingNumber == "" {
		return models.Record{}, false, errors.New("trackingNumber is required")
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if b, ok, err := s.cache.Get(ctx, recordKey(trackingNumber)); err == nil && ok {
			var r models.Record
			if json.Unmarshal(b, &r) == nil {
				return r, true, nil
			}
		}
	}

	r, ok, err := s.repo.GetByKey(ctx, trackingNumber)
	if err != nil || !ok {
		return models.Record{}, ok, err
	}
	s.cacheRecords(ctx, []models.Record{r})
	return r, true, nil
}

// ApplyEdit — ручная правка: редактируемые поля перезаписываются целиком,
// origin становится LOCAL. Несуществующий номер создаёт новую запись.
func (s *Service) ApplyEdit(ctx context.Context, in models.RecordEditInput) (models.Record, error) {
	if in.TrackingNumber == "" {
		return models.Record{}, errors.New("trackingNumber is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok, err := s.repo.GetByKey(ctx, in.TrackingNumber)
	if err != nil {
		return models.Record{}, errors.Wrap(err, "load record for edit")
	}
	if !ok {
		r = models.Record{TrackingNumber: in.TrackingNumber}
	}

	r.Company = in.Company
	r.Kind = in.Kind
	r.Status = in.Status
	r.ArrivedAt = in.ArrivedAt
	r.DispatchedAt = in.DispatchedAt
	r.Recipient = in.Recipient
	r.Phone = in.Phone
	r.Address = in.Address
	r.Origin = models.OriginLocal

	if err := s.repo.Put(ctx, []models.Record{r}); err != nil {
		return models.Record{}, errors.Wrap(err, "persist edit")
	}

	// Перечитываем, чтобы вернуть проставленный хранилищем updatedAt.
	stored, ok, err := s.repo.GetByKey(ctx, in.TrackingNumber)
	if err == nil && ok {
		r = stored
	}

	if s.cache != nil {
		_ = s.cache.Del(ctx, recordKey(r.TrackingNumber))
	}
	s.updateWorking(r)
	s.publishEdited(ctx, r)
	return r, nil
}

// Clear очищает хранилище и рабочий набор целиком.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		return errors.Wrap(err, "clear store")
	}
	s.working = nil
	return nil
}

func (s *Service) updateWorking(r models.Record) {
	for i := range s.working {
		if s.working[i].TrackingNumber == r.TrackingNumber {
			s.working[i] = r
			return
		}
	}
	if s.working != nil {
		s.working = append(s.working, r)
	}
}

func (s *Service) cacheRecords(ctx context.Context, recs []models.Record) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	for _, r := range recs {
		b, _ := json.Marshal(r)
		_ = s.cache.Set(ctx, recordKey(r.TrackingNumber), b, s.cacheTTL)
	}
}

func (s *Service) publishPersisted(ctx context.Context, runID string, book models.Workbook, persisted []models.Record) {
	if s.producer == nil || s.topics.RecordsPersisted == "" {
		return
	}
	msg := messages.RecordsPersisted{
		RunID:       runID,
		Workbook:    book.Name,
		PersistedAt: time.Now().UTC(),
	}
	seenBatch := map[string]struct{}{}
	for _, r := range persisted {
		msg.TrackingNumbers = append(msg.TrackingNumbers, r.TrackingNumber)
		if _, ok := seenBatch[r.Batch]; !ok {
			seenBatch[r.Batch] = struct{}{}
			msg.Batches = append(msg.Batches, r.Batch)
		}
	}
	b, _ := json.Marshal(msg)
	_ = s.producer.Publish(ctx, s.topics.RecordsPersisted, []byte(runID), b)
}

func (s *Service) publishEdited(ctx context.Context, r models.Record) {
	if s.producer == nil || s.topics.RecordEdited == "" {
		return
	}
	b, _ := json.Marshal(messages.RecordEdited{
		TrackingNumber: r.TrackingNumber,
		Record:         r,
		EditedAt:       time.Now().UTC(),
	})
	_ = s.producer.Publish(ctx, s.topics.RecordEdited, []byte(r.TrackingNumber), b)
}

func recordKey(trackingNumber string) string {
	return fmt.Sprintf("record:%s:current", trackingNumber)
}
