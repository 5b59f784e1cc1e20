package messages

import (
	"time"

	"github.com/BearBump/TrackSheet/internal/models"
)

// RecordsPersisted публикуется после успешной записи новых записей импорта.
type RecordsPersisted struct {
	RunID           string    `json:"run_id"`
	Workbook        string    `json:"workbook,omitempty"`
	Batches         []string  `json:"batches,omitempty"`
	TrackingNumbers []string  `json:"tracking_numbers"`
	PersistedAt     time.Time `json:"persisted_at"`
}

// RecordEdited публикуется после сохранения ручной правки.
type RecordEdited struct {
	TrackingNumber string        `json:"tracking_number"`
	Record         models.Record `json:"record"`
	EditedAt       time.Time     `json:"edited_at"`
}

// RecordEditRequested — входящая заявка на правку из внешних систем.
// Применяется тем же путём, что и правка через HTTP.
type RecordEditRequested struct {
	Edit        models.RecordEditInput `json:"edit"`
	RequestedAt time.Time              `json:"requested_at,omitempty"`
}
